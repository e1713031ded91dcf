package shop

import "io"

type Order struct {
	ID string
}

// Store persists orders.
type Store interface {
	Save(o Order) error
}

//ginject:singleton
type MemStore struct {
	orders []Order
}

func (s *MemStore) Save(o Order) error {
	s.orders = append(s.orders, o)
	return nil
}

//ginject:inject
func NewMemStore() *MemStore {
	return &MemStore{}
}

type Service struct {
	Store  Store  `inject:""`
	Region string `inject:"" name:"region"`
	Out    io.Writer
	hidden string `inject:"-"`
	ready  bool
}

//ginject:inject
func (s *Service) Init(store Store) {
	s.ready = store != nil
}

type Config struct {
	Name string
}

var DefaultConfig = Config{Name: "shop"}

type Auditor struct {
	store Store
}

type Registry struct{}

//ginject:static Registry
var Current *Service

//ginject:static Registry
//ginject:named primary=region
func Register(primary string, s *Service) {}
