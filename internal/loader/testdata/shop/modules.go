package shop

//ginject:module
//ginject:bind Store to *MemStore
//ginject:bind Config instance DefaultConfig singleton
//ginject:install AuditModule
//ginject:static-request Registry
type ShopModule struct{}

//ginject:provides
//ginject:named region
func (ShopModule) ProvideRegion() string { return "eu" }

//ginject:module
type AuditModule struct{}

//ginject:provides
//ginject:singleton
func (AuditModule) ProvideAuditor(store Store) *Auditor {
	return &Auditor{store: store}
}

// ShopInjector is implemented by the generated code.
type ShopInjector interface {
	Service() *Service

	//ginject:named region
	Region() string

	InjectService(s *Service)
}

// StreamInjector cannot be generated: channels have no binding.
type StreamInjector interface {
	Service() *Service
	Orders() chan Order
}
