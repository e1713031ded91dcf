package testutil

import "github.com/junioryono/ginject/internal/typesys"

// Fixtures is a small application graph:
//
//	Logger      struct, default constructor, singleton
//	Database    struct, NewDatabase(*Logger)
//	Cache       interface, no binding
//	Service     interface implemented by *ServiceImpl
//	ServiceImpl struct, NewServiceImpl(*Database), Log field injected
type Fixtures struct {
	Logger      *typesys.Type
	Database    *typesys.Type
	Cache       *typesys.Type
	Service     *typesys.Type
	ServiceImpl *typesys.Type
}

// CommonFixtures declares the fixture graph in b.
func CommonFixtures(b *Builder) Fixtures {
	f := Fixtures{
		Logger:      b.Ptr("Logger", "singleton"),
		Database:    b.Ptr("Database"),
		Cache:       b.Iface("Cache"),
		Service:     b.Iface("Service"),
		ServiceImpl: b.Ptr("ServiceImpl"),
	}

	b.Ctor(f.Database, "NewDatabase", typesys.KeyOf(f.Logger))
	b.Ctor(f.ServiceImpl, "NewServiceImpl", typesys.KeyOf(f.Database))
	b.InjectField(f.ServiceImpl, "Log", typesys.KeyOf(f.Logger))
	b.Implements(f.ServiceImpl, f.Service, "Serve")
	return f
}

// Key returns the unqualified key of t.
func Key(t *typesys.Type) typesys.Key {
	return typesys.KeyOf(t)
}
