// Package ginject generates dependency injectors at compile time.
//
// # Overview
//
// An injector is an interface whose methods either return a dependency or
// inject the members of a value. ginject reads the interface and a set of
// configuration modules and writes a struct implementing it. The generated
// code constructs and wires every dependency with plain function calls; no
// reflection happens at run time.
//
//	type AppInjector interface {
//	    Server() *Server
//	    InjectHandler(h *Handler)
//	}
//
// # Bindings
//
// Each requested key resolves to exactly one binding, tried in this order:
//
//   - A binding declared by a module
//   - func() T, which defers the construction of T until the func is called
//   - A package func returning T or *T marked //ginject:inject
//   - A provider method of a module
//   - The composite literal T{} or &T{} of an accessible struct
//
// A key matched by more than one of a module binding, a provider method or
// a marked constructor is ambiguous and fails the run. Keys may carry a
// qualifier, written as a name:"..." struct tag on fields.
//
// # Modules
//
// A module is a struct marked //ginject:module. Its methods marked
// //ginject:provides are provider methods, and bind directives on the type
// declare bindings:
//
//	//ginject:module
//	//ginject:bind Store to *PostgresStore singleton
//	//ginject:install LoggingModule
//	type AppModule struct{}
//
//	//ginject:provides
//	func (AppModule) ProvideConfig() *Config { ... }
//
// # Scopes
//
// Bindings are unscoped unless marked. //ginject:singleton memoizes the
// first value in the injector; //ginject:eager also creates it when the
// injector is constructed. Scopes are never inferred from dependencies.
//
// # Errors
//
// Generation is all or nothing. Missing, ambiguous or cyclic bindings abort
// the run before any source is produced, and the returned error is an
// UnableToCompleteError wrapping the cause. Use errors.As with the error
// types of this package, or the IsNoBinding and IsCycle helpers.
package ginject
