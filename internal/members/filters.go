package members

import "github.com/junioryono/ginject/internal/typesys"

// InjectableMethods accepts instance methods carrying the inject marker.
func (t Markers) InjectableMethods() MethodFilter {
	return func(m *typesys.Method) bool {
		return t.Has(m.Annotations, Inject) && !m.Static
	}
}

// InjectableFields accepts instance fields carrying the inject marker.
func (t Markers) InjectableFields() FieldFilter {
	return func(f *typesys.Field) bool {
		return t.Has(f.Annotations, Inject) && !f.Static
	}
}

// StaticMethods accepts static functions carrying the inject marker.
func (t Markers) StaticMethods() MethodFilter {
	return func(m *typesys.Method) bool {
		return t.Has(m.Annotations, Inject) && m.Static
	}
}

// StaticFields accepts package-level variables carrying the inject marker.
func (t Markers) StaticFields() FieldFilter {
	return func(f *typesys.Field) bool {
		return t.Has(f.Annotations, Inject) && f.Static
	}
}

// ProviderMethods accepts module methods carrying the provides marker.
func (t Markers) ProviderMethods() MethodFilter {
	return func(m *typesys.Method) bool {
		return t.Has(m.Annotations, Provides) && !m.Static && len(m.Results) == 1
	}
}

// ProvisionMethods accepts injector methods of the form Foo() T.
func ProvisionMethods(m *typesys.Method) bool {
	return !m.Static && len(m.Params) == 0 && len(m.Results) == 1
}

// MemberInjectionMethods accepts injector methods of the form Inject(t T).
func MemberInjectionMethods(m *typesys.Method) bool {
	return !m.Static && len(m.Params) == 1 && len(m.Results) == 0
}
