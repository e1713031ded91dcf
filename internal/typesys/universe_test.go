package typesys_test

import (
	"testing"

	"github.com/junioryono/ginject/internal/typesys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appPkg = "example.com/app"

func TestUniverse_Interning(t *testing.T) {
	u := typesys.NewUniverse()

	foo := u.Struct(appPkg, "Foo")
	assert.Same(t, foo, u.Struct(appPkg, "Foo"))
	assert.Same(t, u.Pointer(foo), u.Pointer(foo))
	assert.Same(t, u.Provider(u.Pointer(foo)), u.Func(nil, []*typesys.Type{u.Pointer(foo)}))
	assert.NotSame(t, foo, u.Pointer(foo))

	assert.Equal(t, typesys.KeyOf(u.Pointer(foo)), typesys.KeyOf(u.Pointer(u.Struct(appPkg, "Foo"))))
	assert.NotEqual(t, typesys.KeyOf(foo), typesys.QualifiedKey(foo, "primary"))
}

func TestType_String(t *testing.T) {
	u := typesys.NewUniverse()
	foo := u.Struct(appPkg, "Foo")
	list := u.Named(appPkg, "List", typesys.ShapeStruct)

	tests := []struct {
		name string
		typ  *typesys.Type
		want string
	}{
		{"named", foo, "example.com/app.Foo"},
		{"pointer", u.Pointer(foo), "*example.com/app.Foo"},
		{"slice", u.Slice(u.Basic("string")), "[]string"},
		{"map", u.Map(u.Basic("string"), u.Pointer(foo)), "map[string]*example.com/app.Foo"},
		{"provider", u.Provider(foo), "func() example.com/app.Foo"},
		{"multi result func", u.Func([]*typesys.Type{u.Basic("int")}, []*typesys.Type{foo, u.Basic("error")}), "func(int) (example.com/app.Foo, error)"},
		{"generic instance", u.Instantiate(list, u.Pointer(foo)), "example.com/app.List[*example.com/app.Foo]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestType_Expr(t *testing.T) {
	u := typesys.NewUniverse()
	u.SetPackageName("example.com/app/v2", "app")
	foo := u.Struct("example.com/app/v2", "Foo")

	assert.Equal(t, "func() *app.Foo", u.Provider(u.Pointer(foo)).Expr(typesys.ShortQualifier))
	local := func(string, string) string { return "" }
	assert.Equal(t, "[]*Foo", u.Slice(u.Pointer(foo)).Expr(local))
}

func TestType_Predicates(t *testing.T) {
	u := typesys.NewUniverse()
	foo := u.Struct(appPkg, "Foo")
	svc := u.Interface(appPkg, "Service")
	hidden := u.Struct(appPkg, "hidden")

	assert.True(t, foo.IsStruct())
	assert.True(t, svc.IsInterface())
	assert.True(t, svc.Nilable())
	assert.False(t, foo.Nilable())
	assert.True(t, u.Pointer(foo).Nilable())
	assert.False(t, hidden.Exported())
	assert.Same(t, foo, u.Pointer(foo).Target())
	assert.Nil(t, u.Slice(foo).Target())
	assert.True(t, u.Provider(foo).IsProvider())
	assert.False(t, u.Func([]*typesys.Type{foo}, []*typesys.Type{foo}).IsProvider())

	key := typesys.QualifiedKey(u.Provider(foo), "q")
	assert.True(t, key.IsProvider())
	assert.Equal(t, typesys.QualifiedKey(foo, "q"), key.ProvidedKey())
	assert.Equal(t, "func() example.com/app.Foo@q", key.String())
}

func TestUniverse_ResolveType(t *testing.T) {
	u := typesys.NewUniverse()
	foo := u.Pointer(u.Struct(appPkg, "Foo"))

	got, ok := u.ResolveType("*example.com/app.Foo")
	require.True(t, ok)
	assert.Same(t, foo, got)

	_, ok = u.ResolveType("example.com/app.Missing")
	assert.False(t, ok)
}

func TestUniverse_IsAssignableTo(t *testing.T) {
	u := typesys.NewUniverse()
	str := u.Basic("string")
	svc := u.Interface(appPkg, "Service")
	named := u.Interface(appPkg, "Named")
	impl := u.Struct(appPkg, "serviceImpl")
	other := u.Struct(appPkg, "Other")
	base := u.Struct(appPkg, "Base")

	u.Declare(named).AddMethod(&typesys.Method{Name: "Name", Results: []*typesys.Type{str}})
	u.Declare(svc).Embed(named).AddMethod(&typesys.Method{Name: "Serve"})
	u.Declare(base).AddMethod(&typesys.Method{Name: "Name", Results: []*typesys.Type{str}})
	u.Declare(impl).Embed(base).AddMethod(&typesys.Method{Name: "Serve", PointerReceiver: true})

	assert.True(t, u.IsAssignableTo(u.Pointer(impl), svc))
	assert.False(t, u.IsAssignableTo(impl, svc), "pointer receiver methods are not in the value method set")
	assert.True(t, u.IsAssignableTo(impl, named))
	assert.True(t, u.IsAssignableTo(svc, named))
	assert.False(t, u.IsAssignableTo(other, svc))
	assert.True(t, u.IsAssignableTo(other, other))
	assert.False(t, u.IsAssignableTo(other, impl))
}

func TestUniverse_DeclaredMembers(t *testing.T) {
	u := typesys.NewUniverse()
	foo := u.Struct(appPkg, "Foo")
	bar := u.Struct(appPkg, "Bar")

	u.Declare(foo).
		Annotate("singleton").
		AddConstructor(&typesys.Constructor{Name: "NewFoo", Result: u.Pointer(foo)}).
		AddField(&typesys.Field{Name: "Bar", Key: typesys.KeyOf(u.Pointer(bar))}).
		AddField(&typesys.Field{Name: "Default", Key: typesys.KeyOf(u.Pointer(bar)), Static: true})

	m := u.DeclaredMembers(u.Pointer(foo))
	require.Len(t, m.Constructors, 1)
	assert.Equal(t, appPkg, m.Constructors[0].PkgPath)
	assert.Equal(t, "app", m.Constructors[0].PkgName)
	assert.True(t, m.Annotations.Has("singleton"))
	require.Len(t, m.Fields, 2)
	assert.Equal(t, appPkg, m.Fields[1].PkgPath)

	assert.Empty(t, u.DeclaredMembers(bar).Fields)
	assert.Empty(t, u.DeclaredMembers(u.Slice(foo)).Fields)

	list := u.Struct(appPkg, "List")
	u.Declare(list).AddField(&typesys.Field{Name: "Items"})
	assert.Len(t, u.DeclaredMembers(u.Instantiate(list, foo)).Fields, 1, "instances fall back to the generic declaration")
}

func TestMethod_Signature(t *testing.T) {
	u := typesys.NewUniverse()
	foo := u.Struct(appPkg, "Foo")
	m := &typesys.Method{
		Name:    "SetFoo",
		Params:  []typesys.Param{{Name: "f", Key: typesys.QualifiedKey(u.Pointer(foo), "main")}, {Name: "n", Key: typesys.KeyOf(u.Basic("int"))}},
		Results: []*typesys.Type{foo},
	}
	assert.Equal(t, "SetFoo(*example.com/app.Foo@main,int)", m.Signature())
	assert.Equal(t, typesys.KeyOf(foo), m.ResultKey())
	assert.True(t, typesys.Annotations{"inject", "singleton"}.Has("eager", "singleton"))
	assert.False(t, typesys.Annotations(nil).Has("inject"))
}
