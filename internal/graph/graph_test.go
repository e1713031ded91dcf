package graph_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/graph"
	"github.com/junioryono/ginject/internal/members"
	"github.com/junioryono/ginject/internal/registry"
	"github.com/junioryono/ginject/internal/resolver"
	"github.com/junioryono/ginject/internal/testutil"
	"github.com/junioryono/ginject/internal/typesys"
)

// countingResolver records how often each key is resolved.
type countingResolver struct {
	*resolver.Resolver
	calls map[typesys.Key]int
}

func (c *countingResolver) Resolve(k typesys.Key, chain []typesys.Key) (binding.Binding, error) {
	c.calls[k]++
	return c.Resolver.Resolve(k, chain)
}

func newProcessor(t *testing.T, b *testutil.Builder, modules ...*typesys.Type) (*graph.Processor, *countingResolver) {
	t.Helper()
	r := resolver.New(b.U, members.DefaultMarkers(), testutil.AppPkg, zaptest.NewLogger(t))
	require.NoError(t, r.Configure(modules))
	counting := &countingResolver{Resolver: r, calls: make(map[typesys.Key]int)}
	return graph.NewProcessor(counting, r.Declared().NewChild(), zaptest.NewLogger(t)), counting
}

func TestProcessor_ResolutionOrder(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	mod := b.Module("AppModule").BindTo(testutil.Key(f.Service), testutil.Key(f.ServiceImpl))

	p, counting := newProcessor(t, b, mod.T)
	roots := graph.Roots{
		Provisions: []typesys.Key{testutil.Key(f.Service), testutil.Key(f.Database)},
		Declared:   []typesys.Key{testutil.Key(f.Service)},
	}
	require.NoError(t, p.Process(roots))

	want := []typesys.Key{
		testutil.Key(f.Service),
		testutil.Key(f.ServiceImpl),
		testutil.Key(f.Database),
		testutil.Key(f.Logger),
	}
	assert.Equal(t, want, p.Registry().Keys())
	for _, k := range want {
		assert.Equal(t, 1, counting.calls[k], "resolve calls for %s", k)
	}

	require.NoError(t, p.Process(roots), "processing again is a no-op")
	assert.Equal(t, want, p.Registry().Keys())
	for _, k := range want {
		assert.Equal(t, 1, counting.calls[k], "resolve calls for %s", k)
	}
	assert.Equal(t, []binding.Dependency{{Key: testutil.Key(f.Database)}, {Key: testutil.Key(f.Logger)}},
		p.Dependencies(testutil.Key(f.ServiceImpl)))
}

func TestProcessor_Deterministic(t *testing.T) {
	run := func() []string {
		b := testutil.NewBuilder(t)
		f := testutil.CommonFixtures(b)
		p, _ := newProcessor(t, b)
		require.NoError(t, p.Process(graph.Roots{Provisions: []typesys.Key{testutil.Key(f.ServiceImpl)}}))

		var keys []string
		for _, k := range p.Registry().Keys() {
			keys = append(keys, k.String())
		}
		return keys
	}

	assert.Equal(t, run(), run())
}

func TestProcessor_Cycles(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(b *testutil.Builder) typesys.Key
		wantErr bool
		cycle   []string
	}{
		{
			name: "direct constructor cycle",
			setup: func(b *testutil.Builder) typesys.Key {
				a, bb := b.Ptr("A"), b.Ptr("B")
				b.Ctor(a, "NewA", testutil.Key(bb))
				b.Ctor(bb, "NewB", testutil.Key(a))
				return testutil.Key(a)
			},
			wantErr: true,
			cycle:   []string{"*example.com/app.A", "*example.com/app.B"},
		},
		{
			name: "self dependency",
			setup: func(b *testutil.Builder) typesys.Key {
				a := b.Ptr("A")
				b.InjectField(a, "Self", testutil.Key(a))
				return testutil.Key(a)
			},
			wantErr: true,
			cycle:   []string{"*example.com/app.A"},
		},
		{
			name: "cycle through field injection",
			setup: func(b *testutil.Builder) typesys.Key {
				a, bb, c := b.Ptr("A"), b.Ptr("B"), b.Ptr("C")
				b.Ctor(a, "NewA", testutil.Key(bb))
				b.InjectField(bb, "C", testutil.Key(c))
				b.InjectMethod(c, "SetA", testutil.Key(a))
				return testutil.Key(a)
			},
			wantErr: true,
			cycle:   []string{"*example.com/app.A", "*example.com/app.B", "*example.com/app.C"},
		},
		{
			name: "cycle mediated by a provider",
			setup: func(b *testutil.Builder) typesys.Key {
				a, bb := b.Ptr("A"), b.Ptr("B")
				b.Ctor(a, "NewA", testutil.Key(bb))
				b.Ctor(bb, "NewB", testutil.Key(b.U.Provider(a)))
				return testutil.Key(a)
			},
		},
		{
			name: "provider entered first",
			setup: func(b *testutil.Builder) typesys.Key {
				a, bb := b.Ptr("A"), b.Ptr("B")
				b.Ctor(a, "NewA", testutil.Key(bb))
				b.Ctor(bb, "NewB", testutil.Key(b.U.Provider(a)))
				return testutil.Key(bb)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBuilder(t)
			root := tt.setup(b)
			p, _ := newProcessor(t, b)

			err := p.Process(graph.Roots{Provisions: []typesys.Key{root}})
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 3, p.Registry().Len())
				return
			}

			cyclic := testutil.RequireErrorAs[graph.CyclicDependencyError](t, err)
			got := make([]string, len(cyclic.Cycle))
			for i, k := range cyclic.Cycle {
				got[i] = k.String()
			}
			assert.Equal(t, tt.cycle, got)
			assert.Contains(t, err.Error(), "(cycle)")
		})
	}
}

func TestProcessor_ProviderResolutionOrder(t *testing.T) {
	b := testutil.NewBuilder(t)
	a, bb := b.Ptr("A"), b.Ptr("B")
	provider := testutil.Key(b.U.Provider(a))
	b.Ctor(a, "NewA")
	b.Ctor(bb, "NewB", provider)

	p, _ := newProcessor(t, b)
	require.NoError(t, p.Process(graph.Roots{Provisions: []typesys.Key{testutil.Key(bb)}}))
	assert.Equal(t, []typesys.Key{testutil.Key(bb), provider, testutil.Key(a)}, p.Registry().Keys(),
		"deferred targets are walked after the root that deferred them")
	assert.Equal(t, []binding.Dependency{{Key: testutil.Key(a), Deferred: true}}, p.Dependencies(provider))
}

func TestProcessor_MissingBindingChain(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	b.InjectMethod(f.ServiceImpl, "SetCache", testutil.Key(f.Cache))

	p, _ := newProcessor(t, b)
	err := p.Process(graph.Roots{Provisions: []typesys.Key{testutil.Key(f.ServiceImpl)}})

	noBinding := testutil.RequireErrorAs[resolver.NoBindingError](t, err)
	assert.Equal(t, testutil.Key(f.Cache), noBinding.Key)
	assert.Equal(t, []typesys.Key{testutil.Key(f.ServiceImpl)}, noBinding.Chain)
}

func TestProcessor_InjectionRoots(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	screen := b.Ptr("Screen")
	b.InjectField(screen, "Service", testutil.Key(f.Service))
	holder := b.Struct("Holder")
	b.StaticField(holder, "DB", testutil.Key(f.Database))
	mod := b.Module("AppModule").BindTo(testutil.Key(f.Service), testutil.Key(f.ServiceImpl))

	p, _ := newProcessor(t, b, mod.T)
	require.NoError(t, p.Process(graph.Roots{
		MemberInjections: []*typesys.Type{screen, screen.Target()},
		StaticInjections: []*typesys.Type{holder, holder},
	}))

	_, ok := p.Registry().LookupLocal(testutil.Key(screen))
	assert.False(t, ok, "member injection does not bind the injected type")
	_, ok = p.Registry().LookupLocal(testutil.Key(f.Service))
	assert.True(t, ok)
	_, ok = p.Registry().LookupLocal(testutil.Key(f.Database))
	assert.True(t, ok)

	require.Len(t, p.MemberInjections(), 1)
	assert.Equal(t, screen.Target(), p.MemberInjections()[0].Type)
	require.Len(t, p.StaticInjections(), 1)
	assert.Equal(t, holder, p.StaticInjections()[0].Type)
}

func TestProcessor_DuplicateIntoRegistry(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	r := resolver.New(b.U, members.DefaultMarkers(), testutil.AppPkg, nil)
	require.NoError(t, r.Configure(nil))

	reg := registry.New()
	require.NoError(t, reg.Put(testutil.Key(f.Logger), &binding.Instance{Ref: &typesys.InstanceRef{Expr: "nil"}}))

	p := graph.NewProcessor(r, reg, nil)
	require.NoError(t, p.Process(graph.Roots{Provisions: []typesys.Key{testutil.Key(f.Database)}}))
	got, _ := reg.LookupLocal(testutil.Key(f.Logger))
	assert.IsType(t, &binding.Instance{}, got, "already registered keys are not resolved again")
}

func TestVisualizer(t *testing.T) {
	b := testutil.NewBuilder(t)
	a, bb := b.Ptr("A"), b.Ptr("B")
	b.Ctor(a, "NewA", testutil.Key(bb))
	b.Ctor(bb, "NewB", testutil.Key(b.U.Provider(a)))

	p, _ := newProcessor(t, b)
	require.NoError(t, p.Process(graph.Roots{Provisions: []typesys.Key{testutil.Key(a)}}))

	scopes := func(k typesys.Key) string {
		if k == testutil.Key(a) {
			return "Singleton"
		}
		return ""
	}
	v := graph.NewVisualizer(p, scopes)

	var dot bytes.Buffer
	require.NoError(t, v.WriteDOT(&dot))
	want := `digraph bindings {
  rankdir=LR;
  node [shape=box];
  n0 [label="*example.com/app.A\nconstructor example.com/app.NewA", fillcolor="lightblue", style=filled];
  n1 [label="*example.com/app.B\nconstructor example.com/app.NewB", fillcolor="white", style=filled];
  n2 [label="func() *example.com/app.A\nprovider of *example.com/app.A", fillcolor="white", style=filled];
  n0 -> n1;
  n1 -> n2;
  n2 -> n0 [style=dashed];
}
`
	assert.Equal(t, want, dot.String())

	var text bytes.Buffer
	require.NoError(t, v.WriteText(&text))
	assert.Contains(t, text.String(), "  1. *example.com/app.A [Singleton]")
	assert.Contains(t, text.String(), "~> *example.com/app.A (deferred)")
	assert.Contains(t, text.String(), "Edges: 3 (1 deferred)")
}
