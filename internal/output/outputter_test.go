package output_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/graph"
	"github.com/junioryono/ginject/internal/lifetime"
	"github.com/junioryono/ginject/internal/members"
	"github.com/junioryono/ginject/internal/output"
	"github.com/junioryono/ginject/internal/registry"
	"github.com/junioryono/ginject/internal/resolver"
	"github.com/junioryono/ginject/internal/testutil"
	"github.com/junioryono/ginject/internal/typesys"
)

const outPkg = "example.com/wiring"

// generate runs the whole pipeline for an injector declared with methods.
func generate(t *testing.T, b *testutil.Builder, methods []*typesys.Method, modules ...*typesys.Type) (string, error) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	injector := b.Injector("AppInjector", methods...)

	r := resolver.New(b.U, members.DefaultMarkers(), outPkg, logger)
	require.NoError(t, r.Configure(modules))

	var (
		roots     graph.Roots
		provs     []*typesys.Method
		injectors []*typesys.Method
		reserved  []string
	)
	for _, m := range methods {
		reserved = append(reserved, m.Name)
		switch {
		case members.ProvisionMethods(m):
			provs = append(provs, m)
			roots.Provisions = append(roots.Provisions, m.ResultKey())
		case members.MemberInjectionMethods(m):
			injectors = append(injectors, m)
			roots.MemberInjections = append(roots.MemberInjections, m.Params[0].Key.Type)
		}
	}
	roots.StaticInjections = r.StaticRequests()
	roots.Declared = r.Declared().Keys()

	proc := graph.NewProcessor(r, r.Declared().NewChild(), logger)
	if err := proc.Process(roots); err != nil {
		return "", err
	}

	o, err := output.New(output.Config{PkgPath: outPkg, PkgName: "wiring", Logger: logger}, reserved...)
	require.NoError(t, err)
	src, err := o.Output(output.Input{
		Injector:         injector,
		Provisions:       provs,
		MemberInjectors:  injectors,
		Registry:         proc.Registry(),
		Scopes:           lifetime.NewAssigner(b.U, members.DefaultMarkers()).Assign(proc.Registry()),
		MemberInjections: proc.MemberInjections(),
		StaticInjections: proc.StaticInjections(),
	})
	return string(src), err
}

func lines(body string) []string {
	var out []string
	for _, l := range strings.Split(body, "\n") {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

func TestOutput_SingleUnscopedBinding(t *testing.T) {
	b := testutil.NewBuilder(t)
	foo := b.Ptr("Foo")

	src, err := generate(t, b, []*typesys.Method{testutil.Provision("GetFoo", testutil.Key(foo))})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "// Code generated by ginject. DO NOT EDIT.\n\npackage wiring\n"))
	assert.Contains(t, src, `"example.com/app"`)
	assert.Contains(t, src, "var _ app.AppInjector = (*Impl)(nil)")

	testutil.AssertCount(t, src, "func (g *Impl) createFoo() *app.Foo {", 1)
	testutil.AssertCount(t, src, "func (g *Impl) getFoo() *app.Foo {", 1)
	testutil.AssertCount(t, src, "func (g *Impl) GetFoo() *app.Foo {", 1)
	assert.Equal(t, "return &app.Foo{}", testutil.MethodBody(t, src, "func (g *Impl) createFoo()"))
	assert.Equal(t, "return g.createFoo()", testutil.MethodBody(t, src, "func (g *Impl) getFoo()"))
	assert.Equal(t, "return g.getFoo()", testutil.MethodBody(t, src, "func (g *Impl) GetFoo()"))
	assert.Equal(t, "return &Impl{}", testutil.MethodBody(t, src, "func NewImpl()"))
	assert.NotContains(t, src, "Singleton", "unscoped getters have no field")
}

func TestOutput_Singletons(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	cfg := b.Struct("Config", "singleton")

	src, err := generate(t, b, []*typesys.Method{
		testutil.Provision("Database", testutil.Key(f.Database)),
		testutil.Provision("Config", testutil.Key(cfg)),
	})
	require.NoError(t, err)

	t.Run("nilable kind", func(t *testing.T) {
		assert.Regexp(t, `loggerSingleton\s+\*app\.Logger\n`, src)
		assert.NotContains(t, src, "loggerCreated")
		assert.Equal(t, []string{
			"if g.loggerSingleton == nil {",
			"g.loggerSingleton = g.createLogger()",
			"}",
			"return g.loggerSingleton",
		}, lines(testutil.MethodBody(t, src, "func (g *Impl) getLogger()")))
	})

	t.Run("value kind", func(t *testing.T) {
		assert.Regexp(t, `configSingleton\s+app\.Config\n`, src)
		assert.Regexp(t, `configCreated\s+bool\n`, src)
		assert.Equal(t, "return app.Config{}", testutil.MethodBody(t, src, "func (g *Impl) createConfig()"))
		assert.Equal(t, []string{
			"if !g.configCreated {",
			"g.configSingleton = g.createConfig()",
			"g.configCreated = true",
			"}",
			"return g.configSingleton",
		}, lines(testutil.MethodBody(t, src, "func (g *Impl) getConfig()")))
	})

	t.Run("unscoped dependency", func(t *testing.T) {
		assert.NotContains(t, src, "databaseSingleton")
		assert.Equal(t, "return app.NewDatabase(g.getLogger())", testutil.MethodBody(t, src, "func (g *Impl) createDatabase()"))
	})
}

func TestOutput_EagerSingletonsAndStatics(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	clock := b.Ptr("Clock", "eager")
	metrics := b.Ptr("Metrics", "eager")
	b.Ctor(metrics, "NewMetrics", testutil.Key(clock))
	holder := b.Struct("Holder")
	b.StaticField(holder, "DB", testutil.Key(f.Database))
	b.StaticMethod(holder, "SetupLogging", testutil.Key(f.Logger))
	mod := b.Module("AppModule").RequestStatic(holder)

	src, err := generate(t, b, []*typesys.Method{testutil.Provision("Metrics", testutil.Key(metrics))}, mod.T)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"g := &Impl{}",
		"g.getMetrics()",
		"g.getClock()",
		"g.injectStaticHolder()",
		"return g",
	}, lines(testutil.MethodBody(t, src, "func NewImpl()")), "eager getters in resolution order, then static injection")

	assert.Equal(t, []string{
		"app.DB = g.getDatabase()",
		"app.SetupLogging(g.getLogger())",
	}, lines(testutil.MethodBody(t, src, "func (g *Impl) injectStaticHolder()")))
	testutil.AssertCount(t, src, "g.getMetrics()", 2)
	testutil.AssertCount(t, src, "g.injectStaticHolder()", 1)
	assert.Regexp(t, `metricsSingleton\s+\*app\.Metrics\n`, src)
}

func TestOutput_ModulesAndProviders(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	mod := b.Module("AppModule").
		Provides("ProvideCache", testutil.Key(f.Cache), []string{"singleton"}, testutil.Key(f.Logger)).
		BindTo(testutil.Key(f.Service), testutil.Key(f.ServiceImpl)).
		BindInstance(typesys.QualifiedKey(b.U.Basic("string"), "dsn"), testutil.AppPkg, "app", "DefaultDSN")

	consumer := b.Ptr("Consumer")
	b.Ctor(consumer, "NewConsumer", testutil.Key(b.U.Provider(f.Cache)))

	src, err := generate(t, b, []*typesys.Method{
		testutil.Provision("Consumer", testutil.Key(consumer)),
		testutil.Provision("Service", testutil.Key(f.Service)),
	}, mod.T)
	require.NoError(t, err)

	assert.Regexp(t, `appModule\s+app\.AppModule\n`, src)
	assert.Equal(t, "return g.appModule.ProvideCache(g.getLogger())", testutil.MethodBody(t, src, "func (g *Impl) createCache()"))
	assert.Equal(t, "return g.getCache", testutil.MethodBody(t, src, "func (g *Impl) createCacheProvider()"))
	assert.Equal(t, "return app.NewConsumer(g.getCacheProvider())", testutil.MethodBody(t, src, "func (g *Impl) createConsumer()"))
	assert.Equal(t, "return g.getServiceImpl()", testutil.MethodBody(t, src, "func (g *Impl) createService()"))
	assert.Equal(t, "return app.DefaultDSN", testutil.MethodBody(t, src, "func (g *Impl) createStringDsn()"))
	assert.Equal(t, []string{
		"result := app.NewServiceImpl(g.getDatabase())",
		"g.memberInjectServiceImpl(result)",
		"return result",
	}, lines(testutil.MethodBody(t, src, "func (g *Impl) createServiceImpl()")))
	assert.Equal(t, "v.Log = g.getLogger()", testutil.MethodBody(t, src, "func (g *Impl) memberInjectServiceImpl(v *app.ServiceImpl)"))
}

func TestOutput_MemberInjectionMethods(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	screen := b.Ptr("Screen")
	b.InjectField(screen, "Log", testutil.Key(f.Logger))
	b.InjectMethod(screen, "SetDatabase", testutil.Key(f.Database))
	empty := b.Ptr("Empty")

	src, err := generate(t, b, []*typesys.Method{
		testutil.MemberInject("InjectScreen", screen),
		testutil.MemberInject("InjectEmpty", empty),
	})
	require.NoError(t, err)

	assert.Equal(t, "g.memberInjectScreen(v)", testutil.MethodBody(t, src, "func (g *Impl) InjectScreen(v *app.Screen)"))
	assert.Equal(t, []string{
		"v.Log = g.getLogger()",
		"v.SetDatabase(g.getDatabase())",
	}, lines(testutil.MethodBody(t, src, "func (g *Impl) memberInjectScreen(v *app.Screen)")))
	assert.Equal(t, "", testutil.MethodBody(t, src, "func (g *Impl) memberInjectEmpty(v *app.Empty)"))
	assert.NotContains(t, src, "createScreen", "member injection does not construct the target")
}

func TestOutput_Names(t *testing.T) {
	b := testutil.NewBuilder(t)
	foo := b.Ptr("Foo")
	logA := b.U.Pointer(b.U.Struct("example.com/a/log", "Logger"))
	logB := b.U.Pointer(b.U.Struct("example.com/b/log", "Logger"))
	gThing := b.U.Pointer(b.U.Struct("example.com/g", "Thing"))

	src, err := generate(t, b, []*typesys.Method{
		testutil.Provision("getFoo", testutil.Key(foo)),
		testutil.Provision("A", testutil.Key(logA)),
		testutil.Provision("B", testutil.Key(logB)),
		testutil.Provision("Thing", testutil.Key(gThing)),
	})
	require.NoError(t, err)

	assert.Equal(t, "return g.getAppFoo()", testutil.MethodBody(t, src, "func (g *Impl) getFoo()"),
		"getters avoid injector method names")
	assert.Equal(t, "return g.getLogLogger()", testutil.MethodBody(t, src, "func (g *Impl) B()"))
	assert.Contains(t, src, `"example.com/a/log"`)
	assert.Contains(t, src, `log2 "example.com/b/log"`)
	assert.Contains(t, src, `g2 "example.com/g"`, "imports never shadow the receiver")
	assert.Equal(t, "return &log2.Logger{}", testutil.MethodBody(t, src, "func (g *Impl) createLogLogger()"))
}

func TestOutput_ImportsAvoidLocals(t *testing.T) {
	b := testutil.NewBuilder(t)
	record := b.U.Pointer(b.U.Struct("example.com/result", "Record"))
	value := b.U.Pointer(b.U.Struct("example.com/v", "Value"))
	b.InjectField(value, "Rec", testutil.Key(record))
	b.Ctor(value, "NewValue")

	src, err := generate(t, b, []*typesys.Method{
		testutil.Provision("Value", testutil.Key(value)),
		testutil.MemberInject("InjectValue", value),
	})
	require.NoError(t, err)

	assert.Contains(t, src, `result2 "example.com/result"`)
	assert.Contains(t, src, `v2 "example.com/v"`)
	assert.Equal(t, []string{
		"result := v2.NewValue()",
		"g.memberInjectValue(result)",
		"return result",
	}, lines(testutil.MethodBody(t, src, "func (g *Impl) createValue()")))
	assert.Equal(t, "v.Rec = g.getRecord()", testutil.MethodBody(t, src, "func (g *Impl) memberInjectValue(v *v2.Value)"))
}

func TestOutput_Deterministic(t *testing.T) {
	run := func() string {
		b := testutil.NewBuilder(t)
		f := testutil.CommonFixtures(b)
		mod := b.Module("AppModule").BindTo(testutil.Key(f.Service), testutil.Key(f.ServiceImpl), "eager")
		src, err := generate(t, b, []*typesys.Method{
			testutil.Provision("Service", testutil.Key(f.Service)),
			testutil.Provision("Database", testutil.Key(f.Database)),
		}, mod.T)
		require.NoError(t, err)
		return src
	}

	assert.Equal(t, run(), run())
}

func TestOutput_StaticInjectionFailures(t *testing.T) {
	b := testutil.NewBuilder(t)
	f := testutil.CommonFixtures(b)
	holder := b.Struct("Holder")

	core, logs := observer.New(zap.ErrorLevel)
	o, err := output.New(output.Config{PkgPath: outPkg, PkgName: "wiring", Logger: zap.New(core)})
	require.NoError(t, err)

	reg := registry.New()
	_, err = o.Output(output.Input{
		Registry: reg,
		Scopes:   lifetime.NewAssigner(b.U, members.DefaultMarkers()).Assign(reg),
		StaticInjections: []*binding.StaticInjection{{
			Type: holder,
			Fields: []*typesys.Field{
				{Name: "db", PkgPath: "example.com/other", PkgName: "other", Key: testutil.Key(f.Database), Static: true},
				{Name: "Gone", Key: testutil.Key(f.Logger), Static: true},
			},
		}},
	})

	require.Len(t, multierr.Errors(err), 2)
	first := testutil.RequireErrorAs[binding.StaticInjectionError](t, multierr.Errors(err)[0])
	assert.ErrorIs(t, first, binding.ErrMemberNotAccessible)
	second := testutil.RequireErrorAs[binding.StaticInjectionError](t, multierr.Errors(err)[1])
	assert.ErrorIs(t, second, binding.ErrStaticMemberNotFound)

	require.Equal(t, 2, logs.Len(), "every failure is logged")
	for _, entry := range logs.All() {
		assert.Equal(t, "static injection failed", entry.Message)
	}
	assert.Equal(t, "db", logs.All()[0].ContextMap()["member"])
}

func TestNew_RequiresPackage(t *testing.T) {
	_, err := output.New(output.Config{ImplName: "Impl"})
	assert.ErrorIs(t, err, output.ErrNoPackage)
}
