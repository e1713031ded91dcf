package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/junioryono/ginject/internal/config"
)

func TestDecode(t *testing.T) {
	t.Run("empty input keeps defaults", func(t *testing.T) {
		cfg, err := config.Decode(strings.NewReader("  \n"))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("fields override defaults", func(t *testing.T) {
		cfg, err := config.Decode(strings.NewReader(`
injector: AppInjector
modules: [AppModule, example.com/app/db.Module]
output: wiring/injector_gen.go
outputPackage: example.com/app/wiring
graph: bindings.dot
verbose: true
`))
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Dir)
		assert.Equal(t, "./...", cfg.Package)
		assert.Equal(t, "AppInjector", cfg.Injector)
		assert.Equal(t, []string{"AppModule", "example.com/app/db.Module"}, cfg.Modules)
		assert.Equal(t, "wiring/injector_gen.go", cfg.Output)
		assert.Equal(t, "bindings.dot", cfg.Graph)
		assert.True(t, cfg.Verbose)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := config.Decode(strings.NewReader("injektor: AppInjector\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "injektor")
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("injector: AppInjector\nimpl: Wiring\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Wiring", cfg.Impl)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *config.Config)
		wantErr []error
	}{
		{
			name:   "valid",
			modify: func(c *config.Config) {},
		},
		{
			name:    "missing injector",
			modify:  func(c *config.Config) { c.Injector = " " },
			wantErr: []error{config.ErrNoInjector},
		},
		{
			name: "every error is reported",
			modify: func(c *config.Config) {
				c.Injector = ""
				c.Output = "injector.txt"
				c.Modules = []string{"AppModule", ""}
				c.Graph = "graph.png"
				c.OutputPackage = "a b c"
			},
			wantErr: []error{
				config.ErrNoInjector,
				config.ErrOutputNotGo,
				config.ErrEmptyModule,
				config.ErrGraphNotDOT,
				config.ErrPackageNoName,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Injector = "AppInjector"
			tt.modify(cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Len(t, multierr.Errors(err), len(tt.wantErr))
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestSplitOutputPackage(t *testing.T) {
	tests := []struct {
		in       string
		wantPath string
		wantName string
		wantErr  bool
	}{
		{in: "example.com/app/wiring", wantPath: "example.com/app/wiring", wantName: "wiring"},
		{in: "example.com/app/go-wiring wiring", wantPath: "example.com/app/go-wiring", wantName: "wiring"},
		{in: "example.com/app/go-wiring", wantErr: true},
		{in: "a b c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := &config.Config{OutputPackage: tt.in}
			path, name, err := cfg.SplitOutputPackage()
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrPackageNoName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := &config.Config{Dir: "app", Output: "wiring/gen.go", Graph: "out.dot"}
	assert.Equal(t, filepath.Join("app", "wiring", "gen.go"), cfg.OutputPath())
	assert.Equal(t, filepath.Join("app", "out.dot"), cfg.GraphPath())

	cfg = &config.Config{Dir: "app", Output: "/tmp/gen.go"}
	assert.Equal(t, "/tmp/gen.go", cfg.OutputPath())
	assert.Empty(t, cfg.GraphPath())
}

func TestImportPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n\ngo 1.22\n"), 0o644))
	sub := filepath.Join(root, "internal", "wiring")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	modPath, modRoot, err := config.Module(sub)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", modPath)
	assert.Equal(t, root, modRoot)

	path, err := config.ImportPath(sub)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/internal/wiring", path)

	path, err = config.ImportPath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", path)
}
