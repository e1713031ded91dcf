package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/ginject/internal/config"
)

var shopDir = filepath.Join("..", "..", "internal", "loader", "testdata", "shop")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_Generate(t *testing.T) {
	tmp := t.TempDir()
	output := filepath.Join(tmp, "wiring", "shop_gen.go")
	graph := filepath.Join(tmp, "shop.dot")

	out, err := execute(t,
		"--dir", shopDir,
		"--injector", "ShopInjector",
		"--module", "ShopModule",
		"--output", output,
		"--output-package", "example.com/shop shop",
		"--graph", graph,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "ShopInjectorImpl")
	assert.Contains(t, out, output)

	src, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(src), "// Code generated by ginject. DO NOT EDIT.")
	assert.Contains(t, string(src), "func NewShopInjectorImpl() *ShopInjectorImpl")

	dot, err := os.ReadFile(graph)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph bindings {")

	leftovers, err := filepath.Glob(filepath.Join(tmp, "wiring", ".ginject-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRoot_ConfigFile(t *testing.T) {
	tmp := t.TempDir()
	output := filepath.Join(tmp, "gen.go")
	cfgFile := filepath.Join(tmp, "ginject.yaml")
	dir, err := filepath.Abs(shopDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfgFile, []byte(
		"dir: "+dir+"\n"+
			"injector: ShopInjector\n"+
			"output: "+output+"\n"+
			"impl: Wiring\n"+
			"outputPackage: example.com/shop\n"), 0o644))

	// Flags win over the file.
	_, err = execute(t, "--config", cfgFile, "--impl", "FromFlag")
	require.NoError(t, err)

	src, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(src), "type FromFlag struct")
	assert.NotContains(t, string(src), "Wiring")
}

func TestRoot_Errors(t *testing.T) {
	t.Run("invalid configuration", func(t *testing.T) {
		_, err := execute(t, "--dir", shopDir, "--output", "gen.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrNoInjector)
		assert.ErrorIs(t, err, config.ErrOutputNotGo)
	})

	t.Run("generation failure writes nothing", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "gen.go")
		_, err := execute(t,
			"--dir", shopDir,
			"--injector", "Missing",
			"--output", output,
			"--output-package", "example.com/shop",
		)
		require.Error(t, err)
		assert.NoFileExists(t, output)
	})
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", "--dir", dir, "ShopInjector")
	require.NoError(t, err)
	assert.Contains(t, out, config.DefaultFile)

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, "ShopInjector", cfg.Injector)
	assert.NoError(t, cfg.Validate())

	_, err = execute(t, "init", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--dir", dir, "--force")
	require.NoError(t, err)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	assert.Contains(t, buf.String(), "error:")
	assert.Contains(t, buf.String(), "boom")
}
