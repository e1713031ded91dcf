package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/junioryono/ginject"
	"github.com/junioryono/ginject/internal/config"
	"github.com/junioryono/ginject/internal/loader"
)

type result struct {
	unit   *ginject.Unit
	output string
	graph  string
}

// run loads the packages, generates the injector and writes the output
// files. Nothing is written when generation fails.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*result, error) {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	prog, err := loader.Load(ctx, loader.Config{
		Dir:      dir,
		Patterns: []string{cfg.Package},
		Tags:     cfg.Tags,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	output, err := filepath.Abs(cfg.OutputPath())
	if err != nil {
		return nil, err
	}
	pkgPath, pkgName, err := outputPackage(cfg, prog, filepath.Dir(output))
	if err != nil {
		return nil, err
	}

	modules := make([]string, 0, len(cfg.Modules))
	for _, m := range cfg.Modules {
		modules = append(modules, prog.Qualify(m))
	}
	if len(modules) == 0 {
		for _, m := range prog.Modules() {
			modules = append(modules, m.String())
		}
	}

	opts := []ginject.Option{
		ginject.WithLogger(logger),
		ginject.WithPackage(pkgPath, pkgName),
		ginject.WithImplName(cfg.Impl),
	}
	var graph bytes.Buffer
	if cfg.Graph != "" {
		opts = append(opts, ginject.WithGraph(&graph))
	}

	unit, err := ginject.Generate(prog, prog.Qualify(cfg.Injector), modules, opts...)
	if err != nil {
		return nil, err
	}

	res := &result{unit: unit, output: output}
	if err := writeFileAtomic(output, unit.Source); err != nil {
		return nil, err
	}
	if cfg.Graph != "" {
		res.graph = cfg.GraphPath()
		if err := writeFileAtomic(res.graph, graph.Bytes()); err != nil {
			return nil, err
		}
	}
	logger.Info("files written", zap.String("output", output), zap.String("graph", res.graph))
	return res, nil
}

// outputPackage returns the package the generated file belongs to: the
// configured one, the loaded package in dir, or the import path of dir.
func outputPackage(cfg *config.Config, prog *loader.Program, dir string) (path, name string, err error) {
	if cfg.OutputPackage != "" {
		return cfg.SplitOutputPackage()
	}
	if path, name, ok := prog.Package(dir); ok {
		return path, name, nil
	}
	path, err = config.ImportPath(dir)
	if err != nil {
		return "", "", fmt.Errorf("output package of %s: %w", dir, err)
	}
	return path, filepath.Base(dir), nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".ginject-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
