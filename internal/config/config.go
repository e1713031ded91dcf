// Package config holds the settings of a generation run, read from a YAML
// file and overridden by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "ginject.yaml"

var (
	ErrNoInjector    = errors.New("injector is required")
	ErrOutputNotGo   = errors.New("output must be a .go file")
	ErrEmptyModule   = errors.New("module names must not be empty")
	ErrGraphNotDOT   = errors.New("graph must be a .dot or .gv file")
	ErrPackageNoName = errors.New("outputPackage needs a package name")
)

// Config describes one generated injector.
type Config struct {
	// Dir is the directory packages are loaded from.
	Dir string `yaml:"dir"`

	// Package is the go/packages pattern to load.
	Package string `yaml:"package"`

	// Injector names the injector interface, either canonically
	// ("example.com/app.AppInjector") or relative to the loaded packages.
	Injector string `yaml:"injector"`

	// Modules name the configuration modules. Empty means every module in
	// the loaded packages.
	Modules []string `yaml:"modules,omitempty"`

	// Output is the generated file, relative to Dir.
	Output string `yaml:"output"`

	// Impl names the generated struct.
	Impl string `yaml:"impl,omitempty"`

	// OutputPackage is the "path name" of the generated package. Empty
	// means the package of the output directory.
	OutputPackage string `yaml:"outputPackage,omitempty"`

	// Graph is an optional DOT file receiving the binding graph.
	Graph string `yaml:"graph,omitempty"`

	Tags    []string `yaml:"tags,omitempty"`
	Verbose bool     `yaml:"verbose,omitempty"`
}

// Default returns a Config with every optional field set.
func Default() *Config {
	return &Config{
		Dir:     ".",
		Package: "./...",
		Output:  "ginject_gen.go",
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.Injector) == "" {
		errs = multierr.Append(errs, ErrNoInjector)
	}
	if filepath.Ext(c.Output) != ".go" {
		errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrOutputNotGo, c.Output))
	}
	for _, m := range c.Modules {
		if strings.TrimSpace(m) == "" {
			errs = multierr.Append(errs, ErrEmptyModule)
			break
		}
	}
	if c.Graph != "" {
		switch filepath.Ext(c.Graph) {
		case ".dot", ".gv":
		default:
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrGraphNotDOT, c.Graph))
		}
	}
	if c.OutputPackage != "" {
		if _, _, err := c.SplitOutputPackage(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// SplitOutputPackage returns the import path and name of OutputPackage,
// written as "path name" or "path" when the name is the last path element.
func (c *Config) SplitOutputPackage() (path, name string, err error) {
	fields := strings.Fields(c.OutputPackage)
	switch len(fields) {
	case 1:
		name = fields[0][strings.LastIndex(fields[0], "/")+1:]
		if name == "" || strings.ContainsAny(name, ".-") {
			return "", "", fmt.Errorf("%w: %q", ErrPackageNoName, c.OutputPackage)
		}
		return fields[0], name, nil
	case 2:
		return fields[0], fields[1], nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrPackageNoName, c.OutputPackage)
	}
}

// OutputPath returns Output resolved against Dir.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(c.Dir, c.Output)
}

// GraphPath returns Graph resolved against Dir, or "" when unset.
func (c *Config) GraphPath() string {
	if c.Graph == "" || filepath.IsAbs(c.Graph) {
		return c.Graph
	}
	return filepath.Join(c.Dir, c.Graph)
}
