package ginject

import (
	"io"

	"go.uber.org/zap"

	"github.com/junioryono/ginject/internal/members"
)

// Markers maps directive meanings to the annotation names that express
// them.
type Markers = members.Markers

// DefaultMarkers returns the annotation names the source loader writes.
func DefaultMarkers() Markers {
	return members.DefaultMarkers()
}

// Option configures a Generate run.
type Option interface {
	applyOption(*options)
}

type options struct {
	logger   *zap.Logger
	pkgPath  string
	pkgName  string
	implName string
	markers  Markers
	graph    io.Writer
	text     io.Writer
}

type optionFunc func(*options)

func (f optionFunc) applyOption(opts *options) {
	f(opts)
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  zap.NewNop(),
		markers: members.DefaultMarkers(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.applyOption(o)
		}
	}
	return o
}

// WithLogger sets the logger of the run. Every entry carries the run ID.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	})
}

// WithPackage sets the package the generated file belongs to. It defaults
// to the package of the injector interface.
func WithPackage(pkgPath, pkgName string) Option {
	return optionFunc(func(opts *options) {
		opts.pkgPath = pkgPath
		opts.pkgName = pkgName
	})
}

// WithImplName sets the name of the generated struct. It defaults to the
// injector name followed by "Impl".
func WithImplName(name string) Option {
	return optionFunc(func(opts *options) {
		opts.implName = name
	})
}

// WithMarkers replaces the annotation names recognized as directives.
func WithMarkers(markers Markers) Option {
	return optionFunc(func(opts *options) {
		if markers != nil {
			opts.markers = markers
		}
	})
}

// WithGraph writes the resolved bindings to w in Graphviz DOT format.
func WithGraph(w io.Writer) Option {
	return optionFunc(func(opts *options) {
		opts.graph = w
	})
}

// WithGraphText writes the resolved bindings to w as a readable list.
func WithGraphText(w io.Writer) Option {
	return optionFunc(func(opts *options) {
		opts.text = w
	})
}
