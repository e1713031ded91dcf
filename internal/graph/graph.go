// Package graph walks the bindings reachable from an injector's roots,
// resolving every key once and rejecting construction cycles.
package graph

import (
	"go.uber.org/zap"

	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/registry"
	"github.com/junioryono/ginject/internal/typesys"
)

// Resolver produces bindings and injection descriptions for a Processor.
type Resolver interface {
	Resolve(k typesys.Key, chain []typesys.Key) (binding.Binding, error)
	MemberInjection(t *typesys.Type) *binding.MemberInjection
	StaticInjection(t *typesys.Type) *binding.StaticInjection
}

// Roots are the entry points of a walk, processed in field order.
type Roots struct {
	// Provisions are the results of zero-argument injector methods.
	Provisions []typesys.Key

	// MemberInjections are the parameter types of member-injection methods.
	// Only their injectable members are resolved, not the types
	// themselves.
	MemberInjections []*typesys.Type

	// StaticInjections are the types static injection was requested for.
	StaticInjections []*typesys.Type

	// Declared are the keys bound by modules, which are generated even when
	// nothing requests them.
	Declared []typesys.Key
}

// Processor walks the dependency graph depth first with an explicit stack
// and puts every binding it resolves into its registry, in resolution
// order.
//
// Only direct edges are followed on the active path. The target of a
// deferred edge is queued as a new root, so every cycle found on the path
// consists of direct edges and is reported as a CyclicDependencyError.
type Processor struct {
	resolver Resolver
	registry *registry.Registry
	logger   *zap.Logger

	done     map[typesys.Key]bool
	deferred []pending
	edges    map[typesys.Key][]binding.Dependency

	injections []*binding.MemberInjection
	statics    []*binding.StaticInjection
}

type pending struct {
	key   typesys.Key
	chain []typesys.Key
}

// frame is a key on the active path and the position of the next
// dependency to visit.
type frame struct {
	key  typesys.Key
	deps []binding.Dependency
	next int
}

// NewProcessor creates a Processor storing bindings in reg.
func NewProcessor(resolver Resolver, reg *registry.Registry, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		resolver: resolver,
		registry: reg,
		logger:   logger,
		done:     make(map[typesys.Key]bool),
		edges:    make(map[typesys.Key][]binding.Dependency),
	}
}

// Process resolves everything reachable from roots. Walking the same roots
// again changes nothing.
func (p *Processor) Process(roots Roots) error {
	for _, k := range roots.Provisions {
		if err := p.visit(k, nil); err != nil {
			return err
		}
	}

	for _, t := range roots.MemberInjections {
		mi := p.resolver.MemberInjection(t)
		if mi == nil {
			mi = &binding.MemberInjection{Type: t}
		}
		if !p.hasInjection(mi.Type) {
			p.injections = append(p.injections, mi)
		}
		if err := p.visitAll(mi.Dependencies(), typesys.KeyOf(t)); err != nil {
			return err
		}
	}

	for _, t := range roots.StaticInjections {
		if p.hasStatic(t) {
			continue
		}
		si := p.resolver.StaticInjection(t)
		p.statics = append(p.statics, si)
		if err := p.visitAll(si.Dependencies(), typesys.KeyOf(t)); err != nil {
			return err
		}
	}

	for _, k := range roots.Declared {
		if err := p.visit(k, nil); err != nil {
			return err
		}
	}

	p.logger.Debug("bindings processed", zap.Int("bindings", p.registry.Len()))
	return nil
}

func (p *Processor) visitAll(deps []binding.Dependency, requester typesys.Key) error {
	for _, dep := range deps {
		if err := p.visit(dep.Key, []typesys.Key{requester}); err != nil {
			return err
		}
	}
	return nil
}

// visit walks k and then every root deferred while walking it.
func (p *Processor) visit(k typesys.Key, chain []typesys.Key) error {
	if err := p.walk(k, chain); err != nil {
		return err
	}
	for len(p.deferred) > 0 {
		next := p.deferred[0]
		p.deferred = p.deferred[1:]
		if err := p.walk(next.key, next.chain); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) walk(start typesys.Key, chain []typesys.Key) error {
	if p.done[start] {
		return nil
	}

	var stack []*frame
	onPath := make(map[typesys.Key]int)

	path := func() []typesys.Key {
		keys := append([]typesys.Key(nil), chain...)
		for _, f := range stack {
			keys = append(keys, f.key)
		}
		return keys
	}

	enter := func(k typesys.Key) error {
		b, err := p.bindingFor(k, path())
		if err != nil {
			return err
		}
		onPath[k] = len(stack)
		stack = append(stack, &frame{key: k, deps: b.Dependencies()})
		return nil
	}

	if err := enter(start); err != nil {
		return err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.deps) {
			stack = stack[:len(stack)-1]
			delete(onPath, top.key)
			p.done[top.key] = true
			continue
		}

		dep := top.deps[top.next]
		top.next++

		switch {
		case p.done[dep.Key]:
		case dep.Deferred:
			p.deferred = append(p.deferred, pending{key: dep.Key, chain: path()})
		default:
			if i, ok := onPath[dep.Key]; ok {
				cycle := make([]typesys.Key, 0, len(stack)-i)
				for _, f := range stack[i:] {
					cycle = append(cycle, f.key)
				}
				return CyclicDependencyError{Cycle: cycle}
			}
			if err := enter(dep.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

// bindingFor returns the binding of k, resolving and registering it on
// first use.
func (p *Processor) bindingFor(k typesys.Key, chain []typesys.Key) (binding.Binding, error) {
	if b, ok := p.registry.LookupLocal(k); ok {
		return b, nil
	}

	b, err := p.resolver.Resolve(k, chain)
	if err != nil {
		return nil, err
	}
	if err := p.registry.Put(k, b); err != nil {
		return nil, err
	}
	p.edges[k] = b.Dependencies()

	p.logger.Debug("resolved binding",
		zap.Stringer("key", k),
		zap.String("binding", b.Description()),
		zap.Int("dependencies", len(p.edges[k])))
	return b, nil
}

func (p *Processor) hasInjection(t *typesys.Type) bool {
	for _, mi := range p.injections {
		if mi.Type == t {
			return true
		}
	}
	return false
}

func (p *Processor) hasStatic(t *typesys.Type) bool {
	for _, si := range p.statics {
		if si.Type == t {
			return true
		}
	}
	return false
}

// Registry returns the registry bindings are put into.
func (p *Processor) Registry() *registry.Registry { return p.registry }

// MemberInjections returns the injections of member-injection roots, one
// per named type, in root order.
func (p *Processor) MemberInjections() []*binding.MemberInjection { return p.injections }

// StaticInjections returns the static injections in request order.
func (p *Processor) StaticInjections() []*binding.StaticInjection { return p.statics }

// Dependencies returns the recorded edges of k.
func (p *Processor) Dependencies(k typesys.Key) []binding.Dependency { return p.edges[k] }
