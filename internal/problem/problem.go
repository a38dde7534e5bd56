// Package problem bundles parameter overrides and hook overrides into
// named problem definitions the driver can run.
package problem

import (
	"fmt"
	"sort"

	"github.com/oseen-project/oseen/internal/hooks"
	"github.com/oseen-project/oseen/internal/params"
)

// Problem is one flow case: parameter overrides deep-merged over the
// defaults, and a hook registry with the case-specific slots rebound.
type Problem struct {
	Name        string
	Description string
	Parameters  params.Set
	Hooks       *hooks.Registry
}

// Registry maps problem names to builders. Builders run per Get so each
// run receives fresh hook state.
type Registry struct {
	builders map[string]func() *Problem
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]func() *Problem)}
	r.Register("lshape", NewLshape)
	r.Register("cavity", NewCavity)
	return r
}

func (r *Registry) Register(name string, build func() *Problem) {
	r.builders[name] = build
}

func (r *Registry) Get(name string) (*Problem, error) {
	build, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
	return build(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MergedParameters returns the full parameter set for the problem:
// global defaults, problem overrides, then any extra overrides (e.g.
// a YAML file or command-line flags), in that order.
func (p *Problem) MergedParameters(extra params.Set) params.Set {
	merged := params.Merge(params.Defaults(), p.Parameters)
	if len(extra) > 0 {
		merged = params.Merge(merged, extra)
	}
	return merged
}
