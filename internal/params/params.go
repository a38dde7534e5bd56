package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Set is a string-keyed parameter table. Values are scalars or nested Sets.
type Set map[string]any

// Defaults returns the full default parameter table for a run. Problem
// definitions override entries via Merge; the result is not mutated by
// the driver except for the time bookkeeping fields t and tstep.
func Defaults() Set {
	return Set{
		// Physical constants and solver parameters
		"nu":    0.01, // kinematic viscosity
		"t":     0.0,
		"tstep": 0,
		"T":     1.0,
		"dt":    0.01,

		// Discretization options
		"AB_projection_pressure": false,
		"velocity_degree":        2,
		"pressure_degree":        1,
		"solver":                 "IPCS_ABCN",

		// Inner pressure-velocity iterations
		"max_iter":                1,
		"max_error":               1e-6,
		"iters_on_first_timestep": 2,
		"use_krylov_solvers":      false,
		"low_memory_version":      false,

		"print_intermediate_info":             10,
		"print_velocity_pressure_convergence": false,
		"velocity_update_type":                "default",

		// Output cadence
		"plot_interval":               10,
		"checkpoint":                  10,
		"save_step":                   10,
		"folder":                      "results",
		"restart_folder":              "",
		"output_timeseries_as_vector": true,

		// Passed through to the external framework's Krylov solver
		"krylov_solvers": Set{
			"monitor_convergence":     false,
			"report":                  false,
			"error_on_nonconvergence": false,
			"nonzero_initial_guess":   true,
			"maximum_iterations":      200,
			"relative_tolerance":      1e-8,
			"absolute_tolerance":      1e-8,
		},
	}
}

// Merge deep-merges src into a copy of dst and returns the result.
// Nested Sets merge recursively; any other value in src replaces the
// destination value. Neither argument is mutated.
func Merge(dst, src Set) Set {
	out := make(Set, len(dst))
	for k, v := range dst {
		if sub, ok := v.(Set); ok {
			out[k] = Merge(sub, nil)
			continue
		}
		out[k] = v
	}
	for k, v := range src {
		sv, srcIsSet := asSet(v)
		dv, dstIsSet := asSet(out[k])
		if srcIsSet && dstIsSet {
			out[k] = Merge(dv, sv)
			continue
		}
		if srcIsSet {
			out[k] = Merge(sv, nil)
			continue
		}
		out[k] = v
	}
	return out
}

func asSet(v any) (Set, bool) {
	switch s := v.(type) {
	case Set:
		return s, true
	case map[string]any:
		return Set(s), true
	default:
		return nil, false
	}
}

// Float reads a numeric parameter, accepting int values for convenience
// since YAML overrides decode whole numbers as int.
func (s Set) Float(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (s Set) Int(key string) (int, bool) {
	switch v := s[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func (s Set) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

func (s Set) Bool(key string) (bool, bool) {
	v, ok := s[key].(bool)
	return v, ok
}

// Sub returns a nested Set, or nil if the key is absent or flat.
func (s Set) Sub(key string) Set {
	v, _ := asSet(s[key])
	return v
}

// Strings reads a list-valued parameter such as scalar_components.
func (s Set) Strings(key string) []string {
	switch v := s[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// MustFloat is for parameters guaranteed by Defaults.
func (s Set) MustFloat(key string) float64 {
	v, ok := s.Float(key)
	if !ok {
		panic(fmt.Sprintf("params: %q is not numeric", key))
	}
	return v
}

func (s Set) MustInt(key string) int {
	v, ok := s.Int(key)
	if !ok {
		panic(fmt.Sprintf("params: %q is not an int", key))
	}
	return v
}

// Schmidt returns the Schmidt number for a scalar component, defaulting
// to 1 when the component has no entry under the "schmidt" sub-table.
func (s Set) Schmidt(component string) float64 {
	if sub := s.Sub("schmidt"); sub != nil {
		if v, ok := sub.Float(component); ok {
			return v
		}
	}
	return 1.0
}

// Load reads a YAML override file and merges it over base.
func Load(path string, base Set) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var over map[string]any
	if err := yaml.Unmarshal(data, &over); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return Merge(base, Set(over)), nil
}

// Save writes the parameter set as YAML, used for checkpoint snapshots.
func Save(path string, s Set) error {
	data, err := yaml.Marshal(map[string]any(s))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
