package driver

import "github.com/oseen-project/oseen/internal/hooks"

// Solver is the external fractional-step scheme. The driver calls the
// sub-solves in fixed order inside each timestep; their numerics
// (assembly, linear solves, pressure-velocity coupling) live entirely
// behind this interface.
type Solver interface {
	// TentativeVelocity advances one velocity component and returns
	// its iteration error.
	TentativeVelocity(c *hooks.Context, component string) (float64, error)

	// PressureCorrection solves for pressure and returns the
	// iteration error.
	PressureCorrection(c *hooks.Context) (float64, error)

	// VelocityUpdate makes the velocity divergence-free with the
	// corrected pressure.
	VelocityUpdate(c *hooks.Context) error

	// ScalarSolve advances one scalar component.
	ScalarSolve(c *hooks.Context, component string) error
}

// StubSolver performs no numerics at all. It exists so the hook
// protocol can be driven end to end in tests and dry runs without the
// external framework.
type StubSolver struct{}

func (StubSolver) TentativeVelocity(*hooks.Context, string) (float64, error) { return 0, nil }
func (StubSolver) PressureCorrection(*hooks.Context) (float64, error)        { return 0, nil }
func (StubSolver) VelocityUpdate(*hooks.Context) error                       { return nil }
func (StubSolver) ScalarSolve(*hooks.Context, string) error                  { return nil }
