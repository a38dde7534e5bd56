// Package driver runs the time-stepping loop of the fractional-step
// scheme: it owns the hook call order, the inner pressure-velocity
// iterations and the output cadence, while delegating every numerical
// sub-solve to a [Solver].
package driver

import (
	"context"
	"fmt"

	"github.com/oseen-project/oseen/internal/bcs"
	"github.com/oseen-project/oseen/internal/comm"
	"github.com/oseen-project/oseen/internal/console"
	"github.com/oseen-project/oseen/internal/export"
	"github.com/oseen-project/oseen/internal/field"
	"github.com/oseen-project/oseen/internal/hooks"
	"github.com/oseen-project/oseen/internal/instrument"
	"github.com/oseen-project/oseen/internal/mesh"
	"github.com/oseen-project/oseen/internal/params"
	"github.com/oseen-project/oseen/internal/problem"
)

// Observer is notified after every completed timestep.
type Observer interface {
	OnStep(c *hooks.Context)
}

// Result summarizes a finished run: the probe trace per unknown,
// sampled at the domain center each timestep.
type Result struct {
	Times  []float64
	Traces map[string][]float64
	Steps  int
	Folder string
}

type Driver struct {
	problem   *problem.Problem
	solver    Solver
	comm      comm.Communicator
	console   *console.Console
	tracker   *instrument.Tracker
	overrides params.Set
	observers []Observer
}

func New(pb *problem.Problem, solver Solver, c comm.Communicator, out *console.Console) *Driver {
	return &Driver{
		problem: pb,
		solver:  solver,
		comm:    c,
		console: out,
	}
}

// SetOverrides merges extra parameter overrides (flags, YAML file) on
// top of the problem's own overrides for the next Run.
func (d *Driver) SetOverrides(p params.Set) { d.overrides = p }

// SetTracker enables memory reporting at the run's checkpoints.
func (d *Driver) SetTracker(t *instrument.Tracker) { d.tracker = t }

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Run(ctx context.Context) (*Result, error) {
	p := d.problem.MergedParameters(d.overrides)
	reg := d.problem.Hooks

	// Restart resumes time bookkeeping and field values from a prior
	// run's checkpoint; the current parameter overrides still win.
	var restartValues map[string][]float64
	if rf, _ := p.String("restart_folder"); rf != "" {
		cp, values, err := export.LoadCheckpoint(rf)
		if err != nil {
			return nil, err
		}
		restartValues = values
		t, _ := cp.Float("t")
		tstep, _ := cp.Int("tstep")
		p = params.Merge(p, params.Set{"t": t, "tstep": tstep})
		d.console.Info("Restarting from %s at t=%g, tstep=%d", rf, t, tstep)
	}

	timer := d.console.StartTimer("Total computing time", false)

	meshTimer := d.console.StartTimer("Generating mesh", false)
	m, err := reg.Mesh(p)
	if err != nil {
		return nil, fmt.Errorf("mesh hook: %w", err)
	}
	meshTimer.Stop()
	d.probeMemory("Created mesh")

	hctx, bcTable, err := d.setup(m, p, reg, restartValues)
	if err != nil {
		return nil, err
	}
	d.probeMemory("Before time loop")

	folder, _ := p.String("folder")
	store := export.New(folder)
	if d.comm.Rank() == 0 {
		if err := store.Init(); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Traces: make(map[string][]float64, len(hctx.SysComp)),
		Folder: folder,
	}
	min, max := m.Bounds()
	probe := mesh.Point{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2}

	T := p.MustFloat("T")
	dt := p.MustFloat("dt")
	maxError := p.MustFloat("max_error")
	maxIter := p.MustInt("max_iter")
	firstIters := p.MustInt("iters_on_first_timestep")
	saveStep := p.MustInt("save_step")
	checkpoint := p.MustInt("checkpoint")
	printInfo := p.MustInt("print_intermediate_info")
	printConvergence, _ := p.Bool("print_velocity_pressure_convergence")

	firstStep := hctx.Tstep + 1

	for hctx.T < T-mesh.Eps {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		hctx.T += dt
		hctx.Tstep++

		if err := d.callHook("start_timestep", reg.StartTimestep, hctx); err != nil {
			return result, err
		}
		d.applyBCs(bcTable, hctx)

		iters := maxIter
		if hctx.Tstep == firstStep {
			iters = firstIters
		}

		for inner := 0; inner < iters; inner++ {
			totalErr := 0.0

			if err := d.callHook("velocity_tentative", reg.TentativeVelocity, hctx); err != nil {
				return result, err
			}
			for _, ui := range hctx.UComp {
				uerr, err := d.solver.TentativeVelocity(hctx, ui)
				if err != nil {
					return result, fmt.Errorf("tentative velocity %s: %w", ui, err)
				}
				totalErr += uerr
			}

			if err := d.callHook("pressure", reg.Pressure, hctx); err != nil {
				return result, err
			}
			perr, err := d.solver.PressureCorrection(hctx)
			if err != nil {
				return result, fmt.Errorf("pressure correction: %w", err)
			}
			totalErr += perr

			if printConvergence {
				d.console.Info("Inner iteration %d, error %g", inner+1, totalErr)
			}
			if totalErr < maxError {
				break
			}
		}

		if err := d.solver.VelocityUpdate(hctx); err != nil {
			return result, fmt.Errorf("velocity update: %w", err)
		}

		scalars := p.Strings("scalar_components")
		if len(scalars) > 0 {
			if err := d.callHook("scalar", reg.Scalar, hctx); err != nil {
				return result, err
			}
			for _, ci := range scalars {
				if err := d.solver.ScalarSolve(hctx, ci); err != nil {
					return result, fmt.Errorf("scalar solve %s: %w", ci, err)
				}
			}
		}

		if err := d.callHook("temporal", reg.Temporal, hctx); err != nil {
			return result, err
		}

		for _, o := range d.observers {
			o.OnStep(hctx)
		}

		result.Times = append(result.Times, hctx.T)
		for _, name := range hctx.SysComp {
			result.Traces[name] = append(result.Traces[name], hctx.Field(name).Probe(probe)[0])
		}
		result.Steps++

		if d.comm.Rank() == 0 {
			if saveStep > 0 && hctx.Tstep%saveStep == 0 {
				if err := store.AppendTimeseries(hctx.Tstep, hctx.T, hctx.Fields); err != nil {
					return result, err
				}
			}
			if checkpoint > 0 && hctx.Tstep%checkpoint == 0 {
				snapshot := params.Merge(p, params.Set{"t": hctx.T, "tstep": hctx.Tstep})
				if err := store.SaveCheckpoint(snapshot, hctx.Fields); err != nil {
					return result, err
				}
			}
		}
		if printInfo > 0 && hctx.Tstep%printInfo == 0 {
			d.console.Info("Time = %g, timestep = %d (%v elapsed)",
				hctx.T, hctx.Tstep, timer.Elapsed())
			d.probeMemory(fmt.Sprintf("Timestep %d", hctx.Tstep))
		}
	}

	if err := d.callHook("theend", reg.AtEnd, hctx); err != nil {
		return result, err
	}
	d.probeMemory("End of run")
	d.console.Success("Finished %s: %d timesteps in %v",
		d.problem.Name, result.Steps, timer.Stop())

	return result, nil
}

// setup builds spaces, fields and the hook context, then runs the
// one-shot hooks: Initialize, CreateBCs and PreSolve.
func (d *Driver) setup(m *mesh.Mesh, p params.Set, reg *hooks.Registry, restart map[string][]float64) (*hooks.Context, bcs.Table, error) {
	V := field.NewSpace("V", m, p.MustInt("velocity_degree"))
	Q := field.NewSpace("Q", m, p.MustInt("pressure_degree"))

	uComp := []string{"u0", "u1"}
	sysComp := append(append([]string{}, uComp...), "p")
	sysComp = append(sysComp, p.Strings("scalar_components")...)

	fields := make(map[string]*field.Function, len(sysComp))
	for _, name := range sysComp {
		space := V
		if name == "p" {
			space = Q
		}
		fields[name] = field.NewFunction(name, space)
	}

	t0, _ := p.Float("t")
	tstep0, _ := p.Int("tstep")
	hctx := &hooks.Context{
		T:       t0,
		Tstep:   tstep0,
		Mesh:    m,
		V:       V,
		Q:       Q,
		Fields:  fields,
		SysComp: sysComp,
		UComp:   uComp,
		Params:  p,
	}

	for name, values := range restart {
		f, ok := fields[name]
		if !ok {
			continue
		}
		if len(values) != len(f.Values()) {
			return nil, nil, fmt.Errorf("restart field %s has %d values, expected %d",
				name, len(values), len(f.Values()))
		}
		copy(f.Values(), values)
	}

	if err := d.callHook("initialize", reg.Initialize, hctx); err != nil {
		return nil, nil, err
	}

	bcTable, err := reg.CreateBCs(hctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create_bcs hook: %w", err)
	}

	hctx.Apply(hooks.Updates{
		"body_force":     reg.BodyForce(hctx),
		"scalar_sources": reg.ScalarSources(hctx),
	})

	if err := d.callHook("pre_solve", reg.PreSolve, hctx); err != nil {
		return nil, nil, err
	}
	return hctx, bcTable, nil
}

func (d *Driver) callHook(name string, fn hooks.Func, hctx *hooks.Context) error {
	up, err := fn(hctx)
	if err != nil {
		return fmt.Errorf("%s hook: %w", name, err)
	}
	hctx.Apply(up)
	return nil
}

func (d *Driver) applyBCs(table bcs.Table, hctx *hooks.Context) {
	for _, name := range hctx.SysComp {
		f := hctx.Field(name)
		for _, bc := range table[name] {
			bc.Apply(f, hctx.T)
		}
	}
}

func (d *Driver) probeMemory(label string) {
	if d.tracker == nil {
		return
	}
	// Probe failures only cost the report line.
	_ = d.tracker.Probe(label, true)
}
