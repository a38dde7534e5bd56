package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oseen-project/oseen/internal/comm"
	"github.com/oseen-project/oseen/internal/console"
	"github.com/oseen-project/oseen/internal/driver"
	"github.com/oseen-project/oseen/internal/export"
	"github.com/oseen-project/oseen/internal/instrument"
	"github.com/oseen-project/oseen/internal/params"
	"github.com/oseen-project/oseen/internal/problem"
	"github.com/oseen-project/oseen/internal/viz"
)

var (
	dt         float64
	endTime    float64
	nu         float64
	nx         int
	ny         int
	folder     string
	restart    string
	configFile string
	plotFile   string
	live       bool
	memory     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oseen",
		Short: "problem configuration layer for a Navier-Stokes fractional-step driver",
	}

	runCmd := &cobra.Command{
		Use:   "run [problem]",
		Short: "run a problem through the time-stepping loop",
		Args:  cobra.ExactArgs(1),
		RunE:  runProblem,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep size")
	runCmd.Flags().Float64Var(&endTime, "time", 0, "end time T")
	runCmd.Flags().Float64Var(&nu, "nu", 0, "kinematic viscosity")
	runCmd.Flags().IntVar(&nx, "nx", 0, "mesh resolution in x")
	runCmd.Flags().IntVar(&ny, "ny", 0, "mesh resolution in y")
	runCmd.Flags().StringVar(&folder, "folder", "", "results folder")
	runCmd.Flags().StringVar(&restart, "restart", "", "previous results folder to resume from")
	runCmd.Flags().StringVar(&configFile, "config", "", "parameter override file (yaml)")
	runCmd.Flags().StringVar(&plotFile, "plot", "", "write probe traces to this PNG after the run")
	runCmd.Flags().BoolVar(&live, "live", false, "show a live terminal view of the run")
	runCmd.Flags().BoolVar(&memory, "memory", false, "report memory use at run checkpoints")

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list available problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := problem.NewRegistry()
			for _, name := range reg.Names() {
				pb, err := reg.Get(name)
				if err != nil {
					return err
				}
				fmt.Printf("  %-10s %s\n", name, pb.Description)
			}
			return nil
		},
	}

	paramsCmd := &cobra.Command{
		Use:   "params [problem]",
		Short: "print the merged parameter set of a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := problem.NewRegistry().Get(args[0])
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(map[string]any(pb.MergedParameters(nil)))
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, problemsCmd, paramsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runProblem(cmd *cobra.Command, args []string) error {
	reg := problem.NewRegistry()
	pb, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	overrides := params.Set{}
	if configFile != "" {
		overrides, err = params.Load(configFile, params.Set{})
		if err != nil {
			return err
		}
	}
	// Flags win over the config file.
	flagOverrides := map[string]struct {
		changed bool
		value   any
	}{
		"dt":             {cmd.Flags().Changed("dt"), dt},
		"T":              {cmd.Flags().Changed("time"), endTime},
		"nu":             {cmd.Flags().Changed("nu"), nu},
		"Nx":             {cmd.Flags().Changed("nx"), nx},
		"Ny":             {cmd.Flags().Changed("ny"), ny},
		"folder":         {cmd.Flags().Changed("folder"), folder},
		"restart_folder": {cmd.Flags().Changed("restart"), restart},
	}
	for key, f := range flagOverrides {
		if f.changed {
			overrides[key] = f.value
		}
	}

	group := comm.Local{}
	out := console.New(group)

	d := driver.New(pb, driver.StubSolver{}, group, out)
	d.SetOverrides(overrides)
	if memory {
		d.SetTracker(instrument.NewTracker(group, out, "Start"))
	}

	out.Info("Running problem %s", pb.Name)

	var result *driver.Result
	if live {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		view := viz.NewLive(pb.Name)
		d.AddObserver(view)

		var runErr error
		done := make(chan struct{})
		go func() {
			result, runErr = d.Run(ctx)
			view.Close()
			close(done)
		}()
		if err := view.Show(cancel); err != nil {
			return err
		}
		<-done
		if runErr != nil && runErr != context.Canceled {
			return runErr
		}
	} else {
		result, err = d.Run(context.Background())
		if err != nil {
			return err
		}
	}

	if result == nil {
		return nil
	}
	if !live {
		if trace := export.AsciiTrace("p @ domain center", result.Traces["p"], 8); trace != "" {
			fmt.Println(trace)
		}
	}
	out.Info("Results in %s", result.Folder)

	if plotFile != "" {
		if err := export.PlotPNG(plotFile, result.Times, result.Traces); err != nil {
			return err
		}
		out.Success("Wrote %s", plotFile)
	}
	return nil
}
