package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kmartel07/gridride/infra/logger"
	"github.com/kmartel07/gridride/pkg/export"
	"github.com/kmartel07/gridride/simulator"
)

var (
	simCfg    simulator.Config
	simExport string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted fleet scenario and print the outcome",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&simCfg.Seed, "seed", 0, "random seed")
	simulateCmd.Flags().IntVar(&simCfg.GridSize, "grid", 0, "grid size")
	simulateCmd.Flags().IntVar(&simCfg.Drivers, "drivers", 0, "number of drivers")
	simulateCmd.Flags().IntVar(&simCfg.Riders, "riders", 0, "number of riders")
	simulateCmd.Flags().IntVar(&simCfg.Ticks, "ticks", 0, "number of ticks to run")
	simulateCmd.Flags().Float64Var(&simCfg.AcceptRate, "accept-rate", 0, "probability a driver accepts an assignment")
	simulateCmd.Flags().StringVar(&simExport, "export", "", "write the ride history to this file (.json or .csv)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := simulator.New(simCfg, logger.New("simulator"))
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ticks=%d completed=%d failed=%d waiting=%d\n",
		res.Ticks, res.Completed, res.Failed, res.Waiting)
	if simExport == "" {
		return nil
	}
	return exportRides(simExport, runner)
}

func exportRides(path string, runner *simulator.Runner) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	rides := runner.Engine().Rides()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.WriteCSV(f, rides)
	case ".json":
		return export.WriteJSON(f, rides)
	default:
		return fmt.Errorf("unsupported export format: %s", path)
	}
}
