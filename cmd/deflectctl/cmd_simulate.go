package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-deflection/internal/service"
)

var simulateFlags struct {
	count int
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Submit sample tickets and print the outcome breakdown",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&simulateFlags.count, "count", "n", service.DefaultSimulationCount, "Number of tickets (1-100)")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rt, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	summary, err := rt.svcs.Simulation.Simulate(ctx, simulateFlags.count)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range summary.Tickets {
		if t.Err != nil {
			fmt.Fprintf(out, "  %-32s FAILED: %v\n", t.Title, t.Err)
			continue
		}
		fmt.Fprintf(out, "  %-32s %-14s %-8s %-12s %.2f\n", t.Title, t.Category, t.Severity, t.Status, t.Score)
	}
	fmt.Fprintf(out, "Requested: %d  Auto-resolved: %d  Escalated: %d  Failed: %d\n",
		summary.Requested, summary.AutoResolved, summary.Escalated, summary.Failed)
	return nil
}
