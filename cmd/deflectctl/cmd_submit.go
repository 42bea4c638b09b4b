package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-deflection/internal/service"
)

var submitFlags struct {
	description string
	source      string
}

var submitCmd = &cobra.Command{
	Use:   "submit TITLE",
	Short: "Run one ticket through the deflection pipeline",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVarP(&submitFlags.description, "description", "d", "", "Ticket description")
	f.StringVar(&submitFlags.source, "source", "cli", "Ticket source label")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.svcs.Pipeline.ProcessTicket(ctx, service.SubmitInput{
		Title:       strings.Join(args, " "),
		Description: submitFlags.description,
		Source:      submitFlags.source,
	})
	if result != nil {
		out := cmd.OutOrStdout()
		for _, line := range describeResult(result) {
			fmt.Fprintln(out, line)
		}
	}
	return err
}
