package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-deflection/internal/triage"
)

var classifyFlags struct {
	description string
	jsonOut     bool
	extended    bool
}

var classifyCmd = &cobra.Command{
	Use:   "classify TITLE",
	Short: "Classify ticket text without storing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVarP(&classifyFlags.description, "description", "d", "", "Ticket description")
	f.BoolVar(&classifyFlags.jsonOut, "json", false, "Print JSON")
	f.BoolVar(&classifyFlags.extended, "extended", false, "Use the extended rule table")
}

func runClassify(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	var rules []triage.Rule
	if classifyFlags.extended {
		rules = triage.ExtendedRules()
	}
	c := triage.NewClassifier(rules).Classify(title, classifyFlags.description)

	out := cmd.OutOrStdout()
	if classifyFlags.jsonOut {
		return json.NewEncoder(out).Encode(map[string]string{
			"category": string(c.Category),
			"severity": string(c.Severity),
			"rule":     c.Rule,
		})
	}
	fmt.Fprintf(out, "Category: %s\n", c.Category)
	fmt.Fprintf(out, "Severity: %s\n", c.Severity)
	fmt.Fprintf(out, "Rule:     %s\n", c.Rule)
	return nil
}
