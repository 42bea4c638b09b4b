package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-deflection/internal/seed"
)

var seedFlags struct {
	defaults bool
}

var seedCmd = &cobra.Command{
	Use:   "seed [PATH...]",
	Short: "Import knowledge articles from YAML files or directories",
	Long:  "Import knowledge articles into the configured store. Articles whose title\nalready exists are skipped. With no paths the built-in defaults are imported.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedFlags.defaults, "defaults", false, "Also import the built-in article set")
}

func runSeed(cmd *cobra.Command, args []string) error {
	articles, err := collectSeedArticles(args, seedFlags.defaults || len(args) == 0)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := seed.Import(ctx, rt.svcs.Knowledge, articles)
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %d  Skipped: %d  Failed: %d\n", report.Created, report.Skipped, report.Failed)
	return err
}

func collectSeedArticles(paths []string, includeDefaults bool) ([]seed.Article, error) {
	var articles []seed.Article
	if includeDefaults {
		defaults, err := seed.Defaults()
		if err != nil {
			return nil, err
		}
		articles = append(articles, defaults...)
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		var loaded []seed.Article
		if info.IsDir() {
			loaded, err = seed.LoadDir(path)
		} else {
			loaded, err = seed.LoadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		articles = append(articles, loaded...)
	}
	return articles, nil
}
