// Package seed loads knowledge articles from YAML and imports them.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticket-deflection/internal/service"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Article is one knowledge article as written in a seed file.
type Article struct {
	Title    string   `yaml:"title"`
	Content  string   `yaml:"content"`
	Tags     []string `yaml:"tags"`
	Category string   `yaml:"category"`
}

type file struct {
	Articles []Article `yaml:"articles"`
}

// Importer stores an article unless it already exists.
type Importer interface {
	ImportArticle(ctx context.Context, input service.KnowledgeCreateInput) (bool, error)
}

// Report counts the outcome of an import.
type Report struct {
	Created int
	Skipped int
	Failed  int
}

// Defaults returns the built-in article set.
func Defaults() ([]Article, error) {
	return Parse(defaultsYAML)
}

// Parse decodes a seed document.
func Parse(data []byte) ([]Article, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return f.Articles, nil
}

// LoadFile reads one seed file.
func LoadFile(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	articles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return articles, nil
}

// LoadDir reads every .yaml and .yml file in dir, in name order.
func LoadDir(dir string) ([]Article, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && IsSeedFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var all []Article
	for _, name := range names {
		articles, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		all = append(all, articles...)
	}
	return all, nil
}

// IsSeedFile reports whether path has a YAML extension.
func IsSeedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Import stores every article, continuing past individual failures.
func Import(ctx context.Context, importer Importer, articles []Article) (Report, error) {
	var (
		report Report
		errs   []error
	)
	for _, a := range articles {
		created, err := importer.ImportArticle(ctx, service.KnowledgeCreateInput{
			Title:    a.Title,
			Content:  a.Content,
			Tags:     a.Tags,
			Category: a.Category,
		})
		switch {
		case err != nil:
			report.Failed++
			errs = append(errs, fmt.Errorf("import %q: %w", a.Title, err))
		case created:
			report.Created++
		default:
			report.Skipped++
		}
	}
	return report, errors.Join(errs...)
}
