// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report computes the category distribution of an organized tree and
// a correctness score over placement records.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

// ErrNothingToReport is returned when no matching files exist under any of
// the reported categories. It is a terminal state, not a failure.
var ErrNothingToReport = errors.New("no files found to report")

// CategoryShare is one category's slice of the tree.
type CategoryShare struct {
	Category string  `json:"category" yaml:"category"`
	Count    int     `json:"count" yaml:"count"`
	Percent  float64 `json:"percent" yaml:"percent"`
}

// Report is derived from the tree and the placement records on every run.
type Report struct {
	Categories  []CategoryShare `json:"categories" yaml:"categories"`
	Total       int             `json:"total" yaml:"total"`
	Correctness float64         `json:"correctness" yaml:"correctness"`
	Records     int             `json:"records" yaml:"records"`
}

// Count walks root/<category> for each category and counts files whose name
// ends in suffix, including files in subcategory folders. A missing category
// directory counts as zero.
func Count(root string, categories []string, suffix string) ([]CategoryShare, int, error) {
	shares := make([]CategoryShare, 0, len(categories))
	total := 0

	for _, category := range categories {
		dir := filepath.Join(root, category)
		n := 0
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipDir
				}
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
				n++
			}
			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("counting %s: %w", dir, err)
		}
		shares = append(shares, CategoryShare{Category: category, Count: n})
		total += n
	}
	return shares, total, nil
}

// Generate builds a report for categories under root. records feed the
// correctness score. It returns ErrNothingToReport when the total is zero.
func Generate(root string, categories []string, suffix string, records []types.Placement) (*Report, error) {
	shares, total, err := Count(root, categories, suffix)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNothingToReport
	}

	for i := range shares {
		shares[i].Percent = float64(shares[i].Count) / float64(total) * 100
	}

	return &Report{
		Categories:  shares,
		Total:       total,
		Correctness: Correctness(records),
		Records:     len(records),
	}, nil
}

// Correctness returns the percentage of records whose expected label equals
// the actual placement, or 0 when there are no records.
func Correctness(records []types.Placement) float64 {
	if len(records) == 0 {
		return 0
	}
	correct := 0
	for _, r := range records {
		if r.Correct() {
			correct++
		}
	}
	return float64(correct) / float64(len(records)) * 100
}
