// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, rel...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	touch(t, root, "Programming", "Python", "a.pdf")
	touch(t, root, "Programming", "Java", "b.pdf")
	touch(t, root, "Programming", "c.pdf")
	touch(t, root, "AI", "RAG", "d.pdf")
	touch(t, root, "AI", "RAG", "notes.txt")
	touch(t, root, "Others", "e.pdf")
	touch(t, root, "stray.pdf")
	return root
}

func TestCount(t *testing.T) {
	root := sampleTree(t)
	shares, total, err := Count(root, []string{"Programming", "AI", "Math", "Others"}, ".pdf")
	require.NoError(t, err)

	assert.Equal(t, 5, total)
	assert.Equal(t, []CategoryShare{
		{Category: "Programming", Count: 3},
		{Category: "AI", Count: 1},
		{Category: "Math", Count: 0},
		{Category: "Others", Count: 1},
	}, shares)
}

func TestGenerate(t *testing.T) {
	root := sampleTree(t)
	records := []types.Placement{
		{Filename: "a.pdf", Expected: "Python", Actual: "Python"},
		{Filename: "e.pdf", Expected: "", Actual: "Others"},
	}

	r, err := Generate(root, []string{"Programming", "AI", "Math", "Others"}, ".pdf", records)
	require.NoError(t, err)

	assert.Equal(t, 5, r.Total)
	assert.Equal(t, 2, r.Records)
	assert.InDelta(t, 60.0, r.Categories[0].Percent, 1e-9)
	assert.InDelta(t, 20.0, r.Categories[1].Percent, 1e-9)
	assert.InDelta(t, 0.0, r.Categories[2].Percent, 1e-9)
	assert.InDelta(t, 50.0, r.Correctness, 1e-9)

	sum := 0.0
	for _, s := range r.Categories {
		sum += s.Percent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestGenerateNothingToReport(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "loose.pdf")
	touch(t, root, "AI", "readme.md")

	_, err := Generate(root, []string{"AI", "Others"}, ".pdf", nil)
	assert.ErrorIs(t, err, ErrNothingToReport)
}

func TestCorrectness(t *testing.T) {
	tests := []struct {
		name    string
		records []types.Placement
		want    float64
	}{
		{"no records", nil, 0},
		{"all correct", []types.Placement{{Expected: "SQL", Actual: "SQL"}, {Expected: "AI", Actual: "AI"}}, 100},
		{"unmatched counts as incorrect", []types.Placement{{Expected: "SQL", Actual: "SQL"}, {Expected: "", Actual: "Others"}}, 50},
		{"one of three", []types.Placement{{Expected: "RAG", Actual: "RAG"}, {Expected: "Java", Actual: "C"}, {Expected: "Math", Actual: "Others"}}, 100.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Correctness(tt.records), 1e-9)
		})
	}
}

func TestOracle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labels:\n  python_intro.pdf: Python\n  holiday.pdf: Others\n"), 0o644))

	o, err := LoadOracle(path)
	require.NoError(t, err)
	assert.Equal(t, Oracle{"python_intro.pdf": "Python", "holiday.pdf": "Others"}, o)

	records := []types.Placement{
		{Filename: "python_intro.pdf", Expected: "Python", Actual: "Python"},
		{Filename: "holiday.pdf", Expected: "", Actual: "Others"},
		{Filename: "unlabeled.pdf", Expected: "SQL", Actual: "SQL"},
	}
	applied := o.Apply(records)
	require.Len(t, applied, 2)
	assert.Equal(t, "Others", applied[1].Expected)
	assert.InDelta(t, 100.0, Correctness(applied), 1e-9)

	// The input records are left untouched.
	assert.Equal(t, "", records[1].Expected)
}

func TestLoadOracleErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadOracle(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("labels: [oops"), 0o644))
	_, err = LoadOracle(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	o, err := LoadOracle(empty)
	require.NoError(t, err)
	assert.Empty(t, o)
}

func sampleReport() *Report {
	return &Report{
		Categories: []CategoryShare{
			{Category: "Programming", Count: 2, Percent: 66.666666},
			{Category: "Others", Count: 1, Percent: 33.333333},
		},
		Total:       3,
		Correctness: 100,
		Records:     3,
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), types.FormatText))
	want := "\nAnalysis Report:\nProgramming: 66.67%\nOthers: 33.33%\nCorrectness Score: 100.00%\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, sampleReport(), ""))
	assert.Equal(t, want, buf.String())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), types.FormatTable))
	out := buf.String()
	assert.Contains(t, out, "Programming")
	assert.Contains(t, out, "66.67%")
	assert.Contains(t, out, "100.00%")
}

func TestRenderStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), types.FormatJSON))
	var fromJSON Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, 3, fromJSON.Total)

	buf.Reset()
	require.NoError(t, Render(&buf, sampleReport(), types.FormatYAML))
	var fromYAML Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "Others", fromYAML.Categories[1].Category)
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleReport(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestRenderNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderNothing(&buf))
	assert.Equal(t, "No PDF files found in the specified folder.\n", buf.String())
}
