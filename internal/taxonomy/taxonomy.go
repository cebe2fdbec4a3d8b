// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy loads and validates the category tree used to classify
// filenames. Taxonomy files are YAML (a mapping of category to subcategory
// list, in document order) or TOML (an array of [[category]] tables).
package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

// ErrEmpty is returned when a taxonomy defines no categories.
var ErrEmpty = errors.New("taxonomy defines no categories")

// Load reads a taxonomy file, choosing the decoder by extension, and
// validates the result.
func Load(path string) (types.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Taxonomy{}, fmt.Errorf("reading taxonomy %s: %w", path, err)
	}

	var t types.Taxonomy
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		t, err = ParseYAML(data)
	case ".toml":
		t, err = ParseTOML(data)
	default:
		return types.Taxonomy{}, fmt.Errorf("unsupported taxonomy format %q (want .yaml, .yml, or .toml)", ext)
	}
	if err != nil {
		return types.Taxonomy{}, fmt.Errorf("parsing taxonomy %s: %w", path, err)
	}

	if err := Validate(t); err != nil {
		return types.Taxonomy{}, fmt.Errorf("invalid taxonomy %s: %w", path, err)
	}
	return t, nil
}

// ParseYAML decodes a mapping of category name to subcategory list. Go maps
// do not keep insertion order, so the document is walked as a node tree.
func ParseYAML(data []byte) (types.Taxonomy, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.Taxonomy{}, err
	}
	if len(doc.Content) == 0 {
		return types.Taxonomy{}, ErrEmpty
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return types.Taxonomy{}, fmt.Errorf("line %d: expected a mapping of category to subcategories", root.Line)
	}

	var t types.Taxonomy
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var subs []string
		if val.Tag != "!!null" {
			if err := val.Decode(&subs); err != nil {
				return types.Taxonomy{}, fmt.Errorf("category %q (line %d): %w", key.Value, key.Line, err)
			}
		}
		t.Categories = append(t.Categories, types.Category{Name: key.Value, Subcategories: subs})
	}
	return t, nil
}

// ParseTOML decodes an array of [[category]] tables.
func ParseTOML(data []byte) (types.Taxonomy, error) {
	var t types.Taxonomy
	if err := toml.Unmarshal(data, &t); err != nil {
		return types.Taxonomy{}, err
	}
	return t, nil
}

// MarshalYAML renders t in the mapping form accepted by ParseYAML.
func MarshalYAML(t types.Taxonomy) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range t.Categories {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, s := range c.Subcategories {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: s})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Name},
			seq,
		)
	}
	return yaml.Marshal(root)
}

// Validate checks that t has at least one category and that every name is
// non-empty, usable as a single directory segment, and unique across the
// taxonomy regardless of case.
func Validate(t types.Taxonomy) error {
	if len(t.Categories) == 0 {
		return ErrEmpty
	}

	fold := cases.Fold()
	seen := make(map[string]string)
	check := func(name, where string) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s: empty name", where)
		}
		if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s: %q is not a valid directory name", where, name)
		}
		key := fold.String(name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s: %q duplicates %s", where, name, prev)
		}
		seen[key] = where
		return nil
	}

	for i, c := range t.Categories {
		where := fmt.Sprintf("category %d (%s)", i+1, c.Name)
		if err := check(c.Name, where); err != nil {
			return err
		}
		for j, s := range c.Subcategories {
			if err := check(s, fmt.Sprintf("%s subcategory %d", where, j+1)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Categories returns the top-level names to report on: the taxonomy's
// categories followed by the fallback bucket when the taxonomy does not
// define it.
func Categories(t types.Taxonomy, fallback string) []string {
	names := t.Names()
	if fallback != "" && !t.Has(fallback) {
		names = append(names, fallback)
	}
	return names
}
