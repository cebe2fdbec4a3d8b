// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps filenames to taxonomy labels by whole-word keyword
// matching. Classification is pure: the result depends only on the filename
// and the taxonomy.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

// termSeparators are interchangeable inside a term and a filename.
const termSeparators = "_- "

type categoryMatcher struct {
	name    string
	self    *regexp.Regexp
	subs    []string
	subsRes []*regexp.Regexp
}

// Classifier holds precompiled matchers for one taxonomy.
// It is safe for concurrent use.
type Classifier struct {
	fallback string
	matchers []categoryMatcher
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithFallback sets the bucket for filenames that match nothing
// (default types.FallbackCategory).
func WithFallback(name string) Option {
	return func(c *Classifier) { c.fallback = name }
}

// New compiles a matcher for every term in tax.
func New(tax types.Taxonomy, opts ...Option) (*Classifier, error) {
	c := &Classifier{fallback: types.FallbackCategory}
	for _, opt := range opts {
		opt(c)
	}

	for _, cat := range tax.Categories {
		self, err := compileTerm(cat.Name)
		if err != nil {
			return nil, err
		}
		m := categoryMatcher{name: cat.Name, self: self}
		for _, sub := range cat.Subcategories {
			re, err := compileTerm(sub)
			if err != nil {
				return nil, err
			}
			m.subs = append(m.subs, sub)
			m.subsRes = append(m.subsRes, re)
		}
		c.matchers = append(c.matchers, m)
	}
	return c, nil
}

// Classify returns the label for filename. Categories are tried in taxonomy
// order; within a category every subcategory is tried before the category's
// own name, and the first hit wins.
func (c *Classifier) Classify(filename string) types.Label {
	name := fold(filename)
	for _, m := range c.matchers {
		for i, re := range m.subsRes {
			if re.MatchString(name) {
				return types.Label{Category: m.name, Subcategory: m.subs[i], Matched: true}
			}
		}
		if m.self.MatchString(name) {
			return types.Label{Category: m.name, Subcategory: m.name, Matched: true}
		}
	}
	return types.Fallback(c.fallback)
}

// Classify is a convenience wrapper that compiles tax on every call.
func Classify(filename string, tax types.Taxonomy) (types.Label, error) {
	c, err := New(tax)
	if err != nil {
		return types.Label{}, err
	}
	return c.Classify(filename), nil
}

// Match reports whether term occurs in filename as a whole word.
func Match(term, filename string) (bool, error) {
	re, err := compileTerm(term)
	if err != nil {
		return false, err
	}
	return re.MatchString(fold(filename)), nil
}

// compileTerm builds the pattern for one term. The term must not be preceded
// by a letter, digit or '_', and must not be followed by a letter or digit.
// Letters and digits are Unicode classes, so "épython" and "pythonähnlich"
// do not contain "python". Separators inside the term match any separator in
// the filename.
func compileTerm(term string) (*regexp.Regexp, error) {
	parts := strings.FieldsFunc(fold(term), func(r rune) bool {
		return strings.ContainsRune(termSeparators, r)
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("term %q has no matchable characters", term)
	}
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	pattern := `(?:^|[^\p{L}\p{N}_])` + strings.Join(parts, `[_\- ]`) + `(?:$|[^\p{L}\p{N}_]|_|-)`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling term %q: %w", term, err)
	}
	return re, nil
}

// fold lowercases s for caseless comparison. A cases.Caser keeps state, so a
// fresh one is used per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
