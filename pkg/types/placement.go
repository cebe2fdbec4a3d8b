// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FallbackCategory is the destination for files that match no taxonomy term.
const FallbackCategory = "Others"

// Label is the outcome of classifying one filename.
//
// A subcategory match sets Subcategory to the matched term. A bare category
// match sets Subcategory equal to Category. When nothing matched, Matched is
// false and both fields name the fallback bucket.
type Label struct {
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory" yaml:"subcategory"`
	Matched     bool   `json:"matched" yaml:"matched"`
}

// Fallback returns the label for an unmatched file.
func Fallback(name string) Label {
	return Label{Category: name, Subcategory: name}
}

// Term returns the matched taxonomy term, or "" when nothing matched.
func (l Label) Term() string {
	if !l.Matched {
		return ""
	}
	return l.Subcategory
}

// Leaf returns the name of the folder the file is placed into.
func (l Label) Leaf() string {
	return l.Subcategory
}

// Segments returns the directory segments below the root.
func (l Label) Segments() []string {
	if l.Subcategory == "" || l.Subcategory == l.Category {
		return []string{l.Category}
	}
	return []string{l.Category, l.Subcategory}
}

// String renders the label as a relative folder path.
func (l Label) String() string {
	segs := l.Segments()
	if len(segs) == 1 {
		return segs[0]
	}
	return segs[0] + "/" + segs[1]
}

// Placement records where one file ended up. It is created when the file is
// relocated and never changes afterwards.
type Placement struct {
	// Filename is the base name of the file.
	Filename string `json:"filename" yaml:"filename"`

	// Source is the path the file was discovered at.
	Source string `json:"source" yaml:"source"`

	// Destination is the path the file was moved to.
	Destination string `json:"destination" yaml:"destination"`

	// Expected is the taxonomy term the filename matched, or "" for none.
	Expected string `json:"expected" yaml:"expected"`

	// Actual is the folder the file was placed into.
	Actual string `json:"actual" yaml:"actual"`
}

// Correct reports whether the file landed where it was expected to.
func (p Placement) Correct() bool {
	return p.Expected == p.Actual
}
