// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category is a top-level classification bucket with its ordered subcategories.
type Category struct {
	// Name is the category label and its directory name under the root.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Subcategories are tested before Name, in order.
	Subcategories []string `json:"subcategories" yaml:"subcategories" toml:"subcategories"`
}

// Taxonomy is the ordered category definition used for matching.
// Category and subcategory names are unique across the whole taxonomy.
type Taxonomy struct {
	Categories []Category `json:"categories" yaml:"categories" toml:"category"`
}

// Names returns the top-level category names in taxonomy order.
func (t Taxonomy) Names() []string {
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Terms returns every category and subcategory name in match order.
func (t Taxonomy) Terms() []string {
	var terms []string
	for _, c := range t.Categories {
		terms = append(terms, c.Subcategories...)
		terms = append(terms, c.Name)
	}
	return terms
}

// Has reports whether the taxonomy defines a category called name.
func (t Taxonomy) Has(name string) bool {
	for _, c := range t.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}
