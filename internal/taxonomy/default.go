package taxonomy

import "github.com/pdiddy/paper-sorter/pkg/types"

// Default returns the built-in taxonomy used when no taxonomy file is given.
func Default() types.Taxonomy {
	return types.Taxonomy{
		Categories: []types.Category{
			{Name: "Programming", Subcategories: []string{"Python", "Java", "C"}},
			{Name: "AI", Subcategories: []string{"Machine_Learning", "Neural_Networks", "RAG"}},
			{Name: "Math", Subcategories: []string{"Linear_Algebra", "Calculus"}},
			{Name: "Database", Subcategories: []string{"SQL", "NoSQL", "PostgreSQL"}},
			{Name: "Security", Subcategories: []string{"Cryptography", "DDOS_Attacks", "Network_Security"}},
			{Name: types.FallbackCategory},
		},
	}
}
