//go:build mage

package main

import (
	"fmt"
	"os"
)

const starterConfig = `# paper-sorter configuration
sorter:
  root: ""
  taxonomy: taxonomy.yaml
  suffix: .pdf
  workers: 1
  bootstrap: true
report:
  format: text
ledger:
  path: .paper-sorter/ledger.db
log:
  level: info
  format: auto
`

const starterTaxonomy = `# Categories are tried in order; within a category, subcategories come first.
Programming: [Python, Java, C]
AI: [Machine_Learning, Neural_Networks, RAG]
Math: [Linear_Algebra, Calculus]
Database: [SQL, NoSQL, PostgreSQL]
Security: [Cryptography, DDOS_Attacks, Network_Security]
Others: []
`

// Init writes a starter paper-sorter.yaml and taxonomy.yaml into the current
// directory. Existing files are left alone.
func Init() error {
	for name, content := range map[string]string{
		"paper-sorter.yaml": starterConfig,
		"taxonomy.yaml":     starterTaxonomy,
	} {
		if _, err := os.Stat(name); err == nil {
			fmt.Println("  exists:", name)
			continue
		}
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		fmt.Println("  wrote: ", name)
	}
	return nil
}
