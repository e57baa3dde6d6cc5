package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"bakuscan/models"
)

// Catalog is the static Bakugan reference list, loaded once at startup and
// immutable afterwards.
type Catalog struct {
	entries []models.CatalogEntry
	names   []string
}

// Load reads the catalog JSON file at the given path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}

	var entries []models.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog: %q contains no entries", path)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}

	return &Catalog{entries: entries, names: names}, nil
}

// Entries returns all catalog entries.
func (c *Catalog) Entries() []models.CatalogEntry {
	return c.entries
}

// Names returns the names of every known Bakugan, in catalog order.
func (c *Catalog) Names() []string {
	return c.names
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
