package database

import (
	"database/sql"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"moodjournal/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the built-in set of moods and predefined tags
type Catalog struct {
	Moods []CatalogMood `yaml:"moods"`
	Tags  []string      `yaml:"tags"`
}

// CatalogMood is one mood in the seed catalog
type CatalogMood struct {
	Name      string           `yaml:"name"`
	Sentiment domain.Sentiment `yaml:"sentiment"`
	Emoji     string           `yaml:"emoji"`
}

// DefaultCatalog parses the embedded catalog
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog decodes a catalog document and checks every mood sentiment
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for _, m := range c.Moods {
		if m.Name == "" {
			return nil, fmt.Errorf("catalog mood with empty name")
		}
		if !m.Sentiment.Valid() {
			return nil, fmt.Errorf("catalog mood %q has unknown sentiment %q", m.Name, m.Sentiment)
		}
	}
	return &c, nil
}

// Seed inserts catalog moods that are missing by name, and the predefined
// tags only when the tag table is empty. Safe to run on every start.
func Seed(db *sql.DB, c *Catalog) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range c.Moods {
		_, err := tx.Exec(
			"INSERT INTO moods (name, sentiment, emoji) SELECT ?, ?, ? WHERE NOT EXISTS (SELECT 1 FROM moods WHERE name = ?)",
			m.Name, string(m.Sentiment), m.Emoji, m.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to seed mood %s: %w", m.Name, err)
		}
	}

	var tagCount int
	if err := tx.QueryRow("SELECT COUNT(*) FROM tags").Scan(&tagCount); err != nil {
		return fmt.Errorf("failed to count tags: %w", err)
	}
	if tagCount == 0 {
		for _, name := range c.Tags {
			if _, err := tx.Exec("INSERT INTO tags (name, is_predefined, usage_count) VALUES (?, 1, 0)", name); err != nil {
				return fmt.Errorf("failed to seed tag %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
