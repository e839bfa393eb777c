package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is a named group of locations
type Category struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Locations []string `yaml:"locations" json:"locations"`
}

// SpyTier maps a player-count ceiling to the number of spies dealt
type SpyTier struct {
	MaxPlayers int `yaml:"maxPlayers" json:"maxPlayers"`
	Spies      int `yaml:"spies" json:"spies"`
}

// Collection represents the full YAML structure
type Collection struct {
	SpyTiers   []SpyTier  `yaml:"spyTiers"`
	Categories []Category `yaml:"categories"`
}

// DefaultSpyTiers is used when the catalog file does not define any tiers
var DefaultSpyTiers = []SpyTier{
	{MaxPlayers: 8, Spies: 1},
	{MaxPlayers: 15, Spies: 2},
	{MaxPlayers: 20, Spies: 3},
}

// Catalog holds the loaded categories and spy tiers. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	categories []Category
	byID       map[string]*Category
	tiers      []SpyTier
}

// New creates a Catalog from YAML data
func New(data []byte) (*Catalog, error) {
	var collection Collection
	if err := yaml.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse location catalog: %w", err)
	}

	if len(collection.SpyTiers) == 0 {
		collection.SpyTiers = DefaultSpyTiers
	}

	c := &Catalog{
		categories: collection.Categories,
		byID:       make(map[string]*Category, len(collection.Categories)),
		tiers:      collection.SpyTiers,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	for i := range c.categories {
		c.byID[c.categories[i].ID] = &c.categories[i]
	}
	return c, nil
}

// Load reads a catalog from a YAML file on disk
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read location catalog %s: %w", path, err)
	}
	return New(data)
}

func (c *Catalog) validate() error {
	if len(c.categories) == 0 {
		return fmt.Errorf("catalog defines no categories")
	}

	seen := make(map[string]bool, len(c.categories))
	for _, cat := range c.categories {
		if cat.ID == "" {
			return fmt.Errorf("category %q has no id", cat.Name)
		}
		if seen[cat.ID] {
			return fmt.Errorf("duplicate category id %s", cat.ID)
		}
		seen[cat.ID] = true
		if len(cat.Locations) == 0 {
			return fmt.Errorf("category %s has no locations", cat.ID)
		}
		for _, loc := range cat.Locations {
			if loc == "" {
				return fmt.Errorf("category %s has an empty location name", cat.ID)
			}
		}
	}

	prev := 0
	for i, tier := range c.tiers {
		if tier.Spies < 1 {
			return fmt.Errorf("spy tier %d: spies must be at least 1", i)
		}
		if tier.MaxPlayers <= prev {
			return fmt.Errorf("spy tier %d: maxPlayers must be ascending", i)
		}
		prev = tier.MaxPlayers
	}
	return nil
}

// Categories returns the categories in catalog order
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category looks up a category by id
func (c *Catalog) Category(id string) (Category, bool) {
	cat, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return *cat, true
}

// LocationsForCategories concatenates the locations of the given categories in
// the order the ids are listed. Locations shared by several categories appear
// once per category. Unknown ids contribute nothing.
func (c *Catalog) LocationsForCategories(ids []string) []string {
	var locations []string
	for _, id := range ids {
		if cat, ok := c.byID[id]; ok {
			locations = append(locations, cat.Locations...)
		}
	}
	return locations
}

// SpyCount returns the number of spies for a roster of the given size. Rosters
// larger than the last tier use the last tier's count.
func (c *Catalog) SpyCount(playerCount int) int {
	for _, tier := range c.tiers {
		if playerCount <= tier.MaxPlayers {
			return tier.Spies
		}
	}
	return c.tiers[len(c.tiers)-1].Spies
}

// SpyTiers returns a copy of the configured tiers
func (c *Catalog) SpyTiers() []SpyTier {
	out := make([]SpyTier, len(c.tiers))
	copy(out, c.tiers)
	return out
}
