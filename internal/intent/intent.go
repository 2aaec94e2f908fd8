package intent

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Intent is the taxonomy filter set inferred from a raw query. It only ever
// augments explicit filters, it never replaces them.
type Intent struct {
	Capabilities []string `json:"capabilities"`
	Industries   []string `json:"industries"`
}

// Tables map lowercase keywords to taxonomy slugs. Multiple matches are all
// included; detection is a union, not a choice.
type Tables struct {
	Capabilities map[string]string `yaml:"capabilities"`
	Industries   map[string]string `yaml:"industries"`
}

// Detector is a pure keyword matcher. It holds no connections and makes no
// external calls, so it can be swapped for a learned classifier later.
type Detector struct {
	tables Tables
}

func NewDetector(tables Tables) *Detector {
	return &Detector{tables: tables}
}

func NewDefaultDetector() *Detector {
	return NewDetector(defaultTables())
}

// LoadTables reads keyword tables from a YAML file, merging over defaults.
func LoadTables(path string) (Tables, error) {
	tables := defaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read intent tables: %w", err)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Tables{}, fmt.Errorf("failed to parse intent tables: %w", err)
	}

	for keyword, slug := range override.Capabilities {
		tables.Capabilities[strings.ToLower(keyword)] = slug
	}
	for keyword, slug := range override.Industries {
		tables.Industries[strings.ToLower(keyword)] = slug
	}

	return tables, nil
}

// Detect lowercases the query and unions every table hit.
func (d *Detector) Detect(query string) Intent {
	lowered := strings.ToLower(query)

	return Intent{
		Capabilities: matchSlugs(lowered, d.tables.Capabilities),
		Industries:   matchSlugs(lowered, d.tables.Industries),
	}
}

func matchSlugs(lowered string, table map[string]string) []string {
	seen := make(map[string]bool)
	var slugs []string

	for keyword, slug := range table {
		if strings.Contains(lowered, keyword) && !seen[slug] {
			seen[slug] = true
			slugs = append(slugs, slug)
		}
	}

	// Map iteration order is random; keep output deterministic.
	sort.Strings(slugs)

	return slugs
}

func defaultTables() Tables {
	return Tables{
		Capabilities: map[string]string{
			"brand":           "brand-strategy",
			"branding":        "brand-strategy",
			"rebrand":         "brand-strategy",
			"positioning":     "brand-strategy",
			"messaging":       "brand-strategy",
			"naming":          "brand-strategy",
			"content":         "content-strategy",
			"editorial":       "content-strategy",
			"storytelling":    "content-strategy",
			"thought leader":  "content-strategy",
			"campaign":        "campaigns",
			"launch":          "campaigns",
			"go-to-market":    "campaigns",
			"advertising":     "campaigns",
			"design":          "design",
			"visual":          "design",
			"identity":        "design",
			"website":         "web-development",
			"web ":            "web-development",
			"digital product": "web-development",
			"video":           "video-production",
			"film":            "video-production",
			"animation":       "video-production",
		},
		Industries: map[string]string{
			"fintech":        "fintech",
			"finance":        "fintech",
			"banking":        "fintech",
			"payments":       "fintech",
			"health":         "healthcare",
			"medical":        "healthcare",
			"biotech":        "healthcare",
			"pharma":         "healthcare",
			"software":       "technology",
			"startup":        "technology",
			"saas":           "technology",
			"cloud":          "technology",
			"consumer":       "consumer",
			"retail":         "consumer",
			"ecommerce":      "consumer",
			"cpg":            "consumer",
			"nonprofit":      "nonprofit",
			"non-profit":     "nonprofit",
			"foundation":     "nonprofit",
			"social impact":  "nonprofit",
			"sustainability": "climate",
			"climate":        "climate",
			"energy":         "climate",
		},
	}
}
