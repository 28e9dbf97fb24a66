package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jobboard/discovery-service/internal/model"
)

// Catalog is the YAML document behind SOURCES_FILE. Any section left out of
// the file keeps its built-in default.
type Catalog struct {
	Sources    []model.Source   `yaml:"sources"`
	Vocabulary model.Vocabulary `yaml:"vocabulary"`
}

// LoadCatalog reads a sources/vocabulary catalog from path.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a catalog and fills missing sections from defaults.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	if len(c.Sources) == 0 {
		c.Sources = DefaultSources()
	}
	for i := range c.Sources {
		if c.Sources[i].Currency == "" {
			c.Sources[i].Currency = "AED"
		}
		if c.Sources[i].JobType == "" {
			c.Sources[i].JobType = "Full-time"
		}
	}

	def := DefaultVocabulary()
	v := &c.Vocabulary
	if len(v.Technologies) == 0 {
		v.Technologies = def.Technologies
	}
	if len(v.Emirates) == 0 {
		v.Emirates = def.Emirates
	}
	if len(v.DomainKeywords) == 0 {
		v.DomainKeywords = def.DomainKeywords
	}
	if len(v.BonusKeywords) == 0 {
		v.BonusKeywords = def.BonusKeywords
	}
	if len(v.FallbackKeywords) == 0 {
		v.FallbackKeywords = def.FallbackKeywords
	}
	return c, nil
}
