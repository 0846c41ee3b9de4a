package tenders

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one configured tender feed.
type Source struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // rss (default) or json
	URL  string `yaml:"url"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the tender source list from a YAML file:
//
//	sources:
//	  - name: UNGM
//	    type: rss
//	    url: https://www.ungm.org/rss
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tender sources: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tender sources %s: %w", path, err)
	}
	for i, s := range file.Sources {
		switch strings.ToLower(s.Type) {
		case "", "rss", "atom", "json":
		default:
			return nil, fmt.Errorf("tender source %d (%s) has unknown type %q", i, s.Name, s.Type)
		}
	}
	return file.Sources, nil
}

// Locators turns sources into collector locators, skipping entries without a URL.
func Locators(sources []Source) []string {
	var out []string
	for _, s := range sources {
		u := strings.TrimSpace(s.URL)
		if u == "" {
			continue
		}
		if strings.EqualFold(s.Type, "json") && !strings.HasSuffix(strings.ToLower(u), ".json") {
			u = jsonPrefix + u
		}
		out = append(out, u)
	}
	return out
}

// LoadLocators is LoadSources followed by Locators. An empty path yields nothing.
func LoadLocators(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	sources, err := LoadSources(path)
	if err != nil {
		return nil, err
	}
	return Locators(sources), nil
}
