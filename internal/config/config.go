// Package config loads the YAML front matter that configures how a markly
// document is parsed and rendered.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hesusruiz/vcutils/yaml"
)

// Config holds the parser and renderer options read from a document's YAML
// front matter, plus sensible defaults for documents that carry none.
type Config struct {
	Tabwidth      int
	Subdocs       map[string]bool
	BlockElements []string
	Divs          []string
	Spans         []string
	CodeLanguage  string

	raw *yaml.YAML
}

const defaultTabwidth = 8

var defaultSubdocs = []string{"aside", "note", "warning"}

// Load reads r looking for a leading YAML front-matter block delimited by
// "---" lines. A document with no front matter gets the defaults and is
// otherwise left untouched; the remaining, unconsumed content of r is
// returned so the caller can feed it to markup.Parse.
func Load(r io.Reader) (*Config, io.Reader, error) {
	br := bufio.NewReader(r)

	first, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, nil, err
	}
	if strings.TrimSpace(first) != "---" {
		cfg := defaultConfig()
		return cfg, io.MultiReader(strings.NewReader(first), br), nil
	}

	var front strings.Builder
	var endFound bool
	for {
		line, err := br.ReadString('\n')
		if strings.TrimSpace(line) == "---" {
			endFound = true
			break
		}
		front.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if !endFound {
		return nil, nil, fmt.Errorf("config: end of input reached but no closing \"---\" found for YAML front matter")
	}

	raw, err := yaml.ParseYaml(front.String())
	if err != nil {
		return nil, nil, fmt.Errorf("config: malformed YAML front matter: %w", err)
	}

	cfg := fromYAML(raw)
	return cfg, br, nil
}

func defaultConfig() *Config {
	raw, _ := yaml.ParseYaml("")
	return fromYAML(raw)
}

func fromYAML(raw *yaml.YAML) *Config {
	cfg := &Config{
		Tabwidth: defaultTabwidth,
		Subdocs:  map[string]bool{},
		raw:      raw,
	}
	if raw == nil {
		for _, name := range defaultSubdocs {
			cfg.Subdocs[name] = true
		}
		return cfg
	}

	if v := raw.String("markly.tabwidth", ""); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Tabwidth)
	}
	if cfg.Tabwidth <= 0 {
		cfg.Tabwidth = defaultTabwidth
	}

	subdocs := stringList(raw, "markly.subdocs", defaultSubdocs)
	for _, name := range subdocs {
		cfg.Subdocs[name] = true
	}

	cfg.BlockElements = stringList(raw, "markly.block_elements", nil)
	cfg.Divs = stringList(raw, "markly.divs", nil)
	cfg.Spans = stringList(raw, "markly.spans", nil)
	cfg.CodeLanguage = raw.String("markly.codeLanguage", "")

	return cfg
}

// stringList reads key as a comma-separated string (the vcutils/yaml
// package exposes scalars via String, not native lists), falling back to
// def when the key is absent.
func stringList(raw *yaml.YAML, key string, def []string) []string {
	v := raw.String(key, "")
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StyleName returns the chroma style configured for verbatim-block syntax
// highlighting.
func (c *Config) StyleName() string {
	if c.raw == nil {
		return "github"
	}
	return c.raw.String("markly.codeStyle", "github")
}
