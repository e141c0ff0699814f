package classifier

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

// Category is one store of the knowledge base.
type Category struct {
	Name     domain.Store `yaml:"name"`
	URL      string       `yaml:"url"`
	Keywords []string     `yaml:"keywords"`
}

type Alias struct {
	Alias string       `yaml:"alias"`
	Store domain.Store `yaml:"store"`
}

// KnowledgeBase holds the keyword tables used to classify items. Keywords and
// aliases are case-folded when the knowledge base is parsed.
type KnowledgeBase struct {
	Supermarkets []Category `yaml:"supermarkets"`
	Specialty    []Category `yaml:"specialty"`
	Aliases      []Alias    `yaml:"aliases"`
	Generic      []string   `yaml:"generic"`
	AnyURL       string     `yaml:"any_url"`
}

var loadDefault = sync.OnceValues(func() (*KnowledgeBase, error) {
	return ParseKnowledge(defaultKnowledge)
})

// DefaultKnowledge returns the built-in knowledge base.
func DefaultKnowledge() (*KnowledgeBase, error) {
	return loadDefault()
}

// LoadKnowledge reads a knowledge base from a YAML file.
func LoadKnowledge(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	return ParseKnowledge(data)
}

func ParseKnowledge(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if len(kb.Supermarkets) == 0 {
		return nil, fmt.Errorf("knowledge base has no supermarkets")
	}

	known := make(map[domain.Store]bool)
	for _, c := range append(slices.Clone(kb.Supermarkets), kb.Specialty...) {
		if c.Name == "" {
			return nil, fmt.Errorf("knowledge base has a store without a name")
		}
		known[c.Name] = true
	}

	for i := range kb.Specialty {
		kb.Specialty[i].Keywords = foldAll(kb.Specialty[i].Keywords)
	}
	for i, a := range kb.Aliases {
		if !known[a.Store] {
			return nil, fmt.Errorf("alias %q refers to unknown store %q", a.Alias, a.Store)
		}
		kb.Aliases[i].Alias = domain.Fold(a.Alias)
	}
	kb.Generic = foldAll(kb.Generic)

	return &kb, nil
}

func foldAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if f := domain.Fold(w); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// NormalizeHint maps a free-form store mention onto a known store. It tries
// supermarket names, then specialty names, then aliases.
func (kb *KnowledgeBase) NormalizeHint(hint string) (domain.Store, bool) {
	h := domain.Fold(hint)
	if h == "" {
		return "", false
	}

	for _, c := range kb.Supermarkets {
		if strings.Contains(h, domain.Fold(string(c.Name))) {
			return c.Name, true
		}
	}
	for _, c := range kb.Specialty {
		if strings.Contains(h, domain.Fold(string(c.Name))) {
			return c.Name, true
		}
	}
	for _, a := range kb.Aliases {
		if strings.Contains(h, a.Alias) {
			return a.Store, true
		}
	}
	return "", false
}

// SpecialtyFor returns the first specialty store, in priority order, with a
// keyword contained in the folded name.
func (kb *KnowledgeBase) SpecialtyFor(name string) (domain.Store, bool) {
	for _, c := range kb.Specialty {
		for _, kw := range c.Keywords {
			if strings.Contains(name, kw) {
				return c.Name, true
			}
		}
	}
	return "", false
}

func (kb *KnowledgeBase) IsGeneric(name string) bool {
	for _, kw := range kb.Generic {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func (kb *KnowledgeBase) IsSupermarket(s domain.Store) bool {
	for _, c := range kb.Supermarkets {
		if c.Name == s {
			return true
		}
	}
	return false
}

// Stores lists every known store followed by domain.StoreAny.
func (kb *KnowledgeBase) Stores() []domain.Store {
	stores := make([]domain.Store, 0, len(kb.Supermarkets)+len(kb.Specialty)+1)
	for _, c := range kb.Supermarkets {
		stores = append(stores, c.Name)
	}
	for _, c := range kb.Specialty {
		stores = append(stores, c.Name)
	}
	return append(stores, domain.StoreAny)
}

// StoreURL returns where to shop for query online. Supermarkets get a search
// for query; specialty stores get a map search; anything else gets the
// generic search.
func (kb *KnowledgeBase) StoreURL(s domain.Store, query string) string {
	for _, c := range kb.Supermarkets {
		if c.Name == s {
			if query == "" {
				return c.URL
			}
			return c.URL + url.QueryEscape(query)
		}
	}
	for _, c := range kb.Specialty {
		if c.Name == s && c.URL != "" {
			return c.URL
		}
	}
	return kb.AnyURL
}
