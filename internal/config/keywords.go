package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywordYAML []byte

// keywordFile is the on-disk shape of the keyword catalog.
type keywordFile struct {
	Reserved       []string `yaml:"reserved"`
	Functions      []string `yaml:"functions"`
	DialectMarkers []string `yaml:"dialect_markers"`
}

// Keywords is an immutable catalog of SQL reserved words and function names.
// It is populated once and never mutated afterwards, so it is safe to share
// across the analysis passes without synchronization.
type Keywords struct {
	words map[string]struct{}
}

// Contains reports whether the word (case-insensitive) is a reserved word or
// a known SQL function name.
func (k *Keywords) Contains(word string) bool {
	if k == nil {
		return false
	}
	_, ok := k.words[strings.ToUpper(word)]
	return ok
}

// Len returns the catalog size. Used only for startup logging.
func (k *Keywords) Len() int { return len(k.words) }

// NewKeywords builds a catalog from explicit word lists. Intended for tests
// that need a small injected keyword set.
func NewKeywords(words ...string) *Keywords {
	k := &Keywords{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		k.words[strings.ToUpper(w)] = struct{}{}
	}
	return k
}

// LoadKeywords parses a YAML keyword catalog. An empty path loads the
// embedded default catalog.
func LoadKeywords(path string) (*Keywords, error) {
	data := defaultKeywordYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read keyword file: %w", err)
		}
		data = b
	}

	var kf keywordFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keyword file: %w", err)
	}

	k := &Keywords{words: make(map[string]struct{}, len(kf.Reserved)+len(kf.Functions))}
	for _, w := range kf.Reserved {
		k.words[strings.ToUpper(w)] = struct{}{}
	}
	for _, w := range kf.Functions {
		k.words[strings.ToUpper(w)] = struct{}{}
	}
	return k, nil
}

var (
	defaultKeywords     *Keywords
	defaultKeywordsOnce sync.Once
)

// DefaultKeywords returns the embedded catalog, parsed once per process.
// The embedded YAML is compiled in, so parsing cannot fail at runtime.
func DefaultKeywords() *Keywords {
	defaultKeywordsOnce.Do(func() {
		k, err := LoadKeywords("")
		if err != nil {
			panic(fmt.Sprintf("embedded keyword catalog invalid: %v", err))
		}
		defaultKeywords = k
	})
	return defaultKeywords
}
