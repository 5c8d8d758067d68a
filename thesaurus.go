package blaze

import (
	"encoding/json"
	"os"
)

// Thesaurus holds a persisted term -> set(term) mapping over already-
// stemmed terms, loaded once and consulted during free-text expansion.
type Thesaurus struct {
	entries map[string][]string
}

// LoadThesaurus reads a JSON object of "term": ["synonym", ...] pairs.
func LoadThesaurus(path string) (*Thesaurus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return &Thesaurus{entries: entries}, nil
}

// Lookup returns the synonyms registered for a stemmed term, or nil.
func (t *Thesaurus) Lookup(stem string) []string {
	if t == nil {
		return nil
	}
	return t.entries[stem]
}
