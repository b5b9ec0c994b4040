package storage

import (
	"os"
	"strings"
)

// New picks a backend from the path: *.json uses the JSON file store,
// anything else SQLite.
func New(path string) Provider {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

// Open returns a ready provider, creating the cache on first use.
func Open(path string) (Provider, error) {
	p := New(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := p.Init(); err != nil {
			return nil, err
		}
		return p, nil
	}
	if err := p.Load(); err != nil {
		return nil, err
	}
	return p, nil
}
