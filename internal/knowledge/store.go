package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store reads per-topic plain-text corpus files from a directory. A missing
// file means the topic has no static document; it is not an error.
type Store struct {
	dir string
}

// NewStore creates a corpus store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Read returns the corpus text for a domain. ok is false when no file
// exists for the domain.
func (s *Store) Read(domain string) (string, bool, error) {
	path := filepath.Join(s.dir, domain+".txt")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read corpus %s: %w", domain, err)
	}
	return string(data), true, nil
}

// Domains lists all domains with a static corpus file, sorted.
func (s *Store) Domains() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list corpus dir: %w", err)
	}

	var domains []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		domains = append(domains, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(domains)
	return domains, nil
}
