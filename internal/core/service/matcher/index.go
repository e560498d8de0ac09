package matcher

import (
	"sort"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// Index maps normalized title variants to metadata records.
// Colliding keys keep the last record registered.
type Index struct {
	entries map[string]domain.MetadataRecord
	keys    []string
}

// BuildIndex registers each record under its lowercased title and under
// its lowercased title with underscores turned into spaces
func BuildIndex(records []domain.MetadataRecord) *Index {
	idx := &Index{entries: make(map[string]domain.MetadataRecord, len(records)*2)}
	for _, record := range records {
		idx.entries[strings.ToLower(record.Title)] = record
		idx.entries[strings.ToLower(strings.ReplaceAll(record.Title, "_", " "))] = record
	}

	idx.keys = make([]string, 0, len(idx.entries))
	for key := range idx.entries {
		idx.keys = append(idx.keys, key)
	}
	sort.Strings(idx.keys)
	return idx
}

// Lookup is a case-insensitive direct lookup
func (i *Index) Lookup(key string) (domain.MetadataRecord, bool) {
	if i == nil {
		return domain.MetadataRecord{}, false
	}
	record, ok := i.entries[strings.ToLower(key)]
	return record, ok
}

// Len returns the number of registered keys
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Keys returns registered keys in ascending order
func (i *Index) Keys() []string {
	if i == nil {
		return nil
	}
	return i.keys
}
