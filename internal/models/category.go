package models

import (
	"strings"
	"time"
)

// RegistryID is the fixed primary key of the single category registry row.
const RegistryID = 1

// CategoryRegistry is the persisted, de-duplicated set of category labels.
// Labels are compared case-insensitively but stored with the casing of
// their first insertion.
type CategoryRegistry struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	List      StringList `gorm:"serializer:json" json:"list"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MergeCategories unions extra labels into base, case-insensitively,
// preserving base order and the first-seen casing of each label. Newly
// discovered labels are appended in the order given.
func MergeCategories(base []string, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, lists := range [][]string{base, extra} {
		for _, label := range lists {
			key := normalizeCategory(label)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, label)
		}
	}
	return merged
}

// ContainsCategory reports whether label is already in the list, ignoring case.
func ContainsCategory(list []string, label string) bool {
	key := normalizeCategory(label)
	for _, existing := range list {
		if normalizeCategory(existing) == key {
			return true
		}
	}
	return false
}

func normalizeCategory(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
