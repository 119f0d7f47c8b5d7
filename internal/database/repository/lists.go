// Package repository exposes typed read access to the in-memory catalog
// index. Upserts exist only for seeding; after startup every caller is a
// reader.
package repository

import "strings"

// List-valued fixture fields travel as one TEXT column, newline-joined.
// Entries never contain newlines.

func joinList(items []string) string {
	return strings.Join(items, "\n")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
