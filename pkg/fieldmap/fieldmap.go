// Package fieldmap rewrites the top-level keys of flat records from the
// camelCase names used by the authentication framework to the snake_case
// column names used by the storage schema.
//
// Only the write direction exists. Read paths hand storage rows back with
// their column names intact; there is deliberately no snake_case to camelCase
// mapper anywhere in this module (see pkg/adapter for the consequences).
package fieldmap

import "strings"

// ToSnakeCase rewrites a single field name by inserting an underscore before
// each ASCII uppercase letter and lowercasing it. "providerAccountId" becomes
// "provider_account_id". Names without uppercase letters pass through
// unchanged.
func ToSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(byte(r) - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SnakeCaseFlat returns a copy of rec with every top-level key rewritten via
// ToSnakeCase. Values are passed through untouched: nested maps and slices
// are not descended into, only the outermost keys are rewritten.
func SnakeCaseFlat(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[ToSnakeCase(k)] = v
	}
	return out
}
