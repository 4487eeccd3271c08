package sqlexec

import (
	"sort"
	"strings"
)

// ExpandSet rewrites the "SET ?" shorthand: every ? placeholder whose
// argument is a Record is replaced by an ordered `col` = ?, `col` = ?
// assignment list with the record's values spliced into the argument slice.
// Non-record arguments keep their placeholder and position.
//
// Record keys are sorted so the produced statement is deterministic
// regardless of map iteration order.
func ExpandSet(query string, args []any) (string, []any) {
	var b strings.Builder
	b.Grow(len(query))
	out := make([]any, 0, len(args))

	argi := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '?' || argi >= len(args) {
			b.WriteByte(c)
			continue
		}

		arg := args[argi]
		argi++

		rec, ok := arg.(Record)
		if !ok {
			b.WriteByte('?')
			out = append(out, arg)
			continue
		}

		cols := make([]string, 0, len(rec))
		for col := range rec {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		for j, col := range cols {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('`')
			b.WriteString(col)
			b.WriteString("` = ?")
			out = append(out, rec[col])
		}
	}

	// Unconsumed placeholders past the argument list stay as written; the
	// server rejects them, which is the right failure surface.
	return b.String(), out
}
