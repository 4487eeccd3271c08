package adapter

import (
	"strconv"
	"time"

	"github.com/tendant/authstore/pkg/sqlexec"
)

// firstRow returns the first row of a result, or nil when the result holds
// no rows. nil is the adapter's only not-found signal.
func firstRow(res *sqlexec.Result) Record {
	if res == nil || len(res.Rows) == 0 {
		return nil
	}
	return res.Rows[0]
}

// asString renders a generated insert id as a string. The query protocol
// reports insert ids as either a JSON string or a number depending on the
// executor, and the framework contract wants user ids as strings always.
func asString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case int64:
		return strconv.FormatInt(id, 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case int:
		return strconv.Itoa(id)
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case nil:
		return ""
	default:
		return ""
	}
}

// Layouts a session expiry can arrive in, depending on which executor
// produced the row.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// coerceTime turns a session expiry value into a time.Time. String values
// are parsed against the known layouts, numeric values are treated as epoch
// milliseconds. Values that cannot be interpreted pass through unchanged
// rather than failing the whole lookup.
func coerceTime(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
		return v
	case int64:
		return time.UnixMilli(t)
	case float64:
		return time.UnixMilli(int64(t))
	default:
		return v
	}
}
