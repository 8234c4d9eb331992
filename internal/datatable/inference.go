package datatable

import (
	"strconv"
	"strings"
	"time"
)

// InferKind classifies a raw string cell the way the CSV/JSON loaders
// sample values before coercion (spec §4.1/§4.2). Empty string and the
// literal "null" (case-insensitive) are Null; everything else is tried
// as Boolean, Integer, Float, a DateTime-shaped string, and finally
// falls back to String.
func InferKind(s string) Kind {
	if s == "" || strings.EqualFold(s, "null") {
		return KindNull
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return KindBoolean
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return KindInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return KindFloat
	}
	if looksLikeDateTime(s) {
		return KindDateTime
	}
	return KindString
}

// dateTimeLayouts are the common timestamp shapes checked before
// falling back to the cheap punctuation heuristic, adapted from the
// teacher's ParseTimestampMillis layout ladder (app/timestamps/parsing.go).
var dateTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01/02/2006 15:04:05",
}

// looksLikeDateTime recognizes a cell as a timestamp: first against a
// short ladder of real layouts (the way the teacher's parser tries
// RFC3339 and friends before anything else), then falling back to a
// permissive dash/colon heuristic for shapes none of those layouts
// cover. Spec §9 flags DateTime ordering as lexicographic and only
// correct for ISO-8601-like inputs — detection is more generous than
// that guarantee, which is why the limitation is documented rather
// than silently assumed away.
func looksLikeDateTime(s string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	if strings.Contains(s, "-") && len(s) >= 8 {
		return true
	}
	if strings.Contains(s, ":") && len(s) >= 5 {
		return true
	}
	return false
}

// CoerceString converts a raw string cell to a Value of the requested
// kind. A coercion failure (e.g. a non-numeric string being coerced to
// Integer) falls back to a plain String value rather than erroring —
// the caller's column degrades to Mixed on its next InferTypes pass
// (spec §4.2: "coercion failure falls back to String for that cell").
func CoerceString(s string, k Kind) Value {
	if s == "" || strings.EqualFold(s, "null") {
		return Null
	}
	switch k {
	case KindString:
		return NewString(s)
	case KindInteger:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewInt(i)
		}
		return NewString(s)
	case KindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return NewFloat(f)
		}
		return NewString(s)
	case KindBoolean:
		lower := strings.ToLower(s)
		return NewBool(lower == "true" || lower == "1" || lower == "yes")
	case KindDateTime:
		return NewDateTime(s)
	case KindMixed:
		return CoerceString(s, InferKind(s))
	default:
		return NewString(s)
	}
}
