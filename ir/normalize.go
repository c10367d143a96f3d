package ir

import "strings"

// NormalizeTag canonicalizes a clause tag: lowercase, underscores replaced
// with hyphens. Input may arrive upper-snake ("FIELD_ID"), lower-snake
// ("field_id"), or mixed case; all spellings normalize to one form
// ("field-id"). Total and idempotent: NormalizeTag of a canonical tag is
// the same tag.
func NormalizeTag[T ~string](tag T) Tag {
	return Tag(strings.ReplaceAll(strings.ToLower(string(tag)), "_", "-"))
}
