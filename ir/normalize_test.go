package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Tag
	}{
		{"already canonical", "field-id", "field-id"},
		{"upper snake", "FIELD_ID", "field-id"},
		{"lower snake", "field_id", "field-id"},
		{"mixed case", "Field_Id", "field-id"},
		{"single word", "AND", "and"},
		{"symbol tag", "=", "="},
		{"comparison tag", "!=", "!="},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTag(tt.input))
		})
	}
}

func TestNormalizeTagIdempotent(t *testing.T) {
	inputs := []string{"FIELD_ID", "field-id", "Field_Id", "not", "=", "IS_NULL"}

	for _, in := range inputs {
		once := NormalizeTag(in)
		assert.Equal(t, once, NormalizeTag(once), "normalize must be idempotent for %q", in)
	}
}

func TestNormalizeTagSpellingsConverge(t *testing.T) {
	assert.Equal(t, NormalizeTag("FIELD_ID"), NormalizeTag("field-id"))
	assert.Equal(t, NormalizeTag("field-id"), NormalizeTag("Field_Id"))
}

func TestNormalizeTagAcceptsTagAndString(t *testing.T) {
	assert.Equal(t, Tag("field-id"), NormalizeTag(Tag("FIELD_ID")))
	assert.Equal(t, Tag("field-id"), NormalizeTag(String("Field_Id")))
}
