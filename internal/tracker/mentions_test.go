//go:build unit

package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFindMentions tests @handle extraction from free text
func TestFindMentions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single mention",
			text:     "please look at this @bob",
			expected: []string{"bob"},
		},
		{
			name:     "multiple mentions keep order",
			text:     "@carol saw it first, then @alice confirmed",
			expected: []string{"carol", "alice"},
		},
		{
			name:     "duplicates reported once",
			text:     "@bob and @bob again",
			expected: []string{"bob"},
		},
		{
			name:     "email address is not a mention",
			text:     "reach me at user@example.com",
			expected: nil,
		},
		{
			name:     "hyphen and underscore in handle",
			text:     "ping @dev-team_2 about this",
			expected: []string{"dev-team_2"},
		},
		{
			name:     "no mentions",
			text:     "nothing to see here",
			expected: nil,
		},
		{
			name:     "bare at sign",
			text:     "meet @ noon",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindMentions(tt.text))
		})
	}
}
