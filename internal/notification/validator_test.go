package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSendable(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  bool
	}{
		{"title and body", "Hello", "World", true},
		{"empty title", "", "World", true},
		{"non-word title", "---", "World", false},
		{"whitespace title", "   ", "World", false},
		{"empty body", "Hello", "", false},
		{"both empty", "", "", false},
		{"non-word body", "Hello", "!!!", false},
		{"unicode body", "", "héllo wörld", true},
		{"digits count as words", "1", "2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSendable(tt.title, tt.body))
		})
	}
}
