package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "link list",
			src:      "- [Go](https://go.dev)",
			contains: []string{"<li>", `<a href="https://go.dev">Go</a>`},
		},
		{
			name:     "bold",
			src:      "**Answer:** yes",
			contains: []string{"<strong>Answer:</strong>"},
		},
		{
			name:     "raw html is not passed through",
			src:      "<script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(ToHTML(tt.src))
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, got, e)
			}
		})
	}
}
