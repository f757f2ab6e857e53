package ask

import (
	"bytes"
	"testing"

	"github.com/nakamasato/chatboat/internal/splitter"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestPrintSections(t *testing.T) {
	tests := []struct {
		name     string
		sections splitter.Sections
		want     string
	}{
		{
			name:     "all sections",
			sections: splitter.Sections{Sources: "- s", Videos: "- v", Answer: "a"},
			want:     "🔗 Sources:\n- s\n\n🎥 Videos:\n- v\n\n🧠 Answer:\na\n",
		},
		{
			name:     "answer only",
			sections: splitter.Sections{Answer: "just this"},
			want:     "🧠 Answer:\njust this\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&buf)

			printSections(cmd, tt.sections)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
