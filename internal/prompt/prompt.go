// Package prompt fills the fixed chat template with the user's question.
package prompt

import (
	"github.com/nakamasato/chatboat/internal/llm"
)

// Template is a system instruction followed by a single user message.
type Template struct {
	System string
}

// Default is the template the application ships with.
var Default = Template{System: SOURCES_VIDEOS_ANSWER_PROMPT}

// Build returns the two messages sent to the model. The question is passed verbatim.
func (t Template) Build(question string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: t.System},
		{Role: llm.RoleUser, Content: question},
	}
}
