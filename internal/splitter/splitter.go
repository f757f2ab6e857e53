// Package splitter cuts a model reply into the Sources, Videos and Answer
// sections requested by the prompt template.
package splitter

import (
	"log"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const matchTimeout = time.Second

var (
	sourcesPattern = mustCompile(`\*\*Sources:\*\*\s*(.*?)\n\s*\*\*`)
	videosPattern  = mustCompile(`\*\*Videos:\*\*\s*(.*?)\n\s*\*\*`)
	answerPattern  = mustCompile(`\*\*Answer:\*\*\s*(.*)`)
)

// Sections is derived from a stored response on every render.
type Sections struct {
	Sources string `json:"sources"`
	Videos  string `json:"videos"`
	Answer  string `json:"answer"`
}

func mustCompile(pattern string) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, regexp2.Singleline)
	re.MatchTimeout = matchTimeout
	return re
}

// Split locates the three sections. Missing Sources or Videos are empty; a
// missing Answer falls back to the whole trimmed response.
func Split(response string) Sections {
	answer, ok := group(answerPattern, response)
	if !ok {
		answer = strings.TrimSpace(response)
	}
	sources, _ := group(sourcesPattern, response)
	videos, _ := group(videosPattern, response)
	return Sections{
		Sources: sources,
		Videos:  videos,
		Answer:  answer,
	}
}

// group returns the trimmed first capture of the first match.
func group(re *regexp2.Regexp, s string) (string, bool) {
	m, err := re.FindStringMatch(s)
	if err != nil {
		log.Printf("[splitter] %s: %v", re.String(), err)
		return "", false
	}
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m.GroupByNumber(1).String()), true
}
