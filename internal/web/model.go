package web

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/nakamasato/chatboat/internal/markdown"
	"github.com/nakamasato/chatboat/internal/session"
	"github.com/nakamasato/chatboat/internal/splitter"
)

type turnView struct {
	Number   int
	Question template.HTML
	Sources  template.HTML
	Videos   template.HTML
	Answer   template.HTML
}

type pageView struct {
	Title      string
	Stylesheet template.CSS
	Turns      []turnView
	Next       int
	Question   string
	Error      string
}

// newTurnView splits the stored response again; sections are never cached.
func newTurnView(idx int, p session.Pair) turnView {
	sections := splitter.Split(p.Response)
	tv := turnView{
		Number:   idx + 1,
		Question: markdown.ToHTML(p.Question),
		Answer:   markdown.ToHTML(sections.Answer),
	}
	if sections.Sources != "" {
		tv.Sources = markdown.ToHTML(sections.Sources)
	}
	if sections.Videos != "" {
		tv.Videos = markdown.ToHTML(sections.Videos)
	}
	return tv
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Turn     int    `json:"turn"`
	Question string `json:"question"`
	Response string `json:"response"`
	splitter.Sections
}

type JsonErr struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
