// Package web serves the question/answer page.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/nakamasato/chatboat/internal/session"
	"github.com/nakamasato/chatboat/internal/splitter"
)

//go:embed templates
var templates embed.FS

const (
	DefaultTitle = "📚 Chatboat: Smart AI"
	cookieName   = "chatboat_session"
	maxFormBytes = 64 << 10
)

var pageTemplate = template.Must(template.ParseFS(templates, "templates/page.html"))

var errTooManyRequests = errors.New("too many questions, please wait a moment")

// Asker answers one question with the raw model text.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Config struct {
	Chat       Asker
	Store      *session.Store
	Title      string
	Stylesheet string // injected verbatim into the page
}

type handlers struct {
	chat       Asker
	store      *session.Store
	title      string
	stylesheet template.CSS
}

func WebAPI(cfg Config) http.Handler {
	h := handlers{
		chat:       cfg.Chat,
		store:      cfg.Store,
		title:      cfg.Title,
		stylesheet: template.CSS(cfg.Stylesheet),
	}
	if h.title == "" {
		h.title = DefaultTitle
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.page)
	mux.HandleFunc("POST /ask", h.ask)
	mux.HandleFunc("POST /reset", h.reset)
	mux.HandleFunc("POST /api/ask", h.apiAsk)
	mux.HandleFunc("GET /healthz", h.health)

	return mux
}

// LoadStylesheet returns the file content, or "" when the file does not exist.
func LoadStylesheet(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read stylesheet %s: %w", path, err)
	}
	return string(data), nil
}

// sessionFor resolves the caller's session and refreshes the cookie when a new one was created.
func (h *handlers) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(cookieName); err == nil {
		id = c.Value
	}
	s := h.store.Get(id)
	if s.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)
	h.render(w, http.StatusOK, s, "", "")
}

func (h *handlers) render(w http.ResponseWriter, status int, s *session.Session, question, errMsg string) {
	pairs := s.Pairs()
	view := pageView{
		Title:      h.title,
		Stylesheet: h.stylesheet,
		Turns:      make([]turnView, 0, len(pairs)),
		Next:       len(pairs) + 1,
		Question:   question,
		Error:      errMsg,
	}
	for i, p := range pairs {
		view.Turns = append(view.Turns, newTurnView(i, p))
	}

	var buf strings.Builder
	if err := pageTemplate.Execute(&buf, view); err != nil {
		log.Printf("[web] render: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// turn asks the model and records the pair. Nothing is recorded on failure.
func (h *handlers) turn(ctx context.Context, s *session.Session, question string) (string, int, error) {
	if !s.Allow() {
		return "", 0, errTooManyRequests
	}
	var reply string
	var n int
	err := s.Turn(func() error {
		var err error
		reply, err = h.chat.Ask(ctx, question)
		if err != nil {
			return err
		}
		s.Append(question, reply)
		n = s.Len()
		return nil
	})
	return reply, n, err
}

func (h *handlers) ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	s := h.sessionFor(w, r)
	question := r.PostFormValue("question")

	if strings.TrimSpace(question) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, _, err := h.turn(r.Context(), s, question); err != nil {
		if errors.Is(err, errTooManyRequests) {
			h.render(w, http.StatusTooManyRequests, s, question, err.Error())
			return
		}
		log.Printf("[web] session %s: %v", s.ID, err)
		h.render(w, http.StatusBadGateway, s, question, "The model could not answer right now. Please try again.")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil {
		h.store.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) apiAsk(w http.ResponseWriter, r *http.Request) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "application/json" {
		WriteJSON(w, http.StatusUnsupportedMediaType, JsonErr{"Content-Type must be application/json"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var req AskRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSON(w, http.StatusBadRequest, JsonErr{"invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteJSON(w, http.StatusBadRequest, JsonErr{"question required"})
		return
	}

	s := h.sessionFor(w, r)
	reply, n, err := h.turn(r.Context(), s, req.Question)
	if err != nil {
		if errors.Is(err, errTooManyRequests) {
			WriteJSON(w, http.StatusTooManyRequests, JsonErr{err.Error()})
			return
		}
		log.Printf("[web] session %s: %v", s.ID, err)
		WriteJSON(w, http.StatusBadGateway, JsonErr{"model error"})
		return
	}

	WriteJSON(w, http.StatusOK, AskResponse{
		Turn:     n,
		Question: req.Question,
		Response: reply,
		Sections: splitter.Split(reply),
	})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
