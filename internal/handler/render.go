package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/feedback"
	"github.com/mtlprog/nexa/internal/form"
	"github.com/mtlprog/nexa/internal/middleware"
	"github.com/mtlprog/nexa/internal/nav"
)

const (
	pageAuth      = "auth.html"
	pageAgents    = "agents.html"
	pageNewAgent  = "new_agent.html"
	pageConnector = "connector.html"
)

// renderer holds one parsed template set per page, each sharing the layout and partials.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(fsys fs.FS) (*renderer, error) {
	r := &renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{pageAuth, pageAgents, pageNewAgent, pageConnector} {
		t, err := template.ParseFS(fsys, "templates/layout.html", "templates/partials.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// pageData is the view model every page template receives.
type pageData struct {
	Title   string
	Heading string
	Lead    string
	CSRF    string
	Form    *formView
	Dialog  *feedback.Dialog
	Menu    []nav.Item

	Agents     []*domain.Agent
	Connectors []domain.ConnectorType
}

// formView is a form.State flattened for rendering.
type formView struct {
	Name       string
	Action     string
	Submit     string
	CSRF       string
	Fields     []fieldView
	Submitting bool
	Links      []link
}

type fieldView struct {
	form.Field
	Value   string
	Error   string
	Options []string
}

type link struct {
	URL  string
	Text string
}

func newFormView(state *form.State, action, submit, csrf string, links ...link) *formView {
	v := &formView{
		Name:       state.Schema.Name,
		Action:     action,
		Submit:     submit,
		CSRF:       csrf,
		Submitting: state.Submitting,
		Links:      links,
	}
	for _, f := range state.Schema.Fields {
		fv := fieldView{Field: f, Value: state.Value(f.Name), Error: state.Error(f.Name)}
		if f.Type == "select" && f.Name == "model" {
			fv.Options = form.ModelOptions()
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

// render executes page into a buffer first so template errors never produce half a page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	t, ok := h.pages.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if data.CSRF == "" {
		data.CSRF = middleware.CSRFToken(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write page", "page", page, "error", err)
	}
}

// dashboard returns page data with the sidebar resolved for the current path.
func (h *Handler) dashboard(r *http.Request, title string) *pageData {
	return &pageData{
		Title: title,
		CSRF:  middleware.CSRFToken(r.Context()),
		Menu:  nav.Default.Items(r.URL.Path),
	}
}

func dialogPtr(d feedback.Dialog) *feedback.Dialog {
	if d.Kind == "" {
		return nil
	}
	return &d
}
