package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/mark3labs/crudswag/internal/swagger"
)

//go:embed ui/index.html
var uiFS embed.FS

var uiTemplate = template.Must(template.ParseFS(uiFS, "ui/index.html"))

type uiData struct {
	Title   string
	SpecURL string
}

func (s *Server) handleUI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := s.doc.Info.Title
		if title == "" {
			title = "API documentation"
		}
		var buf bytes.Buffer
		if err := uiTemplate.Execute(&buf, uiData{Title: title, SpecURL: "swagger.json"}); err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

func (s *Server) handleJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := s.snapshot(r).ToJSON(false)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeBody(w, "application/json", out)
	}
}

func (s *Server) handleYAML() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := s.snapshot(r).ToYAML()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeBody(w, "application/yaml", out)
	}
}

func (s *Server) handleOpenAPI3() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v3, err := s.snapshot(r).ToOpenAPI3(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out, err := json.Marshal(v3)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeBody(w, "application/json", out)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeBody(w, "text/plain; charset=utf-8", []byte("ok"))
}

// snapshot returns the document with host set for this request.
func (s *Server) snapshot(r *http.Request) *swagger.Document {
	return s.doc.WithHost(requestHost(r, s.settings.TrustProxyHeaders))
}

func requestHost(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return r.Host
	}
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host, _, _ := strings.Cut(fwd, ",")
		if host = strings.TrimSpace(host); host != "" {
			return host
		}
	}
	return r.Host
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.settings.Logger.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
