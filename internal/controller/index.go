package controller

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Parse(`<html><body>
  <h2>{{.Title}}</h2>
  <p>Click any file to download.</p>
  <ul>{{range .Items}}<li><a href="/{{.Name}}">{{.Name}}</a> ({{.SizeMiB}} MB)</li>{{end}}</ul>
</body></html>
`))

type indexItem struct {
	Name    string
	SizeMiB string
}

type indexPage struct {
	Title string
	Items []indexItem
}

// RenderIndex lists the catalog entries whose files exist right now, in
// catalog order.
func (s *Server) RenderIndex() ([]byte, error) {
	page := indexPage{Title: s.title}
	for _, status := range s.catalog.Available() {
		page.Items = append(page.Items, indexItem{Name: status.Name, SizeMiB: status.SizeMiB()})
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render index: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Server) serveIndex(w http.ResponseWriter) (int, int64, error) {
	body, err := s.RenderIndex()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return http.StatusInternalServerError, 0, err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(body)
	if err != nil {
		return http.StatusOK, int64(n), fmt.Errorf("%w: %w", ErrStreaming, err)
	}
	return http.StatusOK, int64(n), nil
}
