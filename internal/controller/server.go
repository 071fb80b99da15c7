package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Amirali-Amirifar/goserve/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultChunkSize = 1024 * 1024
	DefaultTitle     = "Downloads"

	notFoundBody = "Not found"
)

// Target is the classification of a request path.
type Target struct {
	Kind models.TargetKind
	Name string // decoded path without leading slashes
	Path string // backing file, set for TargetFile only
}

type Options struct {
	Title     string
	ChunkSize int
	Observer  RequestObserver
}

// Server answers every request from a read-only catalog. It holds no
// per-request state, so one Server is shared by all connections.
type Server struct {
	catalog   *models.Catalog
	title     string
	chunkSize int
	observer  RequestObserver
}

func NewServer(catalog *models.Catalog, opts Options) *Server {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return &Server{
		catalog:   catalog,
		title:     opts.Title,
		chunkSize: opts.ChunkSize,
		observer:  opts.Observer,
	}
}

// Classify maps a decoded URL path onto the index, a catalog file or
// nothing. Only literal catalog keys match.
func (s *Server) Classify(urlPath string) Target {
	name := strings.TrimLeft(urlPath, "/")
	if name == "" || name == models.IndexName {
		return Target{Kind: models.TargetIndex, Name: name}
	}
	path, ok := s.catalog.Lookup(name)
	if !ok {
		return Target{Kind: models.TargetUnknown, Name: name}
	}
	return Target{Kind: models.TargetFile, Name: name, Path: path}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	event := models.RequestEvent{
		ID:         uuid.NewString(),
		Time:       time.Now(),
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
	}
	defer func() { s.finish(event) }()

	if r.Method != http.MethodGet {
		event.Status = http.StatusNotImplemented
		http.Error(w, "Unsupported method", http.StatusNotImplemented)
		return
	}

	target := s.Classify(r.URL.Path)
	event.Target = target.Kind
	switch target.Kind {
	case models.TargetIndex:
		event.Status, event.Bytes, event.Err = s.serveIndex(w)
	case models.TargetFile:
		event.Status, event.Bytes, event.Err = s.serveFile(w, target)
	default:
		event.Status, event.Bytes = notFound(w)
		event.Err = fmt.Errorf("%w: %s", ErrNotFound, target.Name)
	}
}

// notFound writes a bare 404. The nil Content-Type entry stops net/http
// from sniffing one.
func notFound(w http.ResponseWriter) (int, int64) {
	w.Header()["Content-Type"] = nil
	w.WriteHeader(http.StatusNotFound)
	n, _ := io.WriteString(w, notFoundBody)
	return http.StatusNotFound, int64(n)
}

func (s *Server) finish(event models.RequestEvent) {
	event.Duration = time.Since(event.Time)

	entry := log.WithFields(log.Fields{
		"request_id": event.ID,
		"method":     event.Method,
		"path":       event.Path,
		"target":     event.Target.String(),
		"status":     event.Status,
		"bytes":      event.Bytes,
		"duration":   event.Duration,
		"remote":     event.RemoteAddr,
	})
	switch {
	case errors.Is(event.Err, ErrStreaming) || event.Status >= http.StatusInternalServerError:
		entry.WithError(event.Err).Warn("Request failed")
	case event.Err != nil:
		entry.WithError(event.Err).Info("Request served")
	default:
		entry.Info("Request served")
	}

	if s.observer != nil {
		s.observer.Observe(event)
	}
}
