package controller

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amirali-Amirifar/goserve/internal/models"
)

type fixture struct {
	dir     string
	catalog *models.Catalog
	files   map[string][]byte
}

// newFixture writes the given files under a temp dir and builds a catalog
// with one entry per file plus a few entries whose files are missing.
func newFixture(t *testing.T, sizes map[string]int) *fixture {
	t.Helper()
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(42))

	f := &fixture{dir: dir, files: make(map[string][]byte)}
	var entries []models.Entry
	for _, name := range sortedKeys(sizes) {
		data := make([]byte, sizes[name])
		rng.Read(data)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
		f.files[name] = data
		entries = append(entries, models.Entry{Name: name, Path: name})
	}
	entries = append(entries,
		models.Entry{Name: "missing.tgz", Path: "missing.tgz"},
		models.Entry{Name: "alias.bin", Path: filepath.Join("nested", "real-name.bin")},
	)

	catalog, err := models.NewCatalog(dir, entries)
	require.NoError(t, err)
	f.catalog = catalog
	return f
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func get(t *testing.T, h http.Handler, target string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec.Result()
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

func TestClassify(t *testing.T) {
	f := newFixture(t, map[string]int{"report.tar": 10})
	s := NewServer(f.catalog, Options{})

	tests := []struct {
		path string
		kind models.TargetKind
		name string
	}{
		{"/", models.TargetIndex, ""},
		{"", models.TargetIndex, ""},
		{"/index.html", models.TargetIndex, "index.html"},
		{"//index.html", models.TargetIndex, "index.html"},
		{"/report.tar", models.TargetFile, "report.tar"},
		{"/missing.tgz", models.TargetFile, "missing.tgz"},
		{"/nonexistent.tar", models.TargetUnknown, "nonexistent.tar"},
		{"/../report.tar", models.TargetUnknown, "../report.tar"},
		{"/report.tar/", models.TargetUnknown, "report.tar/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			target := s.Classify(tt.path)
			assert.Equal(t, tt.kind, target.Kind)
			assert.Equal(t, tt.name, target.Name)
		})
	}

	target := s.Classify("/report.tar")
	assert.Equal(t, filepath.Join(f.dir, "report.tar"), target.Path)
}

func TestIndexListsOnlyExistingFiles(t *testing.T) {
	f := newFixture(t, map[string]int{
		"report.tar": 2097152,
		"small.zip":  1000,
	})
	s := NewServer(f.catalog, Options{Title: "Wekeza Downloads"})

	resp := get(t, s, "/")
	body := string(readBody(t, resp))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<h2>Wekeza Downloads</h2>")
	assert.Contains(t, body, `<li><a href="/report.tar">report.tar</a> (2.00 MB)</li>`)
	assert.Contains(t, body, `<li><a href="/small.zip">small.zip</a> (0.00 MB)</li>`)
	assert.NotContains(t, body, "missing.tgz")
	assert.NotContains(t, body, "alias.bin")
	assert.Equal(t, 2, strings.Count(body, "<li>"))

	// Catalog order is kept.
	assert.Less(t, strings.Index(body, "report.tar"), strings.Index(body, "small.zip"))
}

func TestIndexAliasesAreIdentical(t *testing.T) {
	f := newFixture(t, map[string]int{"a.bin": 5000})
	s := NewServer(f.catalog, Options{})

	root := readBody(t, get(t, s, "/"))
	index := readBody(t, get(t, s, "/index.html"))
	assert.Equal(t, root, index)
}

func TestIndexReflectsDiskChanges(t *testing.T) {
	f := newFixture(t, map[string]int{"a.bin": 10})
	s := NewServer(f.catalog, Options{})

	assert.NotContains(t, string(readBody(t, get(t, s, "/"))), "missing.tgz")

	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "missing.tgz"), []byte("now here"), 0644))
	assert.Contains(t, string(readBody(t, get(t, s, "/"))), `<a href="/missing.tgz">missing.tgz</a>`)

	require.NoError(t, os.Remove(filepath.Join(f.dir, "a.bin")))
	body := string(readBody(t, get(t, s, "/")))
	assert.NotContains(t, body, "a.bin")
}

func TestDownloadStreamsExactBytes(t *testing.T) {
	f := newFixture(t, map[string]int{
		"report.tar": 2097152,
		"odd.bin":    12345,
		"empty.bin":  0,
	})
	// A small chunk size forces many read/write rounds.
	s := NewServer(f.catalog, Options{ChunkSize: 1000})

	for name, data := range f.files {
		t.Run(name, func(t *testing.T) {
			resp := get(t, s, "/"+name)
			body := readBody(t, resp)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+name+`"`, resp.Header.Get("Content-Disposition"))
			assert.Equal(t, strconv.Itoa(len(data)), resp.Header.Get("Content-Length"))
			assert.True(t, bytes.Equal(data, body), "body must be byte-identical")
		})
	}
}

func TestDownloadUsesFileBasename(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(f.dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "nested", "real-name.bin"), []byte("payload"), 0644))
	s := NewServer(f.catalog, Options{})

	resp := get(t, s, "/alias.bin")
	assert.Equal(t, "payload", string(readBody(t, resp)))
	assert.Equal(t, `attachment; filename="real-name.bin"`, resp.Header.Get("Content-Disposition"))
}

func TestPercentEncodedNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "my file.tar"), []byte("spaced"), 0644))
	catalog, err := models.NewCatalog(dir, []models.Entry{{Name: "my file.tar", Path: "my file.tar"}})
	require.NoError(t, err)
	s := NewServer(catalog, Options{})

	resp := get(t, s, "/my%20file.tar")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "spaced", string(readBody(t, resp)))

	index := string(readBody(t, get(t, s, "/")))
	assert.Contains(t, index, `href="/my%20file.tar"`)
}

func TestNotFound(t *testing.T) {
	f := newFixture(t, map[string]int{"report.tar": 10})
	require.NoError(t, os.Mkdir(filepath.Join(f.dir, "nested"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(f.dir, "nested", "real-name.bin"), 0755))
	s := NewServer(f.catalog, Options{})

	for _, path := range []string{
		"/nonexistent.tar",
		"/missing.tgz",
		"/alias.bin", // backed by a directory
		"/../report.tar",
		"/" + filepath.Join(f.dir, "report.tar"),
	} {
		t.Run(path, func(t *testing.T) {
			resp := get(t, s, path)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "Not found", string(readBody(t, resp)))
			assert.Empty(t, resp.Header.Get("Content-Type"))
			assert.Empty(t, resp.Header.Get("Content-Disposition"))
		})
	}
}

func TestFileRemovedAfterStartupIsNotFound(t *testing.T) {
	f := newFixture(t, map[string]int{"report.tar": 10})
	s := NewServer(f.catalog, Options{})

	assert.Equal(t, http.StatusOK, get(t, s, "/report.tar").StatusCode)
	require.NoError(t, os.Remove(filepath.Join(f.dir, "report.tar")))
	assert.Equal(t, http.StatusNotFound, get(t, s, "/report.tar").StatusCode)
}

func TestRepeatedRequestsAreIdentical(t *testing.T) {
	f := newFixture(t, map[string]int{"report.tar": 4096})
	s := NewServer(f.catalog, Options{})

	for _, path := range []string{"/", "/report.tar", "/nope"} {
		first := get(t, s, path)
		second := get(t, s, path)
		assert.Equal(t, first.StatusCode, second.StatusCode)
		assert.Equal(t, first.Header.Get("Content-Length"), second.Header.Get("Content-Length"))
		assert.Equal(t, readBody(t, first), readBody(t, second))
	}
}

func TestNonGetMethods(t *testing.T) {
	f := newFixture(t, map[string]int{"report.tar": 10})
	s := NewServer(f.catalog, Options{})

	for _, method := range []string{http.MethodPost, http.MethodHead, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(method, "/report.tar", nil))
		assert.Equal(t, http.StatusNotImplemented, rec.Code, method)
	}
}

func TestObserverReceivesEvents(t *testing.T) {
	f := newFixture(t, map[string]int{"report.tar": 3000})

	var mu sync.Mutex
	var events []models.RequestEvent
	s := NewServer(f.catalog, Options{Observer: ObserverFunc(func(e models.RequestEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})})

	readBody(t, get(t, s, "/"))
	readBody(t, get(t, s, "/report.tar"))
	readBody(t, get(t, s, "/nope"))

	require.Len(t, events, 3)
	assert.Equal(t, models.TargetIndex, events[0].Target)
	assert.Equal(t, http.StatusOK, events[0].Status)

	assert.Equal(t, models.TargetFile, events[1].Target)
	assert.EqualValues(t, 3000, events[1].Bytes)
	assert.NoError(t, events[1].Err)

	assert.Equal(t, models.TargetUnknown, events[2].Target)
	assert.Equal(t, http.StatusNotFound, events[2].Status)
	assert.ErrorIs(t, events[2].Err, ErrNotFound)

	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.NotEmpty(t, events[0].ID)
}

type failingWriter struct {
	limit   int
	written int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.limit {
		n := w.limit - w.written
		w.written = w.limit
		return n, errors.New("connection reset")
	}
	w.written += len(p)
	return len(p), nil
}

func TestCopyChunks(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 1000)

	var out bytes.Buffer
	n, err := copyChunks(&out, bytes.NewReader(data), 333)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), n)
	assert.Equal(t, data, out.Bytes())

	n, err = copyChunks(&failingWriter{limit: 500}, bytes.NewReader(data), 333)
	assert.ErrorIs(t, err, ErrStreaming)
	assert.EqualValues(t, 500, n)

	_, err = copyChunks(io.Discard, io.MultiReader(bytes.NewReader(data[:10]), errReader{}), 333)
	assert.ErrorIs(t, err, ErrStreaming)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}
