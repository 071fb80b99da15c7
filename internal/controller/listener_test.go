package controller

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenBindFailure(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, err = Listen(ln.Addr().String())
	assert.ErrorIs(t, err, ErrBindFailure)
}

func TestServeOverTCP(t *testing.T) {
	f := newFixture(t, map[string]int{"report.tar": 2*1024*1024 + 17})
	s := NewServer(f.catalog, Options{Title: "Wekeza Downloads"})

	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/report.tar")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, len(f.files["report.tar"]), resp.ContentLength)
	assert.Equal(t, f.files["report.tar"], body)
	assert.Equal(t, `attachment; filename="report.tar"`, resp.Header.Get("Content-Disposition"))

	resp, err = http.Get(base + "/nonexistent.tar")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", string(body))
	assert.Empty(t, resp.Header.Values("Content-Type"), "404 carries no content type")

	resp, err = http.Get(base + "/index.html")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "report.tar</a> (2.00 MB)")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
