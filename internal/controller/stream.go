package controller

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// serveFile sends a catalog file as an attachment. The file is opened and
// stat'ed on every call; a missing file is a 404, never a cached answer.
func (s *Server) serveFile(w http.ResponseWriter, target Target) (int, int64, error) {
	file, err := os.Open(target.Path)
	if err != nil {
		status, n := notFound(w)
		return status, n, fmt.Errorf("%w: %s: %w", ErrNotFound, target.Name, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		status, n := notFound(w)
		return status, n, fmt.Errorf("%w: %s: %w", ErrNotFound, target.Name, err)
	}
	if info.IsDir() {
		status, n := notFound(w)
		return status, n, fmt.Errorf("%w: %s is a directory", ErrNotFound, target.Name)
	}
	size := info.Size()

	header := w.Header()
	header.Set("Content-Type", "application/octet-stream")
	header.Set("Content-Disposition", `attachment; filename="`+filepath.Base(target.Path)+`"`)
	header.Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	// Headers are committed from here on; failures only end the transfer.
	written, err := copyChunks(w, io.LimitReader(file, size), s.chunkSize)
	if err == nil && written < size {
		err = fmt.Errorf("%w: file shrank, sent %d of %d bytes", ErrStreaming, written, size)
	}
	return http.StatusOK, written, err
}

// copyChunks moves src to dst through a single buffer of chunkSize bytes.
func copyChunks(dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	buf := make([]byte, chunkSize)
	var total int64

	for {
		n, err := src.Read(buf)
		if n > 0 {
			written, writeErr := dst.Write(buf[:n])
			total += int64(written)
			if writeErr != nil {
				return total, fmt.Errorf("%w: write: %w", ErrStreaming, writeErr)
			}
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, fmt.Errorf("%w: read: %w", ErrStreaming, err)
		}
	}
}
