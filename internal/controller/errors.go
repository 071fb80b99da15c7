package controller

import "errors"

var (
	// ErrBindFailure means the listener could not acquire its address.
	ErrBindFailure = errors.New("failed to bind listener")
	// ErrNotFound covers both unknown names and catalog files missing on disk.
	ErrNotFound = errors.New("not found")
	// ErrStreaming is an I/O failure after the response headers were sent.
	ErrStreaming = errors.New("streaming failed")
)
