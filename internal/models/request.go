package models

import "time"

type TargetKind int

const (
	TargetUnknown TargetKind = iota
	TargetIndex
	TargetFile
)

func (k TargetKind) String() string {
	switch k {
	case TargetIndex:
		return "index"
	case TargetFile:
		return "file"
	default:
		return "unknown"
	}
}

// RequestEvent describes one finished request.
type RequestEvent struct {
	ID         string
	Time       time.Time
	Method     string
	Path       string
	RemoteAddr string
	Target     TargetKind
	Status     int
	Bytes      int64
	Duration   time.Duration
	Err        error
}
