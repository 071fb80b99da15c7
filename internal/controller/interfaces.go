package controller

import "github.com/Amirali-Amirifar/goserve/internal/models"

// RequestObserver is told about every finished request. Observe runs on the
// request goroutine after the response is written and must not block.
type RequestObserver interface {
	Observe(event models.RequestEvent)
}

// ObserverFunc adapts a plain function to RequestObserver.
type ObserverFunc func(event models.RequestEvent)

func (f ObserverFunc) Observe(event models.RequestEvent) {
	f(event)
}
