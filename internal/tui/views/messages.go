package views

import "github.com/Amirali-Amirifar/goserve/internal/models"

// RefreshMsg asks views to re-read the disk state they display.
type RefreshMsg struct{}

// RequestMsg carries a finished request from the server.
type RequestMsg models.RequestEvent
