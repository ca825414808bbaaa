package server

import (
	"log/slog"
	"net/http"

	internalserver "github.com/SmitUplenchwar2687/Trailmark/internal/server"
	"github.com/SmitUplenchwar2687/Trailmark/pkg/clock"
)

// Server hosts the tracked page and one recorder per websocket session.
type Server = internalserver.Server

// Options configures optional server features.
type Options = internalserver.Options

// Hub manages dashboard WebSocket clients and broadcasts flush events.
type Hub = internalserver.Hub

// FlushEvent is what the hub broadcasts for every flushed snapshot.
type FlushEvent = internalserver.FlushEvent

// PageHTML is the embedded tracked page.
const PageHTML = internalserver.PageHTML

// DashboardHTML is the embedded flush viewer.
const DashboardHTML = internalserver.DashboardHTML

// PageSelectors are the elements the tracked page exposes to triggers.
var PageSelectors = internalserver.PageSelectors

// New creates a new trailmark server.
func New(addr string, clk clock.Clock, opts Options) *Server {
	return internalserver.New(addr, clk, opts)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *slog.Logger) *Hub {
	return internalserver.NewHub(logger)
}

// LoggingMiddleware logs every request at debug level.
func LoggingMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return internalserver.LoggingMiddleware(next, logger)
}
