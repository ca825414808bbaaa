// Package behavior exposes the page-behavior recorder and the in-process
// page model it observes.
package behavior

import (
	internalbehavior "github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/dom"
)

// Recorder aggregates page interactions and flushes snapshots.
type Recorder = internalbehavior.Recorder

// Options configures a Recorder.
type Options = internalbehavior.Options

// ActionTrigger flushes when an event fires on a selected element.
type ActionTrigger = internalbehavior.ActionTrigger

// FlushFunc consumes a snapshot of the aggregate.
type FlushFunc = internalbehavior.FlushFunc

// Results is the aggregate a recorder collects.
type Results = internalbehavior.Results

// State is the recorder lifecycle state.
type State = internalbehavior.State

// Recorder lifecycle states.
const (
	StateIdle    = internalbehavior.StateIdle
	StateRunning = internalbehavior.StateRunning
	StateStopped = internalbehavior.StateStopped
)

// ErrStopped is returned when starting a recorder that was stopped.
var ErrStopped = internalbehavior.ErrStopped

// Document is what a recorder observes.
type Document = dom.Document

// Page is the in-process document fed by page messages.
type Page = dom.Page

// Message is the wire form of a page event.
type Message = dom.Message

// Navigator is the browser identity of a page.
type Navigator = dom.Navigator

// New creates a recorder over doc. Call Start to begin recording.
func New(doc Document, opts Options) *Recorder {
	return internalbehavior.New(doc, opts)
}

// DefaultOptions tracks everything and flushes every 15 seconds.
func DefaultOptions() Options {
	return internalbehavior.DefaultOptions()
}

// NewResults returns an empty aggregate.
func NewResults() Results {
	return internalbehavior.NewResults()
}

// NewPage creates an empty visible page with the given identity.
func NewPage(nav Navigator) *Page {
	return dom.NewPage(nav)
}
