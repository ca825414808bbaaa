// Package dom models the slice of a browser document the behaviour recorder
// observes: typed input events, subscription handles, navigator identity and
// element lookup by selector.
package dom

import "time"

// EventType names a DOM event. Custom element events use arbitrary names.
type EventType string

const (
	EventMouseUp          EventType = "mouseup"
	EventMouseMove        EventType = "mousemove"
	EventVisibilityChange EventType = "visibilitychange"
	EventPaste            EventType = "paste"
	EventKeyUp            EventType = "keyup"
)

// StandardEvents lists the document-level events a recorder subscribes to.
var StandardEvents = []EventType{
	EventMouseUp,
	EventMouseMove,
	EventVisibilityChange,
	EventPaste,
	EventKeyUp,
}

// Visibility is the document visibility state.
type Visibility string

const (
	Visible Visibility = "visible"
	Hidden  Visibility = "hidden"
)

// Event carries the payload fields of a single DOM event. Only the fields
// relevant to Type are populated.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// Pointer position relative to the page (pageX/pageY).
	X float64
	Y float64
	// Target is a descriptor of the event target, usually its outerHTML.
	Target string

	KeyCode int
	Key     string

	// ClipboardText is the text/plain clipboard payload of a paste.
	ClipboardText string

	Visibility Visibility
}

// Navigator is the browser identity exposed by window.navigator.
type Navigator struct {
	AppCodeName string `json:"appCodeName"`
	AppName     string `json:"appName"`
	Vendor      string `json:"vendor"`
	Platform    string `json:"platform"`
	UserAgent   string `json:"userAgent"`
}
