package dom

// Listener handles a dispatched event.
type Listener func(Event)

// Subscription is the handle returned when a listener is registered.
// Remove detaches the listener and is safe to call more than once.
type Subscription interface {
	Remove()
}

// EventTarget accepts listeners for named events.
type EventTarget interface {
	AddEventListener(t EventType, l Listener) Subscription
}

// Element is a node that can be found with a selector.
type Element interface {
	EventTarget
}

// Document is the page-level event source observed by a recorder.
type Document interface {
	EventTarget
	// VisibilityState reports whether the page is the foreground tab.
	VisibilityState() Visibility
	// QuerySelector returns the element matching selector, or nil.
	QuerySelector(selector string) Element
	// Navigator returns the browser identity of the page.
	Navigator() Navigator
}
