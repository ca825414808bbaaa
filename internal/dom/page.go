package dom

import (
	"slices"
	"sync"
	"time"
)

// Page is an in-memory Document. Events are pushed into it with Dispatch
// (for example by a WebSocket bridge, a replayer or a test) and delivered
// synchronously to the registered listeners on the caller's goroutine.
//
// Thread-safe for concurrent use.
type Page struct {
	mu         sync.RWMutex
	listeners  *listenerTable
	visibility Visibility
	navigator  Navigator
	elements   map[string]*Node
}

// NewPage creates a visible page with the given navigator identity.
func NewPage(nav Navigator) *Page {
	return &Page{
		listeners:  newListenerTable(),
		visibility: Visible,
		navigator:  nav,
		elements:   make(map[string]*Node),
	}
}

func (p *Page) AddEventListener(t EventType, l Listener) Subscription {
	return p.listeners.add(t, l)
}

func (p *Page) VisibilityState() Visibility {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visibility
}

func (p *Page) Navigator() Navigator {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.navigator
}

// SetNavigator replaces the navigator identity. Recorders read it once on
// start, so it must be set before the recorder starts.
func (p *Page) SetNavigator(nav Navigator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigator = nav
}

// QuerySelector returns the element registered under selector, or nil.
// A nil *Node is never returned as a non-nil Element.
func (p *Page) QuerySelector(selector string) Element {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n, ok := p.elements[selector]
	if !ok {
		return nil
	}
	return n
}

// Register adds an element reachable by selector and returns it. Registering
// the same selector twice returns the existing element.
func (p *Page) Register(selector string) *Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.elements[selector]; ok {
		return n
	}
	n := &Node{selector: selector, listeners: newListenerTable()}
	p.elements[selector] = n
	return n
}

// Dispatch delivers ev to the document listeners for ev.Type.
// A visibilitychange event also updates the page's visibility state before
// listeners run.
func (p *Page) Dispatch(ev Event) {
	if ev.Type == EventVisibilityChange && ev.Visibility != "" {
		p.mu.Lock()
		p.visibility = ev.Visibility
		p.mu.Unlock()
	}
	if ev.Type == EventVisibilityChange && ev.Visibility == "" {
		ev.Visibility = p.VisibilityState()
	}
	p.listeners.dispatch(ev)
}

// SetVisibility switches the visibility state and fires visibilitychange
// if the state actually changed.
func (p *Page) SetVisibility(v Visibility, at time.Time) {
	if p.VisibilityState() == v {
		return
	}
	p.Dispatch(Event{Type: EventVisibilityChange, Timestamp: at, Visibility: v})
}

// DispatchTo delivers ev to the element registered under selector.
// It reports false when no such element exists.
func (p *Page) DispatchTo(selector string, ev Event) bool {
	p.mu.RLock()
	n, ok := p.elements[selector]
	p.mu.RUnlock()
	if !ok {
		return false
	}
	n.Dispatch(ev)
	return true
}

// ListenerCount returns the number of live listeners on the document and
// all registered elements.
func (p *Page) ListenerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	total := p.listeners.count()
	for _, n := range p.elements {
		total += n.listeners.count()
	}
	return total
}

// Node is an element of a Page.
type Node struct {
	selector  string
	listeners *listenerTable
}

// Selector returns the selector the node was registered under.
func (n *Node) Selector() string { return n.selector }

func (n *Node) AddEventListener(t EventType, l Listener) Subscription {
	return n.listeners.add(t, l)
}

// Dispatch delivers ev to the node's listeners for ev.Type.
func (n *Node) Dispatch(ev Event) {
	n.listeners.dispatch(ev)
}

type listenerTable struct {
	mu     sync.Mutex
	nextID uint64
	byType map[EventType]map[uint64]Listener
}

func newListenerTable() *listenerTable {
	return &listenerTable{byType: make(map[EventType]map[uint64]Listener)}
}

func (t *listenerTable) add(et EventType, l Listener) Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	m, ok := t.byType[et]
	if !ok {
		m = make(map[uint64]Listener)
		t.byType[et] = m
	}
	m[id] = l
	return &subscription{table: t, eventType: et, id: id}
}

func (t *listenerTable) remove(et EventType, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.byType[et]
	delete(m, id)
	if len(m) == 0 {
		delete(t.byType, et)
	}
}

// dispatch calls listeners outside the lock so a listener may remove itself.
// Listeners run in registration order.
func (t *listenerTable) dispatch(ev Event) {
	t.mu.Lock()
	m := t.byType[ev.Type]
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	ls := make([]Listener, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, m[id])
	}
	t.mu.Unlock()

	for _, l := range ls {
		l(ev)
	}
}

func (t *listenerTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, m := range t.byType {
		total += len(m)
	}
	return total
}

type subscription struct {
	once      sync.Once
	table     *listenerTable
	eventType EventType
	id        uint64
}

func (s *subscription) Remove() {
	s.once.Do(func() {
		s.table.remove(s.eventType, s.id)
	})
}
