package kiosk

// GestureSample is one normalized hand-position reading from the tracking
// collaborator. X and Y are in [0, 1] screen space; Frame increases
// monotonically per tracked frame. Click carries the upstream gesture
// classification (dwell, pinch, ...) for this frame.
type GestureSample struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Frame uint64  `json:"frame"`
	Click bool    `json:"click,omitempty"`
}

// GestureEvent is delivered to hub subscribers.
type GestureEvent struct {
	Kind  EventKind
	X     float64
	Y     float64
	Frame uint64
}

// EntityStore is the interface for optional ECS integration.
// When set on a Hub, every delivered gesture event is forwarded to it.
type EntityStore interface {
	EmitGesture(event GestureEvent)
}

// --- Handler registry ---

type gestureHandler struct {
	id      uint32
	fn      func(GestureEvent)
	removed bool
}

type handlerRegistry struct {
	move   []*gestureHandler
	click  []*gestureHandler
	frame  []*gestureHandler
	nextID uint32
}

func (r *handlerRegistry) list(kind EventKind) *[]*gestureHandler {
	switch kind {
	case EventMove:
		return &r.move
	case EventClick:
		return &r.click
	case EventFrame:
		return &r.frame
	default:
		return nil
	}
}

// Subscription allows removing a registered hub callback.
type Subscription struct {
	id   uint32
	reg  *handlerRegistry
	kind EventKind
}

// Kind returns the event kind the subscription listens to.
func (s Subscription) Kind() EventKind {
	return s.kind
}

// Remove unregisters this callback so it no longer fires, including for the
// remainder of a dispatch that is currently running. Removing twice is a no-op.
func (s Subscription) Remove() {
	if s.reg == nil {
		return
	}
	l := s.reg.list(s.kind)
	if l == nil {
		return
	}
	*l = removeGestureHandler(*l, s.id)
}

func removeGestureHandler(s []*gestureHandler, id uint32) []*gestureHandler {
	for i := range s {
		if s[i].id == id {
			s[i].removed = true
			// Allocate a fresh slice so a dispatch iterating the old one keeps
			// a stable view.
			out := make([]*gestureHandler, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

// Hub is the publish/subscribe point between the tracking collaborator and
// the active scene. It is single-threaded: Publish and the On*/Off calls
// must happen on the game loop.
//
// The hub does not limit how many subscribers exist. Keeping a single live
// subscriber set is the SceneManager's job.
type Hub struct {
	handlers handlerRegistry
	store    EntityStore
	last     GestureSample
	samples  uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// On registers fn for events of the given kind. Handlers of one kind run in
// subscription order.
func (h *Hub) On(kind EventKind, fn func(GestureEvent)) Subscription {
	l := h.handlers.list(kind)
	if l == nil || fn == nil {
		return Subscription{}
	}
	h.handlers.nextID++
	id := h.handlers.nextID
	*l = append(*l, &gestureHandler{id: id, fn: fn})
	return Subscription{id: id, reg: &h.handlers, kind: kind}
}

// OnMove registers a callback for move events.
func (h *Hub) OnMove(fn func(GestureEvent)) Subscription {
	return h.On(EventMove, fn)
}

// OnClick registers a callback for click events.
func (h *Hub) OnClick(fn func(GestureEvent)) Subscription {
	return h.On(EventClick, fn)
}

// OnFrame registers a callback that fires once per published sample.
func (h *Hub) OnFrame(fn func(GestureEvent)) Subscription {
	return h.On(EventFrame, fn)
}

// Off removes a subscription. Equivalent to sub.Remove().
func (h *Hub) Off(sub Subscription) {
	sub.Remove()
}

// HandlerCount returns the number of live handlers for kind.
func (h *Hub) HandlerCount(kind EventKind) int {
	l := h.handlers.list(kind)
	if l == nil {
		return 0
	}
	return len(*l)
}

// SetEntityStore sets the optional ECS bridge.
func (h *Hub) SetEntityStore(store EntityStore) {
	h.store = store
}

// LastSample returns the most recently published sample and whether any
// sample has been published yet.
func (h *Hub) LastSample() (GestureSample, bool) {
	return h.last, h.samples > 0
}

// Publish fans a sample out to subscribers: move always, click when the
// sample is classified as a click, then frame. Delivery is synchronous on the
// caller's goroutine. The handler sets of every kind are captured before the
// first handler runs, so a handler added during Publish first sees the next
// sample.
func (h *Hub) Publish(s GestureSample) {
	h.last = s
	h.samples++

	// Removal swaps in a new slice and flags the entry, so these stay valid.
	moves := *h.handlers.list(EventMove)
	clicks := *h.handlers.list(EventClick)
	frames := *h.handlers.list(EventFrame)

	h.fire(EventMove, moves, s)
	if s.Click {
		h.fire(EventClick, clicks, s)
	}
	h.fire(EventFrame, frames, s)
}

func (h *Hub) fire(kind EventKind, handlers []*gestureHandler, s GestureSample) {
	ev := GestureEvent{Kind: kind, X: s.X, Y: s.Y, Frame: s.Frame}
	for _, gh := range handlers {
		if gh.removed {
			continue
		}
		gh.fn(ev)
	}
	if h.store != nil {
		h.store.EmitGesture(ev)
	}
}
