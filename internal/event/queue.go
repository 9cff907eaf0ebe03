package event

// Queue is the ordered list of pending events: FIFO, with PushFront for
// urgent items that must pre-empt everything already queued.
//
// Not safe for concurrent use; the engine is its single writer.
type Queue struct {
	items []Event
}

// NewQueue creates an empty queue, optionally pre-filled in order.
func NewQueue(items ...Event) *Queue {
	q := &Queue{items: make([]Event, 0, max(8, len(items)))}
	q.items = append(q.items, items...)
	return q
}

// PushBack appends ev.
func (q *Queue) PushBack(ev Event) {
	q.items = append(q.items, ev)
}

// PushFront inserts ev ahead of every queued item.
func (q *Queue) PushFront(ev Event) {
	q.items = append(q.items, Event{})
	copy(q.items[1:], q.items)
	q.items[0] = ev
}

// Pop removes and returns the front item.
func (q *Queue) Pop() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	ev := q.items[0]

	// Zero the slot so the backing array does not retain choice slices.
	q.items[0] = Event{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return ev, true
}

// Peek returns the front item without removing it.
func (q *Queue) Peek() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	return q.items[0], true
}

// Len returns the number of queued items.
func (q *Queue) Len() int { return len(q.items) }

// Contains reports whether an event with id is queued.
func (q *Queue) Contains(id string) bool {
	for _, ev := range q.items {
		if ev.ID == id {
			return true
		}
	}
	return false
}

// Items returns a copy of the queued events, front first.
func (q *Queue) Items() []Event {
	out := make([]Event, len(q.items))
	copy(out, q.items)
	return out
}

// IDs returns the queued ids, front first.
func (q *Queue) IDs() []string {
	out := make([]string, len(q.items))
	for i, ev := range q.items {
		out[i] = ev.ID
	}
	return out
}

// Clear drops every queued item.
func (q *Queue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}
