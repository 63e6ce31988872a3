// Package schedule provides a per-actor queue of deferred events on a logical
// clock. The passive tick driver advances the clock and fires due events, so
// delayed bursts and follow-up hits stay deterministic.
package schedule

import "sort"

// epsilon absorbs float drift in the accumulated clock.
const epsilon = 1e-9

// Event is a deferred action.
type Event struct {
	At   float64 // Logical time the event becomes due
	Name string
	Fire func()

	seq int
}

// Queue holds pending events for one owner.
type Queue struct {
	now     float64
	nextSeq int
	pending []Event
}

// NewQueue creates an empty queue at time zero.
func NewQueue() *Queue {
	return &Queue{}
}

// Now returns the queue's logical time.
func (q *Queue) Now() float64 {
	return q.now
}

// After schedules fn to run delay seconds from now. Events with a
// non-positive delay fire on the next advance.
func (q *Queue) After(delay float64, name string, fn func()) {
	if fn == nil {
		return
	}
	q.pending = append(q.pending, Event{
		At:   q.now + max(0, delay),
		Name: name,
		Fire: fn,
		seq:  q.nextSeq,
	})
	q.nextSeq++
}

// Advance moves the clock forward by dt and fires every event that is due, in
// (time, scheduling order). Events scheduled while firing wait for a later
// advance. Returns the number of events fired.
func (q *Queue) Advance(dt float64) int {
	if dt > 0 {
		q.now += dt
	}
	if len(q.pending) == 0 {
		return 0
	}

	var due []Event
	n := 0
	for _, e := range q.pending {
		if e.At <= q.now+epsilon {
			due = append(due, e)
			continue
		}
		q.pending[n] = e
		n++
	}
	clear(q.pending[n:])
	q.pending = q.pending[:n]

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].At != due[j].At {
			return due[i].At < due[j].At
		}
		return due[i].seq < due[j].seq
	})
	for _, e := range due {
		e.Fire()
	}
	return len(due)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Pending returns the names of pending events in scheduling order.
func (q *Queue) Pending() []string {
	names := make([]string, 0, len(q.pending))
	for _, e := range q.pending {
		names = append(names, e.Name)
	}
	return names
}

// Clear drops every pending event.
func (q *Queue) Clear() {
	q.pending = q.pending[:0]
}
