package pdmsg

import "fmt"

// Message is a timestamp plus an ordered sequence of Elements (spec §3).
//
// Messages have two lifetimes. A stack-scoped Message is built in a
// sender's frame for immediate synchronous delivery and must never be
// retained past the call to Send; a heap-scoped Message is built via
// ToHeap for the scheduler and is retained until it fires or is cancelled.
// The reserved counter tracks how many scheduler entries still reference a
// heap Message so it can be cancelled safely even when shared.
type Message struct {
	Timestamp float64
	Elements  []Element
	reserved  int32
	heap      bool
}

// NewStack builds a stack-scoped Message. Callers must not retain the
// returned pointer past the synchronous delivery it was built for; pass it
// through ToHeap first if it needs to outlive the current call.
func NewStack(timestamp float64, elements ...Element) *Message {
	return &Message{Timestamp: timestamp, Elements: elements}
}

// ToHeap copies a stack-scoped (or any) Message into a freshly owned
// heap-scoped Message with a reservation count of zero. The scheduler
// raises the count to one when it inserts the copy (spec §3, Lifecycles).
func (m *Message) ToHeap() *Message {
	elems := make([]Element, len(m.Elements))
	copy(elems, m.Elements)
	return &Message{Timestamp: m.Timestamp, Elements: elems, heap: true}
}

// IsHeap reports whether this Message was produced by ToHeap.
func (m *Message) IsHeap() bool { return m.heap }

// Reserve increments the reservation count. Only meaningful for
// heap-scoped messages; called once per scheduler entry that references m.
func (m *Message) Reserve() {
	m.reserved++
}

// Release decrements the reservation count, whether the entry fired or was
// cancelled. A Message whose count reaches zero has no more pending
// scheduler entries and may be dropped by its last referrer. A negative
// count is a programmer error and is treated as such (spec §7: "scheduler
// internal invariants... treated as programmer error, abort").
func (m *Message) Release() {
	m.reserved--
	if m.reserved < 0 {
		panic(fmt.Sprintf("pdmsg: message reservation count went negative (timestamp=%g)", m.Timestamp))
	}
}

// Reserved returns the current reservation count.
func (m *Message) Reserved() int32 { return m.reserved }

// Float returns the float payload of element i, or ok=false if the
// element is not a Float.
func (m *Message) Float(i int) (float32, bool) {
	if i < 0 || i >= len(m.Elements) {
		return 0, false
	}
	e := m.Elements[i]
	return e.Float, e.Kind == Float
}

// Symbol returns the symbol payload of element i, or ok=false if the
// element is not a Symbol.
func (m *Message) Symbol(i int) (string, bool) {
	if i < 0 || i >= len(m.Elements) {
		return "", false
	}
	e := m.Elements[i]
	return e.Symbol, e.Kind == Symbol
}

// IsBang reports whether element i is a Bang.
func (m *Message) IsBang(i int) bool {
	return i >= 0 && i < len(m.Elements) && m.Elements[i].Kind == Bang
}

// Len returns the number of elements in the message.
func (m *Message) Len() int { return len(m.Elements) }

// String renders the message the way a print object would.
func (m *Message) String() string {
	s := ""
	for i, e := range m.Elements {
		if i > 0 {
			s += " "
		}
		s += e.String()
	}
	return s
}

// Pool is a small ring of reusable outgoing Message buffers, one per
// outlet, so the per-block hot path never allocates (spec §5, §9:
// "Outgoing message pools"). Most outlets only ever need a ring of size 1;
// multi-output objects that can fire more than once per outlet within a
// single block need a larger ring.
type Pool struct {
	slots []*Message
	next  int
}

// NewPool allocates a ring of size n, each slot pre-allocated with cap
// elements of scratch capacity.
func NewPool(n, cap int) *Pool {
	p := &Pool{slots: make([]*Message, n)}
	for i := range p.slots {
		p.slots[i] = &Message{Elements: make([]Element, 0, cap)}
	}
	return p
}

// Get returns the next slot in the ring, reset to zero elements and the
// given timestamp, ready to be filled and sent synchronously.
func (p *Pool) Get(timestamp float64) *Message {
	m := p.slots[p.next]
	p.next = (p.next + 1) % len(p.slots)
	m.Timestamp = timestamp
	m.Elements = m.Elements[:0]
	m.heap = false
	m.reserved = 0
	return m
}
