// Package pdsched implements the time-stamped message scheduler and the
// per-block driver (spec §2 items 8/10, §4.6).
package pdsched

import (
	"container/heap"

	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

// entry is one pending delivery: a (fire_time, object, outlet_index,
// message) tuple plus an insertion sequence number used to break ties
// stably (spec §4.6, §8: "the one inserted first is delivered first").
type entry struct {
	timestamp float64
	seq       uint64
	target    pdnode.Object
	outlet    int
	message   *pdmsg.Message
	index     int // heap.Interface bookkeeping
}

// queue is a container/heap-ordered priority queue keyed on
// (timestamp, seq).
type queue []*entry

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].timestamp != q[j].timestamp {
		return q[i].timestamp < q[j].timestamp
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}
func (q *queue) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}
func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler is the root graph's priority queue of pending message
// deliveries (spec §2 item 8).
type Scheduler struct {
	q       queue
	nextSeq uint64
}

// New returns an empty Scheduler.
func New() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.q)
	return s
}

// ScheduleMessage enqueues a heap-scoped delivery of msg to
// target.ReceiveMessage(outlet, msg) at msg.Timestamp (spec §6). It
// reserves msg, since the scheduler now holds a reference to it.
func (s *Scheduler) ScheduleMessage(target pdnode.Object, outlet int, msg *pdmsg.Message) {
	msg.Reserve()
	e := &entry{
		timestamp: msg.Timestamp,
		seq:       s.nextSeq,
		target:    target,
		outlet:    outlet,
		message:   msg,
	}
	s.nextSeq++
	heap.Push(&s.q, e)
}

// CancelMessage removes the first still-queued entry matching
// (target, outlet, msg) and releases its reservation. If no such entry is
// queued (it already fired, or never existed) this is a no-op (spec §4.6).
func (s *Scheduler) CancelMessage(target pdnode.Object, outlet int, msg *pdmsg.Message) {
	for i, e := range s.q {
		if e.target == target && e.outlet == outlet && e.message == msg {
			heap.Remove(&s.q, i)
			msg.Release()
			return
		}
	}
}

// Len returns the number of entries still queued.
func (s *Scheduler) Len() int { return s.q.Len() }

// DrainBlock removes and delivers every queued entry whose timestamp lies
// in [blockStart, blockStart+blockDuration), in (timestamp, seq) order
// (spec §4.6 step 2). Deliveries are free to schedule new entries that
// still fall within the window; the drain loop re-checks the head after
// every delivery so those are also processed within the same block.
func (s *Scheduler) DrainBlock(blockStart, blockDuration float64) {
	end := blockStart + blockDuration
	for s.q.Len() > 0 {
		head := s.q[0]
		if head.timestamp < blockStart || head.timestamp >= end {
			return
		}
		e := heap.Pop(&s.q).(*entry)
		e.message.Release()
		e.target.ReceiveMessage(e.outlet, e.message)
	}
}
