// Package pdnode defines the abstract dataflow node (spec §3 "Object",
// §9 "Polymorphic Object"): a capability-set interface rather than a
// class hierarchy, plus the connection topology that wires nodes together.
package pdnode

import "github.com/dudk/pdengine/pdmsg"

// Kind tags whether a slot (inlet or outlet) carries control messages or
// audio signal. A slot can be Signal and still accept messages (spec
// §4.3, "mixed inlet") — Kind only governs how the slot is wired for DSP
// buffer aliasing; message delivery is independent of it.
type Kind int

const (
	// MessageKind marks a slot that only ever carries Messages.
	MessageKind Kind = iota
	// SignalKind marks a slot that participates in the per-block DSP walk.
	SignalKind
)

// Endpoint names one side of a Connection: the object and the slot index
// on that object (spec §3, "Connection").
type Endpoint struct {
	Object Object
	Slot   int
}

// Object is the capability set every node in the graph implements (spec
// §9). Two further capability tiers layer on top of it: SignalObject (also
// processes audio) and GraphObject (a nested graph standing in for a
// single node in its parent's plan).
type Object interface {
	// Label is the textual class name this object was created from
	// (e.g. "+", "osc~", "metro").
	Label() string

	NumInlets() int
	NumOutlets() int

	InletKind(inlet int) Kind
	OutletKind(outlet int) Kind

	// ReceiveMessage delivers a message arriving at inlet, synchronously.
	// It is the single dispatch entry point used by both direct
	// connections and the scheduler (spec §3, §4.6).
	ReceiveMessage(inlet int, msg *pdmsg.Message)

	// DoesProcessAudio reports whether this object participates in the
	// block-by-block DSP walk (i.e. it also satisfies SignalObject).
	DoesProcessAudio() bool

	// IsRootNode reports whether this object is a logical root for the
	// process-order planner regardless of its wiring — receive,
	// receive~, catch~, and graph inlet bridges (spec §4.4 step 6).
	IsRootNode() bool

	// IsLeafNode reports whether this object is a logical leaf for the
	// planner regardless of its wiring — send, send~, throw~, and graph
	// outlet bridges (spec §4.4 step 2).
	IsLeafNode() bool

	// Incoming returns the upstream endpoints wired to the given inlet.
	Incoming(inlet int) []Endpoint
	// Outgoing returns the downstream endpoints wired to the given outlet.
	Outgoing(outlet int) []Endpoint

	addIncoming(inlet int, ep Endpoint)
	addOutgoing(outlet int, ep Endpoint)

	Visited() bool
	SetVisited(bool)
}

// SignalObject is the second capability tier (spec §9): an Object that
// also processes a block of audio samples.
type SignalObject interface {
	Object

	NumSignalInlets() int
	NumSignalOutlets() int

	// ProcessDsp computes this object's output signal for the block,
	// advancing blockIndexOfLastMessage (if applicable) to blockSize.
	ProcessDsp(blockSize int)

	// InletBuffer/OutletBuffer expose the per-slot sample buffers so the
	// graph assembler can alias a downstream inlet buffer directly onto
	// an upstream outlet's buffer (spec §4.2: "aliased, not copied").
	InletBuffer(inlet int) []float32
	SetInletBuffer(inlet int, buf []float32)
	OutletBuffer(outlet int) []float32
}

// GraphObject is satisfied by a nested Graph acting as a single node in
// its enclosing graph's plan (spec §4.4: "Nested graphs are treated as
// single nodes... each graph internally plans itself when asked").
type GraphObject interface {
	Object
	// ProcessOrder returns this graph's own signal execution list,
	// computing it first if necessary.
	ProcessOrder() []SignalObject
}

// Connect installs a bidirectional Connection between an upstream outlet
// and a downstream inlet (spec §4.2). If both slots are Signal slots, the
// downstream inlet buffer is aliased directly onto the upstream outlet
// buffer rather than copied.
func Connect(src Object, outlet int, dst Object, inlet int) {
	src.addOutgoing(outlet, Endpoint{Object: dst, Slot: inlet})
	dst.addIncoming(inlet, Endpoint{Object: src, Slot: outlet})

	if src.OutletKind(outlet) == SignalKind && dst.InletKind(inlet) == SignalKind {
		if srcSig, ok := src.(SignalObject); ok {
			if dstSig, ok := dst.(SignalObject); ok {
				dstSig.SetInletBuffer(inlet, srcSig.OutletBuffer(outlet))
			}
		}
	}
}
