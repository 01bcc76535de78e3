package pdnode

import "github.com/dudk/pdengine/pdmsg"

// BaseObject implements the bookkeeping every Object needs — inlet/outlet
// connection lists and the planner's visited flag (spec §3, "Object"
// fields) — so concrete objects in pdobj only need to implement
// ReceiveMessage and the handful of classification methods that vary.
// Embed it by value; it is never shared between objects.
type BaseObject struct {
	label string

	numInlets  int
	numOutlets int

	inletKinds  []Kind
	outletKinds []Kind

	incoming [][]Endpoint
	outgoing [][]Endpoint

	rootNode bool
	leafNode bool

	visited bool
}

// NewBase constructs a BaseObject with the given label and inlet/outlet
// counts. inletKinds/outletKinds may be nil, in which case every slot
// defaults to MessageKind.
func NewBase(label string, numInlets, numOutlets int, inletKinds, outletKinds []Kind) BaseObject {
	b := BaseObject{
		label:       label,
		numInlets:   numInlets,
		numOutlets:  numOutlets,
		inletKinds:  inletKinds,
		outletKinds: outletKinds,
		incoming:    make([][]Endpoint, numInlets),
		outgoing:    make([][]Endpoint, numOutlets),
	}
	return b
}

// MarkRootNode flags this object as a logical planner root (receive,
// receive~, catch~, graph inlet bridges).
func (b *BaseObject) MarkRootNode() { b.rootNode = true }

// MarkLeafNode flags this object as a logical planner leaf (send, send~,
// throw~, graph outlet bridges).
func (b *BaseObject) MarkLeafNode() { b.leafNode = true }

func (b *BaseObject) Label() string   { return b.label }
func (b *BaseObject) NumInlets() int  { return b.numInlets }
func (b *BaseObject) NumOutlets() int { return b.numOutlets }

func (b *BaseObject) InletKind(inlet int) Kind {
	if b.inletKinds == nil || inlet >= len(b.inletKinds) {
		return MessageKind
	}
	return b.inletKinds[inlet]
}

func (b *BaseObject) OutletKind(outlet int) Kind {
	if b.outletKinds == nil || outlet >= len(b.outletKinds) {
		return MessageKind
	}
	return b.outletKinds[outlet]
}

func (b *BaseObject) DoesProcessAudio() bool { return false }
func (b *BaseObject) IsRootNode() bool       { return b.rootNode }
func (b *BaseObject) IsLeafNode() bool       { return b.leafNode }

func (b *BaseObject) Incoming(inlet int) []Endpoint {
	if inlet < 0 || inlet >= len(b.incoming) {
		return nil
	}
	return b.incoming[inlet]
}

func (b *BaseObject) Outgoing(outlet int) []Endpoint {
	if outlet < 0 || outlet >= len(b.outgoing) {
		return nil
	}
	return b.outgoing[outlet]
}

func (b *BaseObject) addIncoming(inlet int, ep Endpoint) {
	if inlet < 0 || inlet >= len(b.incoming) {
		return
	}
	b.incoming[inlet] = append(b.incoming[inlet], ep)
}

func (b *BaseObject) addOutgoing(outlet int, ep Endpoint) {
	if outlet < 0 || outlet >= len(b.outgoing) {
		return
	}
	b.outgoing[outlet] = append(b.outgoing[outlet], ep)
}

func (b *BaseObject) Visited() bool     { return b.visited }
func (b *BaseObject) SetVisited(v bool) { b.visited = v }

// ReceiveMessage is the default no-op implementation; objects that accept
// messages override it by defining their own method, which shadows this
// one through Go's embedding rules.
func (b *BaseObject) ReceiveMessage(inlet int, msg *pdmsg.Message) {}

// BaseSignalObject extends BaseObject with the per-slot sample buffers a
// SignalObject needs (spec §3: "per-inlet local signal buffer pointer...
// per-outlet local signal buffer (owned)").
type BaseSignalObject struct {
	BaseObject

	numSignalInlets  int
	numSignalOutlets int

	inletBuffers  [][]float32 // aliased (not owned) except for the zero rail
	outletBuffers [][]float32 // owned

	zero []float32 // shared zero rail for unconnected signal inlets
}

// NewBaseSignal constructs a BaseSignalObject. blockSize sizes the owned
// outlet buffers and the shared zero rail up front so ProcessDsp never
// allocates (spec §5).
func NewBaseSignal(label string, numInlets, numOutlets, numSignalInlets, numSignalOutlets, blockSize int, inletKinds, outletKinds []Kind) BaseSignalObject {
	s := BaseSignalObject{
		BaseObject:       NewBase(label, numInlets, numOutlets, inletKinds, outletKinds),
		numSignalInlets:  numSignalInlets,
		numSignalOutlets: numSignalOutlets,
		inletBuffers:     make([][]float32, numSignalInlets),
		outletBuffers:    make([][]float32, numSignalOutlets),
		zero:             make([]float32, blockSize),
	}
	for i := range s.inletBuffers {
		s.inletBuffers[i] = s.zero
	}
	for i := range s.outletBuffers {
		s.outletBuffers[i] = make([]float32, blockSize)
	}
	return s
}

func (s *BaseSignalObject) DoesProcessAudio() bool  { return true }
func (s *BaseSignalObject) NumSignalInlets() int    { return s.numSignalInlets }
func (s *BaseSignalObject) NumSignalOutlets() int   { return s.numSignalOutlets }

func (s *BaseSignalObject) InletBuffer(inlet int) []float32 {
	if inlet < 0 || inlet >= len(s.inletBuffers) {
		return nil
	}
	return s.inletBuffers[inlet]
}

func (s *BaseSignalObject) SetInletBuffer(inlet int, buf []float32) {
	if inlet < 0 || inlet >= len(s.inletBuffers) {
		return
	}
	s.inletBuffers[inlet] = buf
}

func (s *BaseSignalObject) OutletBuffer(outlet int) []float32 {
	if outlet < 0 || outlet >= len(s.outletBuffers) {
		return nil
	}
	return s.outletBuffers[outlet]
}

// ResetInletBuffer rewires an inlet back onto the shared zero rail, used
// when a signal connection is torn down (not exercised by the static
// patches this engine loads today, but kept symmetrical with SetInletBuffer).
func (s *BaseSignalObject) ResetInletBuffer(inlet int) {
	s.SetInletBuffer(inlet, s.zero)
}
