package pdgraph

import (
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

// inletBridge and outletBridge forward data across a subgraph boundary
// (spec glossary, "Bridge"). An inletBridge has no real incoming
// connections — its parent graph delivers to it directly — and fans the
// value out to whatever is wired to its single outlet inside the
// subgraph. An outletBridge mirrors this in the other direction.
//
// Both are logical planner roots/leaves regardless of their (typically
// empty, cross-boundary) wiring, per spec §4.4 step 2/6.
type inletBridge struct {
	pdnode.BaseSignalObject

	graph *Graph
	inlet int
}

func newInletBridge(signal bool, blockSize int, graph *Graph, inlet int) *inletBridge {
	outletKinds := []pdnode.Kind{pdnode.MessageKind}
	numSignalOutlets := 0
	if signal {
		outletKinds[0] = pdnode.SignalKind
		numSignalOutlets = 1
	}
	b := &inletBridge{
		BaseSignalObject: pdnode.NewBaseSignal("inlet", 0, 1, 0, numSignalOutlets, blockSize, nil, outletKinds),
		graph:            graph,
		inlet:            inlet,
	}
	b.MarkRootNode()
	return b
}

// Forward delivers a message that arrived at the enclosing graph's inlet
// to everything wired inside the subgraph.
func (b *inletBridge) Forward(msg *pdmsg.Message) {
	for _, ep := range b.Outgoing(0) {
		ep.Object.ReceiveMessage(ep.Slot, msg)
	}
}

// ProcessDsp copies the slice the graph's own inlet was wired to (by its
// parent) into the bridge's owned outlet buffer, carrying audio across
// the subgraph boundary once per block.
func (b *inletBridge) ProcessDsp(blockSize int) {
	if b.NumSignalOutlets() == 0 {
		return
	}
	copy(b.OutletBuffer(0), b.graph.InletBuffer(b.inlet))
}

type outletBridge struct {
	pdnode.BaseSignalObject
	forward func(msg *pdmsg.Message)

	graph  *Graph
	outlet int
}

func newOutletBridge(signal bool, blockSize int, graph *Graph, outlet int, forward func(msg *pdmsg.Message)) *outletBridge {
	inletKinds := []pdnode.Kind{pdnode.MessageKind}
	numSignalInlets := 0
	if signal {
		inletKinds[0] = pdnode.SignalKind
		numSignalInlets = 1
	}
	b := &outletBridge{
		BaseSignalObject: pdnode.NewBaseSignal("outlet", 1, 0, numSignalInlets, 0, blockSize, inletKinds, nil),
		forward:          forward,
		graph:            graph,
		outlet:           outlet,
	}
	b.MarkLeafNode()
	return b
}

func (b *outletBridge) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	b.forward(msg)
}

// ProcessDsp copies whatever was wired to the bridge's inlet inside the
// subgraph into the graph's own owned outlet buffer, carrying audio out
// across the subgraph boundary once per block.
func (b *outletBridge) ProcessDsp(blockSize int) {
	if b.NumSignalInlets() == 0 {
		return
	}
	copy(b.graph.OutletBuffer(b.outlet), b.InletBuffer(0))
}
