// Package pdgraph implements the Graph container (spec §2 item 4, §3
// "Graph"): the ordered list of a graph's direct children, its nesting
// into subgraphs via inlet/outlet bridges, and — for the root graph only —
// the scheduler, audio rails, named-channel registries and print sinks
// that every object reaches through the parent chain.
package pdgraph

import (
	"fmt"

	"github.com/dudk/pdengine/internal/pdaudio"
	"github.com/dudk/pdengine/internal/pdlog"
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
	"github.com/dudk/pdengine/pdplan"
	"github.com/dudk/pdengine/pdreg"
	"github.com/dudk/pdengine/pdsched"
)

// IDGenerator issues the process-wide-looking but injectable graph id
// sequence used to expand $0 (spec §9: "Global mutable counters... isolate
// it into a small state object... to keep tests deterministic").
type IDGenerator interface {
	NextGraphID() int
}

type counterIDGenerator struct{ next int }

// NewIDGenerator returns a fresh, zero-based counter.
func NewIDGenerator() IDGenerator { return &counterIDGenerator{} }

func (g *counterIDGenerator) NextGraphID() int {
	id := g.next
	g.next++
	return id
}

// Graph is both a container of child Objects and, when nested, an Object
// itself bridging into its enclosing graph (spec §2 item 4).
type Graph struct {
	pdnode.BaseSignalObject

	parent *Graph
	id     int
	args   []pdmsg.Element

	objects []pdnode.Object

	inletBridges  []*inletBridge
	outletBridges []*outletBridge

	signalOrder []pdnode.SignalObject
	planned     bool

	root *rootState // non-nil only for the root graph
}

// rootState holds the facilities spec §3 describes as owned only by the
// root graph and reached by every other graph via the parent chain.
type rootState struct {
	idGen       IDGenerator
	scheduler   *pdsched.Scheduler
	msgRegistry *pdreg.MessageRegistry
	sigRegistry *pdreg.SignalRegistry
	logger      pdlog.Logger
	printStd    pdlog.PrintFunc
	printErr    pdlog.PrintFunc

	blockSize           int
	inputChannels       int
	outputChannels      int
	sampleRate          float64
	blockDurationMs     float64
	blockStartTimestamp float64

	inputRail  pdaudio.Rail
	outputRail pdaudio.Rail

	sessionID string
}

// rootGraph walks the parent chain to the owning root graph.
func (g *Graph) rootGraph() *Graph {
	r := g
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Root implements pdnode.Owner.
func (g *Graph) Root() pdnode.Owner { return g.rootGraph() }

// SessionID returns the unique identifier minted for this root graph's
// run, used to tell separate engine instances apart in logs when several
// run side by side in the same process.
func (g *Graph) SessionID() string { return g.rootGraph().root.sessionID }

// --- pdnode.Owner, always delegated to the root (spec §9 Open Question,
// resolved: delegate, never recurse on a non-root graph's own state) ---

func (g *Graph) ScheduleMessage(target pdnode.Object, outlet int, msg *pdmsg.Message) {
	g.rootGraph().root.scheduler.ScheduleMessage(target, outlet, msg)
}

func (g *Graph) CancelMessage(target pdnode.Object, outlet int, msg *pdmsg.Message) {
	g.rootGraph().root.scheduler.CancelMessage(target, outlet, msg)
}

func (g *Graph) RegisterSender(name string, obj pdnode.Object) error {
	return g.rootGraph().root.msgRegistry.RegisterSender(name, obj)
}

func (g *Graph) RegisterReceiver(name string, obj pdnode.Object) {
	g.rootGraph().root.msgRegistry.RegisterReceiver(name, obj)
}

func (g *Graph) DispatchNamed(name string, msg *pdmsg.Message) {
	g.rootGraph().root.msgRegistry.Dispatch(name, msg)
}

func (g *Graph) HasSender(name string) bool {
	return g.rootGraph().root.msgRegistry.HasSender(name)
}

func (g *Graph) RegisterSignalProducer(name string, obj pdnode.SignalObject) {
	g.rootGraph().root.sigRegistry.RegisterProducer(name, obj)
}

func (g *Graph) RegisterSignalConsumer(name string, obj pdnode.SignalObject) {
	g.rootGraph().root.sigRegistry.RegisterConsumer(name, obj)
}

func (g *Graph) SignalProducers(name string) []pdnode.SignalObject {
	return g.rootGraph().root.sigRegistry.Producers(name)
}

func (g *Graph) PrintStd(msg string) { g.rootGraph().root.printStd(msg) }
func (g *Graph) PrintErr(msg string) { g.rootGraph().root.printErr(msg) }

func (g *Graph) BlockStartTimestamp() float64 { return g.rootGraph().root.blockStartTimestamp }
func (g *Graph) BlockSize() int               { return g.rootGraph().root.blockSize }
func (g *Graph) SampleRate() float64          { return g.rootGraph().root.sampleRate }

func (g *Graph) InputChannel(channel int) []float32 {
	r := g.rootGraph().root
	if channel < 0 || channel >= r.inputChannels {
		return make([]float32, r.blockSize)
	}
	return r.inputRail.Channel(channel, r.blockSize)
}

func (g *Graph) OutputChannel(channel int) []float32 {
	r := g.rootGraph().root
	if channel < 0 || channel >= r.outputChannels {
		return make([]float32, r.blockSize)
	}
	return r.outputRail.Channel(channel, r.blockSize)
}

// --- construction / assembly ---

// Args returns the graph's initializer-argument message; element 0 is
// always the unique graph id, the expansion of $0 (spec §3).
func (g *Graph) Args() []pdmsg.Element { return g.args }

// ID returns this graph's unique id.
func (g *Graph) ID() int { return g.id }

// AddObject appends obj to the graph's child list and returns its stable,
// declaration-order index (spec §3: "indices in this list are the stable
// identifiers used by connect directives").
func (g *Graph) AddObject(obj pdnode.Object) int {
	g.objects = append(g.objects, obj)
	return len(g.objects) - 1
}

// Object returns the child at index i.
func (g *Graph) Object(i int) (pdnode.Object, bool) {
	if i < 0 || i >= len(g.objects) {
		return nil, false
	}
	return g.objects[i], true
}

// Objects returns the graph's direct children in declaration order.
func (g *Graph) Objects() []pdnode.Object { return g.objects }

// InletBridge returns the Object standing in for the graph's i'th inlet,
// for a loader assembling a subgraph's interior wiring (spec glossary,
// "Bridge").
func (g *Graph) InletBridge(i int) (pdnode.Object, bool) {
	if i < 0 || i >= len(g.inletBridges) {
		return nil, false
	}
	return g.inletBridges[i], true
}

// OutletBridge returns the Object standing in for the graph's i'th
// outlet.
func (g *Graph) OutletBridge(i int) (pdnode.Object, bool) {
	if i < 0 || i >= len(g.outletBridges) {
		return nil, false
	}
	return g.outletBridges[i], true
}

// Connect wires outlet fromOutlet of the object at fromIdx to inlet
// toInlet of the object at toIdx (spec §4.2). It returns an error if
// either index is out of range (spec §7: "connection-target-missing").
func (g *Graph) Connect(fromIdx, fromOutlet, toIdx, toInlet int) error {
	src, ok := g.Object(fromIdx)
	if !ok {
		return fmt.Errorf("pdgraph: connect: source index %d out of range", fromIdx)
	}
	dst, ok := g.Object(toIdx)
	if !ok {
		return fmt.Errorf("pdgraph: connect: destination index %d out of range", toIdx)
	}
	if fromOutlet < 0 || fromOutlet >= src.NumOutlets() {
		return fmt.Errorf("pdgraph: connect: source outlet %d out of range for %q", fromOutlet, src.Label())
	}
	if toInlet < 0 || toInlet >= dst.NumInlets() {
		return fmt.Errorf("pdgraph: connect: destination inlet %d out of range for %q", toInlet, dst.Label())
	}
	pdnode.Connect(src, fromOutlet, dst, toInlet)
	g.planned = false
	return nil
}

// ConnectObjects wires src/dst directly rather than by g.objects index,
// for callers (pdparse) that already hold object references — such as
// inlet/outlet bridges, which are never addressed by a patch's own
// declaration-order indices.
func (g *Graph) ConnectObjects(src pdnode.Object, fromOutlet int, dst pdnode.Object, toInlet int) error {
	if fromOutlet < 0 || fromOutlet >= src.NumOutlets() {
		return fmt.Errorf("pdgraph: connect: source outlet %d out of range for %q", fromOutlet, src.Label())
	}
	if toInlet < 0 || toInlet >= dst.NumInlets() {
		return fmt.Errorf("pdgraph: connect: destination inlet %d out of range for %q", toInlet, dst.Label())
	}
	pdnode.Connect(src, fromOutlet, dst, toInlet)
	g.planned = false
	return nil
}

// Plan (re)computes the graph's own signal execution list (spec §4.4,
// §7). A signal cycle is logged and excluded rather than aborting
// planning for the rest of the graph.
func (g *Graph) Plan() error {
	g.signalOrder = pdplan.ProcessOrderTolerant(g.objects, func(cycleErr *pdplan.CycleError) {
		g.PrintErr(cycleErr.Error())
	})
	g.planned = true
	return nil
}

// ProcessOrder implements pdnode.GraphObject: the enclosing graph's
// planner treats a nested Graph as a single node, and asking it for its
// own process order triggers its internal planning if needed (spec §4.4:
// "each graph internally plans itself when asked for its process order").
func (g *Graph) ProcessOrder() []pdnode.SignalObject {
	if !g.planned {
		_ = g.Plan()
	}
	return g.signalOrder
}

// ReceiveMessage forwards a message delivered at one of the graph's own
// inlets (when this Graph is nested inside a parent) to the matching
// inlet bridge inside the subgraph.
func (g *Graph) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	if inlet < 0 || inlet >= len(g.inletBridges) {
		return
	}
	g.inletBridges[inlet].Forward(msg)
}

// ProcessDsp runs this graph's own signal execution list, then lets the
// block engine for nested graphs stand in for its contribution to the
// parent's list (spec §4.4: nested graphs are single nodes upstream, but
// must still run their own plan each block).
func (g *Graph) ProcessDsp(blockSize int) {
	for _, o := range g.ProcessOrder() {
		o.ProcessDsp(blockSize)
	}
}
