package pdgraph

import (
	"github.com/rs/xid"

	"github.com/dudk/pdengine/internal/pdaudio"
	"github.com/dudk/pdengine/internal/pdlog"
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
	"github.com/dudk/pdengine/pdreg"
	"github.com/dudk/pdengine/pdsched"
)

// Config carries everything needed to bring up a root graph (spec §5).
type Config struct {
	BlockSize      int
	InputChannels  int
	OutputChannels int
	SampleRate     float64

	// Logger is optional; a default logrus logger is installed if nil.
	Logger pdlog.Logger

	// IDGenerator is optional and injectable for deterministic tests
	// (spec §9 Open Question: isolate the $0 counter into a state object).
	IDGenerator IDGenerator
}

// NewRoot constructs the top-level graph and everything it owns: the
// scheduler, the two named-channel registries, the audio rails and the
// print sinks every descendant object reaches through the parent chain.
func NewRoot(cfg Config) *Graph {
	logger := cfg.Logger
	if logger == nil {
		logger = pdlog.New()
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = NewIDGenerator()
	}

	root := &rootState{
		idGen:           idGen,
		scheduler:       pdsched.New(),
		msgRegistry:     pdreg.NewMessageRegistry(),
		sigRegistry:     pdreg.NewSignalRegistry(),
		logger:          logger,
		printStd:        pdlog.StdSink(logger),
		printErr:        pdlog.ErrSink(logger),
		blockSize:       cfg.BlockSize,
		inputChannels:   cfg.InputChannels,
		outputChannels:  cfg.OutputChannels,
		sampleRate:      cfg.SampleRate,
		blockDurationMs: pdaudio.BlockDurationMs(cfg.BlockSize, int(cfg.SampleRate)),
		inputRail:       pdaudio.NewRail(cfg.InputChannels, cfg.BlockSize),
		outputRail:      pdaudio.NewRail(cfg.OutputChannels, cfg.BlockSize),
		sessionID:       xid.New().String(),
	}
	logger.Info("pdgraph: new session " + root.sessionID)

	g := &Graph{
		BaseSignalObject: pdnode.NewBaseSignal("pd", 0, 0, 0, 0, cfg.BlockSize, nil, nil),
		id:               idGen.NextGraphID(),
		root:             root,
	}
	g.args = []pdmsg.Element{pdmsg.NewFloat(float32(g.id))}
	return g
}

// NewSubgraph constructs a graph nested inside parent, wiring numInlets
// inlet bridges and numOutlets outlet bridges across the boundary
// (spec §3, "Graph"; glossary, "Bridge"). signalInlets/signalOutlets mark
// which of those carry audio rather than messages. args is the
// initializer message the subgraph was instantiated with; the freshly
// minted graph id (the $0 expansion) is prepended to it, so args[i]
// becomes the expansion of $(i+1).
func NewSubgraph(parent *Graph, numInlets, numOutlets int, signalInlets, signalOutlets []bool, args []pdmsg.Element) *Graph {
	root := parent.rootGraph().root
	blockSize := root.blockSize

	inletKinds := make([]pdnode.Kind, numInlets)
	for i := range inletKinds {
		inletKinds[i] = pdnode.MessageKind
		if i < len(signalInlets) && signalInlets[i] {
			inletKinds[i] = pdnode.SignalKind
		}
	}
	outletKinds := make([]pdnode.Kind, numOutlets)
	for i := range outletKinds {
		outletKinds[i] = pdnode.MessageKind
		if i < len(signalOutlets) && signalOutlets[i] {
			outletKinds[i] = pdnode.SignalKind
		}
	}

	numSigIn, numSigOut := 0, 0
	for _, k := range inletKinds {
		if k == pdnode.SignalKind {
			numSigIn++
		}
	}
	for _, k := range outletKinds {
		if k == pdnode.SignalKind {
			numSigOut++
		}
	}

	g := &Graph{
		BaseSignalObject: pdnode.NewBaseSignal("pd", numInlets, numOutlets, numSigIn, numSigOut, blockSize, inletKinds, outletKinds),
		parent:           parent,
		id:               parent.rootGraph().root.idGen.NextGraphID(),
	}

	g.args = append([]pdmsg.Element{pdmsg.NewFloat(float32(g.id))}, args...)

	g.inletBridges = make([]*inletBridge, numInlets)
	for i, k := range inletKinds {
		b := newInletBridge(k == pdnode.SignalKind, blockSize, g, i)
		g.inletBridges[i] = b
		g.AddObject(b)
	}

	g.outletBridges = make([]*outletBridge, numOutlets)
	for i, k := range outletKinds {
		outletIdx := i
		b := newOutletBridge(k == pdnode.SignalKind, blockSize, g, outletIdx, func(msg *pdmsg.Message) {
			for _, ep := range g.Outgoing(outletIdx) {
				ep.Object.ReceiveMessage(ep.Slot, msg)
			}
		})
		g.outletBridges[i] = b
		g.AddObject(b)
	}

	return g
}
