package pdnode

import "github.com/dudk/pdengine/pdmsg"

// Owner is the set of root-graph facilities an Object reaches through its
// (non-owning) back-pointer to the graph that contains it (spec §3,
// "Object" fields: "owning graph reference"; §5: "Root-graph-only
// facilities... are accessed through the parent chain"). A concrete Graph
// implements Owner directly; a child graph's implementation delegates
// every root-only method up the parent chain instead of handling it
// locally (spec §9 Open Question: the one non-root graph operation that
// must delegate rather than recurse on itself).
type Owner interface {
	// Root returns the root graph's Owner.
	Root() Owner

	// ScheduleMessage and CancelMessage forward to the root scheduler.
	ScheduleMessage(target Object, outlet int, msg *pdmsg.Message)
	CancelMessage(target Object, outlet int, msg *pdmsg.Message)

	// RegisterSender/RegisterReceiver/DispatchNamed/HasSender back the
	// message-rate named-channel registry (send/receive).
	RegisterSender(name string, obj Object) error
	RegisterReceiver(name string, obj Object)
	DispatchNamed(name string, msg *pdmsg.Message)
	HasSender(name string) bool

	// RegisterSignalProducer/RegisterSignalConsumer/SignalProducers back
	// the signal-rate named-channel registry (send~/receive~/throw~/catch~).
	RegisterSignalProducer(name string, obj SignalObject)
	RegisterSignalConsumer(name string, obj SignalObject)
	SignalProducers(name string) []SignalObject

	// PrintStd/PrintErr forward to the root's installed print sinks.
	PrintStd(msg string)
	PrintErr(msg string)

	// BlockStartTimestamp, BlockSize and SampleRate expose the current
	// block's timing so mixed-inlet objects can locate messages within it
	// (spec §4.3).
	BlockStartTimestamp() float64
	BlockSize() int
	SampleRate() float64

	// InputChannel and OutputChannel expose the host's hardware audio
	// rails to adc~/dac~ as aliased per-channel slices (spec §3, "Graph"
	// invariants: the root graph owns the input/output rails). Indices
	// beyond what the host configured return a freshly allocated zeroed
	// slice (writes to it are discarded) rather than panicking.
	InputChannel(channel int) []float32
	OutputChannel(channel int) []float32
}
