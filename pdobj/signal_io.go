package pdobj

import (
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("send~", newSendSignal)
	register("receive~", newReceiveSignal)
	register("throw~", newThrowSignal)
	register("catch~", newCatchSignal)
}

// sendSignal and throwSignal both publish a signal under a name for a
// matching receive~/catch~ to pick up (spec §4.5); a receive~ reads only
// the first producer registered under its name (a further send~ on the
// same name is accepted but not read), while throw~/catch~ let several
// throw~s sum into one catch~ (spec §3, Named channel). Both are logical planner
// leaves: they have no real downstream wiring of their own.
type sendSignal struct {
	pdnode.BaseSignalObject
}

func newSendSignal(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	name := ""
	if len(args) > 0 && args[0].Kind == pdmsg.Symbol {
		name = args[0].Symbol
	}
	s := &sendSignal{
		BaseSignalObject: pdnode.NewBaseSignal("send~", 1, 0, 1, 0, blockSize,
			[]pdnode.Kind{pdnode.SignalKind}, nil),
	}
	s.MarkLeafNode()
	owner.RegisterSignalProducer(name, s)
	return s, nil
}

func (s *sendSignal) ProcessDsp(blockSize int) {}

type throwSignal struct {
	pdnode.BaseSignalObject
}

func newThrowSignal(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	name := ""
	if len(args) > 0 && args[0].Kind == pdmsg.Symbol {
		name = args[0].Symbol
	}
	t := &throwSignal{
		BaseSignalObject: pdnode.NewBaseSignal("throw~", 1, 0, 1, 0, blockSize,
			[]pdnode.Kind{pdnode.SignalKind}, nil),
	}
	t.MarkLeafNode()
	owner.RegisterSignalProducer(name, t)
	return t, nil
}

func (t *throwSignal) ProcessDsp(blockSize int) {}

// receiveSignal implements "receive~": pulls samples from whichever
// send~ registered under the same name and copies them to its outlet
// buffer each block. It is a logical planner root since its real input
// arrives via the named registry, not a patch cord.
type receiveSignal struct {
	pdnode.BaseSignalObject
	owner pdnode.Owner
	name  string
}

func newReceiveSignal(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	name := ""
	if len(args) > 0 && args[0].Kind == pdmsg.Symbol {
		name = args[0].Symbol
	}
	r := &receiveSignal{
		BaseSignalObject: pdnode.NewBaseSignal("receive~", 0, 1, 0, 1, blockSize,
			nil, []pdnode.Kind{pdnode.SignalKind}),
		owner: owner,
		name:  name,
	}
	r.MarkRootNode()
	owner.RegisterSignalConsumer(name, r)
	return r, nil
}

func (r *receiveSignal) ProcessDsp(blockSize int) {
	out := r.OutletBuffer(0)
	producers := r.owner.SignalProducers(r.name)
	if len(producers) == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	copy(out, producers[0].InletBuffer(0))
}

// catchSignal implements "catch~": sums every throw~ registered under
// the same name into its outlet buffer each block.
type catchSignal struct {
	pdnode.BaseSignalObject
	owner pdnode.Owner
	name  string
}

func newCatchSignal(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	name := ""
	if len(args) > 0 && args[0].Kind == pdmsg.Symbol {
		name = args[0].Symbol
	}
	c := &catchSignal{
		BaseSignalObject: pdnode.NewBaseSignal("catch~", 0, 1, 0, 1, blockSize,
			nil, []pdnode.Kind{pdnode.SignalKind}),
		owner: owner,
		name:  name,
	}
	c.MarkRootNode()
	owner.RegisterSignalConsumer(name, c)
	return c, nil
}

func (c *catchSignal) ProcessDsp(blockSize int) {
	out := c.OutletBuffer(0)
	for i := range out {
		out[i] = 0
	}
	for _, p := range c.owner.SignalProducers(c.name) {
		in := p.InletBuffer(0)
		for i := range out {
			out[i] += in[i]
		}
	}
}
