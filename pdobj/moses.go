package pdobj

import (
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("moses", newMoses)
}

// moses implements "moses": a float at the hot left inlet is compared
// against a threshold (the creation argument, or whatever was last sent
// to the cold right inlet) and routed strictly less-than to outlet 0,
// greater-or-equal to outlet 1 (spec §8 scenario 4). A value exactly equal
// to the threshold goes to outlet 1, never outlet 0.
type moses struct {
	pdnode.BaseObject
	threshold float32
	out       *pdmsg.Pool
}

func newMoses(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	m := &moses{
		BaseObject: pdnode.NewBase("moses", 2, 2, nil, nil),
		out:        pdmsg.NewPool(1, 1),
	}
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		m.threshold = args[0].Float
	}
	return m, nil
}

func (m *moses) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	if inlet == 1 {
		if f, ok := msg.Float(0); ok {
			m.threshold = f
		}
		return
	}
	f, ok := msg.Float(0)
	if !ok {
		return
	}
	out := m.out.Get(msg.Timestamp)
	out.Elements = append(out.Elements, pdmsg.NewFloat(f))
	if f < m.threshold {
		sendOut(m, 0, out)
	} else {
		sendOut(m, 1, out)
	}
}
