package pdobj

import (
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("*~", newMultiplySignal)
}

// breakpoint records a constant change landing on the right inlet at a
// specific sample offset within a block (spec §4.3).
type breakpoint struct {
	sampleIndex int
	value       float32
}

// multiplySignal implements "*~": multiplies inlet 0 by inlet 1 sample by
// sample. Either inlet may be driven by a signal connection or left as a
// plain float constant set by message (spec §4.3, "mixed inlet"); when a
// message arrives at the right inlet mid-block, samples before the
// message's position use the old constant and samples from that position
// on use the new one (spec §8 scenario 2). Every message that lands within
// the same block is kept, in arrival order, so a block with two or more
// right-inlet messages still carves out each one's own segment rather than
// collapsing to just the first and last.
type multiplySignal struct {
	pdnode.BaseSignalObject
	owner pdnode.Owner

	right           float32 // constant currently in force for inlet 1
	blockStartValue float32 // constant in force before this block's first message
	breaks          []breakpoint
	cursor          pdnode.MixedCursor
}

func newMultiplySignal(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	m := &multiplySignal{
		BaseSignalObject: pdnode.NewBaseSignal("*~", 2, 1, 2, 1, blockSize,
			[]pdnode.Kind{pdnode.SignalKind, pdnode.SignalKind}, []pdnode.Kind{pdnode.SignalKind}),
		owner: owner,
		right: 0,
	}
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		m.right = args[0].Float
	}
	m.blockStartValue = m.right
	return m, nil
}

// ReceiveMessage handles a float landing on the right inlet (inlet 1)
// mid-block: it records where in the current block the new constant takes
// effect, rather than applying it retroactively to samples already
// computed (spec §4.3). Multiple messages in the same block each get their
// own breakpoint; none of them overwrite an earlier one's segment.
func (m *multiplySignal) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	if inlet != 1 {
		return
	}
	f, ok := msg.Float(0)
	if !ok {
		return
	}
	if len(m.breaks) == 0 {
		m.blockStartValue = m.right
	}
	idx := pdnode.MessageBlockIndex(msg.Timestamp, m.owner.BlockStartTimestamp(), m.owner.SampleRate())
	sample := pdnode.ComputeThrough(idx)
	if sample < 0 {
		sample = 0
	}
	m.breaks = append(m.breaks, breakpoint{sampleIndex: sample, value: f})
	m.right = f
}

func (m *multiplySignal) ProcessDsp(blockSize int) {
	m.cursor.ResetForBlock()

	left := m.InletBuffer(0)
	rightSignal := len(m.Incoming(1)) > 0
	out := m.OutletBuffer(0)
	right := m.InletBuffer(1)

	pos := 0
	value := m.blockStartValue
	for _, bp := range m.breaks {
		end := bp.sampleIndex
		if end < pos {
			end = pos
		}
		if end > blockSize {
			end = blockSize
		}
		for i := pos; i < end; i++ {
			r := value
			if rightSignal {
				r = right[i]
			}
			out[i] = left[i] * r
		}
		pos = end
		value = bp.value
	}
	for i := pos; i < blockSize; i++ {
		r := value
		if rightSignal {
			r = right[i]
		}
		out[i] = left[i] * r
	}

	m.breaks = m.breaks[:0]
	m.blockStartValue = m.right
	m.cursor.BlockIndexOfLastMessage = float64(blockSize)
}
