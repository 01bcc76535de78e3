package pdnode

import "math"

// Precedence is the combinatorial state of a mixed signal object's two
// inlets (spec §4.3): which side — DSP or the last received message —
// supplies that inlet's value for the remainder of the block.
type Precedence int

const (
	// DspDsp: both inlets are driven by signal.
	DspDsp Precedence = iota
	// DspMessage: inlet 0 is signal, inlet 1 holds a constant from a message.
	DspMessage
	// MessageDsp: inlet 0 holds a constant from a message, inlet 1 is signal.
	MessageDsp
	// MessageMessage: both inlets hold constants; the object is inert.
	MessageMessage
)

func (p Precedence) String() string {
	switch p {
	case DspDsp:
		return "DSP_DSP"
	case DspMessage:
		return "DSP_MESSAGE"
	case MessageDsp:
		return "MESSAGE_DSP"
	case MessageMessage:
		return "MESSAGE_MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// MixedCursor is the per-block bookkeeping a mixed-inlet signal object
// carries (spec §3, §4.3): which precedence is currently in force, and up
// to which sample index audio has already been computed this block.
type MixedCursor struct {
	Precedence              Precedence
	BlockIndexOfLastMessage float64
}

// ResetForBlock is called once at the start of every block (spec §4.3:
// "At block start, blockIndexOfLastMessage = 0 for every mixed object").
func (c *MixedCursor) ResetForBlock() {
	c.BlockIndexOfLastMessage = 0
}

// MessageBlockIndex converts a message's timestamp into a fractional
// sample index within the current block (spec §4.3).
func MessageBlockIndex(msgTimestamp, blockStartTimestamp, sampleRate float64) float64 {
	return (msgTimestamp - blockStartTimestamp) * sampleRate / 1000.0
}

// ComputedUpTo returns the integer sample count already computed given a
// fractional cursor — consumers take the ceiling (spec §4.3).
func ComputedUpTo(cursor float64) int {
	return int(math.Ceil(cursor))
}

// ComputeThrough returns the integer sample count to compute through given
// a fractional message index — consumers take the floor (spec §4.3).
func ComputeThrough(messageBlockIndex float64) int {
	return int(math.Floor(messageBlockIndex))
}
