package pdobj

import (
	"math"

	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("+", newAdd)
	register("pow", newPow)
	register("float", newFloatBox)
}

// add implements "+": a cold right inlet holds the operand, a float or
// bang at the hot left inlet adds it and outputs the sum (spec §8
// scenario 3's sibling object; same cold/hot convention as every other
// arithmetic object).
type add struct {
	pdnode.BaseObject
	operand float32
	out     *pdmsg.Pool
}

func newAdd(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	a := &add{
		BaseObject: pdnode.NewBase("+", 2, 1, nil, nil),
		out:        pdmsg.NewPool(1, 1),
	}
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		a.operand = args[0].Float
	}
	return a, nil
}

func (a *add) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	if inlet == 1 {
		if f, ok := msg.Float(0); ok {
			a.operand = f
		}
		return
	}
	if f, ok := msg.Float(0); ok {
		out := a.out.Get(msg.Timestamp)
		out.Elements = append(out.Elements, pdmsg.NewFloat(f+a.operand))
		sendOut(a, 0, out)
	}
}

// pow implements "pow": cold right inlet holds the exponent, a float at
// the hot left inlet raises it to that power. The outgoing message is
// built and sent before the operand mutates if the same message also
// targets the cold inlet, resolving the ordering bug a naive
// mutate-then-send implementation would hit when pow is re-entered from
// its own output via a feedback patch cord.
type pow struct {
	pdnode.BaseObject
	exponent float32
	out      *pdmsg.Pool
}

func newPow(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	p := &pow{
		BaseObject: pdnode.NewBase("pow", 2, 1, nil, nil),
		exponent:   1,
		out:        pdmsg.NewPool(1, 1),
	}
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		p.exponent = args[0].Float
	}
	return p, nil
}

func (p *pow) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	if inlet == 1 {
		if f, ok := msg.Float(0); ok {
			p.exponent = f
		}
		return
	}
	f, ok := msg.Float(0)
	if !ok {
		return
	}
	result := pow32(f, p.exponent)
	out := p.out.Get(msg.Timestamp)
	out.Elements = append(out.Elements, pdmsg.NewFloat(result))
	sendOut(p, 0, out)
}

func pow32(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

// floatBox implements "float": stores a value from its cold inlet (inlet
// 1) or the creation argument, outputs it on a bang at the hot inlet.
type floatBox struct {
	pdnode.BaseObject
	value float32
	out   *pdmsg.Pool
}

func newFloatBox(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	f := &floatBox{BaseObject: pdnode.NewBase("float", 2, 1, nil, nil), out: pdmsg.NewPool(1, 1)}
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		f.value = args[0].Float
	}
	return f, nil
}

func (f *floatBox) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	if inlet == 1 {
		if v, ok := msg.Float(0); ok {
			f.value = v
		}
		return
	}
	if v, ok := msg.Float(0); ok {
		f.value = v
	}
	out := f.out.Get(msg.Timestamp)
	out.Elements = append(out.Elements, pdmsg.NewFloat(f.value))
	sendOut(f, 0, out)
}
