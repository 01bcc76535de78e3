package pdobj

import (
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("bang", newBang)
	register("b", newBang)
	register("print", newPrint)
	register("send", newSend)
	register("s", newSend)
	register("receive", newReceive)
	register("r", newReceive)
}

// bangObj implements "bang" / "b": any message at its one inlet is
// converted to a bare bang on its one outlet.
type bangObj struct {
	pdnode.BaseObject
	out *pdmsg.Pool
}

func newBang(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	return &bangObj{BaseObject: pdnode.NewBase("bang", 1, 1, nil, nil), out: pdmsg.NewPool(1, 1)}, nil
}

func (b *bangObj) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	out := b.out.Get(msg.Timestamp)
	out.Elements = append(out.Elements, pdmsg.NewBang())
	sendOut(b, 0, out)
}

// printObj implements "print": writes every message it receives to the
// owning graph's standard print sink (spec §5, PrintStd).
type printObj struct {
	pdnode.BaseObject
	owner pdnode.Owner
	label string
}

func newPrint(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	label := "print"
	if len(args) > 0 && args[0].Kind == pdmsg.Symbol {
		label = args[0].Symbol
	}
	return &printObj{BaseObject: pdnode.NewBase("print", 1, 0, nil, nil), owner: owner, label: label}, nil
}

func (p *printObj) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	p.owner.PrintStd(p.label + ": " + msg.String())
}

// sendObj implements "send" / "s": forwards every message it receives to
// every receive object registered under the same name (spec §4.5). It is
// a logical planner leaf: nothing is ever wired downstream of it inside
// the same graph, the named channel carries the connection instead.
type sendObj struct {
	pdnode.BaseObject
	owner pdnode.Owner
	name  string
}

func newSend(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	name := ""
	if len(args) > 0 && args[0].Kind == pdmsg.Symbol {
		name = args[0].Symbol
	}
	s := &sendObj{BaseObject: pdnode.NewBase("send", 1, 0, nil, nil), owner: owner, name: name}
	s.MarkLeafNode()
	if err := owner.RegisterSender(name, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sendObj) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	s.owner.DispatchNamed(s.name, msg)
}

// receiveObj implements "receive" / "r": has no real inlet, its output
// fires whenever a send object dispatches under the same name. It is a
// logical planner root for the same reason send is a leaf.
type receiveObj struct {
	pdnode.BaseObject
}

func newReceive(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	name := ""
	if len(args) > 0 && args[0].Kind == pdmsg.Symbol {
		name = args[0].Symbol
	}
	r := &receiveObj{BaseObject: pdnode.NewBase("receive", 0, 1, nil, nil)}
	r.MarkRootNode()
	owner.RegisterReceiver(name, r)
	return r, nil
}

func (r *receiveObj) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	sendOut(r, 0, msg)
}
