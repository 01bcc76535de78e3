package pdobj

import (
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("msg", newMsgBox)
	register("floatatom", newAtom)
	register("symbolatom", newAtom)
}

// msgBox implements a Pd message box: any input at its one inlet fires
// its fixed template of elements, with any $N tokens inside the template
// resolved against the *triggering* message rather than the graph's
// creation arguments (spec §4.1, "argument expansion... a message box's
// $N instead refers to the element at that position in whatever message
// triggered it").
type msgBox struct {
	pdnode.BaseObject
	template []pdmsg.Element
	out      *pdmsg.Pool
}

func newMsgBox(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	m := &msgBox{
		BaseObject: pdnode.NewBase("msg", 1, 1, nil, nil),
		template:   args,
		out:        pdmsg.NewPool(1, len(args)+1),
	}
	return m, nil
}

func (m *msgBox) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	out := m.out.Get(msg.Timestamp)
	for _, tmpl := range m.template {
		if tmpl.IsDollar() {
			resolved, err := tmpl.ResolveDollar(msg.Elements)
			if err != nil {
				continue
			}
			out.Elements = append(out.Elements, resolved)
			continue
		}
		out.Elements = append(out.Elements, tmpl)
	}
	sendOut(m, 0, out)
}

// atom implements the number-box ("floatatom") and symbol-box
// ("symbolatom") GUI objects: a single inlet/outlet pass-through that
// also remembers its last value (spec supplement: GUI atoms are plain
// patch objects at the data-flow level, their on-screen editing is a host
// concern outside this engine's scope).
type atom struct {
	pdnode.BaseObject
	last *pdmsg.Message
	out  *pdmsg.Pool
}

func newAtom(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	return &atom{BaseObject: pdnode.NewBase("atom", 1, 1, nil, nil), out: pdmsg.NewPool(1, 1)}, nil
}

func (a *atom) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	a.last = msg
	sendOut(a, 0, msg)
}
