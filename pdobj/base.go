// Package pdobj is the built-in object library: the concrete Objects a
// parsed patch instantiates by class name (spec §4.1, §8). Every type here
// embeds pdnode.BaseObject or pdnode.BaseSignalObject and overrides
// ReceiveMessage and, for signal objects, ProcessDsp.
package pdobj

import (
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

// sendOut delivers msg synchronously to every endpoint wired to outlet, in
// the order those connections were made, for objects that don't need to
// go through the scheduler (spec §4.2, §4.6). Objects with several outlets
// call it once per outlet, highest outlet first.
func sendOut(obj pdnode.Object, outlet int, msg *pdmsg.Message) {
	for _, ep := range obj.Outgoing(outlet) {
		ep.Object.ReceiveMessage(ep.Slot, msg)
	}
}

// Factory describes how a patch's textual class name and creation
// arguments map onto a constructor. pdparse looks objects up in a
// Registry to build the live graph (spec §4.1).
type Factory func(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error)

// Registry is the default built-in object table, grounded one entry per
// concrete type in this package. pdparse consults it before searching for
// an abstraction file of the same name.
var Registry = map[string]Factory{}

func register(name string, f Factory) { Registry[name] = f }
