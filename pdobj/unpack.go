package pdobj

import (
	"fmt"

	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("unpack", newUnpack)
}

// unpack implements "unpack": creation arguments declare one outlet per
// slot, typed by "f" (float), "s" (symbol) or "*" (any). An incoming list
// is matched element-by-element against those declared types; a slot
// whose element is missing or mismatched is skipped on its own, while
// every other slot still fires (spec §8 scenario 5). Outlets that do fire
// are flushed right to left, matching every other multi-outlet object's
// delivery order (spec §4.2: "an object with N outlets delivers outlet
// N-1 first").
type unpack struct {
	pdnode.BaseObject
	owner    pdnode.Owner
	template []pdmsg.Element
	out      *pdmsg.Pool
}

func newUnpack(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	template := resolveTypeTokens(args)
	if len(template) == 0 {
		template = []pdmsg.Element{pdmsg.NewAny(), pdmsg.NewAny()}
	}
	u := &unpack{
		BaseObject: pdnode.NewBase("unpack", 1, len(template), nil, nil),
		owner:      owner,
		template:   template,
		out:        pdmsg.NewPool(len(template), 1),
	}
	return u, nil
}

// resolveTypeTokens turns the literal creation-argument tokens "f", "s" and
// "*" into genuine Float/Symbol/Any type markers (the original's
// resolveSymbolsToType), since the generic tokenizer has already turned
// them into plain Symbol elements by the time they reach here and
// TypeMatches compares on Kind alone. Any other symbol argument is left
// untouched, so this only affects unpack's own template, never a literal
// "f"/"s" symbol passed to some other object.
func resolveTypeTokens(args []pdmsg.Element) []pdmsg.Element {
	template := make([]pdmsg.Element, len(args))
	for i, a := range args {
		if a.Kind == pdmsg.Symbol {
			switch a.Symbol {
			case "f":
				template[i] = pdmsg.NewFloat(0)
				continue
			case "s":
				template[i] = pdmsg.NewSymbol("")
				continue
			case "*":
				template[i] = pdmsg.NewAny()
				continue
			}
		}
		template[i] = a
	}
	return template
}

func (u *unpack) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	elems := msg.Elements
	fired := make([]*pdmsg.Message, len(u.template))
	for i, tmpl := range u.template {
		if i >= len(elems) {
			continue
		}
		if !tmpl.TypeMatches(elems[i]) {
			u.owner.PrintErr(fmt.Sprintf("unpack: type mismatch at slot %d, expected %s, got %s", i, tmpl.Kind, elems[i].Kind))
			continue
		}
		out := u.out.Get(msg.Timestamp)
		out.Elements = append(out.Elements, elems[i])
		fired[i] = out
	}
	for i := len(fired) - 1; i >= 0; i-- {
		if fired[i] != nil {
			sendOut(u, i, fired[i])
		}
	}
}
