package pdparse

import (
	"github.com/dudk/pdengine/pdnode"
)

// unknownObject stands in for a class name that resolved to neither a
// built-in nor an abstraction file (spec §7, "unresolvable-object-class").
// It preserves the declaration's inlet/outlet slot so later connect
// directives that reference it by index still resolve, and silently
// drops any message delivered to it.
type unknownObject struct {
	pdnode.BaseObject
	class string
}

func newUnknown(class string, numArgs int) *unknownObject {
	return &unknownObject{
		BaseObject: pdnode.NewBase(class, 1, 1, nil, nil),
		class:      class,
	}
}
