// Package pdplan computes the per-block signal execution order for a
// graph (spec §4.4, "Process-order planner").
package pdplan

import (
	"fmt"
	"strings"

	"github.com/dudk/pdengine/pdnode"
)

// CycleError is returned when the planner detects a signal-rate cycle
// that no sample-delay object breaks (spec §4.4, §7).
type CycleError struct {
	Path []pdnode.Object
}

func (e *CycleError) Error() string {
	labels := make([]string, len(e.Path))
	for i, o := range e.Path {
		labels[i] = o.Label()
	}
	return fmt.Sprintf("pdplan: signal cycle detected: %s", strings.Join(labels, " -> "))
}

// ProcessOrder computes the process order for one graph's direct children
// (spec §4.4 steps 1-6) and returns the filtered signal execution list
// (step 5: control-only objects excluded).
func ProcessOrder(objects []pdnode.Object) ([]pdnode.SignalObject, error) {
	for _, o := range objects {
		o.SetVisited(false)
	}

	leaves := collectLeaves(objects)

	var postOrder []pdnode.Object
	inProgress := make(map[pdnode.Object]bool, len(objects))
	var path []pdnode.Object
	for _, leaf := range leaves {
		if err := visit(leaf, inProgress, &path, &postOrder); err != nil {
			return nil, err
		}
	}

	// A cycle with no leaf of its own (every member has an outgoing
	// connection to another member) is never reached by the walk above;
	// sweep every remaining unvisited object so such a cycle is still
	// detected rather than silently dropped from the plan.
	for _, o := range objects {
		if o.Visited() {
			continue
		}
		if err := visit(o, inProgress, &path, &postOrder); err != nil {
			return nil, err
		}
	}

	// step 4: the DFS above already appends each object only after every
	// object feeding it has been appended, so postOrder is already
	// sources-before-sinks — the order ProcessDsp must run in.

	// step 5: filter control-only objects.
	signalOrder := make([]pdnode.SignalObject, 0, len(postOrder))
	for _, o := range postOrder {
		if so, ok := o.(pdnode.SignalObject); ok && o.DoesProcessAudio() {
			signalOrder = append(signalOrder, so)
		}
	}
	return signalOrder, nil
}

// ProcessOrderTolerant behaves like ProcessOrder but never fails: each
// walk that runs into a signal cycle is reported through onCycle (nil is
// accepted) and planning continues with the rest of the graph. No single
// edge is cut: every object on the failing walk — the cycle's members and
// any object downstream that reached the cycle through its inputs — is
// left out of the returned order, and the same cycle may be reported
// more than once.
func ProcessOrderTolerant(objects []pdnode.Object, onCycle func(*CycleError)) []pdnode.SignalObject {
	for _, o := range objects {
		o.SetVisited(false)
	}

	leaves := collectLeaves(objects)
	var postOrder []pdnode.Object
	inProgress := make(map[pdnode.Object]bool, len(objects))
	var path []pdnode.Object

	visitTolerant := func(o pdnode.Object) {
		if err := visit(o, inProgress, &path, &postOrder); err != nil {
			if cycleErr, ok := err.(*CycleError); ok && onCycle != nil {
				onCycle(cycleErr)
			}
			// Unwind whatever partial state the aborted walk left behind
			// so the next root starts clean.
			for _, p := range path {
				delete(inProgress, p)
			}
			path = path[:0]
		}
	}

	for _, leaf := range leaves {
		visitTolerant(leaf)
	}
	for _, o := range objects {
		if !o.Visited() {
			visitTolerant(o)
		}
	}

	signalOrder := make([]pdnode.SignalObject, 0, len(postOrder))
	for _, o := range postOrder {
		if so, ok := o.(pdnode.SignalObject); ok && o.DoesProcessAudio() {
			signalOrder = append(signalOrder, so)
		}
	}
	return signalOrder
}

// collectLeaves implements step 2: objects with no outgoing connections
// on any outlet, plus objects classified as logical leaves regardless of
// wiring.
func collectLeaves(objects []pdnode.Object) []pdnode.Object {
	var leaves []pdnode.Object
	for _, o := range objects {
		if o.IsLeafNode() {
			leaves = append(leaves, o)
			continue
		}
		if hasNoOutgoing(o) {
			leaves = append(leaves, o)
		}
	}
	return leaves
}

func hasNoOutgoing(o pdnode.Object) bool {
	for outlet := 0; outlet < o.NumOutlets(); outlet++ {
		if len(o.Outgoing(outlet)) > 0 {
			return false
		}
	}
	return true
}

// visit implements the DFS of step 3 and the logical-root short-circuit of
// step 6: visit(o) is entered once (o.Visited() false); if o is a logical
// root it contributes itself without walking its incoming connections
// (which may originate outside this graph); otherwise it first visits
// every upstream object, then appends itself.
func visit(o pdnode.Object, inProgress map[pdnode.Object]bool, path *[]pdnode.Object, out *[]pdnode.Object) error {
	if o.Visited() {
		return nil
	}
	if inProgress[o] {
		cyclePath := append(append([]pdnode.Object{}, *path...), o)
		return &CycleError{Path: cyclePath}
	}

	if o.IsRootNode() {
		o.SetVisited(true)
		*out = append(*out, o)
		return nil
	}

	inProgress[o] = true
	*path = append(*path, o)
	for inlet := 0; inlet < o.NumInlets(); inlet++ {
		for _, ep := range o.Incoming(inlet) {
			if err := visit(ep.Object, inProgress, path, out); err != nil {
				return err
			}
		}
	}
	*path = (*path)[:len(*path)-1]
	delete(inProgress, o)

	o.SetVisited(true)
	*out = append(*out, o)
	return nil
}
