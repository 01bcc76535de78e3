package pdplan_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/pdengine/pdnode"
	"github.com/dudk/pdengine/pdplan"
)

// assertOrderEqual compares a process order against its expected labels,
// rendering a unified diff on mismatch so a reordering is easy to spot in
// a list long enough that testify's default dump isn't.
func assertOrderEqual(t *testing.T, want []string, order []pdnode.SignalObject) {
	t.Helper()
	got := labels(order)
	if assert.ObjectsAreEqual(want, got) {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        want,
		B:        got,
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	require.NoError(t, err)
	t.Errorf("process order mismatch:\n%s", diff)
}

type fakeSignal struct {
	pdnode.BaseSignalObject
	label string
}

func newFakeSignal(label string) *fakeSignal {
	return &fakeSignal{
		BaseSignalObject: pdnode.NewBaseSignal(label, 1, 1, 1, 1, 4,
			[]pdnode.Kind{pdnode.SignalKind}, []pdnode.Kind{pdnode.SignalKind}),
		label: label,
	}
}

func (f *fakeSignal) ProcessDsp(blockSize int) {}

func TestProcessOrderRunsSourcesBeforeSinks(t *testing.T) {
	a := newFakeSignal("a")
	b := newFakeSignal("b")
	c := newFakeSignal("c")
	pdnode.Connect(a, 0, b, 0)
	pdnode.Connect(b, 0, c, 0)

	order, err := pdplan.ProcessOrder([]pdnode.Object{a, b, c})
	require.NoError(t, err)
	require.Len(t, order, 3)
	assertOrderEqual(t, []string{"a", "b", "c"}, order)
}

func TestProcessOrderHandlesDiamond(t *testing.T) {
	src := newFakeSignal("src")
	left := newFakeSignal("left")
	right := newFakeSignal("right")
	sink := newFakeSignal("sink")
	pdnode.Connect(src, 0, left, 0)
	pdnode.Connect(src, 0, right, 0)
	pdnode.Connect(left, 0, sink, 0)
	pdnode.Connect(right, 0, sink, 0)

	order, err := pdplan.ProcessOrder([]pdnode.Object{src, left, right, sink})
	require.NoError(t, err)
	require.Len(t, order, 4)
	assert.Equal(t, "src", order[0].Label())
	assert.Equal(t, "sink", order[3].Label())
}

func TestProcessOrderDetectsCycle(t *testing.T) {
	a := newFakeSignal("a")
	b := newFakeSignal("b")
	pdnode.Connect(a, 0, b, 0)
	pdnode.Connect(b, 0, a, 0)

	_, err := pdplan.ProcessOrder([]pdnode.Object{a, b})
	require.Error(t, err)
	_, ok := err.(*pdplan.CycleError)
	assert.True(t, ok)
}

func TestProcessOrderTolerantExcludesCycleButKeepsRest(t *testing.T) {
	a := newFakeSignal("a")
	b := newFakeSignal("b")
	unrelated := newFakeSignal("unrelated")
	pdnode.Connect(a, 0, b, 0)
	pdnode.Connect(b, 0, a, 0)

	var reported *pdplan.CycleError
	order := pdplan.ProcessOrderTolerant([]pdnode.Object{a, b, unrelated}, func(err *pdplan.CycleError) {
		reported = err
	})

	require.NotNil(t, reported)
	assertOrderEqual(t, []string{"unrelated"}, order)
}

func labels(objs []pdnode.SignalObject) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Label()
	}
	return out
}
