package pdobj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/pdengine/pdgraph"
	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
	"github.com/dudk/pdengine/pdobj"
)

func newTestRoot(t *testing.T) *pdgraph.Graph {
	t.Helper()
	return pdgraph.NewRoot(pdgraph.Config{
		BlockSize:      64,
		InputChannels:  2,
		OutputChannels: 2,
		SampleRate:     44100,
	})
}

// recorder captures every message delivered to its one inlet, in order.
type recorder struct {
	pdnode.BaseObject
	received []string
}

func newRecorder() *recorder {
	return &recorder{BaseObject: pdnode.NewBase("test-sink", 1, 0, nil, nil)}
}

func (r *recorder) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	r.received = append(r.received, msg.String())
}

func TestMosesSplitsStrictlyLessThan(t *testing.T) {
	root := newTestRoot(t)
	obj, err := pdobj.Registry["moses"](root, []pdmsg.Element{pdmsg.NewFloat(5)}, 64)
	require.NoError(t, err)

	below := newRecorder()
	atOrAbove := newRecorder()
	pdnode.Connect(obj, 0, below, 0)
	pdnode.Connect(obj, 1, atOrAbove, 0)

	obj.ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewFloat(4)))
	obj.ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewFloat(5)))
	obj.ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewFloat(6)))

	assert.Equal(t, []string{"4"}, below.received)
	assert.Equal(t, []string{"5", "6"}, atOrAbove.received)
}

func TestUnpackSkipsOnlyMismatchedSlot(t *testing.T) {
	root := newTestRoot(t)
	obj, err := pdobj.Registry["unpack"](root, []pdmsg.Element{{Kind: pdmsg.Float}, {Kind: pdmsg.Symbol}}, 64)
	require.NoError(t, err)

	left := newRecorder()
	right := newRecorder()
	pdnode.Connect(obj, 0, left, 0)
	pdnode.Connect(obj, 1, right, 0)

	obj.ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewFloat(1), pdmsg.NewFloat(2)))
	assert.Equal(t, []string{"1"}, left.received)
	assert.Empty(t, right.received)
}

// TestUnpackMismatchInTheMiddleStillFiresLaterSlots grounds the
// continue-not-break fix: a mismatch at an inner slot must not suppress an
// outer slot that would otherwise have matched.
func TestUnpackMismatchInTheMiddleStillFiresLaterSlots(t *testing.T) {
	root := newTestRoot(t)
	obj, err := pdobj.Registry["unpack"](root, []pdmsg.Element{
		{Kind: pdmsg.Float}, {Kind: pdmsg.Float}, {Kind: pdmsg.Symbol},
	}, 64)
	require.NoError(t, err)

	a := newRecorder()
	b := newRecorder()
	c := newRecorder()
	pdnode.Connect(obj, 0, a, 0)
	pdnode.Connect(obj, 1, b, 0)
	pdnode.Connect(obj, 2, c, 0)

	obj.ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewFloat(1), pdmsg.NewSymbol("x"), pdmsg.NewSymbol("go")))
	assert.Equal(t, []string{"1"}, a.received)
	assert.Empty(t, b.received)
	assert.Equal(t, []string{"go"}, c.received)
}

func TestUnpackFlushesOutletsRightToLeft(t *testing.T) {
	root := newTestRoot(t)
	obj, err := pdobj.Registry["unpack"](root, []pdmsg.Element{{Kind: pdmsg.Float}, {Kind: pdmsg.Symbol}}, 64)
	require.NoError(t, err)

	var order []int
	left := &orderRecorder{id: 0, order: &order}
	right := &orderRecorder{id: 1, order: &order}
	pdnode.Connect(obj, 0, left, 0)
	pdnode.Connect(obj, 1, right, 0)

	obj.ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewFloat(1), pdmsg.NewSymbol("go")))
	assert.Equal(t, []int{1, 0}, order)
}

type orderRecorder struct {
	pdnode.BaseObject
	id    int
	order *[]int
}

func (r *orderRecorder) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	*r.order = append(*r.order, r.id)
}

func TestSendReceiveFansOutAcrossChannel(t *testing.T) {
	root := newTestRoot(t)
	sender, err := pdobj.Registry["send"](root, []pdmsg.Element{pdmsg.NewSymbol("chan-a")}, 64)
	require.NoError(t, err)

	recvA, err := pdobj.Registry["receive"](root, []pdmsg.Element{pdmsg.NewSymbol("chan-a")}, 64)
	require.NoError(t, err)
	recvB, err := pdobj.Registry["receive"](root, []pdmsg.Element{pdmsg.NewSymbol("chan-a")}, 64)
	require.NoError(t, err)

	sinkA := newRecorder()
	sinkB := newRecorder()
	pdnode.Connect(recvA, 0, sinkA, 0)
	pdnode.Connect(recvB, 0, sinkB, 0)

	sender.ReceiveMessage(0, pdmsg.NewStack(0, pdmsg.NewBang()))
	assert.Equal(t, []string{"bang"}, sinkA.received)
	assert.Equal(t, []string{"bang"}, sinkB.received)
}

func TestDuplicateSenderNameIsRejected(t *testing.T) {
	root := newTestRoot(t)
	_, err := pdobj.Registry["send"](root, []pdmsg.Element{pdmsg.NewSymbol("dup")}, 64)
	require.NoError(t, err)
	_, err = pdobj.Registry["send"](root, []pdmsg.Element{pdmsg.NewSymbol("dup")}, 64)
	assert.Error(t, err)
}
