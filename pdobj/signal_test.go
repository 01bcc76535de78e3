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

// constantSignal is a test-only DC source, used to isolate *~'s mixed-inlet
// block-splitting logic from osc~'s own waveform.
type constantSignal struct {
	pdnode.BaseSignalObject
	value float32
}

func newConstantSignal(value float32, blockSize int) *constantSignal {
	return &constantSignal{
		BaseSignalObject: pdnode.NewBaseSignal("test-const~", 0, 1, 0, 1, blockSize, nil, []pdnode.Kind{pdnode.SignalKind}),
		value:            value,
	}
}

func (c *constantSignal) ProcessDsp(blockSize int) {
	out := c.OutletBuffer(0)
	for i := range out {
		out[i] = c.value
	}
}

// TestConstantMultiplyScalesByCreationGain grounds spec §8 scenario 1's
// sibling check for a pure-DSP chain: wiring osc~ into *~ with only a
// creation-argument gain and no messages scales every sample by that gain.
func TestConstantMultiplyScalesByCreationGain(t *testing.T) {
	root := newTestRoot(t)
	oscObj, err := pdobj.Registry["osc~"](root, []pdmsg.Element{pdmsg.NewFloat(440)}, 64)
	require.NoError(t, err)
	mulObj, err := pdobj.Registry["*~"](root, []pdmsg.Element{pdmsg.NewFloat(0.5)}, 64)
	require.NoError(t, err)

	pdnode.Connect(oscObj, 0, mulObj, 0)

	sig := oscObj.(pdnode.SignalObject)
	sig.ProcessDsp(64)
	mul := mulObj.(pdnode.SignalObject)
	mul.ProcessDsp(64)

	out := mul.OutletBuffer(0)
	in := sig.OutletBuffer(0)
	for i := range out {
		assert.InDelta(t, in[i]*0.5, out[i], 1e-6)
	}
}

// TestMidBlockGainChangeSplitsBlock grounds spec §8 scenario 2: a float
// landing on *~'s cold inlet partway through a block must only affect
// samples from its position onward.
func TestMidBlockGainChangeSplitsBlock(t *testing.T) {
	root := pdgraph.NewRoot(pdgraph.Config{
		BlockSize: 64, InputChannels: 0, OutputChannels: 0, SampleRate: 64000,
	})
	sig := newConstantSignal(1.0, 64)
	mulObj, err := pdobj.Registry["*~"](root, []pdmsg.Element{pdmsg.NewFloat(1)}, 64)
	require.NoError(t, err)
	pdnode.Connect(sig, 0, mulObj, 0)

	mul := mulObj.(pdnode.SignalObject)

	// A constant 1.0 every sample isolates the gain split from any
	// waveform.
	sig.ProcessDsp(64)

	// A message at sample 32 (half the block at 64kHz/64 samples = 1ms
	// block) switches gain from 1 to 0.
	mulObj.ReceiveMessage(1, pdmsg.NewStack(0.5, pdmsg.NewFloat(0)))
	mul.ProcessDsp(64)

	out := mul.OutletBuffer(0)
	for i := 0; i < 32; i++ {
		assert.InDelta(t, 1.0, out[i], 1e-6)
	}
	for i := 32; i < 64; i++ {
		assert.InDelta(t, 0.0, out[i], 1e-6)
	}
}

// TestTwoGainChangesInOneBlockKeepBothSegments grounds the same scenario
// with two right-inlet messages landing in the same block: each one's
// segment must survive, not just the first and the last value.
func TestTwoGainChangesInOneBlockKeepBothSegments(t *testing.T) {
	root := pdgraph.NewRoot(pdgraph.Config{
		BlockSize: 64, InputChannels: 0, OutputChannels: 0, SampleRate: 64000,
	})
	sig := newConstantSignal(1.0, 64)
	mulObj, err := pdobj.Registry["*~"](root, []pdmsg.Element{pdmsg.NewFloat(1)}, 64)
	require.NoError(t, err)
	pdnode.Connect(sig, 0, mulObj, 0)

	mul := mulObj.(pdnode.SignalObject)
	sig.ProcessDsp(64)

	// At 64kHz/64 samples per block (1ms), sample 16 is at 0.25ms and
	// sample 48 is at 0.75ms.
	mulObj.ReceiveMessage(1, pdmsg.NewStack(0.25, pdmsg.NewFloat(2)))
	mulObj.ReceiveMessage(1, pdmsg.NewStack(0.75, pdmsg.NewFloat(3)))
	mul.ProcessDsp(64)

	out := mul.OutletBuffer(0)
	for i := 0; i < 16; i++ {
		assert.InDelta(t, 1.0, out[i], 1e-6, "sample %d", i)
	}
	for i := 16; i < 48; i++ {
		assert.InDelta(t, 2.0, out[i], 1e-6, "sample %d", i)
	}
	for i := 48; i < 64; i++ {
		assert.InDelta(t, 3.0, out[i], 1e-6, "sample %d", i)
	}
}
