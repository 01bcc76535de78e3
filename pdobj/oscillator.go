package pdobj

import (
	"math"

	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

func init() {
	register("osc~", newOsc)
	register("dac~", newDac)
	register("adc~", newAdc)
}

// osc implements "osc~": a sine oscillator whose frequency is set by the
// creation argument, a float message at inlet 1, or a signal wired to
// inlet 0 (spec §8 scenario 1). It keeps its own running phase so the
// waveform stays continuous across blocks and across frequency changes.
type osc struct {
	pdnode.BaseSignalObject
	owner     pdnode.Owner
	frequency float32
	phase     float64
}

func newOsc(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	o := &osc{
		BaseSignalObject: pdnode.NewBaseSignal("osc~", 2, 1, 1, 1, blockSize,
			[]pdnode.Kind{pdnode.SignalKind, pdnode.MessageKind}, []pdnode.Kind{pdnode.SignalKind}),
		owner: owner,
	}
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		o.frequency = args[0].Float
	}
	return o, nil
}

func (o *osc) ReceiveMessage(inlet int, msg *pdmsg.Message) {
	if inlet != 1 {
		return
	}
	if f, ok := msg.Float(0); ok {
		o.frequency = f
	}
}

func (o *osc) ProcessDsp(blockSize int) {
	out := o.OutletBuffer(0)
	signalDriven := len(o.Incoming(0)) > 0
	freqSignal := o.InletBuffer(0)
	sampleRate := o.owner.SampleRate()
	if sampleRate == 0 {
		sampleRate = 44100
	}
	for i := 0; i < blockSize; i++ {
		freq := float64(o.frequency)
		if signalDriven {
			freq = float64(freqSignal[i])
		}
		out[i] = float32(math.Sin(2 * math.Pi * o.phase))
		o.phase += freq / sampleRate
		_, o.phase = math.Modf(o.phase)
		if o.phase < 0 {
			o.phase += 1
		}
	}
}

// dac implements "dac~": copies each signal inlet straight into the
// owning graph's matching hardware output channel (spec §4.6 step 4).
type dac struct {
	pdnode.BaseSignalObject
	owner pdnode.Owner
}

func newDac(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	channels := 2
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		channels = int(args[0].Float)
	}
	kinds := make([]pdnode.Kind, channels)
	for i := range kinds {
		kinds[i] = pdnode.SignalKind
	}
	return &dac{
		BaseSignalObject: pdnode.NewBaseSignal("dac~", channels, 0, channels, 0, blockSize, kinds, nil),
		owner:            owner,
	}, nil
}

func (d *dac) ProcessDsp(blockSize int) {
	for ch := 0; ch < d.NumSignalInlets(); ch++ {
		copy(d.owner.OutputChannel(ch), d.InletBuffer(ch))
	}
}

// adc implements "adc~": copies the owning graph's hardware input
// channels onto its signal outlets (spec §4.6 step 1).
type adc struct {
	pdnode.BaseSignalObject
	owner pdnode.Owner
}

func newAdc(owner pdnode.Owner, args []pdmsg.Element, blockSize int) (pdnode.Object, error) {
	channels := 2
	if len(args) > 0 && args[0].Kind == pdmsg.Float {
		channels = int(args[0].Float)
	}
	kinds := make([]pdnode.Kind, channels)
	for i := range kinds {
		kinds[i] = pdnode.SignalKind
	}
	a := &adc{
		BaseSignalObject: pdnode.NewBaseSignal("adc~", 0, channels, 0, channels, blockSize, nil, kinds),
		owner:            owner,
	}
	a.MarkRootNode()
	return a, nil
}

func (a *adc) ProcessDsp(blockSize int) {
	for ch := 0; ch < a.NumSignalOutlets(); ch++ {
		copy(a.OutletBuffer(ch), a.owner.InputChannel(ch))
	}
}
