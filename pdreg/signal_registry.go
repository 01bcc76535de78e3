package pdreg

import "github.com/dudk/pdengine/pdnode"

// SignalRegistry maps a channel name to its signal producers (send~,
// throw~) and consumers (receive~, catch~) (spec §4.5). Resolution is
// also by-name and owned by the root graph.
type SignalRegistry struct {
	channels map[string]*signalChannel
}

type signalChannel struct {
	producers []pdnode.SignalObject
	consumers []pdnode.SignalObject
}

// NewSignalRegistry returns an empty registry.
func NewSignalRegistry() *SignalRegistry {
	return &SignalRegistry{channels: make(map[string]*signalChannel)}
}

// RegisterProducer adds obj (send~ or throw~) as a producer for name.
func (r *SignalRegistry) RegisterProducer(name string, obj pdnode.SignalObject) {
	ch := r.channel(name)
	ch.producers = append(ch.producers, obj)
}

// RegisterConsumer adds obj (receive~ or catch~) as a consumer for name.
func (r *SignalRegistry) RegisterConsumer(name string, obj pdnode.SignalObject) {
	ch := r.channel(name)
	ch.consumers = append(ch.consumers, obj)
}

// Producers returns the signal producers registered under name, in
// registration order. A consumer reads this during its own ProcessDsp:
// catch~ sums every producer's buffer, receive~ copies only the first
// (spec §4.5).
func (r *SignalRegistry) Producers(name string) []pdnode.SignalObject {
	ch, ok := r.channels[name]
	if !ok {
		return nil
	}
	out := make([]pdnode.SignalObject, len(ch.producers))
	copy(out, ch.producers)
	return out
}

func (r *SignalRegistry) channel(name string) *signalChannel {
	ch, ok := r.channels[name]
	if !ok {
		ch = &signalChannel{}
		r.channels[name] = ch
	}
	return ch
}
