// Package pdreg implements the named-channel rendezvous mechanism (spec
// §2 item 7, §4.5): the symbol tables that let send/receive and
// send~/receive~/throw~/catch~ objects wire to each other without an
// explicit Connection, resolved by name instead of by graph position.
package pdreg

import (
	"fmt"

	"github.com/dudk/pdengine/pdmsg"
	"github.com/dudk/pdengine/pdnode"
)

// MessageRegistry maps a channel name to its senders and receivers (spec
// §4.5). It is owned by the root graph; every graph delegates to it via
// the parent chain (spec §4.2, §9 Open Question: delegation, never
// self-recursion).
type MessageRegistry struct {
	channels map[string]*messageChannel
}

type messageChannel struct {
	senders   []pdnode.Object
	receivers []pdnode.Object
}

// NewMessageRegistry returns an empty registry.
func NewMessageRegistry() *MessageRegistry {
	return &MessageRegistry{channels: make(map[string]*messageChannel)}
}

// RegisterSender adds obj as the sender for name. A second sender on the
// same name is rejected (spec §4.2, §7): the first registration wins and
// an error is returned for the caller to log via printErr.
func (r *MessageRegistry) RegisterSender(name string, obj pdnode.Object) error {
	ch := r.channel(name)
	if len(ch.senders) > 0 {
		return fmt.Errorf("pdreg: duplicate sender %q, keeping the first registration", name)
	}
	ch.senders = append(ch.senders, obj)
	return nil
}

// RegisterReceiver adds obj as a receiver for name. Multiple receivers on
// the same name are permitted (fan-out, spec §4.2).
func (r *MessageRegistry) RegisterReceiver(name string, obj pdnode.Object) {
	ch := r.channel(name)
	ch.receivers = append(ch.receivers, obj)
}

// Unregister removes obj from both the sender and receiver lists of name,
// used when an object is torn down.
func (r *MessageRegistry) Unregister(name string, obj pdnode.Object) {
	ch, ok := r.channels[name]
	if !ok {
		return
	}
	ch.senders = removeObject(ch.senders, obj)
	ch.receivers = removeObject(ch.receivers, obj)
}

// Dispatch delivers msg to every receiver currently registered under name,
// in registration order (spec §4.5, §8: "reaches every receiver on N
// exactly once"). The receiver list is snapshotted before iterating so a
// receiver registering itself mid-dispatch (a re-entrant call back into
// the registry triggered by delivery) cannot corrupt the in-progress walk
// (spec §5: "must not invalidate iterator state... make a snapshot
// first").
func (r *MessageRegistry) Dispatch(name string, msg *pdmsg.Message) {
	ch, ok := r.channels[name]
	if !ok {
		return
	}
	snapshot := make([]pdnode.Object, len(ch.receivers))
	copy(snapshot, ch.receivers)
	for _, receiver := range snapshot {
		receiver.ReceiveMessage(0, msg)
	}
}

// Receivers returns a snapshot of the receivers registered under name.
func (r *MessageRegistry) Receivers(name string) []pdnode.Object {
	ch, ok := r.channels[name]
	if !ok {
		return nil
	}
	out := make([]pdnode.Object, len(ch.receivers))
	copy(out, ch.receivers)
	return out
}

// HasSender reports whether a sender is already registered under name.
func (r *MessageRegistry) HasSender(name string) bool {
	ch, ok := r.channels[name]
	return ok && len(ch.senders) > 0
}

func (r *MessageRegistry) channel(name string) *messageChannel {
	ch, ok := r.channels[name]
	if !ok {
		ch = &messageChannel{}
		r.channels[name] = ch
	}
	return ch
}

func removeObject(list []pdnode.Object, obj pdnode.Object) []pdnode.Object {
	out := list[:0]
	for _, o := range list {
		if o != obj {
			out = append(out, o)
		}
	}
	return out
}
