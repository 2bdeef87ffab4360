package mqtt

import (
	"context"
	"log/slog"
)

// Subscription holds metadata for an MQTT subscription to a single topic. It
// implements fmt.Stringer and slog.LogValuer.
type Subscription struct {
	Topic   string
	Options ReadOptions
}

func (s Subscription) String() string {
	return s.Topic
}

func (s Subscription) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("topic", s.Topic),
		slog.Any("options", s.Options),
	)
}

// Handler is the MQTT equivalent to http.Handler. It is a callback configured
// for an MQTT Subscription.
//
// Because a handler may receive a message at any time, it does not return
// errors to the transport. Implementations deal with bad payloads themselves
// and must never disrupt delivery of subsequent messages. Handlers must not
// block; long-running work should be moved to a new goroutine. The Writer and
// the message slice are only valid until the handler returns.
type Handler interface {
	ServeMQTT(w Writer, topic string, message []byte)
}

// The HandlerFunc type is an adapter to allow the use of ordinary functions as
// MQTT handlers.
type HandlerFunc func(Writer, string, []byte)

func (f HandlerFunc) ServeMQTT(w Writer, topic string, message []byte) {
	f(w, topic, message)
}

// Subscriber manages MQTT subscriptions.
type Subscriber interface {
	// Subscribe configures the underlying MQTT connection to deliver messages
	// for the provided subscriptions to the provided Handler.
	Subscribe(ctx context.Context, handler Handler, subscriptions ...Subscription) error

	// Unsubscribe removes any subscriptions configured for the specified
	// topics.
	Unsubscribe(ctx context.Context, topics ...string) error
}
