package mqtt

import "context"

// Writer is the minimum abstraction around publishing values to MQTT. The
// embedding application supplies one, typically backed by the adapter in
// mqtt/adapter/autopaho, and the library hands every outbound payload to it
// without waiting for broker acknowledgement beyond what the implementation
// chooses to do.
type Writer interface {
	// WriteTopic publishes the provided payload to the specified topic with
	// the specified WriteOptions.
	WriteTopic(ctx context.Context, topic string, options WriteOptions, payload []byte) error
}
