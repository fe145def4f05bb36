// Package broker publishes prediction events to a message broker.
package broker

import "context"

// Broker abstracts message publishing.
// Implementations: RedpandaBroker (Redpanda/Kafka) and InMemoryBroker.
type Broker interface {
	// Publish sends a message to a topic. For Redpanda/Kafka the key is used
	// for partition assignment; the in-memory broker only records it.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Close flushes and shuts down the broker connection.
	Close() error
}

// Message is a published message.
type Message struct {
	Topic string
	Key   string
	Value []byte
}
