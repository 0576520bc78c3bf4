package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Handlers subscribe by Event.Type() string, optionally scoped to a topic
// (rooms use their id as topic). Delivery is synchronous in the publisher's
// goroutine; handler errors are joined and returned from Publish.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type()
	// in the default topic.
	Publish(event Event) error
	// PublishToTopic publishes within a specific topic.
	PublishToTopic(topic string, event Event) error
	// Subscribe registers a handler for an event type in the default topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// SubscribeTopic registers a handler for an event type within a topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Safe to call with nil.
	Unsubscribe(Subscription) error
}

// Event is an immutable message transported by the EventBus. Type is the
// routing key, Source identifies the publisher, Data is an opaque payload.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked per delivered event. Returned errors are
// aggregated by Publish.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler from the bus. Multiple calls are safe.
	Cancel() error
}
