package application

// Topic is a pubsub topic identified by both a code and a label.
type Topic interface {
	Code() int
	Label() string
}

// Subscription is the info of a client subscribed for a topic.
type Subscription interface {
	Topic() Topic
	Id() string
	NotifyAt() string
	IsSecured() bool
}

// SecurePubSub defines the methods of the pubsub service used to notify the
// external read mirror of every state transition.
type SecurePubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic string, args ...interface{}) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed
	// for a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients
	// subscribed for such topic will receive the message.
	Publish(topic string, message string) error
	// TopicsByCode returns all the topics supported by the service mapped by
	// their code.
	TopicsByCode() map[int]Topic
	// TopicsByLabel returns all the topics supported by the service mapped
	// by their label.
	TopicsByLabel() map[string]Topic
	// Close should be used to gracefully close the service.
	Close() error
}
