package webhookpubsub

import "errors"

var (
	// ErrNullStore specifies that a webhook store is required.
	ErrNullStore = errors.New("webhook store must not be null")
	// ErrUnknownAction specifies that the given string does not represent
	// any known action.
	ErrUnknownAction = errors.New("action is unknown")
	// ErrInvalidArgs specifies that the provided args do not properly
	// represent a webhook.
	ErrInvalidArgs = errors.New("webhook args must be an endpoint and a secret")
	// ErrInvalidArgType specifies that the provided arg is not of the
	// expected type.
	ErrInvalidArgType = errors.New("arg type must be string")
	// ErrInvalidTopic is returned whenever attempting to subscribe to an
	// unknown topic.
	ErrInvalidTopic = errors.New("topic is invalid")
)
