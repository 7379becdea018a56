package application

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// publishTopic publishes a payload for the given topic code on the pubsub
// service. Delivery is best effort: a failing publish never aborts the state
// transition that triggered it.
func publishTopic(pubsub SecurePubSub, code int, payload map[string]interface{}) {
	if pubsub == nil {
		return
	}
	topic, ok := pubsub.TopicsByCode()[code]
	if !ok {
		return
	}
	message, _ := json.Marshal(payload)
	if err := pubsub.Publish(topic.Label(), string(message)); err != nil {
		log.WithError(err).Warnf(
			"an error occured while publishing message for topic %s",
			topic.Label(),
		)
	}
}

func orderPayload(orderId uint64, status, actor string) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderId,
		"status":   status,
		"actor":    actor,
	}
}
