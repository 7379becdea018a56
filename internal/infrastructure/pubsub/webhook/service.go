package webhookpubsub

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/zeta-network/zetad/internal/core/application"
	"golang.org/x/sync/errgroup"
)

const requestTimeout = 15 * time.Second

type webhookService struct {
	store      *webhookStore
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewWebhookPubSubService returns a SecurePubSub implementation notifying
// the registered endpoints over HTTP. An empty dbDir keeps the webhook
// registry in memory.
func NewWebhookPubSubService(
	dbDir string, logger badger.Logger,
) (application.SecurePubSub, error) {
	store, err := newWebhookStore(dbDir, logger)
	if err != nil {
		return nil, err
	}

	return &webhookService{
		store:      store,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         newCircuitBreaker(),
	}, nil
}

func (ws *webhookService) Subscribe(topic string, args ...interface{}) (string, error) {
	actionType, ok := stringToAction[topic]
	if !ok {
		return "", ErrInvalidTopic
	}
	if len(args) != 2 {
		return "", ErrInvalidArgs
	}
	endpoint, ok := args[0].(string)
	if !ok {
		return "", ErrInvalidArgType
	}
	secret, ok := args[1].(string)
	if !ok {
		return "", ErrInvalidArgType
	}

	hook, err := NewWebhook(actionType, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.store.addWebhook(hook); err != nil {
		return "", err
	}
	return hook.ID, nil
}

func (ws *webhookService) Unsubscribe(_, id string) error {
	return ws.store.removeWebhook(id)
}

func (ws *webhookService) ListSubscriptionsForTopic(topic string) []application.Subscription {
	actionType, ok := ZetaActionFromString(topic)
	if !ok {
		return nil
	}
	hooks := ws.hooksForAction(actionType)
	subs := make([]application.Subscription, len(hooks))
	for i, h := range hooks {
		subs[i] = h
	}
	return subs
}

// Publish makes a POST request to every webhook endpoint registered for the
// topic's action. A circuit breaker guards the requests so a dead mirror
// cannot pile up blocked goroutines.
func (ws *webhookService) Publish(topic string, message string) error {
	actionType, ok := ZetaActionFromString(topic)
	if !ok {
		return ErrUnknownAction
	}
	hooks := ws.hooksForAction(actionType)

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return ws.doRequest(hook, message) })
	}
	return eg.Wait()
}

func (ws *webhookService) TopicsByCode() map[int]application.Topic {
	topics := make(map[int]application.Topic)
	for action := range actionToString {
		topics[int(action)] = action
	}
	return topics
}

func (ws *webhookService) TopicsByLabel() map[string]application.Topic {
	topics := make(map[string]application.Topic)
	for label, action := range stringToAction {
		topics[label] = action
	}
	return topics
}

func (ws *webhookService) Close() error {
	return ws.store.close()
}

func (ws *webhookService) hooksForAction(actionType ZetaAction) []*Webhook {
	hooks, err := ws.store.getWebhooksForAction(actionType)
	if err != nil {
		log.WithError(err).Warn("failed to load webhooks for action ", actionType)
	}
	if actionType != AllActions {
		hooksForAllActions, err := ws.store.getWebhooksForAction(AllActions)
		if err != nil {
			log.WithError(err).Warn("failed to load catch-all webhooks")
		}
		hooks = append(hooks, hooksForAllActions...)
	}
	return hooks
}

func (ws *webhookService) doRequest(hook *Webhook, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(
			http.MethodPost, hook.Endpoint, strings.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if hook.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			tokenString, _ := token.SignedString([]byte(hook.Secret))
			req.Header.Set("Authorization", "Bearer "+tokenString)
		}

		res, err := ws.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(res.Body)
			return nil, fmt.Errorf(
				"endpoint replied with status %d: %s", res.StatusCode, string(body),
			)
		}
		return nil, nil
	})

	return err
}

func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "webhook",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests > 20 && failureRatio >= 0.7
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Warn("webhook mirror seems down, stop allowing requests")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				log.Info("checking webhook mirror status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				log.Info("webhook mirror seems ok, restart allowing requests")
			}
		},
	})
}
