package webhookpubsub

import (
	"bytes"
	"encoding/json"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// webhookStore persists the registered webhooks on its own badger store.
// An empty datadir opens the store in memory.
type webhookStore struct {
	store *badgerhold.Store
}

func newWebhookStore(dbDir string, logger badger.Logger) (*webhookStore, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if dbDir == "" {
		opts = opts.WithInMemory(true)
	}

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder: func(value interface{}) ([]byte, error) {
			var buff bytes.Buffer
			if err := json.NewEncoder(&buff).Encode(value); err != nil {
				return nil, err
			}
			return buff.Bytes(), nil
		},
		Decoder: func(data []byte, value interface{}) error {
			return json.NewDecoder(bytes.NewReader(data)).Decode(value)
		},
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}
	return &webhookStore{store}, nil
}

func (ws *webhookStore) addWebhook(hook *Webhook) error {
	err := ws.store.Insert(hook.ID, *hook)
	if err == badgerhold.ErrKeyExists {
		return nil
	}
	return err
}

func (ws *webhookStore) getWebhook(hookID string) (*Webhook, error) {
	var hook Webhook
	if err := ws.store.Get(hookID, &hook); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &hook, nil
}

func (ws *webhookStore) removeWebhook(hookID string) error {
	err := ws.store.Delete(hookID, Webhook{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return err
}

func (ws *webhookStore) getWebhooksForAction(actionType ZetaAction) ([]*Webhook, error) {
	var hooks []Webhook
	if err := ws.store.Find(
		&hooks, badgerhold.Where("ActionType").Eq(actionType),
	); err != nil {
		return nil, err
	}

	list := make([]*Webhook, 0, len(hooks))
	for i := range hooks {
		list = append(list, &hooks[i])
	}
	return list, nil
}

func (ws *webhookStore) close() error {
	return ws.store.Close()
}
