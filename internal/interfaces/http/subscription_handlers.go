package httpinterface

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Service) subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic    string `json:"topic"`
		Endpoint string `json:"endpoint"`
		Secret   string `json:"secret"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.pubsub.Subscribe(req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Service) unsubscribe(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	id := chi.URLParam(r, "id")
	if err := s.pubsub.Unsubscribe(topic, id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Service) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs := s.pubsub.ListSubscriptionsForTopic(chi.URLParam(r, "topic"))
	list := make([]map[string]interface{}, 0, len(subs))
	for _, sub := range subs {
		list = append(list, map[string]interface{}{
			"id":        sub.Id(),
			"topic":     sub.Topic().Label(),
			"notify_at": sub.NotifyAt(),
			"secured":   sub.IsSecured(),
		})
	}
	writeJSON(w, http.StatusOK, list)
}
