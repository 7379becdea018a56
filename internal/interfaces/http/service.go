// Package httpinterface exposes the application services over an HTTP/JSON
// API. Callers authenticate with a bearer token whose subject is their
// protocol address.
package httpinterface

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/zeta-network/zetad/internal/core/application"
)

// Service wires the application services into an HTTP server.
type Service struct {
	policy   application.PolicyService
	registry application.RegistryService
	orders   application.OrderBookService
	vault    application.VaultService
	disputes application.DisputeService
	pubsub   application.SecurePubSub

	authSecret []byte
	metrics    *Metrics
	server     *http.Server
}

// NewService returns a new HTTP Service authenticating callers with the
// given HS256 secret.
func NewService(
	policy application.PolicyService,
	registry application.RegistryService,
	orders application.OrderBookService,
	vault application.VaultService,
	disputes application.DisputeService,
	pubsub application.SecurePubSub,
	authSecret string,
) *Service {
	return &Service{
		policy:     policy,
		registry:   registry,
		orders:     orders,
		vault:      vault,
		disputes:   disputes,
		pubsub:     pubsub,
		authSecret: []byte(authSecret),
		metrics:    NewMetrics(),
	}
}

// Router builds the chi router with every protocol route mounted.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/policy", func(r chi.Router) {
			r.Get("/params", s.getParams)
			r.Post("/params", s.setParams)
			r.Post("/roles/grant", s.grantRole)
			r.Post("/roles/revoke", s.revokeRole)
			r.Post("/roles/renounce", s.renounceRole)
			r.Post("/pause", s.pause)
			r.Post("/unpause", s.unpause)
			r.Post("/ban/user", s.banUser)
			r.Post("/ban/agent", s.banAgent)
		})

		r.Route("/registry", func(r chi.Router) {
			r.Get("/agents", s.listAgents)
			r.Get("/agents/{address}", s.getAgent)
			r.Post("/whitelist", s.whitelist)
			r.Post("/unlist", s.unlist)
			r.Post("/risk", s.setRisk)
			r.Post("/fee-anchor", s.setFeeAnchor)
		})

		r.Route("/vault", func(r chi.Router) {
			r.Post("/bond/deposit", s.bondDeposit)
			r.Post("/bond/withdraw", s.bondWithdraw)
			r.Get("/bond/{agent}", s.getBond)
			r.Get("/escrow/{orderId}", s.getEscrow)
			r.Get("/payouts/{orderId}", s.getPayouts)
			r.Post("/release/{orderId}", s.releaseHoldback)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", s.createOrder)
			r.Get("/", s.listOrders)
			r.Get("/{orderId}", s.getOrder)
			r.Post("/{orderId}/commit", s.commitQuote)
			r.Post("/{orderId}/reveal", s.revealQuote)
			r.Post("/{orderId}/select", s.autoSelect)
			r.Post("/{orderId}/ack", s.ackSelect)
			r.Post("/{orderId}/fund", s.userFund)
			r.Post("/{orderId}/complete", s.markCompleted)
			r.Post("/{orderId}/cancel", s.cancelOrder)
		})

		r.Route("/disputes", func(r chi.Router) {
			r.Get("/{orderId}", s.getDispute)
			r.Post("/{orderId}/pod", s.submitPoD)
			r.Post("/{orderId}/claim", s.openClaim)
			r.Post("/{orderId}/resolve", s.autoResolve)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/{topic}", s.listSubscriptions)
			r.Post("/", s.subscribe)
			r.Delete("/{topic}/{id}", s.unsubscribe)
		})
	})

	return r
}

// Start runs the HTTP server on the given address until the context is
// cancelled.
func (s *Service) Start(ctx context.Context, address string) error {
	s.server = &http.Server{
		Addr:              address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http interface listening on ", address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
