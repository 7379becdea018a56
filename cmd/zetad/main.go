package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/zeta-network/zetad/internal/config"
	"github.com/zeta-network/zetad/internal/core/application"
	"github.com/zeta-network/zetad/internal/core/ports"
	webhookpubsub "github.com/zeta-network/zetad/internal/infrastructure/pubsub/webhook"
	"github.com/zeta-network/zetad/internal/infrastructure/selection"
	dbbadger "github.com/zeta-network/zetad/internal/infrastructure/storage/db/badger"
	"github.com/zeta-network/zetad/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/zeta-network/zetad/internal/interfaces/http"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Fatal("failed to open storage")
	}
	defer repoManager.Close()

	pubsub, err := newPubSubService()
	if err != nil {
		log.WithError(err).Fatal("failed to start pubsub service")
	}
	defer pubsub.Close()

	clock := ports.NewWallClock()

	policySvc, err := application.NewPolicyService(
		repoManager, config.GetString(config.AdminAddrKey), config.GetPolicyParams(),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize policy")
	}
	vaultSvc := application.NewVaultService(repoManager, pubsub, clock)
	registrySvc := application.NewRegistryService(repoManager, vaultSvc, pubsub, clock)
	orderSvc := application.NewOrderBookService(
		repoManager, pubsub, clock, selection.NewWeightedStrategy(),
	)
	disputeSvc := application.NewDisputeService(repoManager, pubsub, clock)

	httpSvc := httpinterface.NewService(
		policySvc, registrySvc, orderSvc, vaultSvc, disputeSvc, pubsub,
		config.GetString(config.AuthSecretKey),
	)

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	log.Debug("starting daemon")
	if err := httpSvc.Start(ctx, config.GetString(config.ListenAddrKey)); err != nil {
		log.WithError(err).Fatal("http interface stopped with error")
	}
	log.Debug("exiting")
}

func newRepoManager() (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewRepoManager(), nil
	}
	return dbbadger.NewRepoManager(config.GetDbDir(), nil)
}

func newPubSubService() (application.SecurePubSub, error) {
	dbDir := ""
	if config.GetString(config.DBTypeKey) == config.DBBadger {
		dbDir = config.GetWebhookDbDir()
	}
	return webhookpubsub.NewWebhookPubSubService(dbDir, nil)
}
