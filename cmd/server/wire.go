// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"local_services_backend/internal/app"
	"local_services_backend/internal/auth"
	"local_services_backend/internal/category"
	"local_services_backend/internal/config"
	"local_services_backend/internal/firebase"
	"local_services_backend/internal/jobs"
	"local_services_backend/internal/platform/database"
	"local_services_backend/internal/platform/elasticsearch"
	"local_services_backend/internal/platform/logger"
	"local_services_backend/internal/platform/redis"
	"local_services_backend/internal/provider"
	"local_services_backend/internal/provider/esutil"
	"local_services_backend/internal/review"
	"local_services_backend/internal/user"

	"github.com/google/wire"
)

var platformSet = wire.NewSet(
	logger.New,
	database.NewGORM,
	redis.NewClient,
	elasticsearch.NewClient,
)

var providerSet = wire.NewSet(
	provideSearchIndexer,
	wire.Bind(new(provider.SearchIndexer), new(*esutil.Indexer)),
	provider.NewEventBus,
	provider.NewGORMRepository,
	provider.NewService,
	provider.NewHandler,
	wire.Bind(new(provider.RatingSource), new(review.Service)),
)

var reviewSet = wire.NewSet(
	review.NewGORMRepository,
	review.NewService,
	review.NewHandler,
	wire.Bind(new(review.ProviderChecker), new(provider.Service)),
)

var accountSet = wire.NewSet(
	firebase.NewService,
	wire.Bind(new(auth.IdentityProvider), new(*firebase.Service)),
	user.NewGORMRepository,
	user.NewService,
	user.NewHandler,
	auth.NewService,
	auth.NewHandler,
	wire.Bind(new(auth.StateSource), new(provider.Service)),
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		providerSet,
		reviewSet,
		accountSet,
		category.NewHandler,
		wire.Bind(new(category.ProviderCounter), new(provider.Service)),
		jobs.NewOrphanReviewSweepJob,
		wire.Bind(new(jobs.OrphanSweeper), new(review.Service)),
		app.NewServer,
	)
	return nil, nil, nil
}
