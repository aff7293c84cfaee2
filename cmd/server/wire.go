// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"realty_bureau_backend/internal/app"
	"realty_bureau_backend/internal/auth"
	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/jobs"
	"realty_bureau_backend/internal/listing"
	"realty_bureau_backend/internal/listing/esutil"
	"realty_bureau_backend/internal/media"
	"realty_bureau_backend/internal/platform/database"
	"realty_bureau_backend/internal/platform/elasticsearch"
	"realty_bureau_backend/internal/user"
	"realty_bureau_backend/internal/wishlist"

	"github.com/google/wire"
	"gorm.io/gorm"
)

var platformSet = wire.NewSet(
	provideLogger,
	provideDialector,
	database.NewConnector,
	database.NewGORM,
)

var listingSet = wire.NewSet(
	elasticsearch.NewClient,
	esutil.NewSearchIndexer,
	listing.NewGORMRepository,
	listing.NewService,
)

// initializeServer is the main Wire injector.
func initializeServer(ctx context.Context, cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		listingSet,
		listing.NewHandler,

		wishlist.NewGORMRepository,
		wishlist.NewService,
		wishlist.NewHandler,
		wire.Bind(new(wishlist.ListingChecker), new(listing.Service)),

		user.NewGORMRepository,
		user.NewService,
		user.NewHandler,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(auth.UserProvider), new(*user.ServiceImplementation)),

		provideBlocklistConfig,
		auth.NewInMemoryBlocklistService,
		wire.Bind(new(auth.TokenBlocklistService), new(*auth.InMemoryBlocklistService)),
		auth.NewJWTService,
		auth.NewIdentityVerifier,
		auth.NewService,
		wire.Bind(new(auth.Service), new(*auth.SessionService)),
		auth.NewHandler,

		media.NewStore,
		provideMediaHandler,

		jobs.NewWishlistPruneJob,
		wire.Bind(new(jobs.DanglingPruner), new(wishlist.Service)),

		wire.Struct(new(app.Handlers), "*"),
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeDatabase backs the migrate subcommand.
func initializeDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, func(), error) {
	wire.Build(platformSet)
	return nil, nil, nil
}

// initializePlotSync backs the sync-plots subcommand.
func initializePlotSync(ctx context.Context, cfg *config.Config) (*plotSync, func(), error) {
	wire.Build(platformSet, listingSet, wire.Struct(new(plotSync), "*"))
	return nil, nil, nil
}
