//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/readvoc/internal/adapter/httpapi"
	adapterrepo "github.com/eslsoft/readvoc/internal/adapter/repository"
	"github.com/eslsoft/readvoc/internal/infrastructure/config"
	"github.com/eslsoft/readvoc/internal/infrastructure/database"
	"github.com/eslsoft/readvoc/internal/infrastructure/server"
	"github.com/eslsoft/readvoc/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewConnection,
	provideDialect,
)

var repositorySet = wire.NewSet(
	adapterrepo.NewTermRepository,
	adapterrepo.NewTextRepository,
	adapterrepo.NewLanguageRepository,
)

var usecaseSet = wire.NewSet(
	provideStrategy,
	usecase.NewTextStatsUsecase,
	usecase.NewRecommendUsecase,
	usecase.NewReviewUsecase,
)

var serverSet = wire.NewSet(
	httpapi.NewHandler,
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
