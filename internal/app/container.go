package app

import (
	"github.com/sirupsen/logrus"

	adapterrepo "github.com/eslsoft/readvoc/internal/adapter/repository"
	"github.com/eslsoft/readvoc/internal/infrastructure/config"
	"github.com/eslsoft/readvoc/internal/infrastructure/server"
	"github.com/eslsoft/readvoc/internal/usecase"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Logger *logrus.Logger
	Server *server.Server
}

func provideDialect(cfg *config.Config) (adapterrepo.Dialect, error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return "", err
	}
	return adapterrepo.Dialect(driver), nil
}

func provideStrategy(cfg *config.Config) (usecase.Strategy, error) {
	return usecase.StrategyByName(cfg.Review.Strategy)
}
