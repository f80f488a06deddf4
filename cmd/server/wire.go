//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/http"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/postgres"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/svc"
)

func initializeContainer(cfg config.Config) (container, error) {
	wire.Build(
		postgres.NewGuildConfig,
		svc.NewGuildConfig,
		svc.NewWarningRouter,
		http.NewHandler,
		http.NewRouter,
		newContainer,
		newSigner,
		newComm,
		newSession,
		newDirectory,
		newAttackListener,
		newStatusMonitor,
		newBot,
		newAccessKey,
		newPostgresConn,
	)
	return container{}, nil
}
