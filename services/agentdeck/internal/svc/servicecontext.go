package svc

import (
	"context"

	"github.com/cuihairu/agentdeck/internal/app"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/config"

	"github.com/zeromicro/go-zero/core/logx"
)

type ServiceContext struct {
	Config config.Config
	*app.Deps
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.Info("Initializing agentdeck service context")
	deps, err := app.Build(context.Background(), c.Settings)
	logx.Must(err)
	return &ServiceContext{Config: c, Deps: deps}
}
