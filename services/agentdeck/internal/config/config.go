package config

import (
	"github.com/cuihairu/agentdeck/internal/app"
	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf
	app.Settings
}
