package main

import (
	"flag"
	"fmt"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/config"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/handler"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/agentdeck.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	defer ctx.Close()
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
