package handler

import (
	"net/http"
	"time"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/zeromicro/go-zero/rest"
)

// remoteTimeout bounds routes that chain several remote calls.
const remoteTimeout = 2 * time.Minute

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthzHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/game",
				Handler: GameGetHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/agents",
				Handler: AgentListHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/agents/by-name",
				Handler: AgentByNameHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/agents/:id",
				Handler: AgentGetHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/agents",
				Handler: AgentCreateHandler(serverCtx),
			},
			{
				Method:  http.MethodPut,
				Path:    "/api/agents/:id",
				Handler: AgentUpdateHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/agents/:id/upgrade",
				Handler: AgentUpgradeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/game/sync",
				Handler: GameSyncHandler(serverCtx),
			},
		},
		rest.WithTimeout(remoteTimeout),
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/storage/upload-url",
				Handler: UploadURLHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/storage/url",
				Handler: FileURLHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/storage/files/:storageId",
				Handler: FileHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/storage/upload/:ticket",
				Handler: UploadHandler(serverCtx),
			},
		},
		rest.WithMaxBytes(serverCtx.Config.Uploads.MaxBytes),
	)
}
