package handler

import (
	"net/http"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/logic"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func AgentCreateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AgentCreateRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewAgentCreateLogic(r.Context(), svcCtx)
		resp, err := l.AgentCreate(&req)
		switch {
		case err == nil:
			httpx.WriteJsonCtx(r.Context(), w, http.StatusCreated, resp)
		case resp != nil:
			// created locally, roster push failed
			httpx.WriteJsonCtx(r.Context(), w, http.StatusBadGateway, map[string]any{
				"id":      resp.Id,
				"message": "agent created but game sync failed: " + err.Error(),
			})
		default:
			writeAgentError(r.Context(), w, err)
		}
	}
}
