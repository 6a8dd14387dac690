package handler

import (
	"net/http"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/logic"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func AgentUpdateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AgentUpdateRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewAgentUpdateLogic(r.Context(), svcCtx)
		if err := l.AgentUpdate(&req); err != nil {
			writeAgentError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AgentUpgradeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AgentIdRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewAgentUpdateLogic(r.Context(), svcCtx)
		resp, err := l.AgentUpgrade(&req)
		if err != nil {
			writeAgentError(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
