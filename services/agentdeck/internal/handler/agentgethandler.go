package handler

import (
	"net/http"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/logic"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func AgentGetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AgentIdRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewAgentGetLogic(r.Context(), svcCtx)
		resp, err := l.AgentGet(&req)
		if err != nil {
			writeAgentError(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func AgentByNameHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AgentByNameRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewAgentGetLogic(r.Context(), svcCtx)
		resp, err := l.AgentByName(&req)
		if err != nil {
			writeAgentError(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
