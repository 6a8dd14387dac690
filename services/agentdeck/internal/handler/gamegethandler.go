package handler

import (
	"net/http"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/logic"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func GameGetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewGameGetLogic(r.Context(), svcCtx)
		resp, err := l.GameGet()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
