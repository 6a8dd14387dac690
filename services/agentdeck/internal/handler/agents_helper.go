package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/cuihairu/agentdeck/internal/objstore"
	"github.com/cuihairu/agentdeck/internal/remote"
	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/cuihairu/agentdeck/internal/uploads"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/logic"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func writeAgentError(ctx context.Context, w http.ResponseWriter, err error) {
	var apiErr *remote.APIError
	switch {
	case errors.Is(err, agentsvc.ErrGameNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]any{"message": "game not found"})
	case errors.Is(err, agentsvc.ErrAgentNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]any{"message": "agent not found"})
	case errors.Is(err, agentsvc.ErrAgentExists):
		httpx.WriteJsonCtx(ctx, w, http.StatusConflict, map[string]any{"message": "agent already exists"})
	case errors.Is(err, agentsvc.ErrNextLevelNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadRequest, map[string]any{"message": "next level config not found"})
	case errors.Is(err, agentsvc.ErrBlobNotFound), errors.Is(err, objstore.ErrNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadRequest, map[string]any{"message": "file not found in storage"})
	case errors.Is(err, agentsvc.ErrInvalidProfile), errors.Is(err, logic.ErrInvalidRequest):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadRequest, map[string]any{"message": "invalid request"})
	case errors.Is(err, agentsvc.ErrRemoteGameNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadGateway, map[string]any{"message": "remote game not found"})
	case errors.As(err, &apiErr):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadGateway, map[string]any{"message": apiErr.Error()})
	default:
		httpx.ErrorCtx(ctx, w, err)
	}
}

func writeStorageError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, uploads.ErrInvalidTicket):
		httpx.WriteJsonCtx(ctx, w, http.StatusForbidden, map[string]any{"message": "invalid or expired upload ticket"})
	case errors.Is(err, objstore.ErrNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]any{"message": "file not found"})
	case errors.Is(err, logic.ErrInvalidRequest):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadRequest, map[string]any{"message": "invalid request"})
	default:
		httpx.ErrorCtx(ctx, w, err)
	}
}
