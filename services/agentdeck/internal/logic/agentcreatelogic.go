package logic

import (
	"context"
	"strings"

	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type AgentCreateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAgentCreateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AgentCreateLogic {
	return &AgentCreateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// AgentCreate returns the new id even when the trailing game sync fails, so
// callers can tell a created-but-unsynced agent from a failed creation.
func (l *AgentCreateLogic) AgentCreate(req *types.AgentCreateRequest) (*types.AgentCreateResponse, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidRequest
	}
	id, err := l.svcCtx.Service.CreateAgent(l.ctx, agentsvc.Profile{
		Name:            strings.TrimSpace(req.Name),
		Prompt:          req.Prompt,
		Description:     req.Description,
		AvatarStorageID: strings.TrimSpace(req.AvatarStorageId),
		SpriteStorageID: strings.TrimSpace(req.SpriteStorageId),
		Status:          req.Status,
		Visibility:      req.Visibility,
	})
	if id == 0 {
		return nil, err
	}
	if err != nil {
		l.Errorf("agent %d created but game sync failed: %v", id, err)
	}
	return &types.AgentCreateResponse{Id: id}, err
}
