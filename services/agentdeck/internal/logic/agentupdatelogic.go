package logic

import (
	"context"
	"strings"

	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type AgentUpdateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAgentUpdateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AgentUpdateLogic {
	return &AgentUpdateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AgentUpdateLogic) AgentUpdate(req *types.AgentUpdateRequest) error {
	if req == nil || req.Id == 0 {
		return ErrInvalidRequest
	}
	return l.svcCtx.Service.UpdateAgent(l.ctx, req.Id, agentsvc.Profile{
		Prompt:          req.Prompt,
		Description:     req.Description,
		AvatarStorageID: strings.TrimSpace(req.AvatarStorageId),
		SpriteStorageID: strings.TrimSpace(req.SpriteStorageId),
		Status:          req.Status,
		Visibility:      req.Visibility,
	})
}

func (l *AgentUpdateLogic) AgentUpgrade(req *types.AgentIdRequest) (*types.AgentUpgradeResponse, error) {
	if req == nil || req.Id == 0 {
		return nil, ErrInvalidRequest
	}
	if err := l.svcCtx.Service.UpgradeAgent(l.ctx, req.Id); err != nil {
		return nil, err
	}
	a, err := l.svcCtx.Agents.Get(l.ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, agentsvc.ErrAgentNotFound
	}
	return &types.AgentUpgradeResponse{Id: a.ID, Level: a.Level}, nil
}
