package logic

import (
	"context"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type AgentListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAgentListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AgentListLogic {
	return &AgentListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AgentListLogic) AgentList() (*types.AgentListResponse, error) {
	list, err := l.svcCtx.Agents.List(l.ctx)
	if err != nil {
		return nil, err
	}
	resp := &types.AgentListResponse{Agents: make([]types.Agent, 0, len(list))}
	for _, a := range list {
		resp.Agents = append(resp.Agents, toAgent(a))
	}
	return resp, nil
}
