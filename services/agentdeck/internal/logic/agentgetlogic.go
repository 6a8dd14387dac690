package logic

import (
	"context"
	"strings"

	dom "github.com/cuihairu/agentdeck/internal/ports"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type AgentGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAgentGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AgentGetLogic {
	return &AgentGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// AgentGet answers with a nil agent when the id is unknown.
func (l *AgentGetLogic) AgentGet(req *types.AgentIdRequest) (*types.AgentResponse, error) {
	if req == nil || req.Id == 0 {
		return nil, ErrInvalidRequest
	}
	a, err := l.svcCtx.Agents.Get(l.ctx, req.Id)
	return agentResponse(a, err)
}

// AgentByName matches the trimmed name exactly, case included. Names are
// trimmed the same way on create.
func (l *AgentGetLogic) AgentByName(req *types.AgentByNameRequest) (*types.AgentResponse, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidRequest
	}
	a, err := l.svcCtx.Agents.GetByName(l.ctx, strings.TrimSpace(req.Name))
	return agentResponse(a, err)
}

func agentResponse(a *dom.Agent, err error) (*types.AgentResponse, error) {
	if err != nil {
		return nil, err
	}
	if a == nil {
		return &types.AgentResponse{}, nil
	}
	out := toAgent(a)
	return &types.AgentResponse{Agent: &out}, nil
}
