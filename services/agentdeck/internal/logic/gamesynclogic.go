package logic

import (
	"context"

	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GameSyncLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameSyncLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameSyncLogic {
	return &GameSyncLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameSyncLogic) GameSync() (*types.GameSyncResponse, error) {
	g, err := l.svcCtx.Games.Get(l.ctx)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, agentsvc.ErrGameNotFound
	}
	if err := l.svcCtx.Service.SyncGame(l.ctx, g.GameID); err != nil {
		return nil, err
	}
	list, err := l.svcCtx.Agents.List(l.ctx)
	if err != nil {
		return nil, err
	}
	return &types.GameSyncResponse{GameId: g.GameID, Agents: len(list)}, nil
}
