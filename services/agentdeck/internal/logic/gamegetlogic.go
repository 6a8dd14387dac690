package logic

import (
	"context"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GameGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameGetLogic {
	return &GameGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// GameGet returns the bootstrapped game; Game is nil before initialization.
func (l *GameGetLogic) GameGet() (*types.GameResponse, error) {
	g, err := l.svcCtx.Games.Get(l.ctx)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return &types.GameResponse{}, nil
	}
	return &types.GameResponse{Game: toGame(g)}, nil
}
