package logic

import (
	"context"

	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

type HealthzLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthzLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthzLogic {
	return &HealthzLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *HealthzLogic) Healthz() (string, error) {
	if l.svcCtx.DB != nil {
		sqlDB, err := l.svcCtx.DB.DB()
		if err != nil {
			return "", err
		}
		if err := sqlDB.PingContext(l.ctx); err != nil {
			return "", err
		}
	}
	return "ok", nil
}
