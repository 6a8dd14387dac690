package logic

import (
	dom "github.com/cuihairu/agentdeck/internal/ports"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/types"
)

func toAgent(a *dom.Agent) types.Agent {
	return types.Agent{
		Id:              a.ID,
		Name:            a.Name,
		AgentId:         a.AgentID,
		Prompt:          a.Prompt,
		Description:     a.Description,
		AvatarStorageId: a.AvatarStorageID,
		SpriteStorageId: a.SpriteStorageID,
		Status:          a.Status,
		Visibility:      a.Visibility,
		Level:           a.Level,
		CreatedAt:       a.CreatedAt.UnixMilli(),
		UpdatedAt:       a.UpdatedAt.UnixMilli(),
	}
}

func toGame(g *dom.Game) *types.Game {
	out := &types.Game{
		GameId:         g.GameID,
		GameName:       g.GameName,
		AgentResources: make([]types.AgentResource, 0, len(g.AgentResources)),
		UpdatedAt:      g.UpdatedAt.UnixMilli(),
	}
	for _, r := range g.AgentResources {
		out.AgentResources = append(out.AgentResources, types.AgentResource{
			Level: r.Level,
			AgentConfig: types.AgentConfig{
				Name:            r.AgentConfig.Name,
				Description:     r.AgentConfig.Description,
				AvatarStorageId: r.AgentConfig.AvatarStorageID,
				SpriteStorageId: r.AgentConfig.SpriteStorageID,
				Status:          r.AgentConfig.Status,
				Visibility:      r.AgentConfig.Visibility,
			},
			AgentAvatarStorageId: r.AgentAvatarStorageID,
			AgentSpriteStorageId: r.AgentSpriteStorageID,
		})
	}
	return out
}
