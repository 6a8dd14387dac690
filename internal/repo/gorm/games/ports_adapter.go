package games

import (
	"context"

	dom "github.com/cuihairu/agentdeck/internal/ports"
)

// PortRepo adapts *Repo to the ports.GamesRepository interface.
type PortRepo struct{ r *Repo }

func NewPortRepo(r *Repo) *PortRepo { return &PortRepo{r: r} }

var _ dom.GamesRepository = (*PortRepo)(nil)

func (p *PortRepo) Get(ctx context.Context) (*dom.Game, error) {
	m, err := p.r.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(m)
}

func (p *PortRepo) Save(ctx context.Context, g *dom.Game) error {
	if g == nil {
		return nil
	}
	m := &Game{GameID: g.GameID, GameName: g.GameName}
	if len(g.AgentResources) > 0 {
		if err := m.SetAgentResources(g.AgentResources); err != nil {
			return err
		}
	}
	if err := p.r.Upsert(ctx, m); err != nil {
		return err
	}
	g.CreatedAt = m.CreatedAt
	g.UpdatedAt = m.UpdatedAt
	return nil
}

func toDomain(m *Game) (*dom.Game, error) {
	if m == nil {
		return nil, nil
	}
	g := &dom.Game{
		GameID:    m.GameID,
		GameName:  m.GameName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if err := m.GetAgentResources(&g.AgentResources); err != nil {
		return nil, err
	}
	return g, nil
}
