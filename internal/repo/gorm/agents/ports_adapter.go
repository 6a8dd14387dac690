package agents

import (
	"context"
	"errors"

	dom "github.com/cuihairu/agentdeck/internal/ports"
	"gorm.io/gorm"
)

// PortRepo adapts *Repo to the ports.AgentsRepository interface.
type PortRepo struct{ r *Repo }

func NewPortRepo(r *Repo) *PortRepo { return &PortRepo{r: r} }

var _ dom.AgentsRepository = (*PortRepo)(nil)

func (p *PortRepo) Get(ctx context.Context, id uint) (*dom.Agent, error) {
	m, err := p.r.Get(ctx, id)
	return toDomainOrNil(m, err)
}

func (p *PortRepo) GetByName(ctx context.Context, name string) (*dom.Agent, error) {
	m, err := p.r.GetByName(ctx, name)
	return toDomainOrNil(m, err)
}

func (p *PortRepo) List(ctx context.Context) ([]*dom.Agent, error) {
	arr, err := p.r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dom.Agent, 0, len(arr))
	for _, a := range arr {
		out = append(out, toDomain(a))
	}
	return out, nil
}

func (p *PortRepo) Save(ctx context.Context, a *dom.Agent) error {
	if a == nil {
		return nil
	}
	m := &Agent{
		Model:           gorm.Model{ID: a.ID},
		Name:            a.Name,
		AgentID:         a.AgentID,
		Prompt:          a.Prompt,
		Description:     a.Description,
		AvatarStorageID: a.AvatarStorageID,
		SpriteStorageID: a.SpriteStorageID,
		Status:          a.Status,
		Visibility:      a.Visibility,
		Level:           a.Level,
	}
	if m.Level == 0 {
		m.Level = 1
	}
	if a.ID == 0 {
		if err := p.r.Create(ctx, m); err != nil {
			return err
		}
		a.ID = m.ID
		a.Level = m.Level
		a.CreatedAt = m.CreatedAt
		a.UpdatedAt = m.UpdatedAt
		return nil
	}
	return p.r.Patch(ctx, m)
}

func toDomainOrNil(m *Agent, err error) (*dom.Agent, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(m), nil
}

func toDomain(a *Agent) *dom.Agent {
	if a == nil {
		return nil
	}
	return &dom.Agent{
		ID:              a.ID,
		Name:            a.Name,
		AgentID:         a.AgentID,
		Prompt:          a.Prompt,
		Description:     a.Description,
		AvatarStorageID: a.AvatarStorageID,
		SpriteStorageID: a.SpriteStorageID,
		Status:          a.Status,
		Visibility:      a.Visibility,
		Level:           a.Level,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
