package agents

import (
	"context"

	"gorm.io/gorm"
)

// Repo provides GORM-based persistence for agents.
type Repo struct{ db *gorm.DB }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&Agent{}) }
func NewRepo(db *gorm.DB) *Repo     { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, a *Agent) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Patch updates the mutable profile columns of an existing row.
// name and agent_id are never touched after creation.
func (r *Repo) Patch(ctx context.Context, a *Agent) error {
	res := r.db.WithContext(ctx).Model(&Agent{}).Where("id = ?", a.ID).Updates(map[string]any{
		"prompt":            a.Prompt,
		"description":       a.Description,
		"avatar_storage_id": a.AvatarStorageID,
		"sprite_storage_id": a.SpriteStorageID,
		"status":            a.Status,
		"visibility":        a.Visibility,
		"level":             a.Level,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id uint) (*Agent, error) {
	var a Agent
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByName is an exact, case-sensitive match.
func (r *Repo) GetByName(ctx context.Context, name string) (*Agent, error) {
	var a Agent
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) List(ctx context.Context) ([]*Agent, error) {
	var arr []*Agent
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&arr).Error; err != nil {
		return nil, err
	}
	return arr, nil
}
