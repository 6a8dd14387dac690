package games

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo provides GORM-based persistence for the singleton game row.
type Repo struct{ db *gorm.DB }

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&Game{}) }
func NewRepo(db *gorm.DB) *Repo     { return &Repo{db: db} }

// Get returns the singleton row or gorm.ErrRecordNotFound.
func (r *Repo) Get(ctx context.Context) (*Game, error) {
	var g Game
	if err := r.db.WithContext(ctx).First(&g, singletonID).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Upsert writes g as the singleton row, replacing any previous game.
func (r *Repo) Upsert(ctx context.Context, g *Game) error {
	g.ID = singletonID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"game_id", "game_name", "agent_resources", "updated_at"}),
	}).Create(g).Error
}

// Count is used by tests to assert the singleton invariant.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Game{}).Count(&n).Error
	return n, err
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
