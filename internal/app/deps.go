package app

import (
	"context"
	"fmt"

	"github.com/cuihairu/agentdeck/internal/changefeed"
	"github.com/cuihairu/agentdeck/internal/db"
	"github.com/cuihairu/agentdeck/internal/objstore"
	"github.com/cuihairu/agentdeck/internal/ports"
	"github.com/cuihairu/agentdeck/internal/remote"
	repoagents "github.com/cuihairu/agentdeck/internal/repo/gorm/agents"
	repogames "github.com/cuihairu/agentdeck/internal/repo/gorm/games"
	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/cuihairu/agentdeck/internal/uploads"

	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/gorm"
)

type Deps struct {
	DB      *gorm.DB
	Games   ports.GamesRepository
	Agents  ports.AgentsRepository
	Blobs   objstore.Store
	Tickets uploads.Tickets
	Feed    changefeed.Publisher
	Service *agentsvc.Service
}

// Build opens every backing store and the remote client. The remote
// credentials are checked here so a misconfigured process fails at startup.
func Build(ctx context.Context, s Settings) (*Deps, error) {
	gdb, err := db.Open(s.Database.DataSource)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	blobs, err := objstore.Open(ctx, s.StorageConfig())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	rc, err := remote.New(remote.Config{
		BaseURL: s.Remote.BaseURL,
		APIKey:  s.Remote.APIKey,
		Timeout: s.Remote.Timeout,
	})
	if err != nil {
		return nil, err
	}

	tickets, err := uploads.New(uploads.Config{
		Store:    s.Uploads.Store,
		RedisURL: s.Uploads.RedisURL,
		TTL:      s.Uploads.TicketTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open upload tickets: %w", err)
	}

	feed := changefeed.New(s.ChangeFeed)
	games := repogames.NewPortRepo(repogames.NewRepo(gdb))
	agents := repoagents.NewPortRepo(repoagents.NewRepo(gdb))
	service := agentsvc.NewService(games, agents, blobs, rc,
		agentsvc.WithPollInterval(s.Bootstrap.PollInterval),
		agentsvc.WithChangeFeed(feed),
	)
	logx.Infof("agentdeck deps ready: storage=%s uploads=%s changefeed=%s",
		s.StorageConfig().Driver, s.Uploads.Store, s.ChangeFeed.Type)

	return &Deps{
		DB:      gdb,
		Games:   games,
		Agents:  agents,
		Blobs:   blobs,
		Tickets: tickets,
		Feed:    feed,
		Service: service,
	}, nil
}

func (d *Deps) Close() {
	if d == nil {
		return
	}
	if d.Feed != nil {
		if err := d.Feed.Close(); err != nil {
			logx.Errorf("close change feed: %v", err)
		}
	}
	if d.Tickets != nil {
		if err := d.Tickets.Close(); err != nil {
			logx.Errorf("close upload tickets: %v", err)
		}
	}
	if d.Blobs != nil {
		if err := d.Blobs.Close(); err != nil {
			logx.Errorf("close blob store: %v", err)
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
