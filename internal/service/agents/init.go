package agents

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cuihairu/agentdeck/internal/changefeed"
	dom "github.com/cuihairu/agentdeck/internal/ports"
	"github.com/cuihairu/agentdeck/internal/remote"
	"github.com/zeromicro/go-zero/core/logx"
)

var errWorldNotReady = errors.New("world status not ready")

type InitOptions struct {
	// Force replaces an existing game record with the newly created one.
	Force bool
}

// InitGameResources uploads the configured assets, creates the remote music,
// map and game, waits for the game world to report a name and records the
// result as the local game. It is not idempotent remotely.
func (s *Service) InitGameResources(ctx context.Context, r *Resources, opts InitOptions) (_ *dom.Game, err error) {
	defer s.track(ctx, "initGameResources", time.Now(), &err)
	if r == nil {
		return nil, fmt.Errorf("%w: nil resources", ErrInvalidResources)
	}
	existing, err := s.games.Get(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.Force {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, existing.GameID)
	}
	log := logx.WithContext(ctx)

	audioID, err := s.uploadSource(ctx, r.Music.Audio, "music.mp3")
	if err != nil {
		return nil, err
	}
	coverID, err := s.uploadSource(ctx, r.Music.Cover, "cover.png")
	if err != nil {
		return nil, err
	}
	musicID, err := s.remote.CreateMusic(ctx, remote.MusicInput{
		AudioStorageID: audioID,
		CoverStorageID: coverID,
		Title:          r.Music.Title,
		Description:    r.Music.Description,
		Status:         r.Music.Status,
		Visibility:     r.Music.Visibility,
	})
	if err != nil {
		return nil, fmt.Errorf("create music: %w", err)
	}

	mapImageID, err := s.uploadSource(ctx, r.Map.Image, "map.png")
	if err != nil {
		return nil, err
	}
	mapID, err := s.remote.CreateMap(ctx, remote.MapInput{
		StorageID:   mapImageID,
		Title:       r.Map.Title,
		Description: r.Map.Description,
		Status:      r.Map.Status,
		Visibility:  r.Map.Visibility,
		Width:       r.Map.Width,
		Height:      r.Map.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("create map: %w", err)
	}

	levels := make([]dom.AgentResource, 0, len(r.Agents))
	for _, l := range r.Agents {
		avatarID, avatarRef, err := s.stageSource(ctx, l.Avatar, "avatar.png")
		if err != nil {
			return nil, err
		}
		spriteID, spriteRef, err := s.stageSource(ctx, l.Sprite, "sprite.png")
		if err != nil {
			return nil, err
		}
		cfg := l.config()
		cfg.AvatarStorageID = avatarRef
		cfg.SpriteStorageID = spriteRef
		levels = append(levels, dom.AgentResource{
			Level:                l.Level,
			AgentConfig:          cfg,
			AgentAvatarStorageID: avatarID,
			AgentSpriteStorageID: spriteID,
		})
	}

	backgroundID, err := s.uploadSource(ctx, r.Game.Background, "background.png")
	if err != nil {
		return nil, err
	}
	logoID, err := s.uploadSource(ctx, r.Game.Logo, "logo.png")
	if err != nil {
		return nil, err
	}
	title := r.Game.Title
	if r.Game.UniqueTitle {
		title = s.uniqueTitle(title)
	}
	gameID, err := s.remote.CreateGame(ctx, remote.GameInput{
		MusicID:             musicID,
		MapID:               mapID,
		AgentIDs:            []string{},
		BackgroundStorageID: backgroundID,
		LogoStorageID:       logoID,
		TwitterHandle:       r.Game.TwitterHandle,
		Title:               title,
		Description:         r.Game.Description,
		Visibility:          r.Game.Visibility,
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	log.Infow("remote game created", logx.Field("gameId", gameID), logx.Field("title", title))

	name, err := s.waitWorldStatus(ctx, gameID)
	if err != nil {
		return nil, err
	}

	g := &dom.Game{GameID: gameID, GameName: name, AgentResources: levels}
	if err := s.SaveGameResources(ctx, g); err != nil {
		return nil, err
	}
	log.Infow("game initialized", logx.Field("gameId", gameID), logx.Field("gameName", name),
		logx.Field("levels", len(levels)))
	return g, nil
}

// SaveGameResources upserts the singleton game record.
func (s *Service) SaveGameResources(ctx context.Context, g *dom.Game) error {
	if err := s.games.Save(ctx, g); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	s.publish(changefeed.TableGames, g.GameID, "upsert")
	return nil
}

// waitWorldStatus polls until the remote world reports a non-empty name.
// Empty answers are retried at a fixed interval without limit; a remote error
// or context cancellation ends the poll.
func (s *Service) waitWorldStatus(ctx context.Context, gameID string) (string, error) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		ws, err := s.remote.GetWorldStatus(ctx, gameID)
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("world status: %w", err))
		}
		if ws == nil || ws.Name == "" {
			return "", errWorldNotReady
		}
		return ws.Name, nil
	}
	b := backoff.WithContext(backoff.NewConstantBackOff(s.pollInterval), ctx)
	name, err := backoff.RetryWithData(op, b)
	if err != nil {
		return "", err
	}
	logx.WithContext(ctx).Debugf("world status for %s ready after %d attempts", gameID, attempts)
	return name, nil
}

func (s *Service) uniqueTitle(title string) string {
	ms := strconv.FormatInt(s.now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return title + "-" + ms
}
