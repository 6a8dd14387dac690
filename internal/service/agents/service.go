// Package agents orchestrates the local agent roster, blob storage and the
// remote game service. Every operation is a linear sequence of remote and
// local steps; nothing is rolled back when a later step fails.
package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cuihairu/agentdeck/internal/changefeed"
	"github.com/cuihairu/agentdeck/internal/objstore"
	dom "github.com/cuihairu/agentdeck/internal/ports"
	"github.com/cuihairu/agentdeck/internal/remote"
	"github.com/cuihairu/agentdeck/internal/telemetry"
	"github.com/zeromicro/go-zero/core/logx"
)

// RemoteClient is the subset of *remote.Client the flows depend on.
type RemoteClient interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	CreateMusic(ctx context.Context, in remote.MusicInput) (string, error)
	CreateMap(ctx context.Context, in remote.MapInput) (string, error)
	CreateGame(ctx context.Context, in remote.GameInput) (string, error)
	CreateAgent(ctx context.Context, in remote.AgentInput) (string, error)
	UpdateAgent(ctx context.Context, id string, updates remote.AgentUpdates) error
	UpdateGame(ctx context.Context, id string, updates remote.GameUpdates) error
	GetGameList(ctx context.Context) ([]remote.Game, error)
	GetWorldStatus(ctx context.Context, gameID string) (*remote.WorldStatus, error)
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

var _ RemoteClient = (*remote.Client)(nil)

// Profile is the user-editable part of an agent. Storage ids are local refs.
type Profile struct {
	Name            string
	Prompt          string
	Description     string
	AvatarStorageID string
	SpriteStorageID string
	Status          string
	Visibility      string
}

type Service struct {
	games        dom.GamesRepository
	agents       dom.AgentsRepository
	blobs        objstore.Store
	remote       RemoteClient
	feed         changefeed.Publisher
	metrics      *telemetry.FlowMetrics
	pollInterval time.Duration
	now          func() time.Time
}

type Option func(*Service)

// WithPollInterval sets the fixed world-status poll interval (default 1s).
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

func WithChangeFeed(p changefeed.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.feed = p
		}
	}
}

// WithMetrics replaces the flow metrics built from the global meter provider.
func WithMetrics(m *telemetry.FlowMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(games dom.GamesRepository, agents dom.AgentsRepository, blobs objstore.Store, rc RemoteClient, opts ...Option) *Service {
	s := &Service{
		games:        games,
		agents:       agents,
		blobs:        blobs,
		remote:       rc,
		feed:         changefeed.NewNoop(),
		pollInterval: time.Second,
		now:          time.Now,
	}
	if m, err := telemetry.NewFlowMetrics(nil); err == nil {
		s.metrics = m
	} else {
		logx.Errorf("flow metrics disabled: %v", err)
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateAgent creates the agent remotely, records it locally and pushes the
// roster to the remote game. The returned id is valid even when the final
// sync fails.
func (s *Service) CreateAgent(ctx context.Context, p Profile) (_ uint, err error) {
	defer s.track(ctx, "createAgent", time.Now(), &err)
	if strings.TrimSpace(p.Name) == "" {
		return 0, fmt.Errorf("%w: name required", ErrInvalidProfile)
	}
	game, err := s.requireGame(ctx)
	if err != nil {
		return 0, err
	}
	old, err := s.agents.GetByName(ctx, p.Name)
	if err != nil {
		return 0, err
	}
	if old != nil {
		return 0, fmt.Errorf("%w: %s", ErrAgentExists, p.Name)
	}

	blobs, err := s.readBlobs(ctx, p.AvatarStorageID, p.SpriteStorageID)
	if err != nil {
		return 0, err
	}
	avatarID, err := s.remote.Upload(ctx, blobs[0], "avatar.png")
	if err != nil {
		return 0, fmt.Errorf("upload avatar: %w", err)
	}
	spriteID, err := s.remote.Upload(ctx, blobs[1], "sprite.png")
	if err != nil {
		return 0, fmt.Errorf("upload sprite: %w", err)
	}
	agentID, err := s.remote.CreateAgent(ctx, remote.AgentInput{
		Name:            p.Name,
		Prompt:          p.Prompt,
		Description:     p.Description,
		AvatarStorageID: avatarID,
		SpriteStorageID: spriteID,
		Status:          p.Status,
		Visibility:      p.Visibility,
	})
	if err != nil {
		return 0, fmt.Errorf("create remote agent: %w", err)
	}

	a := &dom.Agent{
		Name:            p.Name,
		AgentID:         agentID,
		Prompt:          p.Prompt,
		Description:     p.Description,
		AvatarStorageID: p.AvatarStorageID,
		SpriteStorageID: p.SpriteStorageID,
		Status:          p.Status,
		Visibility:      p.Visibility,
		Level:           1,
	}
	if err := s.agents.Save(ctx, a); err != nil {
		return 0, fmt.Errorf("save agent: %w", err)
	}
	logx.WithContext(ctx).Infow("agent created",
		logx.Field("id", a.ID), logx.Field("name", a.Name), logx.Field("agentId", agentID))
	s.publish(changefeed.TableAgents, a.ID, "insert")

	if err := s.SyncGame(ctx, game.GameID); err != nil {
		return a.ID, err
	}
	return a.ID, nil
}

// UpdateAgent pushes the new profile remotely and patches the local record.
// Avatar and sprite are only re-uploaded when their refs changed; an empty ref
// keeps the stored one.
func (s *Service) UpdateAgent(ctx context.Context, id uint, p Profile) (err error) {
	defer s.track(ctx, "updateAgent", time.Now(), &err)
	game, err := s.requireGame(ctx)
	if err != nil {
		return err
	}
	agent, err := s.requireAgent(ctx, id)
	if err != nil {
		return err
	}
	if p.AvatarStorageID == "" {
		p.AvatarStorageID = agent.AvatarStorageID
	}
	if p.SpriteStorageID == "" {
		p.SpriteStorageID = agent.SpriteStorageID
	}

	updates := remote.AgentUpdates{
		Prompt:      p.Prompt,
		Description: p.Description,
		Status:      p.Status,
		Visibility:  p.Visibility,
	}
	avatarChanged := p.AvatarStorageID != agent.AvatarStorageID
	spriteChanged := p.SpriteStorageID != agent.SpriteStorageID
	var refs []string
	if avatarChanged {
		refs = append(refs, p.AvatarStorageID)
	}
	if spriteChanged {
		refs = append(refs, p.SpriteStorageID)
	}
	blobs, err := s.readBlobs(ctx, refs...)
	if err != nil {
		return err
	}
	if avatarChanged {
		if updates.AvatarStorageID, err = s.remote.Upload(ctx, blobs[0], "avatar.png"); err != nil {
			return fmt.Errorf("upload avatar: %w", err)
		}
		blobs = blobs[1:]
	}
	if spriteChanged {
		if updates.SpriteStorageID, err = s.remote.Upload(ctx, blobs[0], "sprite.png"); err != nil {
			return fmt.Errorf("upload sprite: %w", err)
		}
	}
	if err := s.remote.UpdateAgent(ctx, agent.AgentID, updates); err != nil {
		return fmt.Errorf("update remote agent: %w", err)
	}

	agent.Prompt = p.Prompt
	agent.Description = p.Description
	agent.AvatarStorageID = p.AvatarStorageID
	agent.SpriteStorageID = p.SpriteStorageID
	agent.Status = p.Status
	agent.Visibility = p.Visibility
	if err := s.agents.Save(ctx, agent); err != nil {
		return fmt.Errorf("save agent: %w", err)
	}
	logx.WithContext(ctx).Infow("agent updated", logx.Field("id", agent.ID),
		logx.Field("avatarChanged", avatarChanged), logx.Field("spriteChanged", spriteChanged))
	s.publish(changefeed.TableAgents, agent.ID, "update")

	return s.SyncGame(ctx, game.GameID)
}

// UpgradeAgent moves the agent to the next configured level.
func (s *Service) UpgradeAgent(ctx context.Context, id uint) (err error) {
	defer s.track(ctx, "upgradeAgent", time.Now(), &err)
	game, err := s.requireGame(ctx)
	if err != nil {
		return err
	}
	agent, err := s.requireAgent(ctx, id)
	if err != nil {
		return err
	}
	next := game.ResourceForLevel(agent.Level + 1)
	if next == nil {
		return fmt.Errorf("%w: level %d", ErrNextLevelNotFound, agent.Level+1)
	}
	cfg := next.AgentConfig
	err = s.remote.UpdateAgent(ctx, agent.AgentID, remote.AgentUpdates{
		Prompt:          agent.Prompt,
		Description:     cfg.Description,
		AvatarStorageID: next.AgentAvatarStorageID,
		SpriteStorageID: next.AgentSpriteStorageID,
		Status:          cfg.Status,
		Visibility:      cfg.Visibility,
	})
	if err != nil {
		return fmt.Errorf("update remote agent: %w", err)
	}

	agent.Level = next.Level
	agent.Description = cfg.Description
	agent.AvatarStorageID = cfg.AvatarStorageID
	agent.SpriteStorageID = cfg.SpriteStorageID
	agent.Status = cfg.Status
	agent.Visibility = cfg.Visibility
	if err := s.agents.Save(ctx, agent); err != nil {
		return fmt.Errorf("save agent: %w", err)
	}
	logx.WithContext(ctx).Infow("agent upgraded", logx.Field("id", agent.ID), logx.Field("level", agent.Level))
	s.publish(changefeed.TableAgents, agent.ID, "update")

	return s.SyncGame(ctx, game.GameID)
}

// SyncGame overwrites the remote game's agent list with every local agentId.
func (s *Service) SyncGame(ctx context.Context, gameID string) (err error) {
	defer s.track(ctx, "syncGame", time.Now(), &err)
	games, err := s.remote.GetGameList(ctx)
	if err != nil {
		return fmt.Errorf("list remote games: %w", err)
	}
	var target *remote.Game
	for i := range games {
		if games[i].ID == gameID {
			target = &games[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrRemoteGameNotFound, gameID)
	}
	local, err := s.agents.List(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(local))
	for _, a := range local {
		ids = append(ids, a.AgentID)
	}
	if err := s.remote.UpdateGame(ctx, target.ID, remote.GameUpdates{AgentIDs: ids}); err != nil {
		return fmt.Errorf("update remote game: %w", err)
	}
	logx.WithContext(ctx).Infow("game synced", logx.Field("gameId", gameID), logx.Field("agents", len(ids)))
	return nil
}

func (s *Service) requireGame(ctx context.Context) (*dom.Game, error) {
	g, err := s.games.Get(ctx)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (s *Service) requireAgent(ctx context.Context, id uint) (*dom.Agent, error) {
	a, err := s.agents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %d", ErrAgentNotFound, id)
	}
	return a, nil
}

func (s *Service) track(ctx context.Context, op string, start time.Time, err *error) {
	s.metrics.Record(ctx, op, start, *err)
}

func (s *Service) publish(table string, id any, op string) {
	evt := changefeed.Event{Table: table, Op: op, At: s.now()}
	switch v := id.(type) {
	case uint:
		evt.ID = strconv.FormatUint(uint64(v), 10)
	case string:
		evt.ID = v
	}
	if err := s.feed.Publish(evt); err != nil {
		logx.Errorf("publish change event %s/%s: %v", table, evt.ID, err)
	}
}
