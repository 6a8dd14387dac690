package agents

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuihairu/agentdeck/internal/remote"
)

type fakeRemote struct {
	mu sync.Mutex

	uploads      []string
	createdAgent []remote.AgentInput
	agentUpdates map[string][]remote.AgentUpdates
	gameUpdates  map[string][]remote.GameUpdates
	games        []remote.Game
	createdGames []remote.GameInput
	maps         []remote.MapInput
	music        []remote.MusicInput

	// worldStatus is consumed in order; the last entry repeats.
	worldStatus []*remote.WorldStatus
	worldErr    error
	statusCalls int

	fetched   []string
	createErr error
	seq       int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		agentUpdates: map[string][]remote.AgentUpdates{},
		gameUpdates:  map[string][]remote.GameUpdates{},
	}
}

func (f *fakeRemote) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeRemote) Upload(_ context.Context, data []byte, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	return f.next("blob"), nil
}

func (f *fakeRemote) CreateMusic(_ context.Context, in remote.MusicInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.music = append(f.music, in)
	return f.next("music"), nil
}

func (f *fakeRemote) CreateMap(_ context.Context, in remote.MapInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maps = append(f.maps, in)
	return f.next("map"), nil
}

func (f *fakeRemote) CreateGame(_ context.Context, in remote.GameInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdGames = append(f.createdGames, in)
	id := f.next("game")
	f.games = append(f.games, remote.Game{ID: id, Title: in.Title, AgentIDs: in.AgentIDs})
	return id, nil
}

func (f *fakeRemote) CreateAgent(_ context.Context, in remote.AgentInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createdAgent = append(f.createdAgent, in)
	return f.next("agent"), nil
}

func (f *fakeRemote) UpdateAgent(_ context.Context, id string, u remote.AgentUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agentUpdates[id] = append(f.agentUpdates[id], u)
	return nil
}

func (f *fakeRemote) UpdateGame(_ context.Context, id string, u remote.GameUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gameUpdates[id] = append(f.gameUpdates[id], u)
	for i := range f.games {
		if f.games[i].ID == id {
			f.games[i].AgentIDs = u.AgentIDs
		}
	}
	return nil
}

func (f *fakeRemote) GetGameList(context.Context) ([]remote.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Game(nil), f.games...), nil
}

func (f *fakeRemote) GetWorldStatus(context.Context, string) (*remote.WorldStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.worldErr != nil {
		return nil, f.worldErr
	}
	if len(f.worldStatus) == 0 {
		return &remote.WorldStatus{Name: "world"}, nil
	}
	ws := f.worldStatus[0]
	if len(f.worldStatus) > 1 {
		f.worldStatus = f.worldStatus[1:]
	}
	return ws, nil
}

func (f *fakeRemote) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, rawURL)
	return []byte("remote:" + rawURL), nil
}

func (f *fakeRemote) lastGameUpdate(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.gameUpdates[id]
	if len(u) == 0 {
		return nil
	}
	return u[len(u)-1].AgentIDs
}
