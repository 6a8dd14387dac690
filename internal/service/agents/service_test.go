package agents

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cuihairu/agentdeck/internal/db"
	"github.com/cuihairu/agentdeck/internal/objstore"
	dom "github.com/cuihairu/agentdeck/internal/ports"
	"github.com/cuihairu/agentdeck/internal/remote"
	repoagents "github.com/cuihairu/agentdeck/internal/repo/gorm/agents"
	repogames "github.com/cuihairu/agentdeck/internal/repo/gorm/games"
)

type fixture struct {
	svc    *Service
	remote *fakeRemote
	games  dom.GamesRepository
	agents dom.AgentsRepository
	blobs  objstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.Open("file:" + filepath.ToSlash(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	blobs, err := objstore.Open(context.Background(), objstore.Config{Driver: "file", BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	f := &fixture{
		remote: newFakeRemote(),
		games:  repogames.NewPortRepo(repogames.NewRepo(gdb)),
		agents: repoagents.NewPortRepo(repoagents.NewRepo(gdb)),
		blobs:  blobs,
	}
	f.svc = NewService(f.games, f.agents, f.blobs, f.remote, WithPollInterval(time.Millisecond))
	return f
}

func (f *fixture) putBlob(t *testing.T, key, body string) {
	t.Helper()
	if err := f.blobs.Put(context.Background(), key, bytes.NewReader([]byte(body)), int64(len(body)), "image/png"); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}

// seedGame stores a local game that the fake remote also knows about.
func (f *fixture) seedGame(t *testing.T, levels ...dom.AgentResource) *dom.Game {
	t.Helper()
	id, _ := f.remote.CreateGame(context.Background(), remote.GameInput{Title: "town", AgentIDs: []string{}})
	g := &dom.Game{GameID: id, GameName: "town-world", AgentResources: levels}
	if err := f.games.Save(context.Background(), g); err != nil {
		t.Fatalf("save game: %v", err)
	}
	return g
}

func aliceProfile() Profile {
	return Profile{
		Name:            "Alice",
		Prompt:          "You are Alice.",
		Description:     "a curious agent",
		AvatarStorageID: "a1",
		SpriteStorageID: "s1",
		Status:          "active",
		Visibility:      "public",
	}
}

func TestCreateAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t)
	f.putBlob(t, "a1", "avatar")
	f.putBlob(t, "s1", "sprite")

	id, err := f.svc.CreateAgent(ctx, aliceProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	a, err := f.agents.Get(ctx, id)
	if err != nil || a == nil {
		t.Fatalf("get: %v %v", a, err)
	}
	if a.AgentID == "" || a.Level != 1 {
		t.Fatalf("unexpected agent %+v", a)
	}
	if a.AvatarStorageID != "a1" || a.SpriteStorageID != "s1" {
		t.Fatalf("local refs not kept: %+v", a)
	}
	if len(f.remote.uploads) != 2 {
		t.Fatalf("want 2 uploads got %v", f.remote.uploads)
	}
	in := f.remote.createdAgent[0]
	if in.AvatarStorageID == "a1" || in.AvatarStorageID == "" {
		t.Fatalf("remote agent should carry remote storage id, got %q", in.AvatarStorageID)
	}
	ids := f.remote.lastGameUpdate(g.GameID)
	if len(ids) != 1 || ids[0] != a.AgentID {
		t.Fatalf("sync pushed %v", ids)
	}
}

func TestCreateAgentRequiresGame(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.CreateAgent(context.Background(), aliceProfile()); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("want ErrGameNotFound got %v", err)
	}
	if len(f.remote.uploads) != 0 {
		t.Fatalf("no remote calls expected")
	}
}

func TestCreateAgentDuplicateName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedGame(t)
	f.putBlob(t, "a1", "avatar")
	f.putBlob(t, "s1", "sprite")
	if _, err := f.svc.CreateAgent(ctx, aliceProfile()); err != nil {
		t.Fatalf("create: %v", err)
	}
	uploads := len(f.remote.uploads)
	if _, err := f.svc.CreateAgent(ctx, aliceProfile()); !errors.Is(err, ErrAgentExists) {
		t.Fatalf("want ErrAgentExists got %v", err)
	}
	if len(f.remote.uploads) != uploads || len(f.remote.createdAgent) != 1 {
		t.Fatalf("duplicate must not reach the remote service")
	}
	list, _ := f.agents.List(ctx)
	if len(list) != 1 {
		t.Fatalf("want 1 agent got %d", len(list))
	}
}

func TestCreateAgentMissingBlob(t *testing.T) {
	f := newFixture(t)
	f.seedGame(t)
	f.putBlob(t, "a1", "avatar")
	if _, err := f.svc.CreateAgent(context.Background(), aliceProfile()); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("want ErrBlobNotFound got %v", err)
	}
	if len(f.remote.uploads) != 0 {
		t.Fatalf("missing sprite should stop before any upload, got %v", f.remote.uploads)
	}
}

func TestCreateAgentRemoteFailureLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedGame(t)
	f.putBlob(t, "a1", "avatar")
	f.putBlob(t, "s1", "sprite")
	f.remote.createErr = &remote.APIError{StatusCode: 500, Message: "boom"}

	_, err := f.svc.CreateAgent(ctx, aliceProfile())
	var apiErr *remote.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError got %v", err)
	}
	if a, _ := f.agents.GetByName(ctx, "Alice"); a != nil {
		t.Fatalf("no local record expected")
	}
}

func TestUpdateAgentUploadsOnlyChangedBlobs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedGame(t)
	f.putBlob(t, "a1", "avatar")
	f.putBlob(t, "s1", "sprite")
	f.putBlob(t, "a2", "avatar-2")
	id, err := f.svc.CreateAgent(ctx, aliceProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := f.agents.Get(ctx, id)

	p := aliceProfile()
	p.Prompt = "new prompt"
	if err := f.svc.UpdateAgent(ctx, id, p); err != nil {
		t.Fatalf("update unchanged: %v", err)
	}
	if len(f.remote.uploads) != 2 {
		t.Fatalf("unchanged refs must not upload, got %v", f.remote.uploads)
	}
	u := f.remote.agentUpdates[before.AgentID][0]
	if u.AvatarStorageID != "" || u.SpriteStorageID != "" || u.Prompt != "new prompt" {
		t.Fatalf("unexpected updates %+v", u)
	}

	p.AvatarStorageID = "a2"
	if err := f.svc.UpdateAgent(ctx, id, p); err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if len(f.remote.uploads) != 3 {
		t.Fatalf("want exactly one more upload, got %v", f.remote.uploads)
	}
	u = f.remote.agentUpdates[before.AgentID][1]
	if u.AvatarStorageID == "" || u.SpriteStorageID != "" {
		t.Fatalf("unexpected updates %+v", u)
	}

	after, _ := f.agents.Get(ctx, id)
	if after.Name != before.Name || after.AgentID != before.AgentID {
		t.Fatalf("name and agentId must not change: %+v", after)
	}
	if after.AvatarStorageID != "a2" || after.Prompt != "new prompt" {
		t.Fatalf("local record not patched: %+v", after)
	}
}

func TestUpdateAgentSpriteOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedGame(t)
	f.putBlob(t, "a1", "avatar")
	f.putBlob(t, "s1", "sprite")
	f.putBlob(t, "s2", "sprite-2")
	id, err := f.svc.CreateAgent(ctx, aliceProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := f.agents.Get(ctx, id)

	p := aliceProfile()
	p.SpriteStorageID = "s2"
	if err := f.svc.UpdateAgent(ctx, id, p); err != nil {
		t.Fatalf("update sprite: %v", err)
	}
	if len(f.remote.uploads) != 3 || f.remote.uploads[2] != "sprite.png" {
		t.Fatalf("want exactly one sprite upload, got %v", f.remote.uploads)
	}
	u := f.remote.agentUpdates[before.AgentID][0]
	if u.AvatarStorageID != "" || u.SpriteStorageID == "" {
		t.Fatalf("avatar id must be omitted, got %+v", u)
	}
	after, _ := f.agents.Get(ctx, id)
	if after.AvatarStorageID != "a1" || after.SpriteStorageID != "s2" {
		t.Fatalf("local record not patched: %+v", after)
	}
}

func TestUpdateAgentBothBlobsChanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedGame(t)
	for k, v := range map[string]string{"a1": "avatar", "s1": "sprite", "a2": "avatar-2", "s2": "sprite-2"} {
		f.putBlob(t, k, v)
	}
	id, err := f.svc.CreateAgent(ctx, aliceProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := f.agents.Get(ctx, id)

	p := aliceProfile()
	p.AvatarStorageID = "a2"
	p.SpriteStorageID = "s2"
	if err := f.svc.UpdateAgent(ctx, id, p); err != nil {
		t.Fatalf("update both: %v", err)
	}
	if got := f.remote.uploads[2:]; len(got) != 2 || got[0] != "avatar.png" || got[1] != "sprite.png" {
		t.Fatalf("want avatar then sprite upload, got %v", f.remote.uploads)
	}
	u := f.remote.agentUpdates[before.AgentID][0]
	if u.AvatarStorageID == "" || u.SpriteStorageID == "" || u.AvatarStorageID == u.SpriteStorageID {
		t.Fatalf("want two distinct remote ids, got %+v", u)
	}
}

func TestUpdateAgentMissing(t *testing.T) {
	f := newFixture(t)
	f.seedGame(t)
	if err := f.svc.UpdateAgent(context.Background(), 42, aliceProfile()); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("want ErrAgentNotFound got %v", err)
	}
}

func TestSyncGamePushesAllLocalAgents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.seedGame(t)
	for _, n := range []string{"a", "b", "c"} {
		if err := f.agents.Save(ctx, &dom.Agent{Name: n, AgentID: "remote-" + n}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := f.svc.SyncGame(ctx, g.GameID); err != nil {
		t.Fatalf("sync: %v", err)
	}
	got := f.remote.lastGameUpdate(g.GameID)
	sort.Strings(got)
	want := []string{"remote-a", "remote-b", "remote-c"}
	if len(got) != len(want) {
		t.Fatalf("want %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v got %v", want, got)
		}
	}
}

func TestSyncGameUnknownRemoteGame(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.SyncGame(context.Background(), "nope"); !errors.Is(err, ErrRemoteGameNotFound) {
		t.Fatalf("want ErrRemoteGameNotFound got %v", err)
	}
}

func TestUpgradeAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedGame(t,
		dom.AgentResource{Level: 1, AgentConfig: dom.AgentConfig{Status: "active"}},
		dom.AgentResource{
			Level:                2,
			AgentConfig:          dom.AgentConfig{Description: "veteran", AvatarStorageID: "a-l2", SpriteStorageID: "s-l2", Status: "active", Visibility: "public"},
			AgentAvatarStorageID: "remote-a-l2",
			AgentSpriteStorageID: "remote-s-l2",
		},
	)
	a := &dom.Agent{Name: "Bob", AgentID: "remote-bob", Prompt: "keep me"}
	if err := f.agents.Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := f.svc.UpgradeAgent(ctx, a.ID); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	got, _ := f.agents.Get(ctx, a.ID)
	if got.Level != 2 || got.Description != "veteran" || got.Prompt != "keep me" {
		t.Fatalf("unexpected agent %+v", got)
	}
	u := f.remote.agentUpdates["remote-bob"][0]
	if u.AvatarStorageID != "remote-a-l2" || u.SpriteStorageID != "remote-s-l2" {
		t.Fatalf("want pre-uploaded remote ids, got %+v", u)
	}

	if err := f.svc.UpgradeAgent(ctx, a.ID); !errors.Is(err, ErrNextLevelNotFound) {
		t.Fatalf("want ErrNextLevelNotFound got %v", err)
	}
}
