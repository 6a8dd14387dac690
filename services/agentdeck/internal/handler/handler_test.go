package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cuihairu/agentdeck/internal/app"
	"github.com/cuihairu/agentdeck/internal/changefeed"
	"github.com/cuihairu/agentdeck/internal/db"
	"github.com/cuihairu/agentdeck/internal/objstore"
	dom "github.com/cuihairu/agentdeck/internal/ports"
	"github.com/cuihairu/agentdeck/internal/remote"
	repoagents "github.com/cuihairu/agentdeck/internal/repo/gorm/agents"
	repogames "github.com/cuihairu/agentdeck/internal/repo/gorm/games"
	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/cuihairu/agentdeck/internal/uploads"
	"github.com/cuihairu/agentdeck/services/agentdeck/internal/svc"
	"github.com/zeromicro/go-zero/rest/pathvar"
)

type flakyBlobs struct {
	objstore.Store
	failPut bool
}

func (b *flakyBlobs) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if b.failPut {
		return errors.New("disk full")
	}
	return b.Store.Put(ctx, key, r, size, contentType)
}

// platform is a minimal stand-in for the remote game service.
type platform struct {
	mu      sync.Mutex
	seq     int
	uploads int
	roster  map[string][]string
}

func (p *platform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/storage/upload":
		p.uploads++
		fmt.Fprintf(w, `{"storageId":"remote-blob-%d"}`, p.seq)
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/agents":
		fmt.Fprintf(w, `{"id":"remote-agent-%d"}`, p.seq)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/agents/"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/games":
		out := []map[string]any{}
		for id, ids := range p.roster {
			out = append(out, map[string]any{"_id": id, "agentIds": ids})
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/games/"):
		var body struct {
			AgentIDs []string `json:"agentIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		p.roster[strings.TrimPrefix(r.URL.Path, "/api/v1/games/")] = body.AgentIDs
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route"}`))
	}
}

func newTestContext(t *testing.T) (*svc.ServiceContext, *platform) {
	t.Helper()
	gdb, err := db.Open("file:" + filepath.ToSlash(filepath.Join(t.TempDir(), "handler.db")))
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
	tickets, err := uploads.NewMemory(time.Hour)
	if err != nil {
		t.Fatalf("tickets: %v", err)
	}
	p := &platform{roster: map[string][]string{}}
	srv := httptest.NewServer(p)
	t.Cleanup(srv.Close)
	rc, err := remote.NewWithHTTPClient(remote.Config{BaseURL: srv.URL, APIKey: "test"}, srv.Client())
	if err != nil {
		t.Fatalf("remote: %v", err)
	}

	games := repogames.NewPortRepo(repogames.NewRepo(gdb))
	agents := repoagents.NewPortRepo(repoagents.NewRepo(gdb))
	ctx := &svc.ServiceContext{Deps: &app.Deps{
		DB:      gdb,
		Games:   games,
		Agents:  agents,
		Blobs:   blobs,
		Tickets: tickets,
		Feed:    changefeed.NewNoop(),
		Service: agentsvc.NewService(games, agents, blobs, rc),
	}}
	return ctx, p
}

func seedGame(t *testing.T, ctx *svc.ServiceContext, p *platform, levels ...dom.AgentResource) {
	t.Helper()
	p.roster["game-1"] = []string{}
	if err := ctx.Games.Save(context.Background(), &dom.Game{GameID: "game-1", GameName: "town", AgentResources: levels}); err != nil {
		t.Fatalf("save game: %v", err)
	}
}

func upload(t *testing.T, ctx *svc.ServiceContext, body string) string {
	t.Helper()
	w := httptest.NewRecorder()
	UploadURLHandler(ctx)(w, httptest.NewRequest(http.MethodPost, "/api/storage/upload-url", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("upload-url expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var u struct{ Url string }
	_ = json.Unmarshal(w.Body.Bytes(), &u)
	ticket := strings.TrimPrefix(u.Url, "/api/storage/upload/")
	if ticket == "" || ticket == u.Url {
		t.Fatalf("unexpected upload url %q", u.Url)
	}

	req := httptest.NewRequest(http.MethodPost, u.Url, strings.NewReader(body))
	req.Header.Set("Content-Type", "image/png")
	req = pathvar.WithVars(req, map[string]string{"ticket": ticket})
	w = httptest.NewRecorder()
	UploadHandler(ctx)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var out struct{ StorageId string }
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.StorageId == "" {
		t.Fatalf("missing storageId: %s", w.Body.String())
	}

	// tickets are single use
	req = httptest.NewRequest(http.MethodPost, u.Url, strings.NewReader(body))
	req = pathvar.WithVars(req, map[string]string{"ticket": ticket})
	w = httptest.NewRecorder()
	UploadHandler(ctx)(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("reused ticket expected 403, got %d", w.Code)
	}
	return out.StorageId
}

func createAgent(t *testing.T, ctx *svc.ServiceContext, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/agents", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	AgentCreateHandler(ctx)(w, req)
	return w
}

func TestGameGetBeforeInit(t *testing.T) {
	ctx, _ := newTestContext(t)
	w := httptest.NewRecorder()
	GameGetHandler(ctx)(w, httptest.NewRequest(http.MethodGet, "/api/game", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"game":null}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestCreateAgentFlow(t *testing.T) {
	ctx, p := newTestContext(t)
	seedGame(t, ctx, p)
	avatar := upload(t, ctx, "avatar-bytes")
	sprite := upload(t, ctx, "sprite-bytes")

	body := map[string]any{
		"name":            "Alice",
		"prompt":          "You are Alice.",
		"avatarStorageId": avatar,
		"spriteStorageId": sprite,
	}
	w := createAgent(t, ctx, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Result().Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("create response content type %q", ct)
	}
	var created struct{ Id uint }
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.Id == 0 {
		t.Fatalf("create response body %q: %v", w.Body.String(), err)
	}
	if p.uploads != 2 {
		t.Fatalf("expected 2 remote uploads, got %d", p.uploads)
	}
	if len(p.roster["game-1"]) != 1 {
		t.Fatalf("roster not synced: %v", p.roster)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/agents/by-name?name=Alice", nil)
	w = httptest.NewRecorder()
	AgentByNameHandler(ctx)(w, req)
	var got struct {
		Agent *struct {
			Id              uint
			AgentId         string
			AvatarStorageId string
			Status          string
			Level           int
		}
	}
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Agent == nil || got.Agent.AvatarStorageId != avatar || got.Agent.Status != "active" || got.Agent.Level != 1 {
		t.Fatalf("unexpected agent: %s", w.Body.String())
	}

	w = createAgent(t, ctx, body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate expected 409, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/agents/by-name?name=alice", nil)
	w = httptest.NewRecorder()
	AgentByNameHandler(ctx)(w, req)
	if strings.TrimSpace(w.Body.String()) != `{"agent":null}` {
		t.Fatalf("lookup must be case-sensitive: %s", w.Body.String())
	}
}

func TestCreateAgentWithoutGame(t *testing.T) {
	ctx, _ := newTestContext(t)
	w := createAgent(t, ctx, map[string]any{"name": "Bob", "avatarStorageId": "a", "spriteStorageId": "s"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateAgentNotFound(t *testing.T) {
	ctx, p := newTestContext(t)
	seedGame(t, ctx, p)
	req := httptest.NewRequest(http.MethodPut, "/api/agents/9", strings.NewReader(`{"prompt":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req = pathvar.WithVars(req, map[string]string{"id": "9"})
	w := httptest.NewRecorder()
	AgentUpdateHandler(ctx)(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpgradeWithoutNextLevel(t *testing.T) {
	ctx, p := newTestContext(t)
	seedGame(t, ctx, p, dom.AgentResource{Level: 1})
	a := &dom.Agent{Name: "Carol", AgentID: "remote-carol"}
	if err := ctx.Agents.Save(context.Background(), a); err != nil {
		t.Fatalf("save: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/agents/1/upgrade", nil)
	req = pathvar.WithVars(req, map[string]string{"id": fmt.Sprint(a.ID)})
	w := httptest.NewRecorder()
	AgentUpgradeHandler(ctx)(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if p.seq != 0 {
		t.Fatalf("no remote call expected, got %d", p.seq)
	}
}

func TestFileURL(t *testing.T) {
	ctx, _ := newTestContext(t)
	id := upload(t, ctx, "png")

	w := httptest.NewRecorder()
	FileURLHandler(ctx)(w, httptest.NewRequest(http.MethodGet, "/api/storage/url?storageId="+id, nil))
	var out struct{ Url *string }
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Url == nil || *out.Url != "/api/storage/files/"+id {
		t.Fatalf("unexpected url: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	FileURLHandler(ctx)(w, httptest.NewRequest(http.MethodGet, "/api/storage/url?storageId=missing", nil))
	if strings.TrimSpace(w.Body.String()) != `{"url":null}` {
		t.Fatalf("missing blob should yield null url: %s", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/storage/files/"+id, nil)
	req = pathvar.WithVars(req, map[string]string{"storageId": id})
	w = httptest.NewRecorder()
	FileHandler(ctx)(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "png" {
		t.Fatalf("unexpected file response %d %q", w.Code, w.Body.String())
	}
}

func TestGameSyncWithoutGame(t *testing.T) {
	ctx, _ := newTestContext(t)
	w := httptest.NewRecorder()
	GameSyncHandler(ctx)(w, httptest.NewRequest(http.MethodPost, "/api/game/sync", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAgentByNameTrimsLikeCreate(t *testing.T) {
	ctx, p := newTestContext(t)
	seedGame(t, ctx, p)
	w := createAgent(t, ctx, map[string]any{
		"name":            " Dana ",
		"avatarStorageId": upload(t, ctx, "a"),
		"spriteStorageId": upload(t, ctx, "s"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create expected 201, got %d: %s", w.Code, w.Body.String())
	}
	for _, q := range []string{"Dana", "%20Dana%20"} {
		w = httptest.NewRecorder()
		AgentByNameHandler(ctx)(w, httptest.NewRequest(http.MethodGet, "/api/agents/by-name?name="+q, nil))
		var got struct{ Agent *struct{ Name string } }
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if got.Agent == nil || got.Agent.Name != "Dana" {
			t.Fatalf("lookup %q: %s", q, w.Body.String())
		}
	}
}

func TestFailedUploadKeepsTicket(t *testing.T) {
	ctx, _ := newTestContext(t)
	blobs := &flakyBlobs{Store: ctx.Blobs, failPut: true}
	ctx.Blobs = blobs

	w := httptest.NewRecorder()
	UploadURLHandler(ctx)(w, httptest.NewRequest(http.MethodPost, "/api/storage/upload-url", nil))
	var u struct{ Url string }
	_ = json.Unmarshal(w.Body.Bytes(), &u)
	ticket := strings.TrimPrefix(u.Url, "/api/storage/upload/")

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, u.Url, strings.NewReader("png"))
		req = pathvar.WithVars(req, map[string]string{"ticket": ticket})
		w := httptest.NewRecorder()
		UploadHandler(ctx)(w, req)
		return w
	}
	if w := send(); w.Code == http.StatusOK {
		t.Fatalf("failed write must not succeed: %s", w.Body.String())
	}
	blobs.failPut = false
	if w := send(); w.Code != http.StatusOK {
		t.Fatalf("ticket should survive a failed write, got %d: %s", w.Code, w.Body.String())
	}
	if w := send(); w.Code != http.StatusForbidden {
		t.Fatalf("ticket must be spent after success, got %d", w.Code)
	}
}
