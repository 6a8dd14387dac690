package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/zeromicro/go-zero/rest/httpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorBody = 4 << 10

// Client talks to the remote game/agent platform.
type Client struct {
	base   string
	apiKey string
	svc    httpc.Service
	assets httpc.Service
	tracer trace.Tracer
}

// New builds a client from c. It fails fast when either credential is missing.
func New(c Config) (*Client, error) {
	hc := &http.Client{
		Timeout:   c.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return NewWithHTTPClient(c, hc)
}

// NewWithHTTPClient is New with a caller-supplied *http.Client.
func NewWithHTTPClient(c Config, hc *http.Client) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	key := strings.TrimSpace(c.APIKey)
	if base == "" || key == "" {
		return nil, ErrMissingCredentials
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("remote: invalid base url: %w", err)
	}
	return &Client{
		base:   base,
		apiKey: key,
		svc:    httpc.NewServiceWithClient("remote-api", hc),
		assets: httpc.NewServiceWithClient("remote-assets", hc),
		tracer: otel.Tracer("agentdeck/remote"),
	}, nil
}

// Upload sends a blob to the remote blob store and returns its storage id.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "remote.Upload", trace.WithAttributes(
		attribute.String("file.name", filename), attribute.Int("file.size", len(data))))
	defer span.End()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/storage/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.StorageID == "" {
		return "", fmt.Errorf("remote: upload of %s returned no storage id", filename)
	}
	return out.StorageID, nil
}

func (c *Client) CreateMusic(ctx context.Context, in MusicInput) (string, error) {
	return c.create(ctx, "remote.CreateMusic", "/api/v1/music", in)
}

func (c *Client) CreateMap(ctx context.Context, in MapInput) (string, error) {
	return c.create(ctx, "remote.CreateMap", "/api/v1/maps", in)
}

func (c *Client) CreateGame(ctx context.Context, in GameInput) (string, error) {
	if in.AgentIDs == nil {
		in.AgentIDs = []string{}
	}
	return c.create(ctx, "remote.CreateGame", "/api/v1/games", in)
}

func (c *Client) CreateAgent(ctx context.Context, in AgentInput) (string, error) {
	return c.create(ctx, "remote.CreateAgent", "/api/v1/agents", in)
}

func (c *Client) UpdateAgent(ctx context.Context, id string, updates AgentUpdates) error {
	ctx, span := c.tracer.Start(ctx, "remote.UpdateAgent", trace.WithAttributes(attribute.String("agent.id", id)))
	defer span.End()
	return c.sendJSON(ctx, http.MethodPatch, "/api/v1/agents/"+url.PathEscape(id), updates, nil)
}

func (c *Client) UpdateGame(ctx context.Context, id string, updates GameUpdates) error {
	ctx, span := c.tracer.Start(ctx, "remote.UpdateGame", trace.WithAttributes(
		attribute.String("game.id", id), attribute.Int("game.agents", len(updates.AgentIDs))))
	defer span.End()
	if updates.AgentIDs == nil {
		updates.AgentIDs = []string{}
	}
	return c.sendJSON(ctx, http.MethodPatch, "/api/v1/games/"+url.PathEscape(id), updates, nil)
}

func (c *Client) GetGameList(ctx context.Context) ([]Game, error) {
	ctx, span := c.tracer.Start(ctx, "remote.GetGameList")
	defer span.End()
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/games", nil)
	if err != nil {
		return nil, err
	}
	var out []Game
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorldStatus returns nil while the remote world is still provisioning.
func (c *Client) GetWorldStatus(ctx context.Context, gameID string) (*WorldStatus, error) {
	ctx, span := c.tracer.Start(ctx, "remote.GetWorldStatus", trace.WithAttributes(attribute.String("game.id", gameID)))
	defer span.End()
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/game-data/"+url.PathEscape(gameID)+"/world-status", nil)
	if err != nil {
		return nil, err
	}
	var out *WorldStatus
	if err := c.do(req, &out); err != nil {
		var ae *APIError
		if errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if out == nil || out.Name == "" {
		return nil, nil
	}
	return out, nil
}

// Fetch downloads a static asset from an arbitrary URL. No credentials are sent.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.assets.DoRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, readAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) create(ctx context.Context, op, path string, in any) (string, error) {
	ctx, span := c.tracer.Start(ctx, op)
	defer span.End()
	var out idResponse
	if err := c.sendJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("%s: remote returned no id", op)
	}
	return out.ID, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.svc.DoRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return readAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(b))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
