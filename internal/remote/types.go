package remote

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingCredentials is returned by New when BaseURL or APIKey is empty.
var ErrMissingCredentials = errors.New("remote: base url and api key must be set")

// Config carries the two credentials the remote service requires.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each HTTP round trip; zero means no client timeout.
	Timeout time.Duration
}

// APIError is a non-2xx answer from the remote service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: http %d", e.StatusCode)
	}
	return fmt.Sprintf("remote: http %d: %s", e.StatusCode, e.Message)
}

type (
	MusicInput struct {
		AudioStorageID string `json:"audioStorageId"`
		CoverStorageID string `json:"coverStorageId"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		Status         string `json:"status"`
		Visibility     string `json:"visibility"`
	}

	MapInput struct {
		StorageID   string `json:"storageId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Visibility  string `json:"visibility"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
	}

	GameInput struct {
		MusicID             string   `json:"musicId"`
		MapID               string   `json:"mapId"`
		AgentIDs            []string `json:"agentIds"`
		BackgroundStorageID string   `json:"backgroundStorageId"`
		LogoStorageID       string   `json:"logoStorageId"`
		TwitterHandle       string   `json:"twitterHandle"`
		Title               string   `json:"title"`
		Description         string   `json:"description"`
		Visibility          string   `json:"visibility"`
	}

	AgentInput struct {
		Name            string `json:"name"`
		Prompt          string `json:"prompt"`
		Description     string `json:"description"`
		AvatarStorageID string `json:"avatarStorageId"`
		SpriteStorageID string `json:"spriteStorageId"`
		Status          string `json:"status"`
		Visibility      string `json:"visibility"`
	}

	// AgentUpdates is a partial update; empty storage ids are left untouched remotely.
	AgentUpdates struct {
		Name            string `json:"name,omitempty"`
		Prompt          string `json:"prompt"`
		Description     string `json:"description"`
		AvatarStorageID string `json:"avatarStorageId,omitempty"`
		SpriteStorageID string `json:"spriteStorageId,omitempty"`
		Status          string `json:"status"`
		Visibility      string `json:"visibility"`
	}

	// GameUpdates overwrites the game's agent roster.
	GameUpdates struct {
		AgentIDs []string `json:"agentIds"`
	}

	// Game is an entry of the remote game list.
	Game struct {
		ID          string   `json:"_id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		MusicID     string   `json:"musicId"`
		MapID       string   `json:"mapId"`
		AgentIDs    []string `json:"agentIds"`
		Visibility  string   `json:"visibility"`
	}

	WorldStatus struct {
		Name string `json:"name"`
	}

	idResponse struct {
		ID string `json:"id"`
	}

	uploadResponse struct {
		StorageID string `json:"storageId"`
	}
)
