// Package app holds the settings and dependency graph shared by the HTTP
// service and the operator CLI.
package app

import (
	"time"

	"github.com/cuihairu/agentdeck/internal/changefeed"
	"github.com/cuihairu/agentdeck/internal/objstore"
)

// Settings are the non-HTTP sections of etc/agentdeck.yaml.
type Settings struct {
	Remote struct {
		BaseURL string        `json:",optional"`
		APIKey  string        `json:",optional"`
		Timeout time.Duration `json:",default=30s"`
	}

	Database struct {
		DataSource string `json:",optional"`
	} `json:",optional"`

	// Storage with an empty Driver falls back to the STORAGE_* environment.
	Storage struct {
		Driver         string        `json:",optional"`
		Bucket         string        `json:",optional"`
		Region         string        `json:",optional"`
		Endpoint       string        `json:",optional"`
		AccessKey      string        `json:",optional"`
		SecretKey      string        `json:",optional"`
		ForcePathStyle bool          `json:",optional"`
		BaseDir        string        `json:",default=data/blobs"`
		SignedURLTTL   time.Duration `json:",default=15m"`
	} `json:",optional"`

	Uploads struct {
		Store     string        `json:",default=memory,options=memory|redis"`
		RedisURL  string        `json:",optional"`
		TicketTTL time.Duration `json:",default=1h"`
		MaxBytes  int64         `json:",default=33554432"`
	} `json:",optional"`

	ChangeFeed changefeed.Config `json:",optional"`

	Bootstrap struct {
		ResourcesFile string        `json:",default=etc/resources.yaml"`
		PollInterval  time.Duration `json:",default=1s"`
	} `json:",optional"`
}

func (s Settings) StorageConfig() objstore.Config {
	if s.Storage.Driver == "" {
		return objstore.FromEnv()
	}
	return objstore.Config{
		Driver:         s.Storage.Driver,
		Bucket:         s.Storage.Bucket,
		Region:         s.Storage.Region,
		Endpoint:       s.Storage.Endpoint,
		AccessKey:      s.Storage.AccessKey,
		SecretKey:      s.Storage.SecretKey,
		ForcePathStyle: s.Storage.ForcePathStyle,
		BaseDir:        s.Storage.BaseDir,
		SignedURLTTL:   s.Storage.SignedURLTTL,
	}
}
