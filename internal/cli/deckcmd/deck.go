// Package deckcmd holds the operator commands of the agentdeck CLI.
package deckcmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cuihairu/agentdeck/internal/app"
	"github.com/spf13/viper"
	"github.com/zeromicro/go-zero/core/conf"
)

// loadSettings reads the service YAML named by the config key. Explicit
// CLI/env overrides win over the file.
func loadSettings(v *viper.Viper) (app.Settings, error) {
	var s app.Settings
	path := v.GetString("config")
	if path == "" {
		return s, fmt.Errorf("--config required")
	}
	if err := conf.Load(path, &s, conf.UseEnv()); err != nil {
		return s, fmt.Errorf("load %s: %w", path, err)
	}
	if u := v.GetString("remote.base_url"); u != "" {
		s.Remote.BaseURL = u
	}
	if k := v.GetString("remote.api_key"); k != "" {
		s.Remote.APIKey = k
	}
	if dsn := v.GetString("database.dsn"); dsn != "" {
		s.Database.DataSource = dsn
	}
	return s, nil
}

func openDeps(v *viper.Viper) (*app.Deps, app.Settings, error) {
	s, err := loadSettings(v)
	if err != nil {
		return nil, s, err
	}
	deps, err := buildDeps(context.Background(), s)
	return deps, s, err
}

func buildDeps(ctx context.Context, s app.Settings) (*app.Deps, error) {
	return app.Build(ctx, s)
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
