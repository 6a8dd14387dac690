package deckcmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewInit returns `agentdeck init`, which bootstraps the remote game.
func NewInit(v *viper.Viper) *cobra.Command {
	var resources string
	var force bool
	var timeout, poll time.Duration
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Upload game resources and create the remote game",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			if poll > 0 {
				s.Bootstrap.PollInterval = poll
			}
			if resources == "" {
				resources = s.Bootstrap.ResourcesFile
			}
			res, err := agentsvc.LoadResources(resources)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			deps, err := buildDeps(ctx, s)
			if err != nil {
				return err
			}
			defer deps.Close()

			slog.Info("initializing game", "resources", resources, "force", force, "poll", s.Bootstrap.PollInterval)
			g, err := deps.Service.InitGameResources(ctx, res, agentsvc.InitOptions{Force: force})
			if err != nil {
				return err
			}
			slog.Info("game initialized", "gameId", g.GameID, "gameName", g.GameName, "levels", len(g.AgentResources))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", g.GameID, g.GameName)
			return nil
		},
	}
	cmd.Flags().StringVar(&resources, "resources", "", "resources YAML (default from Bootstrap.ResourcesFile)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing local game record")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall deadline; 0 waits until the world is ready")
	cmd.Flags().DurationVar(&poll, "poll-interval", 0, "world status poll interval")
	return cmd
}
