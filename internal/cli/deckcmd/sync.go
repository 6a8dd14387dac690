package deckcmd

import (
	"fmt"

	agentsvc "github.com/cuihairu/agentdeck/internal/service/agents"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewSync returns `agentdeck sync`.
func NewSync(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push the local agent roster to the remote game",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			deps, _, err := openDeps(v)
			if err != nil {
				return err
			}
			defer deps.Close()

			g, err := deps.Games.Get(ctx)
			if err != nil {
				return err
			}
			if g == nil {
				return agentsvc.ErrGameNotFound
			}
			if err := deps.Service.SyncGame(ctx, g.GameID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %s\n", g.GameID)
			return nil
		},
	}
}
