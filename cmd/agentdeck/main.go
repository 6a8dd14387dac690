package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	common "github.com/cuihairu/agentdeck/internal/cli/common"
	"github.com/cuihairu/agentdeck/internal/cli/deckcmd"
	"github.com/cuihairu/agentdeck/internal/telemetry"
)

func main() {
	var tel *telemetry.Provider
	v := viper.New()
	v.SetEnvPrefix("AGENTDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "agentdeck",
		Short:         "agentdeck operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			common.SetupLogger(common.LogOptionsFrom(v))
			var err error
			tel, err = telemetry.NewProvider(cmd.Context(), telemetry.ConfigFromEnv("agentdeck-cli"))
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(ctx); err != nil {
				slog.Warn("telemetry shutdown", "err", err)
			}
		},
	}
	pf := root.PersistentFlags()
	pf.String("config", "services/agentdeck/etc/agentdeck.yaml", "service config file")
	pf.String("remote-base-url", "", "remote service base url (overrides config)")
	pf.String("remote-api-key", "", "remote service api key (overrides config)")
	pf.String("database-dsn", "", "database DSN (overrides config)")
	pf.String("log-level", "info", "debug|info|warn|error")
	pf.String("log-format", "console", "console|json")
	pf.String("log-file", "", "rotate logs into this file")
	pf.Int("log-max-size", 100, "log file size in MB before rotation")
	pf.Int("log-max-backups", 5, "rotated files to keep")
	pf.Int("log-max-age", 7, "days to keep rotated files")
	pf.Bool("log-compress", false, "gzip rotated files")

	for key, flag := range map[string]string{
		"config":          "config",
		"remote.base_url": "remote-base-url",
		"remote.api_key":  "remote-api-key",
		"database.dsn":    "database-dsn",
		"log.level":       "log-level",
		"log.format":      "log-format",
		"log.file":        "log-file",
		"log.max_size":    "log-max-size",
		"log.max_backups": "log-max-backups",
		"log.max_age":     "log-max-age",
		"log.compress":    "log-compress",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(deckcmd.NewInit(v))
	root.AddCommand(deckcmd.NewSync(v))
	root.AddCommand(deckcmd.NewAgents(v))

	comp := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
	root.AddCommand(comp)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
