package deckcmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewAgents returns `agentdeck agents` with list and upgrade subcommands.
func NewAgents(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{Use: "agents", Short: "Inspect and manage local agents"}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List local agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, _, err := openDeps(v)
			if err != nil {
				return err
			}
			defer deps.Close()
			agents, err := deps.Agents.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(agents)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tAGENT ID\tLEVEL\tSTATUS")
			for _, a := range agents {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", a.ID, a.Name, a.AgentID, a.Level, a.Status)
			}
			return tw.Flush()
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	upgrade := &cobra.Command{
		Use:   "upgrade <id>",
		Short: "Move an agent to its next configured level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid agent id %q", args[0])
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			deps, _, err := openDeps(v)
			if err != nil {
				return err
			}
			defer deps.Close()
			if err := deps.Service.UpgradeAgent(ctx, uint(id)); err != nil {
				return err
			}
			a, err := deps.Agents.Get(ctx, uint(id))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "agent %d is now level %d\n", a.ID, a.Level)
			return nil
		},
	}

	cmd.AddCommand(list, upgrade)
	return cmd
}
