package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"beatmap-cache/core/logger"

	"github.com/spf13/cobra"
)

// beatmapCmd represents the beatmap command
var beatmapCmd = &cobra.Command{
	Use:   "beatmap",
	Short: "Look up beatmaps through the cache",
	Long:  `Resolves a beatmap the same way the server does: from the store, refreshed from the catalog when missing or stale.`,
}

var beatmapMD5Cmd = &cobra.Command{
	Use:   "md5 <checksum>",
	Short: "Look up a difficulty by checksum",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(&logger.Config{Level: "info", Format: "console"})
		if err != nil {
			return err
		}
		defer a.drain()

		b, err := a.feature.Service().FetchByMD5(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		return printJSON(b)
	},
}

var beatmapIDCmd = &cobra.Command{
	Use:   "id <beatmap id>",
	Short: "Look up a difficulty by beatmap id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid beatmap id %q: %w", args[0], err)
		}

		a, err := bootstrap(&logger.Config{Level: "info", Format: "console"})
		if err != nil {
			return err
		}
		defer a.drain()

		b, err := a.feature.Service().FetchByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		return printJSON(b)
	},
}

var beatmapSetCmd = &cobra.Command{
	Use:   "set <beatmapset id>",
	Short: "Look up every difficulty of a set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid beatmapset id %q: %w", args[0], err)
		}

		a, err := bootstrap(&logger.Config{Level: "info", Format: "console"})
		if err != nil {
			return err
		}
		defer a.drain()

		set, err := a.feature.Service().FetchSet(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		return printJSON(set)
	},
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	beatmapCmd.AddCommand(beatmapMD5Cmd, beatmapIDCmd, beatmapSetCmd)
	RootCmd.AddCommand(beatmapCmd)
}
