package commands

import (
	"context"
	"fmt"

	dockerpkg "github.com/dyluth/dogroom/internal/docker"
	"github.com/dyluth/dogroom/internal/printer"
	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Manage a local development Redis container",
	Long: `Manage a Redis container for local development.

Each instance gets its own container, published on the first free port
from 6379 upwards. Point DogRoom at it with --redis-url or DOGROOM_REDIS_URL.`,
}

var redisUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the development Redis for the instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return printer.Error("invalid configuration", err.Error(), nil)
		}

		cli, err := dockerpkg.NewClient(ctx)
		if err != nil {
			return printer.Error("Docker unavailable", err.Error(), nil)
		}
		defer cli.Close()

		printer.Step("Starting Redis (%s) for instance '%s'...\n", cfg.Services.Redis.Image, cfg.Instance)
		rc, err := dockerpkg.StartRedis(ctx, cli, cfg.Instance, cfg.Services.Redis.Image)
		if err != nil {
			return printer.Error(
				"failed to start Redis",
				err.Error(),
				[]string{fmt.Sprintf("Remove the old container first:\n  dogroom redis down --name %s", cfg.Instance)},
			)
		}

		printer.Success("Redis running as %s\n", rc.Name)
		printer.Info("\nUse it with:\n  export %s=%s\n", "DOGROOM_REDIS_URL", rc.URL())
		return nil
	},
}

var redisDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove the development Redis for the instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return printer.Error("invalid configuration", err.Error(), nil)
		}

		cli, err := dockerpkg.NewClient(ctx)
		if err != nil {
			return printer.Error("Docker unavailable", err.Error(), nil)
		}
		defer cli.Close()

		removed, err := dockerpkg.RemoveRedis(ctx, cli, cfg.Instance)
		for _, name := range removed {
			printer.Success("Removed %s\n", name)
		}
		if err != nil {
			return fmt.Errorf("failed to remove Redis: %w", err)
		}
		if len(removed) == 0 {
			printer.Warning("No Redis container found for instance '%s'\n", cfg.Instance)
		}
		return nil
	},
}

var redisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the development Redis of the instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return printer.Error("invalid configuration", err.Error(), nil)
		}

		cli, err := dockerpkg.NewClient(ctx)
		if err != nil {
			return printer.Error("Docker unavailable", err.Error(), nil)
		}
		defer cli.Close()

		rc, err := dockerpkg.FindRedis(ctx, cli, cfg.Instance)
		if err != nil {
			return err
		}
		if rc == nil {
			printer.Info("No Redis container for instance '%s'\n", cfg.Instance)
			return nil
		}
		return printer.Table(
			[]string{"Name", "State", "URL"},
			[][]string{{rc.Name, rc.State, rc.URL()}},
		)
	},
}

func init() {
	redisCmd.AddCommand(redisUpCmd, redisDownCmd, redisStatusCmd)
	rootCmd.AddCommand(redisCmd)
}
