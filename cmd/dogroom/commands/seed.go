package commands

import (
	"context"

	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/pkg/entitystore"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset if the instance has none",
	Long: `Load the demo hosts, users, bookings and chat boards.

Every other command does this on first use as well. Running it again is
harmless: records that already exist are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			printer.Success("Instance '%s' (%s) is seeded\n", a.cfg.Instance, a.backend.Driver)
			if err := printCount(ctx, a.store.Hosts); err != nil {
				return err
			}
			if err := printCount(ctx, a.store.Users); err != nil {
				return err
			}
			if err := printCount(ctx, a.store.Bookings); err != nil {
				return err
			}
			return printCount(ctx, a.store.Chats)
		})
	},
}

func printCount[T any](ctx context.Context, e *entitystore.Entity[T]) error {
	items, err := e.All(ctx)
	if err != nil {
		return err
	}
	printer.Info("  %-9s %d\n", e.Name(), len(items))
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
