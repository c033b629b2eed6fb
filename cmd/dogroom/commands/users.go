package commands

import (
	"context"

	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/internal/render"
	"github.com/spf13/cobra"
)

var (
	usersCursor string
	usersLimit  int
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and register users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users page by page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			page, err := a.store.Users.List(ctx, usersCursor, a.cfg.Listing.Limit(usersLimit, cmd.Flags().Changed("limit")))
			if err != nil {
				return storeError(err, "dogroom users list")
			}
			return writePage(page, func() error {
				_, err := render.Users(printer.Out(), page.Items)
				return err
			})
		})
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			u, err := a.store.CreateUser(ctx, args[0])
			if err != nil {
				return storeError(err, "dogroom users list")
			}
			if outputFormat == formatTable {
				printer.Success("User %s created (%s)\n", u.Name, u.ID)
				return nil
			}
			return writeOne(u)
		})
	},
}

func init() {
	usersListCmd.Flags().StringVar(&usersCursor, "cursor", "", "Cursor returned by the previous page")
	usersListCmd.Flags().IntVarP(&usersLimit, "limit", "l", 0, "Page size, clamped to [1, listing.max_limit] (default from config)")

	usersCmd.AddCommand(usersListCmd, usersCreateCmd)
	rootCmd.AddCommand(usersCmd)
}
