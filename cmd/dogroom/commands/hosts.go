package commands

import (
	"context"
	"time"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/internal/render"
	"github.com/dyluth/dogroom/internal/search"
	"github.com/dyluth/dogroom/internal/timespec"
	"github.com/spf13/cobra"
)

var (
	hostsCursor  string
	hostsLimit   int
	hostsPetSize string
	hostsFrom    string
	hostsTo      string
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Browse and search pet-sitting hosts",
}

var hostsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hosts page by page",
	Long: `List hosts in the order they were added.

Pages are linked by an opaque cursor printed after each page.

Examples:
  dogroom hosts list --limit 2
  dogroom hosts list --limit 2 --cursor c2VxOjI
  dogroom hosts list -o jsonl | jq .name`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			page, err := a.store.Hosts.List(ctx, hostsCursor, a.cfg.Listing.Limit(hostsLimit, cmd.Flags().Changed("limit")))
			if err != nil {
				return storeError(err, "dogroom hosts list")
			}
			return writePage(page, func() error {
				_, err := render.Hosts(printer.Out(), page.Items)
				return err
			})
		})
	},
}

var hostsGetCmd = &cobra.Command{
	Use:   "get HOST_ID",
	Short: "Show one host in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			id, err := a.store.Hosts.Resolve(ctx, args[0])
			if err != nil {
				return storeError(err, "dogroom hosts list")
			}
			host, err := a.store.Hosts.Get(ctx, id)
			if err != nil {
				return storeError(err, "dogroom hosts list")
			}
			return writeOne(host)
		})
	},
}

var hostsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank hosts for a stay",
	Long: `Rank hosts by rating and review count, best first.

Filters:
  --pet-size   - Only hosts accepting this size (small, medium, large)
  --from/--to  - Only hosts free for the whole stay. Dates are RFC3339,
                 YYYY-MM-DD, epoch milliseconds or an offset from now (3d, 36h)

Examples:
  dogroom hosts search --pet-size large
  dogroom hosts search --from 2026-03-01 --to 2026-03-05`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := timespec.ParseRange(hostsFrom, hostsTo, time.Now())
		if err != nil {
			return printer.Error(
				"invalid date range",
				err.Error(),
				[]string{"Use dates like '2026-03-01', RFC3339 like '2026-03-01T12:00:00Z', or offsets like '3d'"},
			)
		}
		q := search.Query{PetSize: domain.PetSize(hostsPetSize), From: from, To: to}

		return withApp(func(ctx context.Context, a *app) error {
			previews, err := search.Hosts(ctx, a.store, q)
			if err != nil {
				return storeError(err, "dogroom hosts list")
			}
			return writeList(previews, func() error {
				_, err := render.Previews(printer.Out(), previews)
				return err
			})
		})
	},
}

func init() {
	hostsListCmd.Flags().StringVar(&hostsCursor, "cursor", "", "Cursor returned by the previous page")
	hostsListCmd.Flags().IntVarP(&hostsLimit, "limit", "l", 0, "Page size, clamped to [1, listing.max_limit] (default from config)")

	hostsSearchCmd.Flags().StringVar(&hostsPetSize, "pet-size", "", "Pet size: small, medium or large")
	hostsSearchCmd.Flags().StringVar(&hostsFrom, "from", "", "Stay start")
	hostsSearchCmd.Flags().StringVar(&hostsTo, "to", "", "Stay end (exclusive)")

	hostsCmd.AddCommand(hostsListCmd, hostsGetCmd, hostsSearchCmd)
	rootCmd.AddCommand(hostsCmd)
}
