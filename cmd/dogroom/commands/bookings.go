package commands

import (
	"context"
	"time"

	"github.com/dyluth/dogroom/internal/booking"
	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/internal/render"
	"github.com/dyluth/dogroom/internal/timespec"
	"github.com/spf13/cobra"
)

var (
	bookingHost string
	bookingUser string
	bookingFrom string
	bookingTo   string
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Create and manage bookings",
}

var bookingsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Book a host for a stay",
	Long: `Book a host for the stay [--from, --to).

The booking starts pending. It is refused when the host already has a
pending or confirmed booking overlapping the stay.

Examples:
  dogroom bookings create --host host-ava --user u1 --from 2026-03-01 --to 2026-03-04
  dogroom bookings create --host host-ben --user u2 --from 2d --to 5d`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bookingFrom == "" || bookingTo == "" {
			return printer.Error(
				"missing dates",
				"Both --from and --to are required.",
				[]string{"dogroom bookings create --host host-ava --user u1 --from 2026-03-01 --to 2026-03-04"},
			)
		}
		from, to, err := timespec.ParseRange(bookingFrom, bookingTo, time.Now())
		if err != nil {
			return printer.Error("invalid date range", err.Error(), nil)
		}

		return withApp(func(ctx context.Context, a *app) error {
			b, err := a.bookings.Create(ctx, booking.CreateRequest{
				HostID: bookingHost,
				UserID: bookingUser,
				From:   from,
				To:     to,
			})
			if err != nil {
				return storeError(err, "dogroom hosts list")
			}
			if outputFormat == formatTable {
				printer.Success("Booking %s created (%s)\n", b.ID, b.Status)
				printer.Info("  %s → %s\n", timespec.Format(b.From), timespec.Format(b.To))
				return nil
			}
			return writeOne(b)
		})
	},
}

var bookingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bookings of a user or a host",
	Long: `List bookings in creation order.

With --user, each booking is shown with its host. With --host, the host's
bookings are listed.

Examples:
  dogroom bookings list --user u1
  dogroom bookings list --host host-ava -o jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (bookingUser == "") == (bookingHost == "") {
			return printer.Error(
				"choose one filter",
				"Exactly one of --user or --host is required.",
				[]string{"dogroom bookings list --user u1", "dogroom bookings list --host host-ava"},
			)
		}

		return withApp(func(ctx context.Context, a *app) error {
			var (
				rows []domain.BookingWithHost
				err  error
			)
			if bookingUser != "" {
				rows, err = a.bookings.ListForUser(ctx, bookingUser)
			} else {
				var plain []domain.Booking
				plain, err = a.bookings.ListForHost(ctx, bookingHost)
				rows = make([]domain.BookingWithHost, len(plain))
				for i, b := range plain {
					rows[i] = domain.BookingWithHost{Booking: b}
				}
			}
			if err != nil {
				return storeError(err, "dogroom users list")
			}
			return writeList(rows, func() error {
				_, err := render.Bookings(printer.Out(), rows)
				return err
			})
		})
	},
}

// transitionCommand builds cancel, confirm and reject, which differ only in
// the service method they call.
func transitionCommand(use, short, verb string, apply func(*booking.Service, context.Context, string) (domain.Booking, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " BOOKING_ID",
		Short: short,
		Long: short + `.

Short IDs are accepted when they are at least 6 characters long.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				id, err := a.store.Bookings.Resolve(ctx, args[0])
				if err != nil {
					return storeError(err, "dogroom bookings list --user <USER_ID>")
				}
				b, err := apply(a.bookings, ctx, id)
				if err != nil {
					return storeError(err, "dogroom bookings list --user <USER_ID>")
				}
				if outputFormat == formatTable {
					printer.Success("Booking %s %s\n", b.ID, verb)
					return nil
				}
				return writeOne(b)
			})
		},
	}
}

func init() {
	bookingsCreateCmd.Flags().StringVar(&bookingHost, "host", "", "Host ID (required)")
	bookingsCreateCmd.Flags().StringVar(&bookingUser, "user", "", "User ID (required)")
	bookingsCreateCmd.Flags().StringVar(&bookingFrom, "from", "", "Stay start (required)")
	bookingsCreateCmd.Flags().StringVar(&bookingTo, "to", "", "Stay end, exclusive (required)")

	bookingsListCmd.Flags().StringVar(&bookingUser, "user", "", "List the bookings of this user")
	bookingsListCmd.Flags().StringVar(&bookingHost, "host", "", "List the bookings of this host")

	bookingsCmd.AddCommand(
		bookingsCreateCmd,
		bookingsListCmd,
		transitionCommand("cancel", "Cancel a pending or confirmed booking", "cancelled", (*booking.Service).Cancel),
		transitionCommand("confirm", "Confirm a pending booking", "confirmed", (*booking.Service).Confirm),
		transitionCommand("reject", "Reject a pending booking", "rejected", (*booking.Service).Reject),
	)
	rootCmd.AddCommand(bookingsCmd)
}
