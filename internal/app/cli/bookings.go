package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	bookingsdomain "github.com/Apurer/tourbook/internal/domains/bookings/domain"
)

func newBookingsCommand(app *App, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage your bookings",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := app.ensureSession(cmd.Context())
			return err
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bookings, err := app.bookings.ListMine(cmd.Context())
			if err != nil {
				return err
			}
			return out(cmd).print(bookings, func(tw *tabwriter.Writer) {
				row(tw, "ID", "TOUR", "DATE", "GUESTS", "TOTAL", "STATUS", "PAYMENT")
				for _, b := range bookings {
					row(tw, b.ID, tourLabel(b), b.Date, b.Guests, money(b.TotalPrice), b.Status, b.PaymentStatus)
				}
			})
		},
	}

	var form bookingsdomain.BookingForm
	create := &cobra.Command{
		Use:   "create <tour-id>",
		Short: "Book a tour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.TourID = args[0]
			booking, err := app.bookings.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			return printBooking(out(cmd), booking, "created")
		},
	}
	create.Flags().StringVar(&form.Date, "date", "", "travel date (YYYY-MM-DD)")
	create.Flags().IntVar(&form.Guests, "guests", 1, "number of guests")
	create.Flags().StringVar(&form.ContactPhone, "phone", "", "contact phone")
	_ = create.MarkFlagRequired("date")

	cancel := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			booking, err := app.bookings.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printBooking(out(cmd), booking, "cancelled")
		},
	}

	pay := &cobra.Command{
		Use:   "pay <booking-id>",
		Short: "Create a payment intent and confirm it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, err := app.bookings.CreatePaymentIntent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			booking, err := app.bookings.VerifyPayment(cmd.Context(), bookingsdomain.PaymentVerification{
				BookingID:       intent.BookingID,
				PaymentIntentID: intent.PaymentIntentID,
			})
			if err != nil {
				return fmt.Errorf("payment %s not confirmed: %w", intent.PaymentIntentID, err)
			}
			return printBooking(out(cmd), booking, "paid")
		},
	}

	cmd.AddCommand(list, create, cancel, pay)
	return cmd
}

func printBooking(p printer, b *bookingsdomain.Booking, verb string) error {
	return p.print(b, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "booking %s %s\n", b.ID, verb)
		row(tw, "Tour:", tourLabel(*b))
		row(tw, "Date:", b.Date)
		row(tw, "Guests:", b.Guests)
		row(tw, "Total:", money(b.TotalPrice))
		row(tw, "Status:", fmt.Sprintf("%s / %s", b.Status, b.PaymentStatus))
	})
}

func tourLabel(b bookingsdomain.Booking) string {
	if b.TourTitle != "" {
		return b.TourTitle
	}
	return b.TourID
}
