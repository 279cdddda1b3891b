package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"slotbook/internal/booking"
	"slotbook/internal/server"
)

func newBookCmd() *cobra.Command {
	var (
		date        string
		hour        int
		userKey     string
		summary     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a one-hour slot if it is still free",
		Long: `Re-check every configured calendar for the requested hour and, if no
overlapping event exists, create the reservation in the write calendar.
A conflict is reported as a normal outcome, not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			day, err := booking.ParseDate(date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			sc, err := server.NewServerContext(ctx, cfg, nil)
			if err != nil {
				return fmt.Errorf("failed to set up booking context: %w", err)
			}
			defer func() { _ = sc.Shutdown() }()

			window := sc.Window()
			if !window.Contains(hour) {
				return fmt.Errorf("hour %d is outside the working window %02d:00-%02d:00",
					hour, window.StartHour, window.EndHour)
			}

			today := booking.DateOf(time.Now(), sc.Zone())
			if !sc.Policy().Bookable(today, day) {
				return fmt.Errorf("date %s is not open for booking", day)
			}

			start := day.Time(hour, sc.Zone())
			req := booking.Request{
				Summary:     summary,
				Description: description,
				Start:       start,
				End:         start.Add(time.Hour),
			}

			release := sc.Gate().Acquire(userKey)
			defer release()

			switch sc.Coordinator().BookSlot(ctx, req) {
			case booking.OutcomeBooked:
				cmd.Printf("Booked %s %02d:00-%02d:00 (%s)\n", day, hour, hour+1, sc.Zone())
				return nil
			case booking.OutcomeConflict:
				cmd.Printf("Slot %s %02d:00 is already taken\n", day, hour)
				return nil
			default:
				return fmt.Errorf("booking failed due to a calendar error; nothing was written")
			}
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to book in 2006-01-02 form")
	cmd.Flags().IntVar(&hour, "hour", 0, "Start hour of the slot in the working timezone")
	cmd.Flags().StringVar(&userKey, "user-key", "cli", "Key identifying the acting user; attempts with the same key are serialized")
	cmd.Flags().StringVar(&summary, "summary", "Lesson", "Event title for the reservation")
	cmd.Flags().StringVar(&description, "description", "", "Optional event description")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("hour")

	return cmd
}
