package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"slotbook/internal/booking"
	"slotbook/internal/server"
)

func newAvailabilityCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show bookable days, or free and busy hours for one day",
		Long: `Without --date, list the days currently open for booking under the
configured policy. With --date, resolve which hours of that day are
already occupied across all configured calendars.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx := context.Background()
			sc, err := server.NewServerContext(ctx, cfg, nil)
			if err != nil {
				return fmt.Errorf("failed to set up booking context: %w", err)
			}
			defer func() { _ = sc.Shutdown() }()

			if date == "" {
				return printBookableDays(cmd, sc)
			}
			return printDayAvailability(ctx, cmd, sc, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to check in 2006-01-02 form (default: list bookable days)")
	return cmd
}

func printBookableDays(cmd *cobra.Command, sc *server.ServerContext) error {
	today := booking.DateOf(time.Now(), sc.Zone())
	dates := sc.Policy().BookableDates(today)

	if len(dates) == 0 {
		cmd.Println("No days are currently open for booking")
		return nil
	}

	cmd.Printf("%d day(s) open for booking:\n", len(dates))
	for _, d := range dates {
		cmd.Printf("  %s (%s)\n", d, d.Weekday())
	}
	return nil
}

func printDayAvailability(ctx context.Context, cmd *cobra.Command, sc *server.ServerContext, date string) error {
	day, err := booking.ParseDate(date)
	if err != nil {
		return err
	}

	busy := sc.Resolver().BusyHours(ctx, day)
	window := sc.Window()

	cmd.Printf("Availability for %s (window %02d:00-%02d:00 %s):\n",
		day, window.StartHour, window.EndHour, sc.Zone())
	for _, h := range window.Hours() {
		state := "free"
		if _, taken := busy[h]; taken {
			state = "busy"
		}
		cmd.Printf("  %02d:00-%02d:00  %s\n", h, h+1, state)
	}
	return nil
}
