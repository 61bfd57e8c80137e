package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrewzhng2/TRVL/internal/backlog"
	"github.com/andrewzhng2/TRVL/internal/config"
	"github.com/andrewzhng2/TRVL/internal/trip"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo trip and sample backlog cards",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func floatVal(f float64) *float64 { return &f }

var demoCards = []backlog.CreateCardInput{
	{
		Title:       "teamLab Planets",
		Category:    "activities",
		Location:    "Toyosu, Tokyo",
		Cost:        floatVal(27),
		Rating:      floatVal(4.5),
		DesireToGo:  floatVal(9),
		Description: "Immersive digital art museum. Book tickets ahead; slots sell out.",
	},
	{
		Title:       "Tsukiji Outer Market",
		Category:    "food",
		Location:    "Chuo City, Tokyo",
		Cost:        floatVal(20),
		Rating:      floatVal(4.4),
		DesireToGo:  floatVal(8),
		Description: "Street food crawl: tamagoyaki, tuna skewers, fresh uni.",
	},
	{
		Title:               "Ghibli Museum",
		Category:            "activities",
		Location:            "Mitaka, Tokyo",
		Cost:                floatVal(10),
		Rating:              floatVal(4.6),
		DesireToGo:          floatVal(10),
		RequiresReservation: true,
		Description:         "Tickets released monthly and go fast.",
	},
	{
		Title:      "Fushimi Inari at dawn",
		Category:   "sights",
		Location:   "Kyoto",
		Rating:     floatVal(4.8),
		DesireToGo: floatVal(10),
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	backlogService := backlog.NewService(backlog.NewStore(pool))
	tripService := trip.NewService(trip.NewStore(pool))

	// Check if seed has already run.
	existing, err := backlogService.List(ctx)
	if err != nil {
		return fmt.Errorf("checking existing cards: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	for _, input := range demoCards {
		c, err := backlogService.Create(ctx, input, nil)
		if err != nil {
			return fmt.Errorf("creating card %q: %w", input.Title, err)
		}
		slog.Info("created card", "title", c.Title, "id", c.ID)
	}

	start, end := "2026-04-03", "2026-04-12"
	t, err := tripService.CreateTrip(ctx, trip.CreateTripInput{
		Name:      "Japan",
		StartDate: &start,
		EndDate:   &end,
	}, nil)
	if err != nil {
		return fmt.Errorf("creating demo trip: %w", err)
	}

	for _, leg := range []string{"Tokyo", "Kyoto", "Osaka"} {
		if _, err := tripService.CreateLeg(ctx, t.ID, trip.CreateLegInput{Name: leg}); err != nil {
			return fmt.Errorf("creating leg %q: %w", leg, err)
		}
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Cards:       %d on the backlog\n", len(demoCards))
	fmt.Printf("Trip:        %s (id %d, 3 legs)\n", t.Name, t.ID)
	fmt.Printf("Invite code: %s\n", t.InviteCode)
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl http://localhost:8080/backlog/cards\n")
	fmt.Printf("  curl http://localhost:8080/trips/%d/legs\n", t.ID)

	return nil
}
