package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/database"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/models"
	"github.com/xelth-com/jobintake/internal/services/records"
)

func demoRecords() []models.RecordInput {
	start := time.Now().AddDate(0, 1, 0).Format(models.DateLayout)
	return []models.RecordInput{
		{
			JobName:        "Tower A",
			JobNumber:      "J-100",
			Location:       "Downtown",
			JobStartDate:   start,
			PM:             "Alice Moreno",
			Superintendent: "Sam Ortiz",
			Sub:            "Northside Steel",
			Trade:          "Structural Steel",
			Submittal:      "Shop drawings rev 2",
			ScopeOfWork:    "Furnish and erect structural steel for levels 1 through 12, including embeds and miscellaneous metals.",
			ContactName:    "Dana Lee",
			ContactPhone:   "555-0100",
			ContactEmail:   "dana.lee@example.com",
		},
		{
			JobName:             "Bridge B",
			JobNumber:           "J-200",
			Location:            "Riverside",
			PM:                  "Chris Patel",
			Trade:               "Concrete",
			ScopeOfWork:         "Deck replacement over the east channel.",
			SpecialRequirements: "Night work only. River traffic notices 48 hours ahead.",
			Notes:               "Permit pending with county.",
		},
		{
			JobName:     "Warehouse Expansion",
			JobNumber:   "J-300",
			Location:    "Industrial Park",
			Trade:       "General",
			ScopeOfWork: strings.Repeat("Slab on grade, tilt-up panels and roofing for the new bay. ", 30),
		},
	}
}

func main() {
	fmt.Println("Job Intake Demo Data Seeder")
	fmt.Println(strings.Repeat("=", 60))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Nop()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		return
	}
	fmt.Println("Connected and migrated")

	ctx := context.Background()
	svc := records.NewService(db, log)

	existing, err := svc.List(ctx, records.ListOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to count records: %v\n", err)
		return
	}
	if len(existing) > 0 {
		fmt.Printf("Database already has %d records. Clear it first? (y/N): ", len(existing))
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted. Database not modified.")
			return
		}
		for _, rec := range existing {
			if err := svc.Delete(ctx, rec.ID); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to delete %s: %v\n", rec.ID, err)
				return
			}
		}
		fmt.Printf("Cleared %d records\n", len(existing))
	}

	created := 0
	for _, in := range demoRecords() {
		rec, err := in.ToRecord()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid demo record %q: %v\n", in.JobName, err)
			continue
		}
		rec, err = svc.Create(ctx, rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %q: %v\n", in.JobName, err)
			continue
		}
		fmt.Printf("   created %s  %s (%s)\n", rec.ID, rec.JobName, rec.JobNumber)
		created++
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created %d demo records\n", created)
}
