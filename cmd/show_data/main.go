package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/database"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/render"
	"github.com/xelth-com/jobintake/internal/services/printer"
	"github.com/xelth-com/jobintake/internal/services/records"
)

func main() {
	query := flag.String("q", "", "only show records matching this text")
	asJSON := flag.Bool("json", false, "print records as JSON")
	pdfID := flag.String("pdf", "", "render the record with this id to a PDF file")
	out := flag.String("out", "", "output path for -pdf (default: the download file name)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Nop()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		fmt.Println("Try starting the server first: go run ./cmd/api")
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	svc := records.NewService(db, log)

	if *pdfID != "" {
		if err := writePDF(ctx, svc, cfg, *pdfID, *out); err != nil {
			fmt.Fprintf(os.Stderr, "PDF failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	list, err := svc.List(ctx, records.ListOptions{Query: *query})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list records: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		data, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println("JOB INTAKE RECORDS")
	fmt.Println(strings.Repeat("-", 60))
	for _, rec := range list {
		fmt.Printf("  %-12s %-30s %s\n", rec.JobNumber, rec.JobName, rec.CreatedAt.Format("Jan 2, 2006"))
		if rec.Location != "" {
			fmt.Printf("  %-12s └─ %s\n", "", rec.Location)
		}
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("  %d records\n", len(list))
}

func writePDF(ctx context.Context, svc *records.Service, cfg *config.Config, id, out string) error {
	rec, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	measurer, err := printer.NewMeasurer()
	if err != nil {
		return err
	}
	renderer, err := render.New(measurer)
	if err != nil {
		return err
	}

	doc, err := renderer.Render(rec, render.Options{
		GeneratedAt:     time.Now(),
		FooterTimestamp: cfg.PDF.FooterTimestamp,
	})
	if err != nil {
		return err
	}

	if out == "" {
		out = render.FileName(rec.JobNumber, "")
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := printer.Write(doc, f); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d pages)\n", out, doc.PageCount())
	return nil
}
