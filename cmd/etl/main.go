// Package main provides the etl command that builds the booking star schema
// from a raw bookings CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"hotelstar/internal/config"
	"hotelstar/internal/formatter"
	"hotelstar/internal/logger"
	"hotelstar/internal/models"
	"hotelstar/internal/pipeline"
	"hotelstar/internal/quality"
)

const defaultConfig = "configs/etl.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default configs/etl.yaml if present)")
	input := flag.String("input", "", "Raw bookings CSV (overrides config)")
	output := flag.String("output", "", "Output directory (overrides config)")
	preview := flag.Int("preview", -1, "Fact rows to preview after the run (overrides config)")
	writeReport := flag.Bool("write-report", false, "Write quality_report.csv and quality_issues.csv")
	showIssues := flag.Bool("issues", false, "Print every recorded anomaly")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration to this YAML file and exit")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if *input != "" {
		cfg.Pipeline.Input = *input
	}

	if *output != "" {
		cfg.Pipeline.OutputDir = *output
	}

	if *preview >= 0 {
		cfg.Pipeline.PreviewRows = *preview
	}

	if *writeReport {
		cfg.Pipeline.WriteReport = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if *dumpConfig != "" {
		if err := cfg.SaveConfig(*dumpConfig); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ Configuration written to: %s\n", *dumpConfig)

		return
	}

	log := logger.NewLogger(cfg.Logging.Level)
	log.Info("starting ETL", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.NewRunner(cfg, log).Run(ctx)

	if res != nil && res.Report != nil {
		printReport(res.Report, *showIssues)
	}

	if err != nil {
		if errors.Is(err, quality.ErrUnrecoverable) {
			log.Error("run aborted by anomaly policy", "error", err)
		} else {
			log.Error("run failed", "error", err)
		}

		os.Exit(1)
	}

	if cfg.Pipeline.PreviewRows > 0 {
		printPreview(res.Star.Facts, cfg.Pipeline.PreviewRows)
	}

	fmt.Println("------------------------------------------------")
	fmt.Printf("✨ Run %s complete in %v\n", res.RunID, res.Duration)
	fmt.Printf("📂 Output: %s\n", cfg.Pipeline.OutputDir)

	if res.Manifest != nil {
		fmt.Printf("🔏 Signed %d tables\n", len(res.Manifest.Tables))
	}

	fmt.Println("------------------------------------------------")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfig); err != nil {
			return config.Default(), nil
		}

		path = defaultConfig
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

func printReport(report *quality.Report, withIssues bool) {
	fmt.Println()
	fmt.Println("📊 Data Quality Report")
	fmt.Println()

	header, rows := report.Summary()
	fmt.Print(formatter.Table(header, rows))

	if withIssues && len(report.Issues) > 0 {
		fmt.Println()
		fmt.Printf("⚠️  %d anomalies\n\n", len(report.Issues))

		header, rows = report.IssueRows()
		fmt.Print(formatter.Table(header, rows))
	}

	fmt.Println()
}

func printPreview(facts []models.BookingFact, limit int) {
	header := []string{"fact_id", "booking_id", "guest", "room", "date", "channel", "rate", "nights", "daily_rate", "total_revenue"}

	rows := make([][]string, 0, len(facts))
	for i := range facts {
		f := &facts[i]
		rows = append(rows, []string{
			strconv.Itoa(f.FactID),
			f.BookingID,
			key(f.GuestKey.Int64, f.GuestKey.Valid),
			key(f.RoomKey.Int64, f.RoomKey.Valid),
			key(f.DateKey.Int64, f.DateKey.Valid),
			key(f.ChannelKey.Int64, f.ChannelKey.Valid),
			key(f.RateKey.Int64, f.RateKey.Valid),
			strconv.Itoa(f.Nights),
			f.DailyRate.Decimal.StringFixed(2),
			money(f),
		})
	}

	fmt.Println("🔍 Fact preview")
	fmt.Println()
	fmt.Print(formatter.Preview(header, rows, limit))
	fmt.Println()
}

func key(v int64, valid bool) string {
	if !valid {
		return "∅"
	}

	return strconv.FormatInt(v, 10)
}

func money(f *models.BookingFact) string {
	if !f.TotalRevenue.Valid {
		return ""
	}

	return f.TotalRevenue.Decimal.StringFixed(2)
}
