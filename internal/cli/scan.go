package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sqlwise/sqlmcp-go/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a datasource and index its tables for retrieval",
	Long: `Scan walks every database and table of a datasource, annotates each
table with the configured LLM, and indexes the annotations for retrieval.

A rescan replaces the datasource's index atomically: queries keep using the
previous scan's tables until the new one is complete.

Examples:
  sqlwise scan --host db.local -u app -p secret
  sqlwise scan --type postgres --host 10.0.0.5 -u app -p secret -d appdb`,
	RunE: runScan,
}

func init() {
	addConnFlags(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := initLLM(ctx); err != nil {
		return err
	}

	src, err := connectSource(ctx)
	if err != nil {
		return fmt.Errorf("connect datasource: %w", err)
	}
	defer src.Close()

	tracker := scan.NewTracker()
	scanner := scan.NewScanner(
		scan.NewAnnotator(model),
		embedder,
		indexClient,
		tracker,
		cfg.ScanTimeout,
		logger,
	)

	sysID, err := scanner.Start(src)
	if err != nil {
		return fmt.Errorf("start scan: %w", err)
	}
	fmt.Printf("Scanning %s...\n", sysID)

	for {
		time.Sleep(time.Second)
		job, ok := tracker.Progress(sysID)
		if !ok {
			return fmt.Errorf("scan job disappeared")
		}
		fmt.Printf("\r%6.2f%%", job.Progress)
		if !job.Running {
			fmt.Println()
			if job.Progress < 100 {
				return fmt.Errorf("scan failed at %.2f%%, see log for details", job.Progress)
			}
			fmt.Println("Scan complete.")
			return nil
		}
	}
}
