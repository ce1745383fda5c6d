package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/store"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded scans as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "scanner.db", "SQLite database path")
	f.String("event", "", "Event name for output (defaults to the stored value)")
	f.String("venue", "", "Venue for output (defaults to the stored value)")
	f.String("date", "", "Event date in YYYY-MM-DD format (defaults to the stored value)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd, os.Stderr)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportScans(model.EventInfo{
		Event: v.GetString("event"),
		Venue: v.GetString("venue"),
		Date:  v.GetString("date"),
	})
	if err != nil {
		return fmt.Errorf("export scans: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
