package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
	"github.com/pavelanni/scanner/internal/store"
	"github.com/pavelanni/scanner/internal/tui"
)

func playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal",
		RunE:  runPlay,
	}
	f := cmd.Flags()
	f.String("db", "", "SQLite database to record finished scans in (empty = do not record)")
	f.StringP("questions", "q", "", "YAML question bank (empty = built-in bank)")
	f.StringP("lang", "l", "en", "UI language (en, id)")
	f.String("name", "", "Display name to start with")
	addLogFlags(cmd)
	return cmd
}

func runPlay(cmd *cobra.Command, _ []string) error {
	// The terminal belongs to the quiz; logs only go to --log-file.
	setupLogging(cmd, io.Discard)
	v := viperForCmd(cmd)

	bank, err := loadBank(v.GetString("questions"))
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	if err := appI18n.Init("en"); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	lang := appI18n.Match(v.GetString("lang"))
	ctx := appI18n.WithLang(cmd.Context(), lang)
	ctx = appI18n.WithLocalizer(ctx, appI18n.NewLocalizer(lang))

	var onFinish tui.FinishFunc
	if path := v.GetString("db"); path != "" {
		db, err := store.New(path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		onFinish = func(rec model.ScanRecord) error {
			_, err := db.RecordScan(rec)
			return err
		}
	}

	s := quiz.NewSession(bank)
	s.SetName(v.GetString("name"))
	return tui.Run(ctx, s, onFinish)
}
