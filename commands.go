package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andrewpaige1/flashlearn/auth"
	"github.com/andrewpaige1/flashlearn/config"
	"github.com/andrewpaige1/flashlearn/importer"
	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/tui"
)

func runTUI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	// Log lines would tear the alt screen.
	a, err := newApp(ctx, logger.Nop())
	if err != nil {
		return err
	}
	defer a.shutdown()

	if a.cfg.SeedSample {
		if err := a.repo.InitializeSampleData(ctx); err != nil {
			return err
		}
	}

	m := tui.New(tui.Config{
		Repo:          a.repo,
		Recorder:      a.recorder,
		QuizTimeLimit: a.cfg.QuizTimeLimit(),
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	setID := fs.String("set", "", "id of the set receiving the cards")
	front := fs.String("front", "A", "front column")
	back := fs.String("back", "B", "back column")
	category := fs.String("category", "C", "category column, empty to skip")
	difficulty := fs.String("difficulty", "D", "difficulty column, empty to skip")
	tags := fs.String("tags", "E", "comma-separated tags column, empty to skip")
	sheet := fs.String("sheet", "", "sheet name, first sheet when empty")
	startRow := fs.Int("start-row", 2, "first data row (1-based)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *setID == "" || fs.NArg() != 1 {
		return fmt.Errorf("usage: flashlearn import -set <id> [flags] <file.xlsx|file.csv>")
	}

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.shutdown()

	res, err := importer.Import(ctx, a.repo, *setID, importer.Config{
		FilePath:         fs.Arg(0),
		FrontColumn:      *front,
		BackColumn:       *back,
		CategoryColumn:   *category,
		DifficultyColumn: *difficulty,
		TagsColumn:       *tags,
		SheetName:        *sheet,
		StartRow:         *startRow,
	})
	if err != nil {
		return err
	}
	a.log.Info("import finished", "set_id", *setID, "processed", res.Processed, "created", res.Created, "skipped", res.Skipped)
	return printJSON(res)
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("sub", "local-user", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	issuer := auth.Issuer{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience}
	token, err := issuer.CreateToken(*subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func runSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.shutdown()

	report, err := a.queue.Process(ctx)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runSeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.shutdown()

	if err := a.repo.InitializeSampleData(ctx); err != nil {
		return err
	}
	fmt.Printf("%d sets\n", len(a.repo.FlashcardSets(ctx)))
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
