package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/subsmith/subsmith/pkg/analyze"
	"github.com/subsmith/subsmith/pkg/anki"
	"github.com/subsmith/subsmith/pkg/card"
	"github.com/subsmith/subsmith/pkg/dict"
	"github.com/subsmith/subsmith/pkg/mining"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	flags := NewFlags()
	rootCmd := CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runMine(cmd, flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(flags *Flags) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	switch {
	case flags.Quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case flags.Verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func runMine(cmd *cobra.Command, flags *Flags) error {
	applyConfig(cmd, flags)

	log, err := newLogger(flags)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sources, closeSources, err := assembleSources(flags, log)
	if err != nil {
		return err
	}
	defer closeSources()

	analyzer, err := analyze.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	cfg := mining.Config{
		VideoPath:   flags.Video,
		SubsPath:    flags.Subs,
		WordsPath:   flags.Words,
		OutDir:      flags.OutDir,
		FFmpegPath:  flags.FFmpeg,
		VideoFilter: flags.VideoFilter,
		PadS:        flags.Pad,
		Workers:     flags.Workers,
	}
	proc, err := mining.NewProcessor(cfg, analyzer, sources, log)
	if err != nil {
		return err
	}

	res, err := proc.Run(ctx)
	if err != nil {
		return err
	}
	if res.Interrupted {
		log.Warnw("run interrupted, exporting cards produced so far", "cards", len(res.Cards))
	}

	deduped, stats := card.Dedupe(res.Cards)
	log.Infow("deduplicated", "before", stats.Before, "after", stats.After, "removed", stats.Removed)

	if err := card.WriteCSV(flags.CSV, deduped); err != nil {
		return err
	}
	log.Infow("csv written", "path", flags.CSV, "cards", len(deduped))

	if flags.PushAnki && len(deduped) > 0 {
		pusher := anki.NewPusher(anki.NewClient(flags.AnkiURL), anki.PushConfig{
			Deck:            flags.AnkiDeck,
			Model:           flags.AnkiModel,
			Tags:            flags.AnkiTags,
			AllowDuplicates: flags.AllowDuplicates,
		}, log)
		pushed, failed, err := pusher.Push(ctx, deduped)
		if err != nil {
			return err
		}
		log.Infow("anki push finished", "pushed", pushed, "failed", failed)
	}
	return nil
}

// assembleSources opens every configured dictionary collaborator, in flag
// order, which is priority order.
func assembleSources(flags *Flags, log *zap.SugaredLogger) (mining.Sources, func(), error) {
	var sources mining.Sources
	var dbConn *sql.DB
	closeAll := func() {
		if dbConn != nil {
			dbConn.Close()
		}
	}

	if flags.DefsDB != "" {
		if _, err := os.Stat(flags.DefsDB); err == nil {
			src, conn, err := dict.OpenDefinitionStore(flags.DefsDB, "jmdict")
			if err != nil {
				return sources, closeAll, fmt.Errorf("failed to open definition database: %w", err)
			}
			dbConn = conn
			sources.Definitions = append(sources.Definitions, src)
			log.Infow("definition database loaded", "path", flags.DefsDB)
		} else {
			log.Warnw("definition database missing, definitions will be empty",
				"path", flags.DefsDB, "hint", "run 'subsmith import-jmdict' first")
		}
	}

	for _, path := range flags.AccentBanks {
		bank, err := dict.LoadMarkupBank(path, path)
		if err != nil {
			closeAll()
			return sources, func() {}, fmt.Errorf("failed to load accent bank %s: %w", path, err)
		}
		sources.Audio = append(sources.Audio, bank)
		log.Infow("accent bank loaded", "path", path, "terms", bank.Len())
	}
	for _, path := range flags.PitchBanks {
		bank, err := dict.LoadYomichanPitchBank(path, path)
		if err != nil {
			closeAll()
			return sources, func() {}, fmt.Errorf("failed to load pitch bank %s: %w", path, err)
		}
		sources.Audio = append(sources.Audio, bank)
		log.Infow("pitch bank loaded", "path", path, "terms", bank.Len())
	}

	for _, path := range flags.FreqFiles {
		idx, err := dict.LoadFrequencyIndex(path, path)
		if err != nil {
			closeAll()
			return sources, func() {}, fmt.Errorf("failed to load frequency list %s: %w", path, err)
		}
		sources.Frequency = append(sources.Frequency, idx)
		log.Infow("frequency list loaded", "path", path, "terms", idx.Len())
	}

	return sources, closeAll, nil
}
