package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CreateRootCommand creates and configures the root cobra command.
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subsmith",
		Short: "Japanese vocabulary miner for subtitled video",
		Long: `subsmith scans a subtitle file for your target vocabulary and produces
Anki-ready flashcards: screenshot and audio clip from the video, dictionary
definition, pitch accent, corpus frequency and a furigana sentence.

Examples:
  subsmith --video ep03.mkv --subs ep03.srt --words words.txt
  subsmith --video ep03.mkv --subs ep03.srt --words words.txt --anki
  subsmith import-jmdict jmdict-eng-common.json`,
	}

	setupFlags(rootCmd, flags)
	rootCmd.AddCommand(createImportCommand(flags))
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.subsmith.yaml)")
	cmd.PersistentFlags().StringVar(&flags.DefsDB, "defs-db", flags.DefsDB, "SQLite definition database")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Per-word resolution traces")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Warnings and errors only")

	cmd.Flags().StringVar(&flags.Video, "video", "", "Video file to extract media from")
	cmd.Flags().StringVar(&flags.Subs, "subs", "", "Subtitle file (srt, ass, ssa or vtt)")
	cmd.Flags().StringVar(&flags.Words, "words", "", "Target word list")
	cmd.Flags().StringVarP(&flags.OutDir, "output", "o", flags.OutDir, "Directory for extracted media")
	cmd.Flags().StringVar(&flags.CSV, "csv", flags.CSV, "CSV output path")

	cmd.Flags().StringVar(&flags.FFmpeg, "ffmpeg", "", "ffmpeg binary (default: PATH lookup)")
	cmd.Flags().StringVar(&flags.VideoFilter, "vf", "", "ffmpeg video filter for screenshots")
	cmd.Flags().Float64Var(&flags.Pad, "pad", flags.Pad, "Seconds of padding around each cue")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "Parallel line workers (default: CPU count)")

	cmd.Flags().StringSliceVar(&flags.FreqFiles, "freq", nil, "Frequency list (json, zip, csv or tsv); repeatable, order is priority")
	cmd.Flags().StringSliceVar(&flags.AccentBanks, "accent-bank", nil, "Accent bank with audio (json); repeatable, order is priority")
	cmd.Flags().StringSliceVar(&flags.PitchBanks, "pitch-bank", nil, "Yomichan pitch dictionary (term_meta_bank json); repeatable")

	cmd.Flags().BoolVar(&flags.PushAnki, "anki", false, "Push cards to Anki via AnkiConnect after export")
	cmd.Flags().StringVar(&flags.AnkiURL, "anki-url", flags.AnkiURL, "AnkiConnect URL")
	cmd.Flags().StringVar(&flags.AnkiDeck, "deck", flags.AnkiDeck, "Anki deck name")
	cmd.Flags().StringVar(&flags.AnkiModel, "model", flags.AnkiModel, "Anki note type")
	cmd.Flags().StringSliceVar(&flags.AnkiTags, "tag", flags.AnkiTags, "Tags for pushed notes")
	cmd.Flags().BoolVar(&flags.AllowDuplicates, "allow-duplicates", false, "Allow duplicate notes in Anki")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("media.output", cmd.Flags().Lookup("output"))
	viper.BindPFlag("media.ffmpeg", cmd.Flags().Lookup("ffmpeg"))
	viper.BindPFlag("media.pad", cmd.Flags().Lookup("pad"))
	viper.BindPFlag("media.vf", cmd.Flags().Lookup("vf"))
	viper.BindPFlag("sources.defs_db", cmd.PersistentFlags().Lookup("defs-db"))
	viper.BindPFlag("sources.freq", cmd.Flags().Lookup("freq"))
	viper.BindPFlag("sources.accent_banks", cmd.Flags().Lookup("accent-bank"))
	viper.BindPFlag("sources.pitch_banks", cmd.Flags().Lookup("pitch-bank"))
	viper.BindPFlag("anki.url", cmd.Flags().Lookup("anki-url"))
	viper.BindPFlag("anki.deck", cmd.Flags().Lookup("deck"))
	viper.BindPFlag("anki.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("anki.tags", cmd.Flags().Lookup("tag"))
}

// InitConfig initializes viper configuration.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".subsmith")
	}

	viper.SetEnvPrefix("SUBSMITH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// applyConfig backfills flags the user did not set from the config file.
func applyConfig(cmd *cobra.Command, flags *Flags) {
	set := func(name string, apply func()) {
		if !cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("output", func() {
		if v := viper.GetString("media.output"); v != "" {
			flags.OutDir = v
		}
	})
	set("ffmpeg", func() {
		if v := viper.GetString("media.ffmpeg"); v != "" {
			flags.FFmpeg = v
		}
	})
	set("pad", func() {
		if viper.IsSet("media.pad") {
			flags.Pad = viper.GetFloat64("media.pad")
		}
	})
	set("vf", func() {
		if v := viper.GetString("media.vf"); v != "" {
			flags.VideoFilter = v
		}
	})
	set("freq", func() {
		if v := viper.GetStringSlice("sources.freq"); len(v) > 0 {
			flags.FreqFiles = v
		}
	})
	set("accent-bank", func() {
		if v := viper.GetStringSlice("sources.accent_banks"); len(v) > 0 {
			flags.AccentBanks = v
		}
	})
	set("pitch-bank", func() {
		if v := viper.GetStringSlice("sources.pitch_banks"); len(v) > 0 {
			flags.PitchBanks = v
		}
	})
	set("anki-url", func() {
		if v := viper.GetString("anki.url"); v != "" {
			flags.AnkiURL = v
		}
	})
	set("deck", func() {
		if v := viper.GetString("anki.deck"); v != "" {
			flags.AnkiDeck = v
		}
	})
	set("model", func() {
		if v := viper.GetString("anki.model"); v != "" {
			flags.AnkiModel = v
		}
	})
}
