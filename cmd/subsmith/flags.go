package main

// Flags holds every command-line flag value.
type Flags struct {
	CfgFile string

	// Inputs.
	Video string
	Subs  string
	Words string

	// Outputs.
	OutDir string
	CSV    string

	// Media extraction.
	FFmpeg      string
	VideoFilter string
	Pad         float64
	Workers     int

	// Dictionary sources.
	DefsDB      string
	ImportDict  string
	FreqFiles   []string
	AccentBanks []string
	PitchBanks  []string

	// Anki push.
	PushAnki        bool
	AnkiURL         string
	AnkiDeck        string
	AnkiModel       string
	AnkiTags        []string
	AllowDuplicates bool

	Verbose bool
	Quiet   bool
}

// NewFlags creates a Flags instance with default values.
func NewFlags() *Flags {
	return &Flags{
		OutDir:    "media",
		CSV:       "cards.csv",
		Pad:       0.25,
		DefsDB:    "subsmith.db",
		AnkiURL:   "http://localhost:8765",
		AnkiDeck:  "Mining",
		AnkiModel: "Japanese Mining",
		AnkiTags:  []string{"subsmith"},
	}
}
