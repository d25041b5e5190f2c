// Package card holds the flashcard record produced for each matched word
// occurrence, plus the export-boundary deduplication and CSV writer.
package card

// Card is one flashcard. The csv tags fix the exported column names, which
// downstream note templates key on.
type Card struct {
	Word             string `csv:"word"`
	Sentence         string `csv:"sentence"`
	SentenceFurigana string `csv:"sentence_furigana"`

	Definition string `csv:"definition"`

	// Reading carries overline accent markup, not plain kana.
	Reading       string `csv:"reading"`
	PitchPosition string `csv:"pitch_position"`
	PitchType     string `csv:"pitch_type"`
	PitchSource   string `csv:"pitch_source"`

	SentenceAudio   string `csv:"sentence_audio_base64"`
	WordAudio       string `csv:"word_audio_base64"`
	WordAudioSource string `csv:"word_audio_source"`

	Picture string `csv:"picture_base64"`

	Frequency     string `csv:"bccwj_frequency"`
	FrequencySort string `csv:"bccwj_freq_sort"`

	AnimeName string `csv:"anime_name"`
	Episode   string `csv:"episode"`

	StartTime float64 `csv:"start_time"`
	EndTime   float64 `csv:"end_time"`

	Lemma string `csv:"lemma"`
	// AllReadings is a JSON array of every accent candidate considered.
	AllReadings string `csv:"all_readings"`

	// DuplicateCount is how many occurrences collapsed into this card.
	// Set during deduplication, zero before.
	DuplicateCount int `csv:"duplicate_count"`
}
