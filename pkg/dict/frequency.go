package dict

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FrequencyIndex is an in-memory corpus frequency table. It loads Yomichan
// term_meta_bank JSON, plain CSV/TSV with header-detected columns, or a zip
// archive wrapping a CSV/TSV. First entry per term wins.
type FrequencyIndex struct {
	name string
	idx  map[string]FrequencyEntry
}

// NewFrequencyIndex creates an empty index; useful as a no-op source.
func NewFrequencyIndex(name string) *FrequencyIndex {
	return &FrequencyIndex{name: name, idx: map[string]FrequencyEntry{}}
}

// LoadFrequencyIndex reads a frequency data file, choosing the decoder from
// the file extension.
func LoadFrequencyIndex(path, name string) (*FrequencyIndex, error) {
	fi := NewFrequencyIndex(name)
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = fi.loadJSON(path)
	case ".zip":
		err = fi.loadZip(path)
	default:
		err = fi.loadDelimited(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load frequency data from %s: %w", path, err)
	}
	return fi, nil
}

// Len reports the number of loaded terms.
func (fi *FrequencyIndex) Len() int { return len(fi.idx) }

// Name implements Source.
func (fi *FrequencyIndex) Name() string { return fi.name }

// LookupFrequency implements FrequencySource. Never errors; a miss is just
// a miss.
func (fi *FrequencyIndex) LookupFrequency(term string) (FrequencyEntry, bool, error) {
	e, ok := fi.idx[term]
	return e, ok, nil
}

func (fi *FrequencyIndex) add(term string, e FrequencyEntry) {
	if term == "" {
		return
	}
	if _, exists := fi.idx[term]; !exists {
		fi.idx[term] = e
	}
}

// yomichan term_meta_bank entries are triples [term, "freq", value] where
// value is a bare number, {value, displayValue} or {frequency: {...}}.
func (fi *FrequencyIndex) loadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries [][]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("not a term_meta_bank array: %w", err)
	}

	for _, entry := range entries {
		if len(entry) < 3 {
			continue
		}
		var term, metaType string
		if err := json.Unmarshal(entry[0], &term); err != nil {
			continue
		}
		if err := json.Unmarshal(entry[1], &metaType); err != nil || metaType != "freq" {
			continue
		}
		if fe, ok := decodeFreqValue(entry[2]); ok {
			fi.add(term, fe)
		}
	}
	return nil
}

func decodeFreqValue(raw json.RawMessage) (FrequencyEntry, bool) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return FrequencyEntry{Display: strconv.Itoa(int(num)), Rank: num}, true
	}

	var obj struct {
		Value        *float64 `json:"value"`
		DisplayValue string   `json:"displayValue"`
		Frequency    *struct {
			Value        float64 `json:"value"`
			DisplayValue string  `json:"displayValue"`
		} `json:"frequency"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return FrequencyEntry{}, false
	}
	if obj.Frequency != nil {
		display := obj.Frequency.DisplayValue
		if display == "" {
			display = strconv.Itoa(int(obj.Frequency.Value))
		}
		return FrequencyEntry{Display: display, Rank: obj.Frequency.Value}, true
	}
	if obj.Value != nil {
		display := obj.DisplayValue
		if display == "" {
			display = strconv.Itoa(int(*obj.Value))
		}
		return FrequencyEntry{Display: display, Rank: *obj.Value}, true
	}
	return FrequencyEntry{}, false
}

var (
	termColumns = []string{"term", "lemma", "word", "表記", "語彙", "語"}
	rankColumns = []string{"rank", "freq_rank", "harmonic_rank", "frequency", "頻度", "出現度"}
)

func (fi *FrequencyIndex) loadDelimited(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fi.loadDelimitedReader(f, delimiterFor(path))
}

func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

func (fi *FrequencyIndex) loadDelimitedReader(r io.Reader, delim rune) error {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return err
	}

	termIdx, rankIdx := -1, -1
	for i, col := range header {
		lc := strings.ToLower(strings.TrimSpace(col))
		if termIdx < 0 {
			for _, want := range termColumns {
				if lc == want {
					termIdx = i
					break
				}
			}
		}
		if rankIdx < 0 {
			for _, want := range rankColumns {
				if lc == want {
					rankIdx = i
					break
				}
			}
		}
	}
	if termIdx < 0 || rankIdx < 0 {
		return fmt.Errorf("no recognizable term/rank columns in header %v", header)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(rec) <= termIdx || len(rec) <= rankIdx {
			continue
		}
		rank, err := strconv.ParseFloat(strings.TrimSpace(rec[rankIdx]), 64)
		if err != nil {
			continue
		}
		fi.add(strings.TrimSpace(rec[termIdx]), FrequencyEntry{
			Display: strconv.FormatFloat(rank, 'f', -1, 64),
			Rank:    rank,
		})
	}
	return nil
}

func (fi *FrequencyIndex) loadZip(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, zf := range zr.File {
		lower := strings.ToLower(zf.Name)
		if !strings.HasSuffix(lower, ".csv") && !strings.HasSuffix(lower, ".tsv") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return err
		}
		err = fi.loadDelimitedReader(rc, delimiterFor(zf.Name))
		rc.Close()
		return err
	}
	return fmt.Errorf("no csv/tsv file inside archive")
}
