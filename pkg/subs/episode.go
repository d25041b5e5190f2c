package subs

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	seasonEpUnderscoreRe = regexp.MustCompile(`(?i)S(\d+)_E(\d+)`)
	seasonEpRe           = regexp.MustCompile(`(?i)S(\d+)E(\d+)`)
	epOnlyRe             = regexp.MustCompile(`(?i)Ep(\d+)`)
	bracketNumRe         = regexp.MustCompile(`\[(\d{1,2})\]`)

	bracketGroupRe = regexp.MustCompile(`\[[^\]]*\]`)
	trailingCodeRe = regexp.MustCompile(`(?i)[_\s]*S\d+E\d+.*`)
	trailingEpRe   = regexp.MustCompile(`(?i)[_\s]*Ep\d+.*`)
	spacesRe       = regexp.MustCompile(`\s+`)
)

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// EpisodeInfo derives a series title and an S01E05-style episode code from
// the video and word-list file names. The word list name wins when both
// carry a code; with nothing recognizable anywhere the code defaults to
// S01E01 and the title to the cleaned video name.
func EpisodeInfo(videoPath, wordsPath string) (title, episode string) {
	videoStem := stem(videoPath)
	wordsStem := stem(wordsPath)

	code := ""
	if m := seasonEpUnderscoreRe.FindStringSubmatch(wordsStem); m != nil {
		code = fmt.Sprintf("S%sE%s", pad2(m[1]), pad2(m[2]))
	}
	if code == "" {
		if m := seasonEpRe.FindStringSubmatch(wordsStem); m != nil {
			code = fmt.Sprintf("S%sE%s", pad2(m[1]), pad2(m[2]))
		}
	}
	if code == "" {
		if m := epOnlyRe.FindStringSubmatch(wordsStem); m != nil {
			code = "S01E" + pad2(m[1])
		}
	}
	if code == "" {
		if m := seasonEpRe.FindStringSubmatch(videoStem); m != nil {
			code = fmt.Sprintf("S%sE%s", pad2(m[1]), pad2(m[2]))
		} else if m := bracketNumRe.FindStringSubmatch(videoStem); m != nil {
			code = "S01E" + pad2(m[1])
		} else {
			code = "S01E01"
		}
	}

	name := bracketGroupRe.ReplaceAllString(videoStem, "")
	name = trailingCodeRe.ReplaceAllString(name, "")
	name = trailingEpRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	name = spacesRe.ReplaceAllString(name, " ")
	if name == "" {
		name = videoStem
	}

	return name, code
}
