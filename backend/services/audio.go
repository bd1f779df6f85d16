package services

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// OpenAI's TTS endpoint rejects inputs over 4096 characters.
	ttsMaxChars         = 4096
	ttsContinuationNote = "... [Content continues in full version]"
)

var (
	mdHeader = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBold   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdItalic = regexp.MustCompile(`\*([^*]+)\*`)
	mdCode   = regexp.MustCompile("`([^`]+)`")
	mdLink   = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	mdBlank  = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown flattens markdown to plain prose suitable for narration.
// Formatting markers read terribly aloud; links keep their label only.
func StripMarkdown(text string) string {
	text = mdHeader.ReplaceAllString(text, "")
	text = mdBold.ReplaceAllString(text, "$1")
	text = mdItalic.ReplaceAllString(text, "$1")
	text = mdCode.ReplaceAllString(text, "$1")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdBlank.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// TruncateForSpeech cuts text to fit the synthesis limit, leaving room for a
// spoken note that the narration is incomplete. The limit counts characters,
// so the cut is made on rune boundaries.
func TruncateForSpeech(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-50]) + ttsContinuationNote
}

// AudioStore persists synthesized audio and returns the public URL path.
type AudioStore interface {
	SaveAudio(name string, data []byte) (string, error)
}

// LocalAudioStore writes audio files under Dir, which the server exposes at
// /uploads.
type LocalAudioStore struct {
	Dir string
}

func (s LocalAudioStore) SaveAudio(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
