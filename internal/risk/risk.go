// Package risk flags messages that contain self-harm phrases. Matching is a
// case-insensitive substring test against a static phrase list.
package risk

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultPhrases is the built-in high-risk phrase list.
var DefaultPhrases = []string{
	"kill myself",
	"end my life",
	"i want to die",
	"suicide",
	"self harm",
}

// Detector matches text against a fixed phrase set. It is immutable after
// construction and safe for concurrent use.
type Detector struct {
	phrases []string
}

// NewDetector builds a Detector from phrases. Blank entries are ignored and
// an empty list falls back to DefaultPhrases.
func NewDetector(phrases []string) *Detector {
	fold := cases.Lower(language.Und)
	norm := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		norm = append(norm, fold.String(p))
	}
	if len(norm) == 0 {
		norm = append(norm, DefaultPhrases...)
	}
	return &Detector{phrases: norm}
}

// IsHighRisk reports whether text contains any configured phrase.
func (d *Detector) IsHighRisk(text string) bool {
	if text == "" {
		return false
	}
	// cases.Caser is stateful; one per call.
	lower := cases.Lower(language.Und).String(text)
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Phrases returns a copy of the active phrase list.
func (d *Detector) Phrases() []string {
	return append([]string(nil), d.phrases...)
}

type phraseFile struct {
	Phrases []string `yaml:"phrases"`
}

// LoadPhrases reads a YAML phrase file. Both a top-level list and a mapping
// with a "phrases" key are accepted.
func LoadPhrases(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risk phrases: %w", err)
	}
	var list []string
	if err := yaml.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var doc phraseFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse risk phrases: %w", err)
	}
	return doc.Phrases, nil
}

// FromConfig builds a Detector from an inline list and an optional YAML
// file. File entries are appended to the inline ones.
func FromConfig(phrases []string, file string) (*Detector, error) {
	all := append([]string(nil), phrases...)
	if strings.TrimSpace(file) != "" {
		extra, err := LoadPhrases(file)
		if err != nil {
			return nil, err
		}
		all = append(all, extra...)
	}
	return NewDetector(all), nil
}
