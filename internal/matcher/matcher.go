// Package matcher recognizes tags on a single line of text and extracts
// the annotation they carry.
//
// Extraction is a sequence of greedy regular expression cuts applied to the
// text that follows the tag marker:
//
//	// TODO(alice): fix this */
//	       ^^^^^^^ description "alice"
//	               ^^^^^^^^^ message " fix this"
//
// Both the description and the colon cuts are greedy, so on a line with
// several colons the message is whatever follows the last one.
package matcher

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/nao1215/todolint/internal/model"
	"github.com/nao1215/todolint/internal/style"
)

var (
	// ErrInvalidRegex is returned by Compile when a tag regex does not compile.
	ErrInvalidRegex = errors.New("invalid tag regex")

	// ErrEmptyRegex is returned by Compile when a tag has no regex.
	ErrEmptyRegex = errors.New("tag regex is empty")
)

var (
	descriptionPattern = regexp.MustCompile(`^.*\((.*)\).*:`)
	colonPattern       = regexp.MustCompile(`^.*:`)
	terminatorPattern  = regexp.MustCompile(`\s*\*/.*$`)
)

// Tag is a compiled TagDefinition.
type Tag struct {
	// Name is the tag's unique key.
	Name string
	// Label is the display label.
	Label string
	// Style is the configured style list.
	Style []string
	// WarnEligible marks tags whose matches count toward the warn limit.
	WarnEligible bool

	regex    *regexp.Regexp
	styleErr error
}

// StyleError reports a tag whose style list names an unknown style.
type StyleError struct {
	Tag   string
	Style string
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("Style %q is not valid. Tag %q skipped.", e.Style, e.Tag)
}

// Unwrap returns style.ErrUnknownStyle.
func (e *StyleError) Unwrap() error {
	return style.ErrUnknownStyle
}

// Compile compiles def. Style names are validated here; a tag with an
// unknown style still compiles, but StyleErr reports the problem and every
// match of the tag must be discarded.
func Compile(def model.TagDefinition, warnEligible bool) (*Tag, error) {
	if def.Regex == "" {
		return nil, fmt.Errorf("%w: tag %q", ErrEmptyRegex, def.Name)
	}
	re, err := regexp.Compile(def.Regex)
	if err != nil {
		return nil, fmt.Errorf("%w: tag %q: %v", ErrInvalidRegex, def.Name, err)
	}
	tag := &Tag{
		Name:         def.Name,
		Label:        def.DisplayLabel(),
		Style:        def.Style,
		WarnEligible: warnEligible,
		regex:        re,
	}
	for _, name := range def.Style {
		if !style.Known(name) {
			tag.styleErr = &StyleError{Tag: def.Name, Style: name}
			break
		}
	}
	return tag, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// static tag tables.
func MustCompile(def model.TagDefinition, warnEligible bool) *Tag {
	t, err := Compile(def, warnEligible)
	if err != nil {
		panic(err)
	}
	return t
}

// StyleErr returns a *StyleError when the tag names an unknown style.
func (t *Tag) StyleErr() error {
	return t.styleErr
}

// Match tests line against tag and returns the extracted annotation.
// The returned annotation has no line number; the caller sets it.
func Match(line string, tag *Tag) (model.Annotation, bool) {
	loc := tag.regex.FindStringIndex(line)
	if loc == nil {
		return model.Annotation{}, false
	}
	description, message := Extract(line[loc[1]:])
	return model.Annotation{
		Tag:         tag.Name,
		Label:       tag.Label,
		Description: description,
		Message:     message,
		Style:       tag.Style,
	}, true
}

// Extract splits the text following a tag marker into its parenthetical
// description and message.
func Extract(tail string) (description, message string) {
	if m := descriptionPattern.FindStringSubmatchIndex(tail); m != nil {
		description = tail[m[2]:m[3]]
		tail = tail[m[1]:]
	}
	if m := colonPattern.FindStringIndex(tail); m != nil {
		tail = tail[m[1]:]
	}
	if m := terminatorPattern.FindStringIndex(tail); m != nil {
		tail = tail[:m[0]]
	}
	return description, tail
}
