package model

import "strings"

// TagDefinition describes one annotation tag as it appears in the
// configuration file.
type TagDefinition struct {
	// Name is the unique key of the tag. It is the value listed in warn.tags.
	Name string `json:"name" yaml:"name"`

	// Regex is the regular expression that marks a line as carrying the tag.
	Regex string `json:"regex" yaml:"regex"`

	// Label is the display text printed in front of the message.
	// It defaults to Name when empty.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Style is the ordered list of style modifiers applied to the message,
	// e.g. ["bold", "yellow"].
	Style []string `json:"style,omitempty" yaml:"style,omitempty"`
}

// DisplayLabel returns Label, falling back to Name.
func (t TagDefinition) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Name
}

// DiscoveredFile is a file found while walking a scan root.
type DiscoveredFile struct {
	// Path is the absolute path used to open the file.
	Path string `json:"path"`

	// RelativePath is the path relative to the working directory the walk
	// was started from. Ignore patterns are matched against it.
	RelativePath string `json:"relative_path"`
}

// Annotation is one recognized tag occurrence on one line.
type Annotation struct {
	// Line is the 1-based line number.
	Line int `json:"line"`

	// Tag is the name of the tag that matched.
	Tag string `json:"tag"`

	// Label is the display label of the tag.
	Label string `json:"label"`

	// Description is the text found in parentheses after the tag,
	// e.g. "alice" in "TODO(alice): fix this". Empty when absent.
	Description string `json:"description,omitempty"`

	// Message is the free text after the tag with colons and a trailing
	// comment terminator removed.
	Message string `json:"message"`

	// Style is the style list of the tag, carried for the renderer.
	Style []string `json:"style,omitempty"`
}

// Text returns the display form " LABEL (description):message ".
func (a Annotation) Text() string {
	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(a.Label)
	if a.Description != "" {
		sb.WriteString(" (")
		sb.WriteString(a.Description)
		sb.WriteString(")")
	}
	sb.WriteString(":")
	sb.WriteString(a.Message)
	sb.WriteString(" ")
	return sb.String()
}
