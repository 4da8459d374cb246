package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/todolint/internal/model"
)

// File represents the structure of the .todolintrc configuration file.
//
//	{
//	  "root": ["src", "lib"],
//	  "tags": [
//	    {"name": "TODO", "regex": "TODO", "label": "✓ TODO", "style": ["yellow"]},
//	    {"name": "FIXME", "regex": "FIXME", "label": "✗ FIXME", "style": ["red", "bold"]}
//	  ],
//	  "ignore": ["node_modules/**", ".git/**"],
//	  "warn": {"limit": 10, "tags": ["FIXME"], "fail": true}
//	}
type File struct {
	// Root is the scan root or list of scan roots.
	Root Roots `json:"root,omitempty" yaml:"root,omitempty"`

	// Tags are the tag definitions, in the order they are tried on a line.
	Tags []model.TagDefinition `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Ignore are glob patterns of paths excluded from the scan.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Warn is the warn policy.
	Warn WarnSettings `json:"warn" yaml:"warn"`
}

// WarnSettings configures the warn threshold.
type WarnSettings struct {
	// Limit is the number of warn-eligible annotations tolerated.
	// Nil disables the threshold.
	Limit *int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// Tags lists the tag names counted toward Limit. Nil means every tag.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Message overrides the banner printed when Limit is exceeded.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Fail makes the process exit with status 1 when Limit is exceeded.
	Fail bool `json:"fail,omitempty" yaml:"fail,omitempty"`
}

// Roots is a list of scan roots that can be written either as a single
// string or as a list of strings.
type Roots []string

// UnmarshalYAML accepts a scalar string or a sequence of strings.
func (r *Roots) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			*r = nil
			return nil
		case "!!str":
			*r = Roots{node.Value}
			return nil
		}
	case yaml.SequenceNode:
		roots := make(Roots, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
				return fmt.Errorf("%w: %q", ErrInvalidRoot, item.Value)
			}
			roots = append(roots, item.Value)
		}
		*r = roots
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRoot, node.Value)
}

// UnmarshalJSON accepts a string or an array of strings.
func (r *Roots) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		*r = Roots{v}
		return nil
	case []any:
		roots := make(Roots, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("%w: %v", ErrInvalidRoot, item)
			}
			roots = append(roots, s)
		}
		*r = roots
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRoot, string(data))
}
