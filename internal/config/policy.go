package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/sitecheck/internal/assets"
)

// Policy is the display-content half of the contract, edited each
// publication cycle.
type Policy struct {
	Links           LinksPolicy           `yaml:"links"`
	MethodMedia     MethodMediaPolicy     `yaml:"method_media"`
	PreferenceCases PreferenceCasesPolicy `yaml:"preference_cases"`
	HTML            HTMLPolicy            `yaml:"html"`
}

// LinksPolicy pins link values to exact URLs, keyed by links.json key.
type LinksPolicy struct {
	Pinned map[string]string `yaml:"pinned"`
}

// PinnedKeys returns the pinned keys in a stable order.
func (p LinksPolicy) PinnedKeys() []string {
	keys := make([]string, 0, len(p.Pinned))
	for k := range p.Pinned {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MethodMediaPolicy names the stems method_media.json must define.
type MethodMediaPolicy struct {
	Stems []string `yaml:"stems" validate:"required,min=1,dive,required"`
}

// PreferenceCasesPolicy maps each allowed phase to the badge it must carry.
type PreferenceCasesPolicy struct {
	PhaseBadges map[string]string `yaml:"phase_badges" validate:"required,min=1"`
}

// HTMLPolicy lists the literal tokens index.html is checked against.
type HTMLPolicy struct {
	RequiredNav      []string `yaml:"required_nav"`
	ForbiddenTokens  []string `yaml:"forbidden_tokens"`
	RequiredSnippets []string `yaml:"required_snippets"`
	HeroLabels       []string `yaml:"hero_labels"`
}

// LoadPolicy reads a policy file, or the embedded default when path is empty.
func LoadPolicy(path string) (*Policy, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		path = assets.DefaultPolicyName
		data, err = assets.DefaultPolicy()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read policy %s: %w", path, err)
	}
	return ParsePolicy(data, path)
}

// ParsePolicy decodes policy YAML. Unknown keys are rejected so a typo does
// not silently disable a check.
func ParsePolicy(data []byte, name string) (*Policy, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Policy
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse policy %s: %w", name, err)
	}
	if err := validator.New().Struct(&p); err != nil {
		return nil, fmt.Errorf("policy %s validation failed: %w", name, err)
	}
	return &p, nil
}
