/*
PURPOSE:
  Defines the core data structures used throughout sitecheck.
  These models describe the project's JSON documents and the
  per-stage check records written to reports.

REQUIREMENTS:
  User-specified:
  - Results rows, links, site metadata, media entries and preference cases.
  - Enumerated domains for dataset, model, method and winner.

  Implementation-discovered:
  - Need JSON tags matching the on-disk keys exactly (key sets are checked
    against these tags).
  - Need validate tags so field rules live next to the fields they guard.
  - Pointer fields distinguish "absent, null or wrong type" from zero values.

ARCHITECTURE INTEGRATION:
  - Used by: internal/contract, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Every json tag on a document struct is a required key.

USAGE:
  var row model.ResultRow
  keys := model.KeysOf(row)

SELF-HEALING INSTRUCTIONS:
  - If a document gains a key, add the field here; the key-set check picks
    it up from the json tag automatically.

RELATED FILES:
  - internal/contract/json.go
  - internal/output/csv.go

MAINTENANCE:
  - Update when the site's data contract changes.
*/

package model

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Document paths relative to the project root.
const (
	ResultsPath         = "data/results_main.json"
	LinksPath           = "data/links.json"
	SiteMetaPath        = "data/site_meta.json"
	MethodMediaPath     = "data/method_media.json"
	PreferenceCasesPath = "data/preference_cases.json"
	PreferenceMediaPath = "data/preference_media.json"
	IndexPath           = "index.html"
)

// PreferenceCaseCount is the exact number of duels the page shows.
const PreferenceCaseCount = 6

// ResultRow is one row of data/results_main.json.
type ResultRow struct {
	ExperimentID any      `json:"experiment_id"`
	Dataset      string   `json:"dataset" validate:"oneof=ultrafeedback multipref"`
	Model        string   `json:"model" validate:"oneof=mistral llama"`
	Method       string   `json:"method" validate:"oneof=dpo re_dpo ipo re_ipo simpo re_simpo cpo re_cpo"`
	LC           *float64 `json:"lc" validate:"required"`
	WR           *float64 `json:"wr" validate:"required"`
	Source       *string  `json:"source" validate:"required"`
}

// LinksDocument is data/links.json.
type LinksDocument struct {
	PaperURL string `json:"paper_url" validate:"nonblank"`
	CodeURL  string `json:"code_url" validate:"nonblank"`
}

// SiteMetaDocument is data/site_meta.json.
type SiteMetaDocument struct {
	ProjectName    string   `json:"project_name" validate:"nonblank"`
	Tagline        string   `json:"tagline" validate:"nonblank"`
	Conference     string   `json:"conference" validate:"nonblank"`
	Year           *int     `json:"year" validate:"required"`
	License        string   `json:"license" validate:"nonblank"`
	PaperBadgeText string   `json:"paper_badge_text" validate:"nonblank"`
	Authors        []string `json:"authors" validate:"required,min=1,dive,nonblank"`
	Affiliations   []string `json:"affiliations" validate:"required,min=1,dive,nonblank"`
}

// MediaEntry references one rendered asset set. It is the value type of both
// data/method_media.json and data/preference_media.json.
type MediaEntry struct {
	GIF        string `json:"gif" validate:"nonblank,asset"`
	MP4        string `json:"mp4" validate:"nonblank,asset"`
	WebM       string `json:"webm" validate:"nonblank,asset"`
	Poster     string `json:"poster" validate:"nonblank,asset"`
	Alt        string `json:"alt" validate:"nonblank"`
	DurationMS *int   `json:"duration_ms" validate:"required,gt=0"`
}

// PreferenceCase is one entry of data/preference_cases.json.
type PreferenceCase struct {
	CaseID           string `json:"case_id" validate:"nonblank"`
	Phase            string `json:"phase" validate:"nonblank"`
	Badge            string `json:"badge" validate:"nonblank"`
	Prompt           string `json:"prompt" validate:"nonblank"`
	LeftLabel        string `json:"left_label" validate:"nonblank"`
	RightLabel       string `json:"right_label" validate:"nonblank"`
	LeftText         string `json:"left_text" validate:"nonblank"`
	RightText        string `json:"right_text" validate:"nonblank"`
	Winner           string `json:"winner" validate:"oneof=left right tie"`
	ReasonShort      string `json:"reason_short" validate:"nonblank"`
	ConfidenceSignal string `json:"confidence_signal" validate:"nonblank"`
}

// KeysOf returns the sorted json keys declared by a document struct.
func KeysOf(doc any) []string {
	t := reflect.TypeOf(doc)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// RawObject is a JSON object whose values are decoded lazily.
type RawObject map[string]json.RawMessage

// Keys returns the object's keys in sorted order.
func (o RawObject) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Check statuses recorded in reports.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// CheckResult represents the outcome of a single check stage.
type CheckResult struct {
	Check     string        `json:"check"`
	Root      string        `json:"root"`
	Status    string        `json:"status"`
	Document  string        `json:"document,omitempty"`
	Message   string        `json:"message,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
