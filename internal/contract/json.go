package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/daryltucker/sitecheck/internal/model"
)

// documents holds the raw JSON documents of one run.
type documents struct {
	results         json.RawMessage
	links           json.RawMessage
	meta            json.RawMessage
	methodMedia     json.RawMessage
	preferenceCases json.RawMessage
	preferenceMedia json.RawMessage
}

// JSONContracts checks every data document: exact key sets, typed fields,
// enumerated domains and cross-document references.
func (c *Checker) JSONContracts() error {
	docs, err := c.loadDocuments()
	if err != nil {
		return err
	}

	if err := c.checkResults(docs.results); err != nil {
		return err
	}
	if err := c.checkLinks(docs.links); err != nil {
		return err
	}
	if err := c.checkSiteMeta(docs.meta); err != nil {
		return err
	}
	if err := c.checkMethodMedia(docs.methodMedia); err != nil {
		return err
	}
	caseIDs, err := c.checkPreferenceCases(docs.preferenceCases)
	if err != nil {
		return err
	}
	return c.checkPreferenceMedia(docs.preferenceMedia, caseIDs)
}

func (c *Checker) loadDocuments() (*documents, error) {
	var docs documents
	targets := []struct {
		name string
		dst  *json.RawMessage
	}{
		{model.ResultsPath, &docs.results},
		{model.LinksPath, &docs.links},
		{model.SiteMetaPath, &docs.meta},
		{model.MethodMediaPath, &docs.methodMedia},
		{model.PreferenceCasesPath, &docs.preferenceCases},
		{model.PreferenceMediaPath, &docs.preferenceMedia},
	}
	for _, t := range targets {
		data, err := c.readDocument(t.name)
		if err != nil {
			return nil, err
		}
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, violation(KindMalformed, t.name, "", "invalid json %s: %v", t.name, err)
		}
		*t.dst = data
	}
	return &docs, nil
}

func (c *Checker) checkResults(raw json.RawMessage) error {
	doc := model.ResultsPath

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) == 0 {
		return violation(KindSchema, doc, "", "%s must be a non-empty list", doc)
	}

	want := model.KeysOf(model.ResultRow{})
	for idx, rawRow := range rows {
		loc := fmt.Sprintf("row %d", idx)
		if err := checkKeys(doc, loc, rawRow, want); err != nil {
			return err
		}
		var row model.ResultRow
		if err := c.decodeAndValidate(doc, loc, rawRow, &row); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkLinks(raw json.RawMessage) error {
	doc := model.LinksPath

	if err := checkKeys(doc, "", raw, model.KeysOf(model.LinksDocument{})); err != nil {
		return err
	}
	var links model.LinksDocument
	if err := c.decodeAndValidate(doc, "", raw, &links); err != nil {
		return err
	}

	values := map[string]string{
		"paper_url": links.PaperURL,
		"code_url":  links.CodeURL,
	}
	for _, key := range c.policy.Links.PinnedKeys() {
		want := c.policy.Links.Pinned[key]
		if values[key] != want {
			return violation(KindContent, doc, key, "%s %s must point to %s", doc, key, want)
		}
	}
	return nil
}

func (c *Checker) checkSiteMeta(raw json.RawMessage) error {
	doc := model.SiteMetaPath

	if err := checkKeys(doc, "", raw, model.KeysOf(model.SiteMetaDocument{})); err != nil {
		return err
	}
	var meta model.SiteMetaDocument
	return c.decodeAndValidate(doc, "", raw, &meta)
}

func (c *Checker) checkMethodMedia(raw json.RawMessage) error {
	doc := model.MethodMediaPath

	stems := append([]string(nil), c.policy.MethodMedia.Stems...)
	sort.Strings(stems)
	if err := checkKeys(doc, "", raw, stems); err != nil {
		return err
	}
	return c.checkMediaEntries(doc, raw)
}

func (c *Checker) checkPreferenceCases(raw json.RawMessage) (map[string]bool, error) {
	doc := model.PreferenceCasesPath

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, violation(KindSchema, doc, "", "%s must be a list", doc)
	}
	if len(entries) != model.PreferenceCaseCount {
		return nil, violation(KindSchema, doc, "",
			"%s must contain exactly %d cases, found %d", doc, model.PreferenceCaseCount, len(entries))
	}

	want := model.KeysOf(model.PreferenceCase{})
	seen := make(map[string]bool, len(entries))
	for idx, rawCase := range entries {
		loc := fmt.Sprintf("case %d", idx)
		if err := checkKeys(doc, loc, rawCase, want); err != nil {
			return nil, err
		}
		var pc model.PreferenceCase
		if err := c.decodeAndValidate(doc, loc, rawCase, &pc); err != nil {
			return nil, err
		}
		if seen[pc.CaseID] {
			return nil, violation(KindSchema, doc, "case_id", "%s %s: duplicate case_id %q", doc, loc, pc.CaseID)
		}
		seen[pc.CaseID] = true

		badge, ok := c.policy.PreferenceCases.PhaseBadges[pc.Phase]
		if !ok {
			return nil, violation(KindSchema, doc, "phase",
				"%s case %s: unknown phase %q (want one of [%s])", doc, pc.CaseID, pc.Phase, strings.Join(c.phases(), " "))
		}
		if pc.Badge != badge {
			return nil, violation(KindSchema, doc, "badge",
				"%s case %s: phase %s requires badge %q, got %q", doc, pc.CaseID, pc.Phase, badge, pc.Badge)
		}
	}
	return seen, nil
}

func (c *Checker) checkPreferenceMedia(raw json.RawMessage, caseIDs map[string]bool) error {
	doc := model.PreferenceMediaPath

	var media model.RawObject
	if err := json.Unmarshal(raw, &media); err != nil {
		return violation(KindSchema, doc, "", "%s must be an object keyed by case_id", doc)
	}

	var missing, extra []string
	for id := range caseIDs {
		if _, ok := media[id]; !ok {
			missing = append(missing, id)
		}
	}
	for _, id := range media.Keys() {
		if !caseIDs[id] {
			extra = append(extra, id)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		return violation(KindReference, doc, "",
			"%s case ids do not match %s%s", doc, model.PreferenceCasesPath, describeKeyDiff(missing, extra))
	}

	return c.checkMediaEntries(doc, raw)
}

// checkMediaEntries validates every value of a stem/case-id keyed media map.
func (c *Checker) checkMediaEntries(doc string, raw json.RawMessage) error {
	var media model.RawObject
	if err := json.Unmarshal(raw, &media); err != nil {
		return violation(KindSchema, doc, "", "%s must be an object", doc)
	}

	want := model.KeysOf(model.MediaEntry{})
	for _, key := range media.Keys() {
		loc := fmt.Sprintf("entry %s", key)
		if err := checkKeys(doc, loc, media[key], want); err != nil {
			return err
		}
		var entry model.MediaEntry
		if err := c.decodeAndValidate(doc, loc, media[key], &entry); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) phases() []string {
	phases := make([]string, 0, len(c.policy.PreferenceCases.PhaseBadges))
	for p := range c.policy.PreferenceCases.PhaseBadges {
		phases = append(phases, p)
	}
	sort.Strings(phases)
	return phases
}

// checkKeys enforces exact key-set equality on a JSON object.
func checkKeys(doc, loc string, raw json.RawMessage, want []string) error {
	var obj model.RawObject
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return violation(KindSchema, doc, "", "%s must be an object", where(doc, loc))
	}

	wantSet := make(map[string]bool, len(want))
	for _, k := range want {
		wantSet[k] = true
	}
	var missing, extra []string
	for _, k := range want {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, k := range obj.Keys() {
		if !wantSet[k] {
			extra = append(extra, k)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return violation(KindSchema, doc, "", "%s has wrong keys%s", where(doc, loc), describeKeyDiff(missing, extra))
}

// decodeAndValidate fills dst and applies its validate tags. Values of the
// wrong JSON type are decoded as zero values so the field rules report them
// in declaration order.
func (c *Checker) decodeAndValidate(doc, loc string, raw json.RawMessage, dst any) error {
	var obj model.RawObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return violation(KindMalformed, doc, "", "invalid json %s: %v", where(doc, loc), err)
	}
	coerced, err := json.Marshal(coerce(obj, reflect.TypeOf(dst).Elem()))
	if err != nil {
		return fmt.Errorf("re-encoding %s: %w", where(doc, loc), err)
	}
	if err := json.Unmarshal(coerced, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return violation(KindSchema, doc, typeErr.Field, "%s: %s has the wrong type", where(doc, loc), typeErr.Field)
		}
		return violation(KindMalformed, doc, "", "invalid json %s: %v", where(doc, loc), err)
	}

	err = c.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating %s: %w", where(doc, loc), err)
	}
	fe := fieldErrs[0]
	return violation(kindFor(fe), doc, fe.Field(), "%s: %s %s", where(doc, loc), fe.Field(), reason(fe))
}

// coerce replaces values whose JSON type cannot fill the matching field of t
// with null, and non-conforming list items with the item type's zero literal.
func coerce(obj model.RawObject, t reflect.Type) model.RawObject {
	out := make(model.RawObject, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		v, ok := out[name]
		if !ok {
			continue
		}
		if !conforms(f.Type, v) {
			out[name] = json.RawMessage("null")
			continue
		}
		if f.Type.Kind() == reflect.Slice {
			out[name] = coerceItems(f.Type.Elem(), v)
		}
	}
	return out
}

func coerceItems(elem reflect.Type, raw json.RawMessage) json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return raw
	}
	zero := json.RawMessage("null")
	if elem.Kind() == reflect.String {
		zero = json.RawMessage(`""`)
	}
	for i, item := range items {
		if !conforms(elem, item) || jsonKind(item) == 'n' {
			items[i] = zero
		}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return raw
	}
	return b
}

// conforms reports whether raw can decode into a value of type t. null
// always conforms; the field rules decide whether null is acceptable.
func conforms(t reflect.Type, raw json.RawMessage) bool {
	k := jsonKind(raw)
	if k == 'n' {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer:
		return conforms(t.Elem(), raw)
	case reflect.Interface:
		return true
	case reflect.String:
		return k == '"'
	case reflect.Float64:
		return k == '0'
	case reflect.Int:
		return k == '0' && !strings.ContainsAny(string(raw), ".eE")
	case reflect.Bool:
		return k == 't'
	case reflect.Slice:
		return k == '['
	case reflect.Struct, reflect.Map:
		return k == '{'
	}
	return false
}

// jsonKind classifies a JSON value by its first byte: 'n' null, 't' boolean,
// '0' number, '"' string, '[' array, '{' object.
func jsonKind(raw json.RawMessage) byte {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return 0
	}
	switch c := s[0]; {
	case c == 'n':
		return 'n'
	case c == 't' || c == 'f':
		return 't'
	case c == '-' || (c >= '0' && c <= '9'):
		return '0'
	default:
		return c
	}
}

func kindFor(fe validator.FieldError) Kind {
	if fe.Tag() == "asset" {
		return KindReference
	}
	return KindSchema
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "nonblank":
		if strings.HasSuffix(fe.Field(), "]") {
			return "must only contain non-empty strings"
		}
		return "must be a non-empty string"
	case "min":
		return "must be a non-empty list"
	case "gt":
		return "must be a positive integer"
	case "asset":
		return fmt.Sprintf("references missing file %q", fmt.Sprint(fe.Value()))
	case "required":
		t := fe.Type()
		switch t.Kind() {
		case reflect.Slice:
			return "must be a non-empty list"
		case reflect.Pointer:
			switch t.Elem().Kind() {
			case reflect.Float64:
				return "must be numeric"
			case reflect.Int:
				return "must be an integer"
			case reflect.String:
				return "must be a string"
			}
		}
		return "is required"
	}
	return fmt.Sprintf("failed %s rule", fe.Tag())
}

func where(doc, loc string) string {
	if loc == "" {
		return doc
	}
	return doc + " " + loc
}

func describeKeyDiff(missing, extra []string) string {
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "extra: "+strings.Join(extra, ", "))
	}
	return " (" + strings.Join(parts, "; ") + ")"
}
