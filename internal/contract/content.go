package contract

import (
	"strings"

	"github.com/daryltucker/sitecheck/internal/model"
)

// ContentContract checks index.html against the policy's literal tokens:
// navigation anchors, forbidden tokens, required snippets and hero labels,
// in that order.
func (c *Checker) ContentContract() error {
	doc := model.IndexPath

	raw, err := c.readDocument(doc)
	if err != nil {
		return err
	}
	page := string(raw)
	rules := c.policy.HTML

	for _, anchor := range rules.RequiredNav {
		if !strings.Contains(page, `href="`+anchor+`"`) {
			return violation(KindContent, doc, anchor, "missing nav anchor %s", anchor)
		}
	}
	for _, token := range rules.ForbiddenTokens {
		if strings.Contains(page, token) {
			return violation(KindContent, doc, token, "forbidden content token found: %s", token)
		}
	}
	for _, snippet := range rules.RequiredSnippets {
		if !strings.Contains(page, snippet) {
			return violation(KindContent, doc, snippet, "missing required content snippet: %s", snippet)
		}
	}
	for _, label := range rules.HeroLabels {
		if !strings.Contains(page, label) {
			return violation(KindContent, doc, label, "hero section must expose %s text buttons", heroNames(rules.HeroLabels))
		}
	}
	return nil
}

// heroNames renders labels like ">Paper<" as "Paper/Code/Citation".
func heroNames(labels []string) string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = strings.Trim(l, "<>")
	}
	return strings.Join(names, "/")
}
