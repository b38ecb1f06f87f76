package contract

import (
	"bytes"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/daryltucker/sitecheck/internal/model"
)

// pageScan is what one pass over index.html's tags collects.
type pageScan struct {
	titleOpen   bool
	titleClosed bool
	// imagesWithoutAlt holds the src of every img lacking non-empty alt text.
	imagesWithoutAlt []string
	// refs holds every href and src attribute value in document order.
	refs []string
}

// HTMLAndLinks checks index.html for a title, alt text on every image and
// local href/src references that resolve to files under the project root.
func (c *Checker) HTMLAndLinks() error {
	doc := model.IndexPath

	raw, err := c.readDocument(doc)
	if err != nil {
		return err
	}
	scan, err := scanPage(raw)
	if err != nil {
		return violation(KindMalformed, doc, "", "cannot parse %s: %v", doc, err)
	}

	if !scan.titleOpen || !scan.titleClosed {
		return violation(KindContent, doc, "title", "%s missing <title>", doc)
	}
	if len(scan.imagesWithoutAlt) > 0 {
		return violation(KindContent, doc, "alt", "images missing alt text: [%s]", strings.Join(scan.imagesWithoutAlt, ", "))
	}
	for _, ref := range scan.refs {
		target, local := localTarget(ref)
		if !local {
			continue
		}
		if !c.exists(target) {
			return violation(KindReference, doc, ref, "broken local reference in %s: %s", doc, ref)
		}
	}
	return nil
}

// scanPage walks start tags with a streaming tokenizer.
func scanPage(raw []byte) (*pageScan, error) {
	scan := &pageScan{}
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return scan, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			scan.visit(tok)
		case html.EndTagToken:
			if tok := z.Token(); tok.DataAtom == atom.Title {
				scan.titleClosed = true
			}
		}
	}
}

func (s *pageScan) visit(tok html.Token) {
	if tok.DataAtom == atom.Title {
		s.titleOpen = true
	}

	var (
		src    = "<unknown>"
		hasAlt bool
	)
	for _, a := range tok.Attr {
		switch a.Key {
		case "href":
			s.refs = append(s.refs, a.Val)
		case "src":
			s.refs = append(s.refs, a.Val)
			src = a.Val
		case "alt":
			hasAlt = strings.TrimSpace(a.Val) != ""
		}
	}
	if tok.DataAtom == atom.Img && !hasAlt {
		s.imagesWithoutAlt = append(s.imagesWithoutAlt, src)
	}
}

// localTarget returns the root-relative file a reference points at, and
// false for references that leave the site: fragments, absolute and
// protocol-relative URLs, and any scheme such as mailto: or javascript:.
func localTarget(ref string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return "", false
	}

	target, _, _ := strings.Cut(ref, "?")
	target, _, _ = strings.Cut(target, "#")
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	return target, true
}

// cleanRel turns a site path into an io/fs name relative to the root.
// A leading slash means the site root; ".." segments that climb out of the
// root are kept so fs.ValidPath rejects them.
func cleanRel(p string) string {
	p = strings.TrimLeft(strings.TrimSpace(p), "/")
	return path.Clean(p)
}
