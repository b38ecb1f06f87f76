// Package contract checks a project's data documents and index.html against
// the site's content contract. Each stage stops at the first violation.
package contract

import (
	"io/fs"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/daryltucker/sitecheck/internal/config"
)

// Source gives read-only access to files under the project root.
// Names are slash-separated and relative to the root, as in io/fs.
type Source interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
}

// Stage is one named check.
type Stage struct {
	Name string
	Run  func() error
}

// Stage names, in execution order.
const (
	StageJSONContracts   = "json_contracts"
	StageHTMLAndLinks    = "html_and_links"
	StageContentContract = "content_contract"
)

// Checker runs the contract stages against one project.
type Checker struct {
	src      Source
	policy   *config.Policy
	validate *validator.Validate
}

// New creates a Checker reading from src and enforcing policy.
func New(src Source, policy *config.Policy) *Checker {
	c := &Checker{src: src, policy: policy}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("nonblank", isNonBlank)
	_ = v.RegisterValidation("asset", c.assetExists)
	c.validate = v

	return c
}

// Stages returns the check stages in the order they must run.
func (c *Checker) Stages() []Stage {
	return []Stage{
		{Name: StageJSONContracts, Run: c.JSONContracts},
		{Name: StageHTMLAndLinks, Run: c.HTMLAndLinks},
		{Name: StageContentContract, Run: c.ContentContract},
	}
}

// Run executes every stage and returns the first violation.
func (c *Checker) Run() error {
	for _, s := range c.Stages() {
		if err := s.Run(); err != nil {
			return err
		}
	}
	return nil
}

func isNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func (c *Checker) assetExists(fl validator.FieldLevel) bool {
	return c.exists(fl.Field().String())
}

// exists reports whether a root-relative path names an existing file or
// directory. Paths escaping the root never exist.
func (c *Checker) exists(rel string) bool {
	name := cleanRel(rel)
	if !fs.ValidPath(name) {
		return false
	}
	_, err := c.src.Stat(name)
	return err == nil
}

func (c *Checker) readDocument(name string) ([]byte, error) {
	data, err := c.src.ReadFile(name)
	if err != nil {
		return nil, violation(KindMalformed, name, "", "cannot read %s: %v", name, err)
	}
	return data, nil
}
