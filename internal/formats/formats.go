// Package formats holds the per-document-type structural rules that
// generated copy must follow.
package formats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sant0-9/copywriter/internal/document"
)

// CharLimit caps the length of one ad copy variant
type CharLimit struct {
	Variant string `yaml:"variant"`
	Max     int    `yaml:"max"`
	Count   int    `yaml:"count"`
}

// Rule is the block of constraints for one document type
type Rule struct {
	DocType    document.DocType `yaml:"doc_type"`
	Label      string           `yaml:"label"`
	MinWords   int              `yaml:"min_words"`
	MaxWords   int              `yaml:"max_words"`
	Paragraphs string           `yaml:"paragraphs"`
	Sections   []string         `yaml:"sections"`
	Limits     []CharLimit      `yaml:"char_limits"`
	Include    []string         `yaml:"include"`
	Exclude    []string         `yaml:"exclude"`

	Notes  string `yaml:"-"` // markdown body of a rule file
	Source string `yaml:"-"` // "builtin" or the file it was loaded from
}

// Validate checks the rule is internally consistent
func (r *Rule) Validate() error {
	if r.DocType == "" {
		return fmt.Errorf("rule has no doc_type")
	}
	if r.MinWords < 0 || r.MaxWords < 0 {
		return fmt.Errorf("%s: word counts must not be negative", r.DocType)
	}
	if r.MaxWords > 0 && r.MinWords > r.MaxWords {
		return fmt.Errorf("%s: min_words %d exceeds max_words %d", r.DocType, r.MinWords, r.MaxWords)
	}
	for _, l := range r.Limits {
		if l.Max <= 0 {
			return fmt.Errorf("%s: char limit for %q must be positive", r.DocType, l.Variant)
		}
	}
	if r.MinWords == 0 && len(r.Sections) == 0 && len(r.Limits) == 0 && strings.TrimSpace(r.Notes) == "" {
		return fmt.Errorf("%s: rule is empty", r.DocType)
	}
	return nil
}

// Title returns the label, falling back to the document type's menu name
func (r *Rule) Title() string {
	if r.Label != "" {
		return r.Label
	}
	return r.DocType.Title()
}

// Block renders the rule as the mandatory constraints text of a prompt
func (r *Rule) Block() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Format: %s\n", r.Title())

	switch {
	case r.MinWords > 0 && r.MaxWords > 0:
		fmt.Fprintf(&b, "- Length: %d-%d words. %d words is a hard floor: do not stop short of it.\n", r.MinWords, r.MaxWords, r.MinWords)
	case r.MinWords > 0:
		fmt.Fprintf(&b, "- Length: at least %d words. This is a hard floor, not a suggestion.\n", r.MinWords)
	case r.MaxWords > 0:
		fmt.Fprintf(&b, "- Length: no more than %d words.\n", r.MaxWords)
	}
	if r.Paragraphs != "" {
		fmt.Fprintf(&b, "- Paragraphs: %s\n", r.Paragraphs)
	}

	if len(r.Sections) > 0 {
		b.WriteString("\nStructure (in this order):\n")
		for i, s := range r.Sections {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}

	if len(r.Limits) > 0 {
		b.WriteString("\nCharacter limits (count spaces; never exceed):\n")
		for _, l := range r.Limits {
			if l.Count > 1 {
				fmt.Fprintf(&b, "- %s: max %d characters, write %d variants\n", l.Variant, l.Max, l.Count)
			} else {
				fmt.Fprintf(&b, "- %s: max %d characters\n", l.Variant, l.Max)
			}
		}
	}

	writeList(&b, "Always", r.Include)
	writeList(&b, "Never", r.Exclude)

	if notes := strings.TrimSpace(r.Notes); notes != "" {
		b.WriteString("\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// Table maps document types to rules. The general rule is the catch-all.
type Table struct {
	rules map[document.DocType]*Rule
}

// NewTable builds a table from rules. A general rule is required.
func NewTable(rules ...*Rule) (*Table, error) {
	t := &Table{rules: make(map[document.DocType]*Rule, len(rules))}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		t.rules[r.DocType] = r
	}
	if _, ok := t.rules[document.DocTypeGeneral]; !ok {
		return nil, fmt.Errorf("format table has no %q rule", document.DocTypeGeneral)
	}
	return t, nil
}

// Lookup returns the rule for a document type. Unknown types resolve to the
// general rule; this never fails.
func (t *Table) Lookup(docType document.DocType) *Rule {
	if r, ok := t.rules[docType]; ok {
		return r
	}
	return t.rules[document.DocTypeGeneral]
}

// Has reports whether the table has a dedicated rule for docType
func (t *Table) Has(docType document.DocType) bool {
	_, ok := t.rules[docType]
	return ok
}

// Types returns the document types with a rule, built-in types first in
// menu order, then any extra types sorted by name
func (t *Table) Types() []document.DocType {
	seen := make(map[document.DocType]bool)
	var types []document.DocType
	for _, dt := range document.DocTypes {
		if t.Has(dt) {
			types = append(types, dt)
			seen[dt] = true
		}
	}
	var extra []string
	for dt := range t.rules {
		if !seen[dt] {
			extra = append(extra, string(dt))
		}
	}
	sort.Strings(extra)
	for _, dt := range extra {
		types = append(types, document.DocType(dt))
	}
	return types
}

func (t *Table) clone() *Table {
	c := &Table{rules: make(map[document.DocType]*Rule, len(t.rules))}
	for k, v := range t.rules {
		c.rules[k] = v
	}
	return c
}
