package catalog

import (
	"fmt"
	"strings"

	"darna/internal/models"
)

type compiledRule struct {
	bucket  string
	include map[Locale][]string
	exclude map[Locale][]string
	parent  map[Locale][]string
}

// Classifier sorts service types into named buckets with a fixed rule table.
// It is immutable and safe for concurrent use.
type Classifier struct {
	rules []compiledRule
	index map[string]int
}

// NewClassifier compiles rules. Bucket names must be unique and every rule needs
// at least one include keyword.
func NewClassifier(rules []Rule) (*Classifier, error) {
	c := &Classifier{index: make(map[string]int, len(rules))}
	for _, r := range rules {
		if r.Bucket == "" {
			return nil, fmt.Errorf("catalog rule without bucket name")
		}
		if _, dup := c.index[r.Bucket]; dup {
			return nil, fmt.Errorf("duplicate catalog bucket %q", r.Bucket)
		}
		cr := compiledRule{
			bucket:  r.Bucket,
			include: compileKeywords(r.Include),
			exclude: compileKeywords(r.Exclude),
			parent:  compileKeywords(r.ParentInclude),
		}
		if len(cr.include) == 0 {
			return nil, fmt.Errorf("catalog bucket %q has no include keywords", r.Bucket)
		}
		c.index[r.Bucket] = len(c.rules)
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// MustDefault returns a classifier over DefaultRules.
func MustDefault() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

func compileKeywords(kw Keywords) map[Locale][]string {
	out := make(map[Locale][]string)
	for loc, words := range kw {
		for _, w := range words {
			if f := keyword(w); f != "" {
				out[loc] = append(out[loc], f)
			}
		}
	}
	return out
}

// Buckets returns the bucket names in rule order.
func (c *Classifier) Buckets() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.bucket
	}
	return names
}

// HasBucket reports whether name is a known bucket.
func (c *Classifier) HasBucket(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Matches reports whether st falls into bucket.
func (c *Classifier) Matches(bucket string, st models.ServiceType) bool {
	i, ok := c.index[bucket]
	if !ok {
		return false
	}
	return c.rules[i].matches(st)
}

// Tags returns every bucket st falls into, in rule order.
func (c *Classifier) Tags(st models.ServiceType) []string {
	var tags []string
	for _, r := range c.rules {
		if r.matches(st) {
			tags = append(tags, r.bucket)
		}
	}
	return tags
}

// Filter returns the records of bucket in input order, without duplicate ids.
func (c *Classifier) Filter(bucket string, records []models.ServiceType) []models.ServiceType {
	i, ok := c.index[bucket]
	if !ok {
		return nil
	}
	r := c.rules[i]
	seen := make(map[uint]bool)
	out := make([]models.ServiceType, 0)
	for _, st := range records {
		if seen[st.ID] || !r.matches(st) {
			continue
		}
		seen[st.ID] = true
		out = append(out, st)
	}
	return out
}

// Classify evaluates every rule once over records. Each bucket keeps input order
// and holds each id at most once. Buckets without records map to empty slices.
func (c *Classifier) Classify(records []models.ServiceType) map[string][]models.ServiceType {
	out := make(map[string][]models.ServiceType, len(c.rules))
	seen := make([]map[uint]bool, len(c.rules))
	for i, r := range c.rules {
		out[r.bucket] = make([]models.ServiceType, 0)
		seen[i] = make(map[uint]bool)
	}

	for _, st := range records {
		for i, r := range c.rules {
			if seen[i][st.ID] || !r.matches(st) {
				continue
			}
			seen[i][st.ID] = true
			out[r.bucket] = append(out[r.bucket], st)
		}
	}
	return out
}

func (r compiledRule) matches(st models.ServiceType) bool {
	if len(r.parent) > 0 {
		if st.Menage == nil || !r.parentMatches(*st.Menage) {
			return false
		}
	}
	included := false
	for _, loc := range Locales {
		folded := fold(st.Name(string(loc)))
		if folded == "" {
			continue
		}
		name := matchText(folded)
		// A negative keyword in any variant vetoes the record.
		if containsAny(name, r.exclude[loc]) {
			return false
		}
		if containsAny(name, r.include[loc]) {
			included = true
		}
	}
	return included
}

func (r compiledRule) parentMatches(m models.Menage) bool {
	for _, loc := range Locales {
		name := fold(m.Name(string(loc)))
		if name != "" && containsAny(matchText(name), r.parent[loc]) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
