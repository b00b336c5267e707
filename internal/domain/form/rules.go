package form

import (
	"strings"
	"sync"
	"time"
)

const (
	MsgRequired       = "This field is required."
	MsgSelectAtLeast1 = "Please select at least one option."
)

type RuleKind string

const (
	RuleNonEmptyText      RuleKind = "non_empty_text"
	RuleNonEmptySelection RuleKind = "non_empty_selection"
)

type Rule struct {
	QuestionID string
	Kind       RuleKind
	Message    string
}

// Answers is the view of a response map the rules need. The nomination
// package's response map satisfies it.
type Answers interface {
	TextOf(questionID string) (string, bool)
	ListOf(questionID string) ([]string, bool)
}

// RuleSet holds one rule per required non-file question of a FormConfig.
type RuleSet struct {
	ConfigID string
	Rules    []Rule
}

// DeriveRules builds the rule set for c. FILE_UPLOAD questions are skipped;
// their required-ness is checked against staged files at submit time.
func DeriveRules(c *FormConfig) RuleSet {
	rs := RuleSet{ConfigID: c.ID}
	for _, s := range c.Sections {
		for _, q := range s.Questions {
			if !q.Required || q.Type == QuestionFileUpload {
				continue
			}
			if q.Type == QuestionCheckbox {
				rs.Rules = append(rs.Rules, Rule{QuestionID: q.ID, Kind: RuleNonEmptySelection, Message: MsgSelectAtLeast1})
				continue
			}
			rs.Rules = append(rs.Rules, Rule{QuestionID: q.ID, Kind: RuleNonEmptyText, Message: MsgRequired})
		}
	}
	return rs
}

// Validate returns question id -> message for every failing rule, or nil.
func (rs RuleSet) Validate(answers Answers) map[string]string {
	var errs map[string]string
	for _, r := range rs.Rules {
		if r.passes(answers) {
			continue
		}
		if errs == nil {
			errs = make(map[string]string)
		}
		errs[r.QuestionID] = r.Message
	}
	return errs
}

func (r Rule) passes(answers Answers) bool {
	switch r.Kind {
	case RuleNonEmptySelection:
		list, ok := answers.ListOf(r.QuestionID)
		return ok && len(list) > 0
	default:
		text, ok := answers.TextOf(r.QuestionID)
		return ok && strings.TrimSpace(text) != ""
	}
}

// RequiredFiles lists the required FILE_UPLOAD questions of c.
func RequiredFiles(c *FormConfig) []Question {
	var out []Question
	for _, s := range c.Sections {
		for _, q := range s.Questions {
			if q.Type == QuestionFileUpload && q.Required {
				out = append(out, q)
			}
		}
	}
	return out
}

// RuleCache memoizes rule sets per config id. An entry is only served while
// the stored config's version (its UpdatedAt) matches the cached one.
type RuleCache struct {
	mu      sync.RWMutex
	entries map[string]ruleCacheEntry
}

type ruleCacheEntry struct {
	version time.Time
	rules   RuleSet
}

func NewRuleCache() *RuleCache {
	return &RuleCache{entries: make(map[string]ruleCacheEntry)}
}

func (rc *RuleCache) Get(c *FormConfig, version time.Time) RuleSet {
	rc.mu.RLock()
	e, ok := rc.entries[c.ID]
	rc.mu.RUnlock()
	if ok && e.version.Equal(version) {
		return e.rules
	}

	rs := DeriveRules(c)
	rc.mu.Lock()
	rc.entries[c.ID] = ruleCacheEntry{version: version, rules: rs}
	rc.mu.Unlock()
	return rs
}

func (rc *RuleCache) Invalidate(configID string) {
	rc.mu.Lock()
	delete(rc.entries, configID)
	rc.mu.Unlock()
}
