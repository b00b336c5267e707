package form

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answers struct {
	text map[string]string
	list map[string][]string
}

func (a answers) TextOf(id string) (string, bool) {
	v, ok := a.text[id]
	return v, ok
}

func (a answers) ListOf(id string) ([]string, bool) {
	v, ok := a.list[id]
	return v, ok
}

func TestDeriveRules(t *testing.T) {
	cfg := validConfig()
	cfg.Sections[0].Questions = append(cfg.Sections[0].Questions,
		Question{ID: "q4", Title: "Optional", Type: QuestionParagraph},
		Question{ID: "q5", Title: "Pick", Type: QuestionMultipleChoice, Required: true, Options: []string{"x", "y"}},
	)

	rs := DeriveRules(&cfg)
	assert.Equal(t, cfg.ID, rs.ConfigID)
	require.Len(t, rs.Rules, 3)
	assert.Equal(t, Rule{QuestionID: "q1", Kind: RuleNonEmptyText, Message: MsgRequired}, rs.Rules[0])
	assert.Equal(t, Rule{QuestionID: "q2", Kind: RuleNonEmptySelection, Message: MsgSelectAtLeast1}, rs.Rules[1])
	assert.Equal(t, Rule{QuestionID: "q5", Kind: RuleNonEmptyText, Message: MsgRequired}, rs.Rules[2])
}

func TestRuleSet_Validate(t *testing.T) {
	cfg := validConfig()
	rs := DeriveRules(&cfg)

	errs := rs.Validate(answers{
		text: map[string]string{"q1": "   "},
		list: map[string][]string{"q2": {}},
	})
	assert.Equal(t, map[string]string{"q1": MsgRequired, "q2": MsgSelectAtLeast1}, errs)

	errs = rs.Validate(answers{})
	assert.Len(t, errs, 2)

	errs = rs.Validate(answers{
		text: map[string]string{"q1": "Dr. Singh"},
		list: map[string][]string{"q2": {"A"}},
	})
	assert.Nil(t, errs)
}

func TestRequiredCheckboxNeedsSelection(t *testing.T) {
	cfg := validConfig()
	rs := DeriveRules(&cfg)
	base := map[string]string{"q1": "x"}

	for n := 0; n <= 3; n++ {
		sel := strings.Split(strings.Repeat("A,", n), ",")[:n]
		errs := rs.Validate(answers{text: base, list: map[string][]string{"q2": sel}})
		if n == 0 {
			assert.Contains(t, errs, "q2")
		} else {
			assert.NotContains(t, errs, "q2")
		}
	}
}

func TestRequiredFiles(t *testing.T) {
	cfg := validConfig()
	cfg.Sections[0].Questions = append(cfg.Sections[0].Questions,
		Question{ID: "q9", Title: "Optional letter", Type: QuestionFileUpload})

	files := RequiredFiles(&cfg)
	require.Len(t, files, 1)
	assert.Equal(t, "q3", files[0].ID)
}

func TestRuleCache_ReDerivesOnNewVersion(t *testing.T) {
	rc := NewRuleCache()
	cfg := validConfig()
	v1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Len(t, rc.Get(&cfg, v1).Rules, 2)

	changed := validConfig()
	changed.Sections[0].Questions[0].Required = false
	assert.Len(t, rc.Get(&changed, v1).Rules, 2, "same version is served from cache")
	assert.Len(t, rc.Get(&changed, v1.Add(time.Second)).Rules, 1)

	rc.Invalidate(cfg.ID)
	assert.Len(t, rc.Get(&cfg, v1.Add(time.Second)).Rules, 2)
}
