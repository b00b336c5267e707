package form

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionParagraph      QuestionType = "PARAGRAPH"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionCheckbox       QuestionType = "CHECKBOX"
	QuestionFileUpload     QuestionType = "FILE_UPLOAD"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionParagraph, QuestionMultipleChoice, QuestionCheckbox, QuestionFileUpload:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an options list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionCheckbox
}

type Question struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
}

type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// FormConfig is the admin-defined schema of one award category. Its ID is
// the slug of CategoryName.
type FormConfig struct {
	ID           string    `json:"id"`
	SegmentName  string    `json:"segmentName"`
	CategoryName string    `json:"categoryName"`
	Description  string    `json:"description"`
	Sections     []Section `json:"sections"`
}

// HasData reports whether any sections have been configured.
func (c *FormConfig) HasData() bool {
	return len(c.Sections) > 0
}

// Question looks a question up by id across all sections.
func (c *FormConfig) Question(id string) (Question, bool) {
	for _, s := range c.Sections {
		for _, q := range s.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// Questions returns every question in section order.
func (c *FormConfig) Questions() []Question {
	var out []Question
	for _, s := range c.Sections {
		out = append(out, s.Questions...)
	}
	return out
}

// FormConfiguration is the stored document for a FormConfig. Saves are
// upserts keyed by the slug; there is no versioning.
type FormConfiguration struct {
	ID           string                        `json:"id" gorm:"primaryKey;size:255"`
	SegmentName  string                        `json:"segmentName" gorm:"index"`
	CategoryName string                        `json:"categoryName"`
	Description  string                        `json:"description" gorm:"type:text"`
	Sections     datatypes.JSONType[[]Section] `json:"sections" gorm:"type:jsonb"`
	CreatedAt    time.Time                     `json:"createdAt"`
	UpdatedAt    time.Time                     `json:"updatedAt"`
}

func (FormConfiguration) TableName() string {
	return "form_configurations"
}

func FromConfig(c FormConfig) *FormConfiguration {
	return &FormConfiguration{
		ID:           c.ID,
		SegmentName:  c.SegmentName,
		CategoryName: c.CategoryName,
		Description:  c.Description,
		Sections:     datatypes.NewJSONType(c.Sections),
	}
}

func (m *FormConfiguration) Config() FormConfig {
	sections := m.Sections.Data()
	if sections == nil {
		sections = []Section{}
	}
	return FormConfig{
		ID:           m.ID,
		SegmentName:  m.SegmentName,
		CategoryName: m.CategoryName,
		Description:  m.Description,
		Sections:     sections,
	}
}
