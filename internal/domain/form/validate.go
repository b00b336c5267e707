package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linskybing/nominate-go/pkg/apperr"
)

// SchemaValidationError names the first field path of a FormConfig that
// violates the schema.
type SchemaValidationError struct {
	Path   string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("invalid form config at %s: %s", e.Path, e.Reason)
}

func (e *SchemaValidationError) ErrorKind() apperr.Kind {
	return apperr.KindValidation
}

func invalid(path, format string, args ...any) *SchemaValidationError {
	return &SchemaValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks c against the schema and returns the first violation.
func (c *FormConfig) Validate() error {
	if strings.TrimSpace(c.CategoryName) == "" {
		return invalid("categoryName", "must not be empty")
	}
	if strings.TrimSpace(c.SegmentName) == "" {
		return invalid("segmentName", "must not be empty")
	}
	if c.ID != "" && c.ID != Slugify(c.CategoryName) {
		return invalid("id", "must equal %q, the slug of categoryName", Slugify(c.CategoryName))
	}
	if Slugify(c.CategoryName) == "" {
		return invalid("categoryName", "has no characters usable in an id")
	}
	if c.Sections == nil {
		return invalid("sections", "must be present")
	}

	sectionIDs := make(map[string]struct{}, len(c.Sections))
	for i, s := range c.Sections {
		path := fmt.Sprintf("sections[%d]", i)
		if s.ID == "" {
			return invalid(path+".id", "must not be empty")
		}
		if _, dup := sectionIDs[s.ID]; dup {
			return invalid(path+".id", "duplicate section id %q", s.ID)
		}
		sectionIDs[s.ID] = struct{}{}
		if strings.TrimSpace(s.Title) == "" {
			return invalid(path+".title", "must not be empty")
		}
		if err := validateQuestions(path, s.Questions); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestions(sectionPath string, questions []Question) error {
	if questions == nil {
		return invalid(sectionPath+".questions", "must be present")
	}
	ids := make(map[string]struct{}, len(questions))
	for j, q := range questions {
		path := fmt.Sprintf("%s.questions[%d]", sectionPath, j)
		if q.ID == "" {
			return invalid(path+".id", "must not be empty")
		}
		if _, dup := ids[q.ID]; dup {
			return invalid(path+".id", "duplicate question id %q", q.ID)
		}
		ids[q.ID] = struct{}{}
		if strings.TrimSpace(q.Title) == "" {
			return invalid(path+".title", "must not be empty")
		}
		if !q.Type.Valid() {
			return invalid(path+".type", "unknown question type %q", q.Type)
		}
		if q.Type.HasOptions() && len(q.Options) == 0 {
			return invalid(path+".options", "required for %s questions", q.Type)
		}
		if !q.Type.HasOptions() && len(q.Options) > 0 {
			return invalid(path+".options", "not allowed for %s questions", q.Type)
		}
	}
	return nil
}

// ParseFormConfig decodes admin-supplied JSON, fills in the slug id when it
// is missing and validates the result.
func ParseFormConfig(data []byte) (*FormConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var c FormConfig
	if err := dec.Decode(&c); err != nil {
		return nil, &SchemaValidationError{Path: "$", Reason: err.Error()}
	}
	if c.ID == "" {
		c.ID = Slugify(c.CategoryName)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
