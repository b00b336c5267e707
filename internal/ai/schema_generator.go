package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"google.golang.org/genai"
)

var formConfigPrompt = template.Must(template.New("form-config").Parse(`You are an expert at creating structured JSON schemas for dynamic web forms.

Based on the following natural language description, generate a complete JSON configuration schema for a dynamic award nomination form.

Strictly adhere to the output JSON schema provided. Ensure all string values for 'id' fields (for sections and questions) are unique, lowercase, and kebab-cased versions of their respective 'title' fields.

Interpret the natural language as follows:
- "short answer" or "name" implies a 'TEXT' type.
- "long answer", "description", or "essay" implies a 'PARAGRAPH' type.
- "select one", "choose an option", or a list of exclusive choices implies a 'MULTIPLE_CHOICE' type.
- "select all that apply" or a list of non-exclusive choices implies a 'CHECKBOX' type.
- "upload file", "attach document", "PDF upload", or similar implies a 'FILE_UPLOAD' type.
- Clearly stated sections should become top-level 'sections' in the output.
- Each question must have an 'id', 'title', 'type', and 'required' flag. 'options' are only for 'MULTIPLE_CHOICE' and 'CHECKBOX'.

Description: {{.Description}}
`))

var questionTypes = []string{
	string(form.QuestionText),
	string(form.QuestionParagraph),
	string(form.QuestionMultipleChoice),
	string(form.QuestionCheckbox),
	string(form.QuestionFileUpload),
}

// formConfigSchema mirrors form.FormConfig without the id, which the
// caller derives from categoryName.
var formConfigSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"segmentName":  {Type: genai.TypeString, Description: "The segment this award category belongs to (e.g., Individual, Organization)."},
		"categoryName": {Type: genai.TypeString, Description: "The name of the award category."},
		"description":  {Type: genai.TypeString, Description: "A brief description of the award category."},
		"sections": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":    {Type: genai.TypeString},
					"title": {Type: genai.TypeString},
					"questions": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"id":       {Type: genai.TypeString},
								"title":    {Type: genai.TypeString},
								"type":     {Type: genai.TypeString, Enum: questionTypes},
								"required": {Type: genai.TypeBoolean},
								"options":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							},
							Required: []string{"id", "title", "type", "required"},
						},
					},
				},
				Required: []string{"id", "title", "questions"},
			},
		},
	},
	Required: []string{"segmentName", "categoryName", "description", "sections"},
}

// SchemaGenerator turns a natural-language category description into a
// candidate FormConfig.
type SchemaGenerator struct {
	gen Generator
}

func NewSchemaGenerator(gen Generator) *SchemaGenerator {
	return &SchemaGenerator{gen: gen}
}

// Generate returns a validated candidate whose ID is left empty. Any
// failure to obtain a usable schema is a GenerationFailed error.
func (g *SchemaGenerator) Generate(ctx context.Context, description string) (*form.FormConfig, error) {
	const op = "generate form config"
	if strings.TrimSpace(description) == "" {
		return nil, apperr.Validation(op, map[string]string{"description": "must not be empty"})
	}

	var prompt bytes.Buffer
	if err := formConfigPrompt.Execute(&prompt, struct{ Description string }{description}); err != nil {
		return nil, fmt.Errorf("%s: render prompt: %w", op, err)
	}

	out, err := g.gen.Generate(ctx, Request{Prompt: prompt.String(), Schema: formConfigSchema})
	if err != nil {
		return nil, apperr.GenerationFailed(op, err)
	}

	var cfg form.FormConfig
	if err := json.Unmarshal([]byte(stripFences(out)), &cfg); err != nil {
		return nil, apperr.GenerationFailed(op, fmt.Errorf("decode model output: %w", err))
	}
	cfg.ID = ""
	for i := range cfg.Sections {
		if cfg.Sections[i].Questions == nil {
			cfg.Sections[i].Questions = []form.Question{}
		}
		for j := range cfg.Sections[i].Questions {
			q := &cfg.Sections[i].Questions[j]
			if !q.Type.HasOptions() {
				q.Options = nil
			}
		}
	}
	if cfg.Sections == nil {
		cfg.Sections = []form.Section{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperr.GenerationFailed(op, err)
	}
	return &cfg, nil
}

// stripFences removes a surrounding markdown code fence, which models
// sometimes add even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
