package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/linskybing/nominate-go/pkg/apperr"
)

type AssistAction string

const (
	ActionSuggestPhrasing    AssistAction = "suggest_phrasing"
	ActionExpandBulletPoints AssistAction = "expand_bullet_points"
	ActionSummarize          AssistAction = "summarize"
)

type AssistRequest struct {
	Text    string       `json:"text" binding:"required"`
	Action  AssistAction `json:"action" binding:"required"`
	Context string       `json:"context"`
}

type AssistResponse struct {
	SuggestedText string `json:"suggestedText"`
}

var assistInstructions = map[AssistAction]string{
	ActionSuggestPhrasing:    "Improve the phrasing of the following text to make it more impactful, professional, and concise for a nomination application. Only provide the improved text.\nText to improve:",
	ActionExpandBulletPoints: "Expand the following bullet points into a detailed, well-structured paragraph suitable for a formal nomination application. Only provide the expanded paragraph.\nBullet points to expand:",
	ActionSummarize:          "Summarize the following text, making it more concise and impactful for a nomination application. Only provide the summarized text.\nText to summarize:",
}

var assistPrompt = template.Must(template.New("assist").Parse(`You are an AI assistant designed to help nominators write impactful and concise responses for award applications.
{{if .Context}}
Context provided: {{.Context}}
{{end}}
{{.Instruction}}
"""
{{.Text}}
"""

Your response should only contain the processed text, without any conversational filler or extra information.
`))

// TextAssistant rewrites free-text answers on request.
type TextAssistant struct {
	gen Generator
}

func NewTextAssistant(gen Generator) *TextAssistant {
	return &TextAssistant{gen: gen}
}

func (a *TextAssistant) Assist(ctx context.Context, req AssistRequest) (*AssistResponse, error) {
	const op = "assist nomination text"
	instruction, ok := assistInstructions[req.Action]
	if !ok {
		return nil, apperr.Validation(op, map[string]string{"action": fmt.Sprintf("unsupported action %q", req.Action)})
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.Validation(op, map[string]string{"text": "must not be empty"})
	}

	var prompt bytes.Buffer
	err := assistPrompt.Execute(&prompt, struct {
		Context, Instruction, Text string
	}{req.Context, instruction, req.Text})
	if err != nil {
		return nil, fmt.Errorf("%s: render prompt: %w", op, err)
	}

	out, err := a.gen.Generate(ctx, Request{Prompt: prompt.String()})
	if err != nil {
		return nil, apperr.GenerationFailed(op, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, apperr.GenerationFailed(op, ErrEmptyOutput)
	}
	return &AssistResponse{SuggestedText: out}, nil
}
