package nomination

import (
	"time"

	"github.com/linskybing/nominate-go/internal/domain/form"
	"gorm.io/datatypes"
)

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Draft holds in-progress answers, one per (user, category).
type Draft struct {
	UserID      uint                          `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	CategoryID  string                        `json:"categoryId" gorm:"primaryKey;size:255"`
	Responses   datatypes.JSONType[Responses] `json:"responses" gorm:"type:jsonb"`
	LastSavedAt time.Time                     `json:"lastSavedAt"`
}

func (Draft) TableName() string {
	return "drafts"
}

// Submission is immutable once created except for Status.
type Submission struct {
	ID          string                          `json:"id" gorm:"primaryKey;size:36"`
	UserID      uint                            `json:"userId" gorm:"index"`
	CategoryID  string                          `json:"categoryId" gorm:"index;size:255"`
	SubmittedAt time.Time                       `json:"submittedAt"`
	Responses   datatypes.JSONType[Responses]   `json:"responses" gorm:"type:jsonb"`
	Attachments datatypes.JSONType[Attachments] `json:"attachments" gorm:"type:jsonb"`
	Status      ReviewStatus                    `json:"status" gorm:"size:16;default:'pending'"`
}

func (Submission) TableName() string {
	return "submissions"
}

// EffectiveStatus treats a missing status as pending.
func (s *Submission) EffectiveStatus() ReviewStatus {
	if s.Status == "" {
		return StatusPending
	}
	return s.Status
}

// CategoryCount is one row of the per-category submission count query.
type CategoryCount struct {
	CategoryID string
	Count      int64
}

// ResolvedAnswer is an answer paired with the question it belongs to.
type ResolvedAnswer struct {
	QuestionID string            `json:"questionId"`
	Title      string            `json:"title"`
	Type       form.QuestionType `json:"type"`
	Answered   bool              `json:"answered"`
	Value      AnswerValue       `json:"value"`
}

// Resolve pairs a submission's answers with cfg's questions, in form order.
// File questions take their value from the attachment map.
func Resolve(cfg *form.FormConfig, responses Responses, attachments Attachments) []ResolvedAnswer {
	var out []ResolvedAnswer
	for _, q := range cfg.Questions() {
		ra := ResolvedAnswer{QuestionID: q.ID, Title: q.Title, Type: q.Type}
		if q.Type == form.QuestionFileUpload {
			if url, ok := attachments[q.ID]; ok {
				ra.Answered = true
				ra.Value = FileURL(url)
			}
		} else if v, ok := responses[q.ID]; ok {
			ra.Answered = true
			ra.Value = v
		}
		out = append(out, ra)
	}
	return out
}
