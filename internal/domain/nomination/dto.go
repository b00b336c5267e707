package nomination

import "time"

type SaveDraftInput struct {
	Responses Responses `json:"responses" binding:"required"`
}

type UpdateStatusInput struct {
	Status ReviewStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

type DraftView struct {
	CategoryID  string     `json:"categoryId"`
	Responses   Responses  `json:"responses,omitempty"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
	State       string     `json:"state"`
	Dirty       bool       `json:"dirty"`
	LastError   string     `json:"lastError,omitempty"`
}

type SubmissionDetail struct {
	Submission *Submission      `json:"submission"`
	Answers    []ResolvedAnswer `json:"answers"`
}
