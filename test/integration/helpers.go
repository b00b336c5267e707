//go:build integration
// +build integration

package integration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/linskybing/nominate-go/internal/domain/form"
)

// MemoryStore keeps uploaded attachments in memory.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, objectName, _ string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[objectName] = data
	s.mu.Unlock()
	return "https://files.test/" + objectName, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// NomineeForm is a small config with one required answer and one
// required attachment.
func NomineeForm(categoryName string) form.FormConfig {
	return form.FormConfig{
		SegmentName:  "Individual",
		CategoryName: categoryName,
		Description:  "Integration test category",
		Sections: []form.Section{{
			ID:    "s1",
			Title: "Nominee",
			Questions: []form.Question{
				{ID: "q1", Title: "Nominee name", Type: form.QuestionText, Required: true},
				{ID: "q2", Title: "Specialties", Type: form.QuestionCheckbox, Options: []string{"Obstetrics", "Fetal medicine"}},
				{ID: "q3", Title: "CV", Type: form.QuestionFileUpload, Required: true},
			},
		}},
	}
}

// Eventually polls cond until it holds or timeout passes.
func Eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}
