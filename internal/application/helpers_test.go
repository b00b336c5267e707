package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/nominate-go/internal/ai"
	"github.com/linskybing/nominate-go/internal/autosave"
	"github.com/linskybing/nominate-go/internal/domain/category"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/internal/realtime"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/internal/repository/mock"
	"go.uber.org/zap"
)

type serviceMocks struct {
	form       *mock.MockFormRepo
	draft      *mock.MockDraftRepo
	submission *mock.MockSubmissionRepo
	audit      *mock.MockAuditRepo
	store      *fakeStore
	tx         *fakeTx
	hub        *realtime.Hub
}

func setupServices(t *testing.T, order category.Order) (*Services, *serviceMocks) {
	return setupServicesWithAutosave(t, order, autosave.Options{Window: time.Hour})
}

func setupServicesWithAutosave(t *testing.T, order category.Order, opts autosave.Options) (*Services, *serviceMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	m := &serviceMocks{
		form:       mock.NewMockFormRepo(ctrl),
		draft:      mock.NewMockDraftRepo(ctrl),
		submission: mock.NewMockSubmissionRepo(ctrl),
		audit:      mock.NewMockAuditRepo(ctrl),
		store:      &fakeStore{},
		tx:         &fakeTx{},
		hub:        realtime.NewHub(zap.NewNop()),
	}
	repos := &repository.Repos{
		Form:       m.form,
		Draft:      m.draft,
		Submission: m.submission,
		Audit:      m.audit,
		Tx:         m.tx,
	}
	svc := New(Deps{
		Repos:     repos,
		Store:     m.store,
		Generator: ai.Disabled(),
		Hub:       m.hub,
		Order:     order,
		Autosave:  opts,
		Logger:    zap.NewNop(),
	})
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc, m
}

var configVersion = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func storedConfig(cfg form.FormConfig) *form.FormConfiguration {
	stored := form.FromConfig(cfg)
	stored.UpdatedAt = configVersion
	return stored
}

// obstetricianConfig is a one-question form with an optional attachment.
func obstetricianConfig() form.FormConfig {
	return form.FormConfig{
		ID:           "obstetrician_of_the_year",
		SegmentName:  "Individual",
		CategoryName: "Obstetrician of the Year",
		Sections: []form.Section{{
			ID:    "s1",
			Title: "Nominee",
			Questions: []form.Question{
				{ID: "q1", Title: "Nominee name", Type: form.QuestionText, Required: true},
				{ID: "q2", Title: "Supporting letter", Type: form.QuestionFileUpload},
			},
		}},
	}
}

// fakeTx runs fn against the mocked repositories and records whether the
// transaction would have committed.
type fakeTx struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (f *fakeTx) Run(r *repository.Repos, fn func(*repository.Repos) error) error {
	err := fn(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.rollbacks++
	} else {
		f.commits++
	}
	return err
}

func (f *fakeTx) outcome() (commits, rollbacks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits, f.rollbacks
}

type fakeStore struct {
	mu      sync.Mutex
	err     error
	objects map[string]string
	// started, when set, is closed by the first Put; Put then blocks until
	// release is closed.
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *fakeStore) Put(ctx context.Context, objectName, contentType string, r io.Reader, size int64) (string, error) {
	if s.started != nil {
		s.once.Do(func() { close(s.started) })
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("size mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string]string)
	}
	s.objects[objectName] = contentType
	return "https://files.test/" + objectName, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func pdfFile(name string, body string) StagedFile {
	return StagedFile{
		Filename:    name,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(body))), nil
		},
	}
}
