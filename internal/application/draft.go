package application

import (
	"context"
	"errors"
	"time"

	"github.com/linskybing/nominate-go/internal/autosave"
	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DraftService persists drafts and owns the autosave sessions that write
// them.
type DraftService struct {
	Repos   *repository.Repos
	forms   *FormService
	manager *autosave.Manager
}

func NewDraftService(repos *repository.Repos, forms *FormService, opts autosave.Options, logger *zap.Logger) *DraftService {
	s := &DraftService{Repos: repos, forms: forms}
	s.manager = autosave.NewManager(s, opts, logger)
	return s
}

func (s *DraftService) LoadDraft(ctx context.Context, key autosave.Key) (*nomination.Draft, error) {
	d, err := s.Repos.Draft.Get(ctx, key.UserID, key.CategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("load draft", err)
	}
	return d, nil
}

func (s *DraftService) SaveDraft(ctx context.Context, key autosave.Key, responses nomination.Responses, at time.Time) error {
	err := s.Repos.Draft.Save(ctx, &nomination.Draft{
		UserID:      key.UserID,
		CategoryID:  key.CategoryID,
		Responses:   datatypes.NewJSONType(responses),
		LastSavedAt: at,
	})
	if err != nil {
		return apperr.Persistence("save draft", err)
	}
	return nil
}

// Open starts editing categoryID for userID and returns the pre-filled
// draft.
func (s *DraftService) Open(ctx context.Context, userID uint, categoryID string) (*nomination.DraftView, error) {
	if _, err := s.forms.load(ctx, categoryID); err != nil {
		return nil, err
	}
	snap, err := s.manager.Open(ctx, autosave.Key{UserID: userID, CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	return draftView(categoryID, snap.Responses, snap.Status), nil
}

// Edit records the full current answer map; the save is debounced.
func (s *DraftService) Edit(ctx context.Context, userID uint, categoryID string, responses nomination.Responses) (*nomination.DraftView, error) {
	if _, err := s.forms.load(ctx, categoryID); err != nil {
		return nil, err
	}
	st, err := s.manager.Edit(autosave.Key{UserID: userID, CategoryID: categoryID}, responses)
	if err != nil {
		return nil, err
	}
	return draftView(categoryID, nil, st), nil
}

func (s *DraftService) Status(userID uint, categoryID string) *nomination.DraftView {
	st, _ := s.manager.Status(autosave.Key{UserID: userID, CategoryID: categoryID})
	return draftView(categoryID, nil, st)
}

// Leave drops an unsaved pending edit, as navigating away does.
func (s *DraftService) Leave(userID uint, categoryID string) {
	s.manager.Close(autosave.Key{UserID: userID, CategoryID: categoryID})
}

// BeginSubmit holds autosave for the pair until EndSubmit. See
// autosave.Manager.BeginCommit.
func (s *DraftService) BeginSubmit(ctx context.Context, userID uint, categoryID string) error {
	return s.manager.BeginCommit(ctx, autosave.Key{UserID: userID, CategoryID: categoryID})
}

func (s *DraftService) EndSubmit(userID uint, categoryID string, committed bool) {
	s.manager.EndCommit(autosave.Key{UserID: userID, CategoryID: categoryID}, committed)
}

func (s *DraftService) Sweep(idle time.Duration) int {
	return s.manager.Sweep(idle)
}

func (s *DraftService) Shutdown(ctx context.Context) error {
	return s.manager.Shutdown(ctx)
}

func draftView(categoryID string, responses nomination.Responses, st autosave.Status) *nomination.DraftView {
	return &nomination.DraftView{
		CategoryID:  categoryID,
		Responses:   responses,
		LastSavedAt: st.LastSavedAt,
		State:       string(st.State),
		Dirty:       st.Dirty,
		LastError:   st.LastError,
	}
}
