package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/nominate-go/internal/autosave"
	"github.com/linskybing/nominate-go/internal/domain/category"
	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestDraftOpen_PrefillsSavedDraft(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	cfg := obstetricianConfig()
	saved := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	m.form.EXPECT().GetByID(gomock.Any(), cfg.ID).Return(storedConfig(cfg), nil)
	m.draft.EXPECT().Get(gomock.Any(), uint(7), cfg.ID).Return(&nomination.Draft{
		UserID:      7,
		CategoryID:  cfg.ID,
		Responses:   datatypes.NewJSONType(nomination.Responses{"q1": nomination.Text("Dr. A")}),
		LastSavedAt: saved,
	}, nil)

	view, err := svc.Draft.Open(context.Background(), 7, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, nomination.Responses{"q1": nomination.Text("Dr. A")}, view.Responses)
	require.NotNil(t, view.LastSavedAt)
	assert.True(t, saved.Equal(*view.LastSavedAt))
	assert.Equal(t, string(autosave.StateIdle), view.State)
	assert.False(t, view.Dirty)
}

func TestDraftOpen_NoDraftYet(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	cfg := obstetricianConfig()

	m.form.EXPECT().GetByID(gomock.Any(), cfg.ID).Return(storedConfig(cfg), nil)
	m.draft.EXPECT().Get(gomock.Any(), uint(7), cfg.ID).Return(nil, gorm.ErrRecordNotFound)

	view, err := svc.Draft.Open(context.Background(), 7, cfg.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Responses)
	assert.Nil(t, view.LastSavedAt)
}

func TestDraftOpen_LoadFailure(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	cfg := obstetricianConfig()

	m.form.EXPECT().GetByID(gomock.Any(), cfg.ID).Return(storedConfig(cfg), nil)
	m.draft.EXPECT().Get(gomock.Any(), uint(7), cfg.ID).Return(nil, errors.New("timeout"))

	_, err := svc.Draft.Open(context.Background(), 7, cfg.ID)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}

func TestDraftEdit_PendingUntilLeave(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	cfg := obstetricianConfig()

	m.form.EXPECT().GetByID(gomock.Any(), cfg.ID).Return(storedConfig(cfg), nil)

	view, err := svc.Draft.Edit(context.Background(), 7, cfg.ID, nomination.Responses{"q1": nomination.Text("Dr. B")})
	require.NoError(t, err)
	assert.Equal(t, string(autosave.StatePendingSave), view.State)
	assert.True(t, view.Dirty)

	svc.Draft.Leave(7, cfg.ID)
	assert.Equal(t, string(autosave.StateIdle), svc.Draft.Status(7, cfg.ID).State)
}

func TestDraftEdit_UnknownCategory(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	m.form.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Draft.Edit(context.Background(), 7, "missing", nomination.Responses{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSaveDraft_WritesRow(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	at := time.Date(2024, 5, 1, 9, 0, 2, 0, time.UTC)

	m.draft.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *nomination.Draft) error {
		assert.Equal(t, uint(7), d.UserID)
		assert.Equal(t, "cat", d.CategoryID)
		assert.Equal(t, at, d.LastSavedAt)
		assert.Equal(t, nomination.Text("x"), d.Responses.Data()["q1"])
		return nil
	})

	err := svc.Draft.SaveDraft(context.Background(), autosave.Key{UserID: 7, CategoryID: "cat"}, nomination.Responses{"q1": nomination.Text("x")}, at)
	assert.NoError(t, err)
}
