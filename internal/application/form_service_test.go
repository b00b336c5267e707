package application

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/nominate-go/internal/domain/audit"
	"github.com/linskybing/nominate-go/internal/domain/category"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSaveJSON_UpsertsAndAudits(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	raw := []byte(`{
		"segmentName": "Individual",
		"categoryName": "Obstetrician of the Year",
		"description": "",
		"sections": [{"id": "s1", "title": "Nominee", "questions": [
			{"id": "q1", "title": "Name", "type": "TEXT", "required": true}
		]}]
	}`)

	m.form.EXPECT().GetByID(gomock.Any(), "obstetrician_of_the_year").Return(nil, gorm.ErrRecordNotFound)
	m.form.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, stored *form.FormConfiguration) error {
		assert.Equal(t, "obstetrician_of_the_year", stored.ID)
		assert.Len(t, stored.Sections.Data(), 1)
		return nil
	})
	m.audit.EXPECT().CreateAuditLog(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry *audit.AuditLog) error {
		assert.Equal(t, audit.ActionUpsertForm, entry.Action)
		assert.Nil(t, entry.OldData)
		assert.NotEmpty(t, entry.NewData)
		return nil
	})

	cfg, err := svc.Form.SaveJSON(context.Background(), reviewer, raw)
	require.NoError(t, err)
	assert.Equal(t, "obstetrician_of_the_year", cfg.ID)
}

func TestSaveJSON_InvalidConfigWritesNothing(t *testing.T) {
	svc, _ := setupServices(t, category.Order{})

	_, err := svc.Form.SaveJSON(context.Background(), reviewer, []byte(`{"segmentName":"A","categoryName":"B","sections":[{"id":"","title":"x","questions":[]}]}`))
	var sve *form.SchemaValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "sections[0].id", sve.Path)
}

func TestSave_UpsertFailure(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	cfg := obstetricianConfig()

	m.form.EXPECT().GetByID(gomock.Any(), cfg.ID).Return(storedConfig(cfg), nil)
	m.form.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := svc.Form.Save(context.Background(), reviewer, &cfg)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}

func TestSave_InvalidatesRules(t *testing.T) {
	svc, m := setupServices(t, category.Order{})
	ctx := context.Background()
	cfg := obstetricianConfig()

	m.form.EXPECT().GetByID(gomock.Any(), cfg.ID).Return(storedConfig(cfg), nil).Times(2)
	_, rules, err := svc.Form.Rules(ctx, cfg.ID)
	require.NoError(t, err)
	require.Len(t, rules.Rules, 1)

	relaxed := obstetricianConfig()
	relaxed.Sections[0].Questions[0].Required = false
	m.form.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	m.audit.EXPECT().CreateAuditLog(gomock.Any(), gomock.Any()).Return(nil)
	_, err = svc.Form.Save(ctx, reviewer, &relaxed)
	require.NoError(t, err)

	m.form.EXPECT().GetByID(gomock.Any(), cfg.ID).Return(storedConfig(relaxed), nil)
	_, rules, err = svc.Form.Rules(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Empty(t, rules.Rules)
}

func TestCategories_GroupsStoredConfigs(t *testing.T) {
	order := category.Order{Segments: []category.Segment{{Name: "Individual", Categories: []string{"Obstetrician of the Year"}}}}
	svc, m := setupServices(t, order)

	other := obstetricianConfig()
	other.ID, other.CategoryName, other.SegmentName = "volunteer", "Volunteer", "Community"
	m.form.EXPECT().List(gomock.Any()).Return([]form.FormConfiguration{*storedConfig(other), *storedConfig(obstetricianConfig())}, nil)

	groups, err := svc.Form.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Individual", groups[0].Name)
	assert.Equal(t, "Community", groups[1].Name)
}

func TestGenerate_NotConfigured(t *testing.T) {
	svc, _ := setupServices(t, category.Order{})

	_, err := svc.Form.Generate(context.Background(), "An award for midwives")
	assert.Equal(t, apperr.KindGenerationFailed, apperr.KindOf(err))
}
