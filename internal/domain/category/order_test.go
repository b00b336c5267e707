package category

import (
	"testing"

	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored(segment, name string) form.FormConfig {
	return form.FormConfig{
		ID:           form.Slugify(name),
		SegmentName:  segment,
		CategoryName: name,
		Sections: []form.Section{{
			ID: "s1", Title: "Main",
			Questions: []form.Question{{ID: "q1", Title: "Name", Type: form.QuestionText}},
		}},
	}
}

func TestStatusRows_FollowsOrder(t *testing.T) {
	order := Order{Segments: []Segment{{Name: "Individual", Categories: []string{"Cat B", "Cat A"}}}}
	configs := []form.FormConfig{stored("Individual", "Cat A"), stored("Individual", "Cat B")}

	rows := order.StatusRows(configs, map[string]int64{"cat_a": 3, "cat_b": 0})

	require.Len(t, rows, 2)
	assert.Equal(t, StatusRow{ID: "cat_b", SegmentName: "Individual", CategoryName: "Cat B", Status: StatusAdded, SubmissionCount: 0}, rows[0])
	assert.Equal(t, StatusRow{ID: "cat_a", SegmentName: "Individual", CategoryName: "Cat A", Status: StatusAdded, SubmissionCount: 3}, rows[1])
}

func TestStatusRows_PlaceholdersAndUnordered(t *testing.T) {
	order := Order{Segments: []Segment{
		{Name: "Organization", Categories: []string{"Hospital of the Year"}},
		{Name: "Individual", Categories: []string{"Obstetrician of the Year"}},
	}}
	empty := stored("Individual", "Obstetrician of the Year")
	empty.Sections = []form.Section{}
	configs := []form.FormConfig{
		stored("Extra", "Zeta Award"),
		empty,
		stored("Extra", "Alpha Award"),
	}

	rows := order.StatusRows(configs, map[string]int64{"alpha_award": 2})

	require.Len(t, rows, 4)
	assert.Equal(t, "hospital_of_the_year", rows[0].ID)
	assert.Equal(t, "Organization", rows[0].SegmentName)
	assert.Equal(t, StatusEmpty, rows[0].Status)
	assert.Equal(t, "obstetrician_of_the_year", rows[1].ID)
	assert.Equal(t, StatusEmpty, rows[1].Status)
	assert.Equal(t, "Alpha Award", rows[2].CategoryName)
	assert.Equal(t, int64(2), rows[2].SubmissionCount)
	assert.Equal(t, "Zeta Award", rows[3].CategoryName)
}

func TestGroupBySegment(t *testing.T) {
	order := Order{Segments: []Segment{
		{Name: "Organization", Categories: []string{"Hospital B", "Hospital A"}},
		{Name: "Individual", Categories: []string{"Doctor"}},
	}}
	configs := []form.FormConfig{
		stored("Individual", "Nurse"),
		stored("Organization", "Hospital A"),
		stored("", "Loose"),
		stored("Individual", "Doctor"),
		stored("Organization", "Hospital B"),
		stored("Community", "Volunteer"),
	}

	groups := order.GroupBySegment(configs)

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Organization", "Individual", "Community", "Uncategorized"}, names)

	categories := func(g SegmentGroup) []string {
		var out []string
		for _, c := range g.Configs {
			out = append(out, c.CategoryName)
		}
		return out
	}
	assert.Equal(t, []string{"Hospital B", "Hospital A"}, categories(groups[0]))
	assert.Equal(t, []string{"Doctor", "Nurse"}, categories(groups[1]))
	assert.Equal(t, []string{"Loose"}, categories(groups[3]))
}
