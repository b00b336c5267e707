package category

import (
	"sort"

	"github.com/linskybing/nominate-go/internal/domain/form"
)

// Segment is one entry of the configured display order.
type Segment struct {
	Name       string   `yaml:"name" json:"name"`
	Categories []string `yaml:"categories" json:"categories"`
}

// Order is the admin-defined presentation order of segments and, per
// segment, of category names.
type Order struct {
	Segments []Segment `yaml:"segments" json:"segments"`
}

type Status string

const (
	StatusAdded Status = "Added"
	StatusEmpty Status = "Empty"
)

// StatusRow is one line of the admin status view.
type StatusRow struct {
	ID              string `json:"id"`
	SegmentName     string `json:"segmentName"`
	CategoryName    string `json:"categoryName"`
	Status          Status `json:"status"`
	SubmissionCount int64  `json:"submissionCount"`
}

// Arrange lays configs out in display order: each ordered category gets a
// row (a placeholder with no sections when it has no stored config), then
// configs absent from the order follow, sorted by category name.
func (o Order) Arrange(configs []form.FormConfig) []form.FormConfig {
	byName := make(map[string]form.FormConfig, len(configs))
	for _, c := range configs {
		byName[c.CategoryName] = c
	}

	out := make([]form.FormConfig, 0, len(configs))
	for _, seg := range o.Segments {
		for _, name := range seg.Categories {
			if c, ok := byName[name]; ok {
				out = append(out, c)
				delete(byName, name)
				continue
			}
			out = append(out, form.FormConfig{
				ID:           form.Slugify(name),
				SegmentName:  seg.Name,
				CategoryName: name,
				Sections:     []form.Section{},
			})
		}
	}

	rest := make([]form.FormConfig, 0, len(byName))
	for _, c := range byName {
		rest = append(rest, c)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].CategoryName < rest[j].CategoryName
	})
	return append(out, rest...)
}

// StatusRows arranges configs and attaches submission counts by category id.
func (o Order) StatusRows(configs []form.FormConfig, counts map[string]int64) []StatusRow {
	arranged := o.Arrange(configs)
	rows := make([]StatusRow, 0, len(arranged))
	for i := range arranged {
		c := &arranged[i]
		status := StatusEmpty
		if c.HasData() {
			status = StatusAdded
		}
		rows = append(rows, StatusRow{
			ID:              c.ID,
			SegmentName:     c.SegmentName,
			CategoryName:    c.CategoryName,
			Status:          status,
			SubmissionCount: counts[c.ID],
		})
	}
	return rows
}

// SegmentGroup is one segment of the user-facing category list.
type SegmentGroup struct {
	Name    string            `json:"name"`
	Configs []form.FormConfig `json:"configs"`
}

// GroupBySegment groups stored configs by segment for the dashboard.
// Ordered segments come first; within a segment ordered categories come
// first and the rest follow by name. Unknown segments are appended by name.
func (o Order) GroupBySegment(configs []form.FormConfig) []SegmentGroup {
	grouped := make(map[string][]form.FormConfig)
	for _, c := range configs {
		seg := c.SegmentName
		if seg == "" {
			seg = "Uncategorized"
		}
		grouped[seg] = append(grouped[seg], c)
	}

	var out []SegmentGroup
	for _, seg := range o.Segments {
		list, ok := grouped[seg.Name]
		if !ok {
			continue
		}
		sortByIndex(list, seg.Categories)
		out = append(out, SegmentGroup{Name: seg.Name, Configs: list})
		delete(grouped, seg.Name)
	}

	rest := make([]string, 0, len(grouped))
	for name := range grouped {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		list := grouped[name]
		sortByIndex(list, nil)
		out = append(out, SegmentGroup{Name: name, Configs: list})
	}
	return out
}

func sortByIndex(list []form.FormConfig, order []string) {
	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i
	}
	sort.SliceStable(list, func(i, j int) bool {
		ii, iok := index[list[i].CategoryName]
		ji, jok := index[list[j].CategoryName]
		switch {
		case iok && jok:
			return ii < ji
		case iok:
			return true
		case jok:
			return false
		default:
			return list[i].CategoryName < list[j].CategoryName
		}
	})
}
