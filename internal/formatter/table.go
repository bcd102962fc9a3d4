package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/desertthunder/solvex/internal/models"
)

// Table buffers rows and renders them with borderless, left-aligned styling.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer, headers ...string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Render writes the header and every buffered row.
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	return t.table.Render()
}

// ProblemsTable renders a problem list.
func ProblemsTable(w io.Writer, problems []models.Problem) error {
	t := NewTable(w, "ID", "Title", "Type", "Status", "Created")
	for _, p := range problems {
		t.AddRow(strconv.Itoa(p.ProblemID), models.Truncate(p.Title, 60), p.ProblemType, StatusLabel(p.Resolved), p.CreatedAt.Date())
	}
	return t.Render()
}

// SolutionsTable renders solutions with their version, parent and a code excerpt.
func SolutionsTable(w io.Writer, solutions []models.Solution) error {
	t := NewTable(w, "ID", "Version", "Approach", "Parent", "Success", "Code")
	for _, s := range solutions {
		parent := "-"
		if s.ParentSolutionID != nil {
			parent = strconv.Itoa(*s.ParentSolutionID)
		}
		t.AddRow(strconv.Itoa(s.SolutionID), strconv.Itoa(s.VersionNumber), s.ApproachType, parent, percent(s.SuccessRate), s.Excerpt(50))
	}
	return t.Render()
}

// TagsTable renders tags.
func TagsTable(w io.Writer, tags []models.Tag) error {
	t := NewTable(w, "ID", "Name", "Category", "Description")
	for _, tag := range tags {
		t.AddRow(strconv.Itoa(tag.TagID), tag.TagName, tag.Category, models.Truncate(tag.Description, 60))
	}
	return t.Render()
}

// ResourcesTable renders resources with their usefulness score.
func ResourcesTable(w io.Writer, resources []models.Resource) error {
	t := NewTable(w, "ID", "Title", "Platform", "Score", "URL")
	for _, r := range resources {
		t.AddRow(strconv.Itoa(r.ResourceID), models.Truncate(r.Label(), 50), r.SourcePlatform, score(r.UsefulnessScore), r.URL)
	}
	return t.Render()
}

// DashboardTables renders the recent problems and the top tags and resources.
func DashboardTables(w io.Writer, d *models.Dashboard) error {
	fmt.Fprintln(w, "Recent problems")
	if err := ProblemsTable(w, d.RecentProblems); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTop tags")
	tags := NewTable(w, "ID", "Name", "Uses")
	for _, tag := range d.TopTags {
		tags.AddRow(strconv.Itoa(tag.TagID), tag.TagName, strconv.Itoa(tag.UsageCount))
	}
	if err := tags.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTop resources")
	resources := NewTable(w, "ID", "Title", "Uses")
	for _, r := range d.TopResources {
		resources.AddRow(strconv.Itoa(r.ResourceID), r.Title, strconv.Itoa(r.UsageCount))
	}
	return resources.Render()
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

func score(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
