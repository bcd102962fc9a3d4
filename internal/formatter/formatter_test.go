package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/shared"
	th "github.com/desertthunder/solvex/internal/testing"
)

func init() {
	color.NoColor = true
}

func sampleFull() *models.ProblemFull {
	created := models.NewTime(time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))
	return &models.ProblemFull{
		Problem: models.ProblemWithAuthor{
			Problem: models.Problem{
				ProblemID:   7,
				UserID:      1,
				Title:       "Detect cycle",
				Description: "Find a cycle in a directed graph",
				ProblemType: "algorithm",
				CreatedAt:   created,
			},
			Author: models.Author{UserID: 1, Username: "alice"},
		},
		Solutions: []models.Solution{
			{SolutionID: 1, ProblemID: 7, CodeSnippet: "dfs(g)\n", ApproachType: "dfs", VersionNumber: 1, SuccessRate: models.Float(80)},
			{SolutionID: 2, ProblemID: 7, CodeSnippet: "kahn(g)", VersionNumber: 2, ParentSolutionID: models.Int(1), ImprovementDescription: "iterative"},
		},
		Tags: []models.Tag{{TagID: 1, TagName: "graphs"}, {TagID: 2, TagName: "dfs"}},
		LinkedResources: []models.ProblemResourceSummary{
			{Resource: models.Resource{ResourceID: 3, URL: "https://example.com/cycles", Title: "Cycles"}, ContributionType: "reference"},
		},
		RelationsOut: []models.ProblemRelation{{FromProblemID: 7, ToProblemID: 8, RelationType: "similar"}},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ProblemsToCSV", func(t *testing.T) {
		problems := []models.Problem{
			{ProblemID: 1, Title: "Two sum", ProblemType: "algorithm"},
			{ProblemID: 2, Title: "Has, comma", Resolved: true},
		}

		data, err := ProblemsToCSV(problems)
		if err != nil {
			t.Fatalf("ProblemsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Type,Resolved,Created\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Two sum,algorithm,false,") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `2,"Has, comma",,true,`) {
			t.Errorf("CSV should quote commas, got: %s", output)
		}
	})

	t.Run("ProblemToMarkdown", func(t *testing.T) {
		data, err := ProblemToMarkdown(sampleFull())
		if err != nil {
			t.Fatalf("ProblemToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Detect cycle",
			"**Status**: Open",
			"**Type**: algorithm",
			"**Author**: alice",
			"**Created**: 2024-03-09",
			"**Tags**: graphs, dfs",
			"## Solutions (2)",
			"### v1 · dfs · 80% success",
			"_iterative_",
			"```\ndfs(g)\n```",
			"- [Cycles](https://example.com/cycles) (reference)",
			"- -> #8 similar",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q\n%s", want, output)
			}
		}
	})

	t.Run("ProblemToText", func(t *testing.T) {
		data, err := ProblemToText(sampleFull())
		if err != nil {
			t.Fatalf("ProblemToText failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "Problem: Detect cycle") || !strings.Contains(output, "2. v2") {
			t.Errorf("unexpected text output: %s", output)
		}
	})

	t.Run("ProblemToJSON", func(t *testing.T) {
		data, err := ProblemToJSON(sampleFull())
		if err != nil {
			t.Fatalf("ProblemToJSON failed: %v", err)
		}
		var decoded models.ProblemFull
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Problem.Title != "Detect cycle" || len(decoded.Solutions) != 2 {
			t.Errorf("unexpected decoded aggregate %+v", decoded.Problem)
		}
	})

	t.Run("nil aggregate", func(t *testing.T) {
		if _, err := ProblemToMarkdown(nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := ProblemToJSON(nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "mine")
		file, err := WriteCSVExport([]models.Problem{{ProblemID: 1, Title: "Two sum"}}, base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if file != base+"_problems.csv" {
			t.Errorf("unexpected file name %q", file)
		}
		th.AssertFileExists(t, file)
		if content := th.MustReadFile(t, file); !strings.Contains(content, "Two sum") {
			t.Errorf("CSV missing problem data")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		result, err := WriteMarkdownExport(sampleFull(), dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		th.AssertDirExists(t, result.Directory)
		if len(result.Files) != 2 {
			t.Fatalf("expected 2 files, got %v", result.Files)
		}
		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "# Detect cycle") {
			t.Errorf("README missing title")
		}
		th.AssertFileExists(t, filepath.Join(dir, "problem.json"))
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "problem.txt")
		got, err := WriteTextExport(sampleFull(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("DefaultName", func(t *testing.T) {
		if got := DefaultName(7); got != "problem-7" {
			t.Errorf("expected problem-7, got %q", got)
		}
	})
}

func TestProblemCard(t *testing.T) {
	t.Run("open with actions", func(t *testing.T) {
		p := sampleFull().Problem.Problem
		card := ProblemCard(p, "enter view", "d delete")

		for _, want := range []string{"Detect cycle", "○ open", "[algorithm]", "Find a cycle in a directed graph", "2024-03-09 · enter view · d delete"} {
			if !strings.Contains(card, want) {
				t.Errorf("card missing %q:\n%s", want, card)
			}
		}
	})

	t.Run("resolved without description", func(t *testing.T) {
		card := ProblemCard(models.Problem{ProblemID: 1, Title: "Done", Resolved: true})
		if !strings.Contains(card, "✓ resolved") {
			t.Errorf("expected resolved badge:\n%s", card)
		}
		if strings.Count(card, "\n") != 1 {
			t.Errorf("expected a single line, got:\n%s", card)
		}
	})

	t.Run("long description is excerpted", func(t *testing.T) {
		card := ProblemCard(models.Problem{Title: "Long", Description: strings.Repeat("word ", 100)})
		if !strings.Contains(card, "…") {
			t.Errorf("expected truncated excerpt:\n%s", card)
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("ProblemsTable", func(t *testing.T) {
		var buf bytes.Buffer
		err := ProblemsTable(&buf, []models.Problem{{ProblemID: 12, Title: "Two sum", Resolved: true}})
		if err != nil {
			t.Fatalf("ProblemsTable failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "12") || !strings.Contains(out, "Two sum") || !strings.Contains(out, "Resolved") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("SolutionsTable", func(t *testing.T) {
		var buf bytes.Buffer
		if err := SolutionsTable(&buf, sampleFull().Solutions); err != nil {
			t.Fatalf("SolutionsTable failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "80%") || !strings.Contains(out, "kahn(g)") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("ResourcesTable", func(t *testing.T) {
		var buf bytes.Buffer
		resources := []models.Resource{{ResourceID: 3, URL: "https://example.com", UsefulnessScore: models.Float(4.5)}}
		if err := ResourcesTable(&buf, resources); err != nil {
			t.Fatalf("ResourcesTable failed: %v", err)
		}
		if out := buf.String(); !strings.Contains(out, "4.5") || !strings.Contains(out, "https://example.com") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("TagsTable", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TagsTable(&buf, sampleFull().Tags); err != nil {
			t.Fatalf("TagsTable failed: %v", err)
		}
		if out := buf.String(); !strings.Contains(out, "graphs") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("DashboardTables", func(t *testing.T) {
		var buf bytes.Buffer
		d := &models.Dashboard{
			TopTags:      []models.TopTag{{TagID: 1, TagName: "graphs", UsageCount: 4}},
			TopResources: []models.TopResource{{ResourceID: 2, Title: "Guide", UsageCount: 3}},
		}
		if err := DashboardTables(&buf, d); err != nil {
			t.Fatalf("DashboardTables failed: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"Recent problems", "Top tags", "graphs", "Top resources", "Guide"} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q:\n%s", want, out)
			}
		}
	})
}

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.Success("created %d", 3)
	p.Info("hello")
	p.Warning("careful")
	p.Error("broken")
	p.Header("Problems")

	if !strings.Contains(out.String(), "[OK] created 3") {
		t.Errorf("unexpected success line %q", out.String())
	}
	if !strings.Contains(out.String(), "Problems\n--------") {
		t.Errorf("unexpected header %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[WARN] careful") || !strings.Contains(errOut.String(), "[ERROR] broken") {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestWriteExportManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export_manifest.json")
	m := &ExportManifest{
		Format:            "markdown",
		TotalProblems:     2,
		SuccessfulExports: 1,
		FailedExports:     1,
		Problems: []ManifestEntry{
			{ProblemID: 1, Title: "Two sum", Status: "success", Files: []string{"problem-1/README.md"}},
			{ProblemID: 2, Status: "failed", Error: "not found"},
		},
	}

	if err := WriteExportManifest(m, path); err != nil {
		t.Fatalf("WriteExportManifest failed: %v", err)
	}

	content := th.MustReadFile(t, path)
	for _, want := range []string{`"format": "markdown"`, `"total_problems": 2`, `"status": "success"`, `"error": "not found"`} {
		if !strings.Contains(content, want) {
			t.Errorf("manifest missing %s:\n%s", want, content)
		}
	}
}
