// package formatter renders problems and their solutions for the terminal and exports them to files (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/shared"
)

// ProblemsToCSV converts a problem list to CSV with columns: ID, Title, Type, Resolved, Created
func ProblemsToCSV(problems []models.Problem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Type", "Resolved", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range problems {
		record := []string{
			strconv.Itoa(p.ProblemID),
			p.Title,
			p.ProblemType,
			strconv.FormatBool(p.Resolved),
			p.CreatedAt.Date(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ProblemToMarkdown converts a problem aggregate to a Markdown document
func ProblemToMarkdown(full *models.ProblemFull) ([]byte, error) {
	if full == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}
	var buf bytes.Buffer
	p := full.Problem

	fmt.Fprintf(&buf, "# %s\n\n", p.Title)
	fmt.Fprintf(&buf, "**Status**: %s\n", StatusLabel(p.Resolved))
	if p.ProblemType != "" {
		fmt.Fprintf(&buf, "**Type**: %s\n", p.ProblemType)
	}
	if p.Author.Username != "" {
		fmt.Fprintf(&buf, "**Author**: %s\n", p.Author.Username)
	}
	if date := p.CreatedAt.Date(); date != "" {
		fmt.Fprintf(&buf, "**Created**: %s\n", date)
	}
	if len(full.Tags) > 0 {
		fmt.Fprintf(&buf, "**Tags**: %s\n", tagNames(full.Tags))
	}
	buf.WriteString("\n")

	if p.Description != "" {
		fmt.Fprintf(&buf, "## Description\n\n%s\n\n", p.Description)
	}

	fmt.Fprintf(&buf, "## Solutions (%d)\n\n", len(full.Solutions))
	for _, s := range full.Solutions {
		fmt.Fprintf(&buf, "### %s\n\n", solutionHeading(s))
		if s.ImprovementDescription != "" {
			fmt.Fprintf(&buf, "_%s_\n\n", s.ImprovementDescription)
		}
		if s.Explanation != "" {
			fmt.Fprintf(&buf, "%s\n\n", s.Explanation)
		}
		fmt.Fprintf(&buf, "```\n%s\n```\n\n", strings.TrimRight(s.CodeSnippet, "\n"))
	}

	if len(full.LinkedResources) > 0 {
		buf.WriteString("## Resources\n\n")
		for _, lr := range full.LinkedResources {
			fmt.Fprintf(&buf, "- [%s](%s)", lr.Resource.Label(), lr.Resource.URL)
			if lr.ContributionType != "" {
				fmt.Fprintf(&buf, " (%s)", lr.ContributionType)
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	if len(full.RelationsOut)+len(full.RelationsIn) > 0 {
		buf.WriteString("## Related problems\n\n")
		for _, r := range full.RelationsOut {
			fmt.Fprintf(&buf, "- -> #%d %s\n", r.ToProblemID, r.RelationType)
		}
		for _, r := range full.RelationsIn {
			fmt.Fprintf(&buf, "- <- #%d %s\n", r.FromProblemID, r.RelationType)
		}
	}

	return buf.Bytes(), nil
}

// ProblemToText converts a problem aggregate to plain text
func ProblemToText(full *models.ProblemFull) ([]byte, error) {
	if full == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}
	var buf bytes.Buffer
	p := full.Problem

	fmt.Fprintf(&buf, "Problem: %s\n", p.Title)
	fmt.Fprintf(&buf, "Status: %s\n", StatusLabel(p.Resolved))
	if p.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(&buf, "Solutions: %d\n\n", len(full.Solutions))

	for i, s := range full.Solutions {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, solutionHeading(s))
	}

	return buf.Bytes(), nil
}

// ProblemToJSON generates the JSON representation of a problem aggregate
func ProblemToJSON(full *models.ProblemFull) ([]byte, error) {
	if full == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}
	return shared.MarshalJSON(full, true)
}

// StatusLabel names the resolved state
func StatusLabel(resolved bool) string {
	if resolved {
		return "Resolved"
	}
	return "Open"
}

func tagNames(tags []models.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.TagName
	}
	return strings.Join(names, ", ")
}

func solutionHeading(s models.Solution) string {
	parts := []string{fmt.Sprintf("v%d", max(s.VersionNumber, 1))}
	if s.ApproachType != "" {
		parts = append(parts, s.ApproachType)
	}
	if s.BranchType != "" {
		parts = append(parts, s.BranchType)
	}
	if s.SuccessRate != nil {
		parts = append(parts, fmt.Sprintf("%s%% success", strconv.FormatFloat(*s.SuccessRate, 'f', -1, 64)))
	}
	return strings.Join(parts, " · ")
}

// WriteCSVExport writes a problem list to {base}_problems.csv. base defaults to "problems".
func WriteCSVExport(problems []models.Problem, base string) (string, error) {
	if base == "" {
		base = "problems"
	}

	csvData, err := ProblemsToCSV(problems)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	file := base + "_problems.csv"
	if err := os.WriteFile(file, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return file, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a problem to Markdown in a dedicated directory.
//
// Directory name defaults to problem-{id}.
// Creates {dir}/README.md and {dir}/problem.json
func WriteMarkdownExport(full *models.ProblemFull, outputDir string) (*MarkdownExportResult, error) {
	if full == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}
	if outputDir == "" {
		outputDir = DefaultName(full.Problem.ProblemID)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	mdData, err := ProblemToMarkdown(full)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}
	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	jsonData, err := ProblemToJSON(full)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON: %w", err)
	}
	jsonFile := filepath.Join(outputDir, "problem.json")
	if err := os.WriteFile(jsonFile, jsonData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write JSON file: %w", err)
	}
	result.Files = append(result.Files, jsonFile)

	return result, nil
}

// WriteTextExport exports a problem to plain text.
//
// Defaults to problem-{id}.txt as the filename.
func WriteTextExport(full *models.ProblemFull, path string) (string, error) {
	if full == nil {
		return "", fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}
	if path == "" {
		path = DefaultName(full.Problem.ProblemID) + ".txt"
	}

	textData, err := ProblemToText(full)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// DefaultName is the base file or directory name for an exported problem.
func DefaultName(problemID int) string {
	return fmt.Sprintf("problem-%d", problemID)
}
