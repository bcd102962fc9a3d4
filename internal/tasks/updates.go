package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ListProblems Phase = iota
	FetchProblem
	ExportProblem
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ListProblems:
		return "list_problems"
	case FetchProblem:
		return "fetch_problem"
	case ExportProblem:
		return "export_problem"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func listingProblemsUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: ListProblems, Step: 1, Total: 1, Message: "Listing problems..."}
}

func fetchingProblemUpdate(step, total, id int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProblem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching problem %d...", step, total, id),
	}
}

func exportCompletedUpdate(step, total int, title string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportProblem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, title, filesCount),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportProblem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func writingManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteManifest, Step: 1, Total: 1, Message: fmt.Sprintf("Writing manifest %s", path)}
}
