package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/services"
	"github.com/desertthunder/solvex/internal/shared"
	tu "github.com/desertthunder/solvex/internal/testing"
)

type fixture struct {
	runner    *Runner
	output    *bytes.Buffer
	sessions  *repositories.MemorySessionStore
	users     *tu.FakeUsers
	problems  *tu.FakeProblems
	solutions *tu.FakeSolutions
}

var ada = models.User{UserID: 1, Username: "ada", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	f := &fixture{
		output:   &bytes.Buffer{},
		sessions: repositories.NewMemorySessionStore(),
		users:    tu.NewFakeUsers(ada),
		problems: tu.NewFakeProblems(
			models.Problem{ProblemID: 1, UserID: 1, Title: "Two Sum", ProblemType: "algorithm"},
			models.Problem{ProblemID: 2, UserID: 2, Title: "LRU Cache", ProblemType: "design", Resolved: true},
		),
		solutions: tu.NewFakeSolutions(),
	}
	f.users.Owned[1] = []models.Problem{f.problems.Problems[0]}

	f.runner = NewRunner(RunnerOpts{
		API: &services.API{
			Users:     f.users,
			Problems:  f.problems,
			Solutions: f.solutions,
			Tags:      &tu.FakeTags{Tags: []models.Tag{{TagID: 1, TagName: "arrays"}}},
			Resources: &tu.FakeResources{},
			Dashboard: &tu.FakeDashboard{},
		},
		Sessions: f.sessions,
		Logger:   shared.NewLogger(io.Discard),
		Output:   f.output,
		Input:    strings.NewReader(input),
	})
	return f
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	if err := f.sessions.Save(context.Background(), &ada); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
}

// run executes args against a fresh root command so flag state never leaks between runs.
func (f *fixture) run(t *testing.T, args ...string) error {
	t.Helper()
	root := &cli.Command{
		Name:      "solvex",
		Flags:     globalFlags(),
		Before:    f.runner.Before,
		After:     f.runner.After,
		Commands:  f.runner.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	config := filepath.Join(t.TempDir(), "missing.toml")
	return root.Run(context.Background(), append([]string{"solvex", "--config", config}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			sessions := repositories.NewMemorySessionStore()
			api := &services.API{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				API:      api,
				Sessions: sessions,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.sessions != sessions {
				t.Error("expected sessions to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output and input uses stdio", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.FailAfter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"problems", "solutions", "tags", "resources", "account", "auth", "export", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("confirm", func(t *testing.T) {
		tests := []struct {
			input string
			want  bool
		}{
			{"y\n", true},
			{"YES\n", true},
			{"n\n", false},
			{"\n", false},
			{"", false},
		}
		for _, tt := range tests {
			t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
				output := &bytes.Buffer{}
				runner := NewRunner(RunnerOpts{Output: output, Input: strings.NewReader(tt.input)})

				got, err := runner.confirm(context.Background(), "Delete it?")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != tt.want {
					t.Errorf("expected %v for %q, got %v", tt.want, tt.input, got)
				}
				if !strings.Contains(output.String(), "Delete it? [y/N]") {
					t.Errorf("expected prompt, got %q", output.String())
				}
			})
		}

		t.Run("--yes skips the prompt", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			runner.assumeYes = true

			ok, err := runner.confirmer().Confirm(context.Background(), "Delete it?")
			if err != nil || !ok {
				t.Errorf("expected approval, got %v, %v", ok, err)
			}
		})
	})
}

func TestProblemCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		t.Run("passes the filter through", func(t *testing.T) {
			f := newFixture(t, "")
			if err := f.run(t, "problems", "list", "--keyword", "sum", "--json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.problems.Filters) != 1 || f.problems.Filters[0].Keyword != "sum" {
				t.Errorf("expected keyword filter, got %+v", f.problems.Filters)
			}

			var problems []models.Problem
			if err := json.Unmarshal(f.output.Bytes(), &problems); err != nil {
				t.Fatalf("expected JSON output, got %q", f.output.String())
			}
			if len(problems) != 1 || problems[0].Title != "Two Sum" {
				t.Errorf("expected Two Sum only, got %+v", problems)
			}
		})

		t.Run("logs the submitted filter", func(t *testing.T) {
			f := newFixture(t, "")
			var logs bytes.Buffer
			logger := shared.NewLogger(&logs)
			shared.SetLogLevel(logger, log.DebugLevel)
			f.runner.SetLogger(logger)

			if err := f.run(t, "problems", "list", "--keyword", "cache", "--type", "design"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(logs.String(), "cache") || !strings.Contains(logs.String(), "design") {
				t.Errorf("expected the filter in the debug log, got %q", logs.String())
			}
		})

		t.Run("renders a table", func(t *testing.T) {
			f := newFixture(t, "")
			if err := f.run(t, "problems", "list"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "LRU Cache") {
				t.Errorf("expected table output, got %q", f.output.String())
			}
		})

		t.Run("wraps service errors", func(t *testing.T) {
			f := newFixture(t, "")
			f.problems.Fail("List", shared.ErrAPIRequest)

			err := f.run(t, "problems", "list")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("show", func(t *testing.T) {
		t.Run("markdown", func(t *testing.T) {
			f := newFixture(t, "")
			if err := f.run(t, "problems", "show", "--format", "markdown", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "# Two Sum") {
				t.Errorf("expected markdown heading, got %q", f.output.String())
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			f := newFixture(t, "")
			err := f.run(t, "problems", "show", "--format", "pdf", "1")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("missing id", func(t *testing.T) {
			f := newFixture(t, "")
			err := f.run(t, "problems", "show")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("create", func(t *testing.T) {
		t.Run("requires a session", func(t *testing.T) {
			f := newFixture(t, "")
			err := f.run(t, "problems", "create", "--title", "Valid Parentheses")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if f.problems.Calls("Create") != 0 {
				t.Error("expected no create request")
			}
		})

		t.Run("creates as the signed-in user", func(t *testing.T) {
			f := newFixture(t, "")
			f.signIn(t)

			err := f.run(t, "problems", "create", "--title", "Valid Parentheses", "--type", "algorithm", "--tag", "1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.problems.Created) != 1 {
				t.Fatalf("expected one create request, got %d", len(f.problems.Created))
			}
			req := f.problems.Created[0]
			if req.UserID != 1 || req.Title != "Valid Parentheses" {
				t.Errorf("unexpected request %+v", req)
			}
			if len(req.Tags) != 1 || req.Tags[0] != 1 {
				t.Errorf("expected tag 1, got %v", req.Tags)
			}
			if !strings.Contains(f.output.String(), "Created problem #3") {
				t.Errorf("expected success message, got %q", f.output.String())
			}
		})

		t.Run("rejects a blank title without a request", func(t *testing.T) {
			f := newFixture(t, "")
			f.signIn(t)

			err := f.run(t, "problems", "create", "--title", "   ")
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if f.problems.Calls("Create") != 0 {
				t.Error("expected no create request")
			}
		})
	})

	t.Run("update with nothing to change", func(t *testing.T) {
		f := newFixture(t, "")
		err := f.run(t, "problems", "update", "1")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if f.problems.Calls("Update") != 0 {
			t.Error("expected no update request")
		}
	})

	t.Run("resolve", func(t *testing.T) {
		t.Run("open problem", func(t *testing.T) {
			f := newFixture(t, "")
			if err := f.run(t, "problems", "resolve", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f.problems.Calls("Resolve") != 1 {
				t.Errorf("expected one resolve request, got %d", f.problems.Calls("Resolve"))
			}
		})

		t.Run("already resolved", func(t *testing.T) {
			f := newFixture(t, "")
			if err := f.run(t, "problems", "resolve", "2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f.problems.Calls("Resolve") != 0 {
				t.Error("expected no resolve request")
			}
			if !strings.Contains(f.output.String(), "already resolved") {
				t.Errorf("expected notice, got %q", f.output.String())
			}
		})
	})

	t.Run("delete", func(t *testing.T) {
		t.Run("declined prompt", func(t *testing.T) {
			f := newFixture(t, "n\n")
			f.signIn(t)

			err := f.run(t, "problems", "delete", "1")
			if !errors.Is(err, shared.ErrCancelled) {
				t.Errorf("expected ErrCancelled, got %v", err)
			}
			if f.problems.Calls("Delete") != 0 {
				t.Error("expected no delete request")
			}
		})

		t.Run("approved prompt", func(t *testing.T) {
			f := newFixture(t, "y\n")
			f.signIn(t)

			if err := f.run(t, "problems", "delete", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f.problems.Calls("Delete") != 1 {
				t.Errorf("expected one delete request, got %d", f.problems.Calls("Delete"))
			}
		})

		t.Run("--yes", func(t *testing.T) {
			f := newFixture(t, "")
			f.signIn(t)

			if err := f.run(t, "--yes", "problems", "delete", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f.problems.Calls("Delete") != 1 {
				t.Errorf("expected one delete request, got %d", f.problems.Calls("Delete"))
			}
		})

		t.Run("someone else's problem", func(t *testing.T) {
			f := newFixture(t, "")
			f.signIn(t)

			err := f.run(t, "--yes", "problems", "delete", "2")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if f.problems.Calls("Delete") != 0 {
				t.Error("expected no delete request")
			}
		})
	})
}

func TestSolutionCommands(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		t.Run("sends the form", func(t *testing.T) {
			f := newFixture(t, "")
			err := f.run(t, "solutions", "create", "--code", "return a+b", "--approach", "brute force", "--success-rate", "80", "1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.solutions.Created) != 1 {
				t.Fatalf("expected one create request, got %d", len(f.solutions.Created))
			}
			req := f.solutions.Created[0]
			if req.SuccessRate == nil || *req.SuccessRate != 80 {
				t.Errorf("expected success rate 80, got %v", req.SuccessRate)
			}
		})

		t.Run("rejects an out of range success rate", func(t *testing.T) {
			f := newFixture(t, "")
			err := f.run(t, "solutions", "create", "--code", "return a+b", "--success-rate", "150", "1")
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if f.solutions.Calls("Create") != 0 {
				t.Error("expected no create request")
			}
		})

		t.Run("reads code from a file", func(t *testing.T) {
			f := newFixture(t, "")
			path := filepath.Join(t.TempDir(), "solution.go")
			if err := os.WriteFile(path, []byte("func add(a, b int) int { return a + b }"), 0644); err != nil {
				t.Fatalf("failed to write code file: %v", err)
			}

			if err := f.run(t, "solutions", "create", "--code-file", path, "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.solutions.Created) != 1 || !strings.Contains(f.solutions.Created[0].CodeSnippet, "func add") {
				t.Errorf("expected code from file, got %+v", f.solutions.Created)
			}
		})
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login, status and logout", func(t *testing.T) {
		f := newFixture(t, "")

		if err := f.run(t, "auth", "status"); err != nil {
			t.Fatalf("expected no error while signed out, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Not signed in") {
			t.Errorf("expected signed-out warning, got %q", f.output.String())
		}

		if err := f.run(t, "auth", "login", "--username", "ada", "--email", "ada@example.com"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		user, err := f.sessions.Load(context.Background())
		if err != nil || user == nil || user.UserID != 1 {
			t.Fatalf("expected stored session for user 1, got %+v, %v", user, err)
		}

		f.output.Reset()
		if err := f.run(t, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Signed in as Ada Lovelace") {
			t.Errorf("expected signed-in status, got %q", f.output.String())
		}

		if err := f.run(t, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user, _ := f.sessions.Load(context.Background()); user != nil {
			t.Errorf("expected session to be cleared, got %+v", user)
		}
	})

	t.Run("login with unknown credentials", func(t *testing.T) {
		f := newFixture(t, "")
		err := f.run(t, "auth", "login", "--username", "ada", "--email", "someone@example.com")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestExportCommands(t *testing.T) {
	t.Run("bulk writes files and a manifest", func(t *testing.T) {
		f := newFixture(t, "")
		dir := filepath.Join(t.TempDir(), "out")

		err := f.run(t, "export", "bulk", "--format", "json", "--output", dir, "--rate", "100", "1", "2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(f.output.String(), "Exported:  2/2") {
			t.Errorf("expected summary, got %q", f.output.String())
		}
	})

	t.Run("bulk rejects an unknown format", func(t *testing.T) {
		f := newFixture(t, "")
		err := f.run(t, "export", "bulk", "--format", "pdf", "--output", t.TempDir())
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if f.problems.Calls("Full") != 0 {
			t.Error("expected no fetches")
		}
	})

	t.Run("history without a database", func(t *testing.T) {
		f := newFixture(t, "")
		if err := f.run(t, "export", "history"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "not kept") {
			t.Errorf("expected notice, got %q", f.output.String())
		}
	})
}

func TestMiscCommands(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		f := newFixture(t, "")
		if err := f.run(t, "health"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "is ok") {
			t.Errorf("expected health status, got %q", f.output.String())
		}
	})

	t.Run("api get", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tags" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"tag_id":1,"tag_name":"arrays"}]`))
		}))
		defer srv.Close()

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			API:      services.New(services.NewClient(srv.URL)),
			Sessions: repositories.NewMemorySessionStore(),
			Logger:   shared.NewLogger(io.Discard),
			Output:   output,
		})
		f := &fixture{runner: runner, output: output}

		if err := f.run(t, "api", "get", "/tags"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"tag_name": "arrays"`) {
			t.Errorf("expected pretty JSON, got %q", output.String())
		}
	})
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"cancelled", fmt.Errorf("delete: %w", shared.ErrCancelled), 0, "cancelled"},
		{"not found", fmt.Errorf("failed to load problem 9: %w", &services.APIError{Message: "Problem not found", Status: http.StatusNotFound}), 1, "check the id"},
		{"signed out", shared.ErrNotAuthenticated, 1, "solvex auth login"},
		{"other", errors.New("boom"), 1, "application error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := reportError(shared.NewLogger(&buf), tt.err); code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in log, got %q", tt.want, buf.String())
			}
		})
	}
}
