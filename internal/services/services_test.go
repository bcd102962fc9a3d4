package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/shared"
)

// route is one expected request and its canned response.
type route struct {
	method string
	path   string
	query  string
	status int
	body   string
}

// recorded holds decoded request bodies keyed by "METHOD path".
type recorded struct {
	mu     sync.Mutex
	bodies map[string]map[string]any
}

func (r *recorded) get(key string) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bodies[key]
}

// newRouter serves routes keyed by "METHOD path" and records the decoded request bodies.
func newRouter(t *testing.T, routes ...route) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{bodies: make(map[string]map[string]any)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		for _, rt := range routes {
			if rt.method+" "+rt.path != key {
				continue
			}
			if r.URL.RawQuery != rt.query {
				t.Errorf("%s: expected query %q, got %q", key, rt.query, r.URL.RawQuery)
			}
			if r.ContentLength > 0 {
				var body map[string]any
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("%s: failed to decode body: %v", key, err)
				}
				rec.mu.Lock()
				rec.bodies[key] = body
				rec.mu.Unlock()
			}
			status := rt.status
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			w.Write([]byte(rt.body))
			return
		}
		t.Errorf("unexpected request %s", key)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Not Found"}`))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

const (
	userJSON    = `{"user_id": 1, "username": "ada", "email": "ada@example.com", "created_at": "2024-01-01T00:00:00"}`
	problemJSON = `{"problem_id": 5, "user_id": 1, "title": "Two Sum", "resolved": false, "created_at": "2024-01-01T00:00:00"}`
)

func TestUsersAPI(t *testing.T) {
	ctx := context.Background()
	server, bodies := newRouter(t,
		route{method: "POST", path: "/users", status: http.StatusCreated, body: userJSON},
		route{method: "POST", path: "/users/login", body: userJSON},
		route{method: "GET", path: "/users/1", body: userJSON},
		route{method: "PATCH", path: "/users/1", body: userJSON},
		route{method: "GET", path: "/users/1/problems", body: `[` + problemJSON + `]`},
		route{method: "GET", path: "/users/1/resources", body: `[]`},
	)
	users := NewUsersAPI(NewClient(server.URL))

	t.Run("Create", func(t *testing.T) {
		user, err := users.Create(ctx, models.CreateUserRequest{Username: "ada", Email: "ada@example.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.UserID != 1 {
			t.Errorf("expected user 1, got %d", user.UserID)
		}
		if bodies.get("POST /users")["password"] != "secret1" {
			t.Errorf("expected password in body, got %v", bodies.get("POST /users"))
		}
		if _, ok := bodies.get("POST /users")["first_name"]; ok {
			t.Error("empty first_name should be omitted")
		}
	})

	t.Run("Login", func(t *testing.T) {
		if _, err := users.Login(ctx, models.LoginRequest{Username: "ada", Email: "ada@example.com"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if bodies.get("POST /users/login")["email"] != "ada@example.com" {
			t.Errorf("unexpected login body %v", bodies.get("POST /users/login"))
		}
	})

	t.Run("Get", func(t *testing.T) {
		user, err := users.Get(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.CreatedAt.Date() != "2024-01-01" {
			t.Errorf("expected zone-less timestamp to decode, got %v", user.CreatedAt)
		}
	})

	t.Run("Update Sends Only Set Fields", func(t *testing.T) {
		if _, err := users.Update(ctx, 1, models.UpdateUserRequest{Email: models.String("new@example.com")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		body := bodies.get("PATCH /users/1")
		if len(body) != 1 || body["email"] != "new@example.com" {
			t.Errorf("expected only email in patch body, got %v", body)
		}
	})

	t.Run("Problems", func(t *testing.T) {
		problems, err := users.Problems(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(problems) != 1 || problems[0].Title != "Two Sum" {
			t.Errorf("unexpected problems %+v", problems)
		}
	})

	t.Run("Resources Returns Empty Slice", func(t *testing.T) {
		resources, err := users.Resources(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resources == nil || len(resources) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", resources)
		}
	})
}

func TestProblemsAPI(t *testing.T) {
	ctx := context.Background()
	full := `{"problem": {"problem_id": 5, "user_id": 1, "title": "Two Sum", "resolved": true,
		"created_at": "2024-01-01T00:00:00", "author": {"user_id": 1, "username": "ada"}},
		"solutions": [], "tags": [], "linked_resources": [], "relations_out": [], "relations_in": []}`

	server, bodies := newRouter(t,
		route{method: "GET", path: "/problems", query: "keyword=sum&tag=arrays", body: `[` + problemJSON + `]`},
		route{method: "GET", path: "/problems/5", body: `{"problem_id": 5, "title": "Two Sum", "author": {"user_id": 1, "username": "ada"}}`},
		route{method: "GET", path: "/problems/5/full", body: full},
		route{method: "POST", path: "/problems", status: http.StatusCreated, body: problemJSON},
		route{method: "PATCH", path: "/problems/5", body: problemJSON},
		route{method: "POST", path: "/problems/5/resolve", body: problemJSON},
		route{method: "DELETE", path: "/problems/5", body: `{"deleted": true}`},
		route{method: "GET", path: "/problems/6/full", status: http.StatusNotFound, body: `{"detail": "Problem not found"}`},
	)
	problems := NewProblemsAPI(NewClient(server.URL))

	t.Run("List Omits Empty Filters", func(t *testing.T) {
		list, err := problems.List(ctx, models.ProblemFilter{Keyword: "sum", Tag: "arrays"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(list) != 1 {
			t.Errorf("expected 1 problem, got %d", len(list))
		}
	})

	t.Run("Get", func(t *testing.T) {
		p, err := problems.Get(ctx, 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.Author.Username != "ada" {
			t.Errorf("expected author ada, got %q", p.Author.Username)
		}
	})

	t.Run("Full", func(t *testing.T) {
		f, err := problems.Full(ctx, 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !f.Problem.Resolved {
			t.Error("expected resolved aggregate")
		}
	})

	t.Run("Full Not Found", func(t *testing.T) {
		_, err := problems.Full(ctx, 6)
		if !IsNotFound(err) || err.Error() != "Problem not found" {
			t.Errorf("expected not found API error, got %v", err)
		}
	})

	t.Run("Create", func(t *testing.T) {
		_, err := problems.Create(ctx, models.CreateProblemRequest{UserID: 1, Title: "Two Sum", Tags: []int{2, 3}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		body := bodies.get("POST /problems")
		if body["user_id"] != float64(1) || len(body["tags"].([]any)) != 2 {
			t.Errorf("unexpected create body %v", body)
		}
		if _, ok := body["description"]; ok {
			t.Error("empty description should be omitted")
		}
	})

	t.Run("Update", func(t *testing.T) {
		if _, err := problems.Update(ctx, 5, models.UpdateProblemRequest{Title: models.String("Three Sum")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if bodies.get("PATCH /problems/5")["title"] != "Three Sum" {
			t.Errorf("unexpected patch body %v", bodies.get("PATCH /problems/5"))
		}
	})

	t.Run("Resolve", func(t *testing.T) {
		if _, err := problems.Resolve(ctx, 5); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := problems.Delete(ctx, 5); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestSolutionsAPI(t *testing.T) {
	ctx := context.Background()
	solution := `{"solution_id": 9, "problem_id": 5, "code_snippet": "return 1", "version_number": 1, "created_at": "2024-01-01T00:00:00"}`

	server, bodies := newRouter(t,
		route{method: "POST", path: "/problems/5/solutions", status: http.StatusCreated, body: solution},
		route{method: "GET", path: "/problems/5/solutions", body: `[` + solution + `]`},
		route{method: "GET", path: "/solutions/9", body: `{"solution_id": 9, "problem_id": 5, "code_snippet": "x", "version_number": 2, "children_count": 3}`},
		route{method: "PATCH", path: "/solutions/9", body: solution},
		route{method: "DELETE", path: "/solutions/9", body: `{"deleted": true}`},
		route{method: "GET", path: "/solutions/9/children", body: `[{"solution_id": 0, "problem_id": 5}]`},
	)
	solutions := NewSolutionsAPI(NewClient(server.URL))

	t.Run("Create Sets Problem Id", func(t *testing.T) {
		_, err := solutions.Create(ctx, 5, models.CreateSolutionRequest{CodeSnippet: "return 1", SuccessRate: models.Float(0)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		body := bodies.get("POST /problems/5/solutions")
		if body["problem_id"] != float64(5) {
			t.Errorf("expected problem_id 5, got %v", body["problem_id"])
		}
		if body["success_rate"] != float64(0) {
			t.Errorf("expected explicit zero success_rate, got %v", body["success_rate"])
		}
	})

	t.Run("ListForProblem", func(t *testing.T) {
		list, err := solutions.ListForProblem(ctx, 5)
		if err != nil || len(list) != 1 {
			t.Fatalf("expected one solution, got %v %v", list, err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		detail, err := solutions.Get(ctx, 9)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if detail.ChildrenCount != 3 {
			t.Errorf("expected 3 children, got %d", detail.ChildrenCount)
		}
	})

	t.Run("Update", func(t *testing.T) {
		if _, err := solutions.Update(ctx, 9, models.UpdateSolutionRequest{Explanation: models.String("hash map")}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := solutions.Delete(ctx, 9); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Children Rejects Malformed Elements", func(t *testing.T) {
		_, err := solutions.Children(ctx, 9)
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestTagsResourcesDashboard(t *testing.T) {
	ctx := context.Background()
	resource := `{"resource_id": 3, "user_id": 1, "url": "https://go.dev", "usefulness_score": 4.5}`

	server, _ := newRouter(t,
		route{method: "GET", path: "/tags", body: `[{"tag_id": 1, "tag_name": "graphs", "category": "topic"}]`},
		route{method: "GET", path: "/resources", query: "keyword=go&min_score=0", body: `[` + resource + `]`},
		route{method: "GET", path: "/resources/3", body: `{"resource_id": 3, "user_id": 1, "url": "https://go.dev",
			"linked_problems": [], "linked_solutions": [], "tags": []}`},
		route{method: "POST", path: "/resources/3/visit", body: resource},
		route{method: "GET", path: "/dashboard/1", body: `{"recent_problems": [` + problemJSON + `], "recent_solutions": [],
			"top_tags": [{"tag_id": 1, "tag_name": "graphs", "usage_count": 4}], "top_resources": []}`},
		route{method: "GET", path: "/health", body: `{"status": "ok"}`},
	)
	api := New(NewClient(server.URL))

	t.Run("Tags", func(t *testing.T) {
		tags, err := api.Tags.List(ctx)
		if err != nil || len(tags) != 1 || tags[0].Category != "topic" {
			t.Fatalf("unexpected tags %+v %v", tags, err)
		}
	})

	t.Run("Resources", func(t *testing.T) {
		list, err := api.Resources.List(ctx, models.ResourceFilter{Keyword: "go", MinScore: models.Float(0)})
		if err != nil || len(list) != 1 {
			t.Fatalf("unexpected resources %+v %v", list, err)
		}
		if *list[0].UsefulnessScore != 4.5 {
			t.Errorf("expected score 4.5, got %v", *list[0].UsefulnessScore)
		}

		if _, err := api.Resources.Get(ctx, 3); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if _, err := api.Resources.Visit(ctx, 3); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Dashboard", func(t *testing.T) {
		dash, err := api.Dashboard.Get(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(dash.TopTags) != 1 || dash.TopTags[0].UsageCount != 4 {
			t.Errorf("unexpected top tags %+v", dash.TopTags)
		}

		health, err := api.Dashboard.Health(ctx)
		if err != nil || health.Status != "ok" {
			t.Errorf("unexpected health %+v %v", health, err)
		}
	})
}
