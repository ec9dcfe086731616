package lyfta

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

type recordedRequest struct {
	path   string
	cookie string
	body   map[string]any
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(path string, n int) (int, string)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{path: r.URL.Path, cookie: r.Header.Get("Cookie"), body: body})
	n := len(f.requests)
	f.mu.Unlock()

	status, resp := f.handler(r.URL.Path, n)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp)
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/api", StaticCookie("session=abc"), srv.Client())
	c.now = func() time.Time { return time.Date(2025, 1, 24, 13, 47, 20, 0, time.UTC) }
	return c
}

func TestCreateCollection(t *testing.T) {
	api := &fakeAPI{handler: func(string, int) (int, string) {
		return http.StatusOK, `{"data": {"id": 991, "user_id": "u-7"}}`
	}}
	c := newTestClient(t, api)

	col, err := c.CreateCollection(context.Background(), "Week 1")
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if col.ID.String() != "991" || col.UserID.String() != "u-7" || col.Name != "Week 1" {
		t.Errorf("collection = %+v", col)
	}

	req := api.requests[0]
	if req.path != "/api/saveCollection" {
		t.Errorf("path = %s", req.path)
	}
	if req.cookie != "session=abc" {
		t.Errorf("cookie = %q", req.cookie)
	}
	inner := req.body["collection"].(map[string]any)
	if inner["title"] != "Week 1" || inner["date_created"] != "2025-01-24T13:47:20.000000" {
		t.Errorf("collection body = %v", inner)
	}
}

func TestCreateCollection_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   apperrors.ErrorCode
	}{
		{"missing id", http.StatusOK, `{"data": {}}`, apperrors.CodePlatformAPI},
		{"server error", http.StatusInternalServerError, `boom`, apperrors.CodePlatformAPI},
		{"unauthorized", http.StatusUnauthorized, `login required`, apperrors.CodePlatformAPI},
		{"rate limited", http.StatusTooManyRequests, `slow down`, apperrors.CodePlatformRateLimited},
		{"bad json", http.StatusOK, `<html>`, apperrors.CodePlatformAPI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{handler: func(string, int) (int, string) { return tt.status, tt.body }}
			_, err := newTestClient(t, api).CreateCollection(context.Background(), "Week 1")
			if apperrors.GetCode(err) != tt.code {
				t.Fatalf("code = %s, want %s (%v)", apperrors.GetCode(err), tt.code, err)
			}
			if tt.status >= 400 {
				ie := err.(*apperrors.ImportError)
				if ie.Metadata["body"] != tt.body || ie.Metadata["status"] == "" {
					t.Errorf("status/body not captured: %v", ie.Metadata)
				}
			}
		})
	}
}

func TestCreateWorkoutInCollection(t *testing.T) {
	api := &fakeAPI{handler: func(_ string, n int) (int, string) {
		return http.StatusOK, `{"data": {"id": 5001}}`
	}}
	c := newTestClient(t, api)
	col := &Collection{ID: workout.NumberScalar(991), UserID: workout.NumberScalar(12), Name: "Week 1"}

	up := UploadWorkout{Title: "Week 1-Day 1", Color: workout.DefaultWorkoutColor, Exercises: []UploadExercise{}}
	id, err := c.CreateWorkoutInCollection(context.Background(), up, col)
	if err != nil {
		t.Fatalf("CreateWorkoutInCollection: %v", err)
	}
	if id.String() != "5001" {
		t.Errorf("id = %s", id)
	}
	if len(api.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(api.requests))
	}

	shell := api.requests[0].body["workout"].(map[string]any)
	if shell["id"] != nil || shell["collectionId"] != float64(991) || shell["collectionName"] != "Week 1" ||
		shell["title"] != "Week 1-Day 1" || shell["isTemplate"] != "0" {
		t.Errorf("shell = %v", shell)
	}

	full := api.requests[1].body["workout"].(map[string]any)
	if full["id"] != float64(5001) || full["user_id"] != float64(12) || full["color"] != "#1A118F" {
		t.Errorf("full workout = %v", full)
	}
	for _, r := range api.requests {
		if r.path != "/api/workout/SaveTemplate" {
			t.Errorf("path = %s", r.path)
		}
	}
}

func TestCreateWorkoutInCollection_IgnoresSecondResponseBody(t *testing.T) {
	api := &fakeAPI{handler: func(_ string, n int) (int, string) {
		if n == 1 {
			return http.StatusOK, `{"data": {"id": 5001}}`
		}
		return http.StatusOK, ``
	}}
	c := newTestClient(t, api)
	col := &Collection{ID: workout.NumberScalar(991), UserID: workout.NumberScalar(12), Name: "Week 1"}

	id, err := c.CreateWorkoutInCollection(context.Background(), UploadWorkout{Title: "Week 1-Day 1"}, col)
	if err != nil {
		t.Fatalf("saved workout must not fail on an empty body: %v", err)
	}
	if id.String() != "5001" || len(api.requests) != 2 {
		t.Errorf("id = %s, requests = %d", id, len(api.requests))
	}
}

func TestCreateWorkoutInCollection_MissingID(t *testing.T) {
	api := &fakeAPI{handler: func(string, int) (int, string) { return http.StatusOK, `{"data": null}` }}
	c := newTestClient(t, api)
	_, err := c.CreateWorkoutInCollection(context.Background(), UploadWorkout{Title: "x"}, &Collection{ID: workout.NumberScalar(1)})
	if apperrors.GetCode(err) != apperrors.CodePlatformAPI {
		t.Errorf("got %v", err)
	}
	if len(api.requests) != 1 {
		t.Errorf("full workout must not be sent without an id, requests = %d", len(api.requests))
	}
}

func TestClient_RateLimit(t *testing.T) {
	c := NewClient("", StaticCookie("x"), nil)
	if c.limiter.Limit() != rate.Limit(10) || c.limiter.Burst() != 10 {
		t.Errorf("limiter = %v/%d", c.limiter.Limit(), c.limiter.Burst())
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %s", c.baseURL)
	}
}

func TestTransport_CookieError(t *testing.T) {
	api := &fakeAPI{handler: func(string, int) (int, string) { return http.StatusOK, `{}` }}
	srv := httptest.NewServer(api)
	defer srv.Close()

	c := NewClient(srv.URL, StaticCookie(""), srv.Client())
	_, err := c.CreateCollection(context.Background(), "Week 1")
	if err == nil || !strings.Contains(err.Error(), "session cookie") {
		t.Errorf("expected cookie error, got %v", err)
	}
	if len(api.requests) != 0 {
		t.Error("no request should reach the server without a cookie")
	}
}

func TestFormatWorkout(t *testing.T) {
	p := workout.DayPayload{Workout: workout.Workout{
		Title:      "Week 1-Day 1",
		Color:      workout.DefaultWorkoutColor,
		CreateDate: "2025-01-24T10:00:00.000000",
		UpdateDate: "2025-01-24T10:00:00.000000",
		Exercises: []workout.ReconciledExercise{{
			ExerciseID:    workout.NumberScalar(42),
			ExerciseName:  "Barbell Bench Press",
			ExerciseImage: "bench.png",
			ExerciseType:  workout.NumberScalar(1),
			ExerciseNote:  "Original Name: Bench",
			Sets:          []workout.SimpleSet{{Weight: "60", Reps: "8"}},
		}},
	}}

	up := FormatWorkout(p, time.Date(2025, 1, 24, 13, 47, 20, 0, time.UTC))
	out, err := json.Marshal(up)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{
		`"id":null`, `"user_id":null`, `"title":"Week 1-Day 1"`,
		`"excercise_name":"Barbell Bench Press"`, `"exercise_id":42`, `"exercise_type":1`,
		`"exercise_superset_id":0`, `"exercise_rest_time":0`, `"workout_id":0`,
		`"date_created":"2025-01-24 13:47:20"`,
		`{"set_type_id":0,"reps":"8","weight":"60","rir":"","duration":"","distance":""}`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("formatted workout missing %s\n%s", want, s)
		}
	}
}
