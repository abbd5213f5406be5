package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

func newTestTracker(t *testing.T, mux *http.ServeMux) *Tracker {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tr, err := New(context.Background(), Config{
		Token:    "ghp_test",
		Owner:    "acme",
		Repo:     "notes",
		IDPrefix: "act",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)
	return tr
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Owner: "o", Repo: "r"})
	assert.Error(t, err)

	_, err = New(ctx, Config{Token: "t", Owner: "o"})
	assert.Error(t, err)

	_, err = New(ctx, Config{Token: "t", Owner: "o", Repo: "r", IDPrefix: "GH1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tr, err := New(ctx, Config{Token: "t", Owner: "o", Repo: "r"})
	require.NoError(t, err)
	assert.Equal(t, "GH-7", tr.Identifier(7))
}

func TestIdentifierMatchesMarkerFormat(t *testing.T) {
	tr := newTestTracker(t, http.NewServeMux())

	item := domain.ParseItemLine("Send the deck (" + tr.Identifier(12) + ")")

	assert.True(t, item.AlreadyPushed)
	assert.Equal(t, "ACT-12", item.TrackerID)
}

func TestListUsers_UsesDisplayNames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/assignees", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		w.Header().Set("X-RateLimit-Remaining", "4999")
		_, _ = w.Write([]byte(`[{"login":"asilva"},{"login":"bo","name":"Bo Lee"}]`))
	})
	mux.HandleFunc("/users/asilva", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"login":"asilva","name":"Ana Silva"}`))
	})

	tr := newTestTracker(t, mux)
	users, err := tr.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.TrackerUser{
		{ID: "asilva", Name: "Ana Silva"},
		{ID: "bo", Name: "Bo Lee"},
	}, users)
	assert.Equal(t, 4999, tr.limiter.Remaining())
}

func TestListUsers_LoginFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/assignees", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"login":"ghost"}]`))
	})
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	users, err := newTestTracker(t, mux).ListUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.TrackerUser{{ID: "ghost", Name: "ghost"}}, users)
}

func TestListUsers_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/assignees", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	_, err := newTestTracker(t, mux).ListUsers(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestListLabels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/labels", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"bug"},{"id":2,"name":"Meeting-Action-Item"}]`))
	})

	labels, err := newTestTracker(t, mux).ListLabels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Label{
		{ID: "bug", Name: "bug"},
		{ID: "Meeting-Action-Item", Name: "Meeting-Action-Item"},
	}, labels)
}

func TestCreateLabel_StripsHash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/labels", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "meeting-action-item", body["name"])
		assert.Equal(t, "5e6ad2", body["color"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3,"name":"meeting-action-item","color":"5e6ad2"}`))
	})

	label, err := newTestTracker(t, mux).CreateLabel(context.Background(), "meeting-action-item", "#5E6AD2")

	require.NoError(t, err)
	assert.Equal(t, "meeting-action-item", label.ID)
}

func TestCreateIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/issues", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Send the deck", body["title"])
		assert.Equal(t, "details", body["body"])
		assert.Equal(t, []any{"meeting-action-item"}, body["labels"])
		assert.Equal(t, []any{"asilva"}, body["assignees"])
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprint(w, `{"number":42,"html_url":"https://github.com/acme/notes/issues/42"}`)
	})

	created, err := newTestTracker(t, mux).CreateIssue(context.Background(), domain.IssueRequest{
		TeamID:      "ignored",
		Title:       "Send the deck",
		Description: "details",
		LabelIDs:    []string{"meeting-action-item"},
		AssigneeID:  "asilva",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CreatedIssue{
		Success:    true,
		Identifier: "ACT-42",
		URL:        "https://github.com/acme/notes/issues/42",
	}, created)
}

func TestCreateIssue_Unassigned(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/issues", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "assignees")
		assert.NotContains(t, body, "labels")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number":1}`))
	})

	created, err := newTestTracker(t, mux).CreateIssue(context.Background(), domain.IssueRequest{Title: "t"})

	require.NoError(t, err)
	assert.Equal(t, "ACT-1", created.Identifier)
}

func TestCreateIssue_ValidationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes/issues", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
	})

	_, err := newTestTracker(t, mux).CreateIssue(context.Background(), domain.IssueRequest{Title: "t"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create issue")
}
