package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// fakeLinear answers GraphQL operations by matching on the operation name.
type fakeLinear struct {
	mu       sync.Mutex
	handlers map[string]func(vars map[string]any) string
	requests []gqlRequest
	auth     []string
}

func newFakeLinear(t *testing.T) (*fakeLinear, *httptest.Server) {
	t.Helper()
	f := &fakeLinear{handlers: map[string]func(map[string]any) string{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.mu.Unlock()

		for op, h := range f.handlers {
			if strings.Contains(req.Query, op) {
				_, _ = w.Write([]byte(h(req.Variables)))
				return
			}
		}
		_, _ = w.Write([]byte(`{"errors":[{"message":"unknown operation"}]}`))
	}))
	t.Cleanup(server.Close)
	return f, server
}

func newTestTracker(t *testing.T, url string) *Tracker {
	t.Helper()
	tr, err := New(Config{APIKey: "lin_api_test", TeamID: "team-1", Endpoint: url})
	require.NoError(t, err)
	return tr
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{TeamID: "t"})
	assert.Error(t, err)

	_, err = New(Config{APIKey: "k"})
	assert.Error(t, err)
}

func TestAuthorizationHeader(t *testing.T) {
	assert.Equal(t, "lin_api_abc", AuthorizationHeader("lin_api_abc"))
	assert.Equal(t, "Bearer oauth-token", AuthorizationHeader("oauth-token"))
	assert.Equal(t, "Bearer tok", AuthorizationHeader("Bearer tok"))
	assert.Equal(t, "lin_api_abc", AuthorizationHeader("  lin_api_abc\n"))
}

func TestListUsers_PaginatesAndSkipsInactive(t *testing.T) {
	fake, server := newFakeLinear(t)
	fake.handlers["query Users"] = func(vars map[string]any) string {
		if vars["after"] == nil {
			return `{"data":{"users":{"nodes":[
				{"id":"u1","name":"Ana Silva","active":true},
				{"id":"u2","name":"Old Timer","active":false},
				{"id":"u4","name":"Ana Former","active":false}
			],"pageInfo":{"hasNextPage":true,"endCursor":"c1"}}}}`
		}
		assert.Equal(t, "c1", vars["after"])
		return `{"data":{"users":{"nodes":[{"id":"u3","name":"Bo","active":true}],
			"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`
	}

	users, err := newTestTracker(t, server.URL).ListUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.TrackerUser{{ID: "u1", Name: "Ana Silva"}, {ID: "u3", Name: "Bo"}}, users)
	assert.Len(t, fake.requests, 2)
	assert.Equal(t, "lin_api_test", fake.auth[0])

	// A deactivated namesake listed later does not take the first name.
	id, ok := domain.NewUserDirectory(users).Lookup("Ana")
	require.True(t, ok)
	assert.Equal(t, "u1", id)
}

func TestListLabels_FiltersOtherTeams(t *testing.T) {
	fake, server := newFakeLinear(t)
	fake.handlers["query Labels"] = func(map[string]any) string {
		return `{"data":{"issueLabels":{"nodes":[
			{"id":"l1","name":"meeting-action-item","team":{"id":"team-1"}},
			{"id":"l2","name":"Bug","team":null},
			{"id":"l3","name":"elsewhere","team":{"id":"team-2"}}
		],"pageInfo":{"hasNextPage":false}}}}`
	}

	labels, err := newTestTracker(t, server.URL).ListLabels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Label{{ID: "l1", Name: "meeting-action-item"}, {ID: "l2", Name: "Bug"}}, labels)
}

func TestCreateLabel(t *testing.T) {
	fake, server := newFakeLinear(t)
	fake.handlers["mutation CreateLabel"] = func(vars map[string]any) string {
		input := vars["input"].(map[string]any)
		assert.Equal(t, "meeting-action-item", input["name"])
		assert.Equal(t, "#5E6AD2", input["color"])
		assert.Equal(t, "team-1", input["teamId"])
		return `{"data":{"issueLabelCreate":{"success":true,"issueLabel":{"id":"l9","name":"meeting-action-item"}}}}`
	}

	label, err := newTestTracker(t, server.URL).CreateLabel(context.Background(), "meeting-action-item", "#5E6AD2")

	require.NoError(t, err)
	assert.Equal(t, domain.Label{ID: "l9", Name: "meeting-action-item"}, label)
}

func TestCreateLabel_NotSuccessful(t *testing.T) {
	fake, server := newFakeLinear(t)
	fake.handlers["mutation CreateLabel"] = func(map[string]any) string {
		return `{"data":{"issueLabelCreate":{"success":false,"issueLabel":null}}}`
	}

	_, err := newTestTracker(t, server.URL).CreateLabel(context.Background(), "x", "")

	assert.Error(t, err)
}

func TestCreateIssue(t *testing.T) {
	fake, server := newFakeLinear(t)
	fake.handlers["mutation CreateIssue"] = func(vars map[string]any) string {
		input := vars["input"].(map[string]any)
		assert.Equal(t, "team-1", input["teamId"])
		assert.Equal(t, "proj-1", input["projectId"])
		assert.Equal(t, "Send the deck", input["title"])
		assert.Equal(t, []any{"l1"}, input["labelIds"])
		assert.Equal(t, "u1", input["assigneeId"])
		return `{"data":{"issueCreate":{"success":true,"issue":{"id":"i1","identifier":"ENG-42","url":"https://linear.app/x/issue/ENG-42"}}}}`
	}

	created, err := newTestTracker(t, server.URL).CreateIssue(context.Background(), domain.IssueRequest{
		ProjectID:   "proj-1",
		Title:       "Send the deck",
		Description: "desc",
		LabelIDs:    []string{"l1"},
		AssigneeID:  "u1",
	})

	require.NoError(t, err)
	assert.True(t, created.Success)
	assert.Equal(t, "ENG-42", created.Identifier)
}

func TestCreateIssue_OmitsEmptyOptionalFields(t *testing.T) {
	fake, server := newFakeLinear(t)
	fake.handlers["mutation CreateIssue"] = func(vars map[string]any) string {
		input := vars["input"].(map[string]any)
		assert.NotContains(t, input, "assigneeId")
		assert.NotContains(t, input, "projectId")
		assert.NotContains(t, input, "labelIds")
		return `{"data":{"issueCreate":{"success":false,"issue":null}}}`
	}

	created, err := newTestTracker(t, server.URL).CreateIssue(context.Background(), domain.IssueRequest{Title: "t"})

	require.NoError(t, err)
	assert.False(t, created.Success)
}

func TestCreateIssue_GraphQLError(t *testing.T) {
	_, server := newFakeLinear(t)

	_, err := newTestTracker(t, server.URL).CreateIssue(context.Background(), domain.IssueRequest{Title: "t"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestRun_ClassifiesHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, domain.ErrAuthInvalid},
		{http.StatusForbidden, domain.ErrAuthInvalid},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestTracker(t, server.URL).ListUsers(context.Background())

			assert.ErrorIs(t, err, tt.target)
		})
	}
}
