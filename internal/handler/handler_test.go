package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington-high/activities/internal/handler"
	"github.com/mergington-high/activities/internal/model"
	"github.com/mergington-high/activities/internal/repository"
	"github.com/mergington-high/activities/internal/service"
)

// newTestRouter builds the full router over a freshly seeded in-memory
// catalog, so each test starts from the same state.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := repository.NewMemoryStore(repository.DefaultCatalog())
	svc := service.NewActivityService(store)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := handler.NewActivityHandler(svc, logger)
	return h.Router(t.TempDir())
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getCatalog(t *testing.T, router http.Handler) map[string]model.Activity {
	t.Helper()
	w := doRequest(t, router, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)

	var catalog map[string]model.Activity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	return catalog
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

func signupURL(activity, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/signup?email=" + url.QueryEscape(email)
}

func unregisterURL(activity, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/unregister?email=" + url.QueryEscape(email)
}

func TestRootRedirect(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/static/index.html", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetActivities(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	// Decode loosely to assert the wire structure, not just our own types.
	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))

	for _, name := range []string{"Chess Club", "Programming Class", "Gym Class"} {
		activity, ok := raw[name]
		require.True(t, ok, "expected %q in response", name)
		assert.Contains(t, activity, "description")
		assert.Contains(t, activity, "schedule")
		assert.Contains(t, activity, "max_participants")
		assert.Contains(t, activity, "participants")
		assert.IsType(t, []any{}, activity["participants"])
	}
}

func TestSignUp(t *testing.T) {
	t.Run("success returns confirmation message", func(t *testing.T) {
		router := newTestRouter(t)

		w := doRequest(t, router, http.MethodPost, signupURL("Chess Club", "newstudent@mergington.edu"))
		require.Equal(t, http.StatusOK, w.Code)

		var resp model.MessageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "Signed up")
		assert.Contains(t, resp.Message, "newstudent@mergington.edu")
		assert.Contains(t, resp.Message, "Chess Club")
	})

	t.Run("adds the participant", func(t *testing.T) {
		router := newTestRouter(t)

		before := len(getCatalog(t, router)["Chess Club"].Participants)
		doRequest(t, router, http.MethodPost, signupURL("Chess Club", "test@mergington.edu"))

		chess := getCatalog(t, router)["Chess Club"]
		assert.Contains(t, chess.Participants, "test@mergington.edu")
		assert.Len(t, chess.Participants, before+1)
	})

	t.Run("duplicate signup is a 400", func(t *testing.T) {
		router := newTestRouter(t)

		w := doRequest(t, router, http.MethodPost, signupURL("Chess Club", "michael@mergington.edu"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, detailOf(t, w), "already signed up")

		// Failed call leaves the roster unchanged.
		assert.Len(t, getCatalog(t, router)["Chess Club"].Participants, 2)
	})

	t.Run("unknown activity is a 404", func(t *testing.T) {
		router := newTestRouter(t)

		w := doRequest(t, router, http.MethodPost, signupURL("Nonexistent Activity", "test@mergington.edu"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, detailOf(t, w), "not found")
	})

	t.Run("missing email is a 400", func(t *testing.T) {
		router := newTestRouter(t)

		w := doRequest(t, router, http.MethodPost, "/activities/Chess%20Club/signup")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnregister(t *testing.T) {
	t.Run("success returns confirmation message", func(t *testing.T) {
		router := newTestRouter(t)

		w := doRequest(t, router, http.MethodPost, unregisterURL("Chess Club", "michael@mergington.edu"))
		require.Equal(t, http.StatusOK, w.Code)

		var resp model.MessageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "Unregistered")
		assert.Contains(t, resp.Message, "michael@mergington.edu")
	})

	t.Run("removes the participant", func(t *testing.T) {
		router := newTestRouter(t)

		before := len(getCatalog(t, router)["Chess Club"].Participants)
		doRequest(t, router, http.MethodPost, unregisterURL("Chess Club", "michael@mergington.edu"))

		chess := getCatalog(t, router)["Chess Club"]
		assert.NotContains(t, chess.Participants, "michael@mergington.edu")
		assert.Len(t, chess.Participants, before-1)
	})

	t.Run("absent email is a 400", func(t *testing.T) {
		router := newTestRouter(t)

		w := doRequest(t, router, http.MethodPost, unregisterURL("Chess Club", "notregistered@mergington.edu"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, detailOf(t, w), "not registered")

		assert.Len(t, getCatalog(t, router)["Chess Club"].Participants, 2)
	})

	t.Run("unknown activity is a 404", func(t *testing.T) {
		router := newTestRouter(t)

		w := doRequest(t, router, http.MethodPost, unregisterURL("Nonexistent Activity", "michael@mergington.edu"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, detailOf(t, w), "not found")
	})
}

func TestSignUpThenUnregister(t *testing.T) {
	router := newTestRouter(t)
	email := "integration@mergington.edu"

	w := doRequest(t, router, http.MethodPost, signupURL("Chess Club", email))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, getCatalog(t, router)["Chess Club"].Participants, email)

	w = doRequest(t, router, http.MethodPost, unregisterURL("Chess Club", email))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, getCatalog(t, router)["Chess Club"].Participants, email)
}

// TestRosterOrdering walks the seeded Chess Club roster through a signup
// and an unregister: remaining originals keep their order and new entries
// stay appended.
func TestRosterOrdering(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, signupURL("Chess Club", "new@x.edu"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		[]string{"michael@mergington.edu", "daniel@mergington.edu", "new@x.edu"},
		getCatalog(t, router)["Chess Club"].Participants,
	)

	w = doRequest(t, router, http.MethodPost, signupURL("Chess Club", "michael@mergington.edu"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, unregisterURL("Chess Club", "michael@mergington.edu"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		[]string{"daniel@mergington.edu", "new@x.edu"},
		getCatalog(t, router)["Chess Club"].Participants,
	)
}

func TestMultipleSignupsAndUnregisters(t *testing.T) {
	router := newTestRouter(t)
	emails := []string{"user1@mergington.edu", "user2@mergington.edu", "user3@mergington.edu"}

	for _, email := range emails {
		w := doRequest(t, router, http.MethodPost, signupURL("Gym Class", email))
		require.Equal(t, http.StatusOK, w.Code)
	}
	gym := getCatalog(t, router)["Gym Class"]
	for _, email := range emails {
		assert.Contains(t, gym.Participants, email)
	}

	for _, email := range emails[:2] {
		w := doRequest(t, router, http.MethodPost, unregisterURL("Gym Class", email))
		require.Equal(t, http.StatusOK, w.Code)
	}
	gym = getCatalog(t, router)["Gym Class"]
	assert.NotContains(t, gym.Participants, emails[0])
	assert.NotContains(t, gym.Participants, emails[1])
	assert.Contains(t, gym.Participants, emails[2])
}
