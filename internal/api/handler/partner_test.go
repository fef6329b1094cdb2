package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetatet/backend/internal/api/handler"
	"tetatet/backend/internal/match"
	"tetatet/backend/internal/models"
	"tetatet/backend/internal/profile"
	"tetatet/backend/internal/roomstore"
	"tetatet/backend/internal/token"
)

// fakeProfiles - профілі з мапи замість PostgreSQL.
type fakeProfiles struct {
	users map[int64]models.User
}

func (p *fakeProfiles) GetProfile(_ context.Context, userID int64) (*models.User, error) {
	user, ok := p.users[userID]
	if !ok {
		return nil, profile.ErrUserNotFound
	}
	return &user, nil
}

func setupRouter(store roomstore.Store, users ...models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	profiles := &fakeProfiles{users: make(map[int64]models.User)}
	for _, u := range users {
		profiles.users[u.ID] = u
	}
	issuer := token.NewIssuer("test-secret", 0)
	matcher := match.NewService(store, profiles, issuer, nil)
	h := handler.NewHandler(matcher, nil, issuer)

	r := gin.New()
	r.POST("/api/find-partner", h.FindPartner)
	r.GET("/api/room-status", h.RoomStatus)
	r.POST("/api/admin/clear-room/:room_id", h.ClearRoom)
	r.POST("/api/admin/clear-all", h.ClearAll)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) models.MatchResult {
	t.Helper()
	var result models.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestFindPartnerEndpoint_WaitingThenMatched(t *testing.T) {
	store := roomstore.NewMemoryStore()
	r := setupRouter(store,
		models.User{ID: 1, Nickname: "Олег", Gender: "male", Age: 30},
		models.User{ID: 2, Nickname: "Марія", Gender: "female", Age: 28},
	)

	w := postJSON(t, r, "/api/find-partner", models.PartnerRequest{ID: 1, Gender: "female", AgeFrom: 25, AgeTo: 35})
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeResult(t, w)
	assert.Equal(t, models.StateWaiting, first.Status)
	assert.NotEmpty(t, first.Token)

	w = postJSON(t, r, "/api/find-partner", models.PartnerRequest{ID: 2, Gender: "male", AgeFrom: 25, AgeTo: 40})
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeResult(t, w)
	assert.Equal(t, models.StateMatched, second.Status)
	assert.Equal(t, first.RoomKey, second.RoomKey)
	require.NotNil(t, second.Partner)
	assert.Equal(t, "Олег", second.Partner.Nickname)
}

func TestFindPartnerEndpoint_UnknownProfile(t *testing.T) {
	r := setupRouter(roomstore.NewMemoryStore())

	w := postJSON(t, r, "/api/find-partner", models.PartnerRequest{ID: 77})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFindPartnerEndpoint_BadBody(t *testing.T) {
	r := setupRouter(roomstore.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/api/find-partner", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomStatusEndpoint_MissingRoomIsClosed(t *testing.T) {
	r := setupRouter(roomstore.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/api/room-status?key=room:male:gone&user_id=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "missing room must not be an HTTP error")
	result := decodeResult(t, w)
	assert.Equal(t, models.StateClosed, result.Status)
}

func TestRoomStatusEndpoint_RequiresParams(t *testing.T) {
	r := setupRouter(roomstore.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/api/room-status?user_id=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/room-status?key=room:male:a", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearRoomEndpoint(t *testing.T) {
	store := roomstore.NewMemoryStore()
	r := setupRouter(store, models.User{ID: 1, Nickname: "Олег", Gender: "male", Age: 30})

	w := postJSON(t, r, "/api/find-partner", models.PartnerRequest{ID: 1})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeResult(t, w)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/clear-room/"+created.RoomKey, nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	assert.Equal(t, 0, store.Len())
}

func TestClearAllEndpoint(t *testing.T) {
	store := roomstore.NewMemoryStore()
	r := setupRouter(store,
		models.User{ID: 1, Nickname: "Олег", Gender: "male", Age: 30},
		models.User{ID: 2, Nickname: "Ірина", Gender: "female", Age: 45},
	)

	postJSON(t, r, "/api/find-partner", models.PartnerRequest{ID: 1, Gender: "female", AgeFrom: 20, AgeTo: 25})
	postJSON(t, r, "/api/find-partner", models.PartnerRequest{ID: 2, Gender: "male", AgeFrom: 50, AgeTo: 60})
	require.Equal(t, 2, store.Len())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/clear-all", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 0, store.Len())
}
