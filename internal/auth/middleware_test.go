package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
)

type fakeUserGetter struct {
	users map[int64]dom.User
}

func (f *fakeUserGetter) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func newProtectedRouter(tokens *TokenManager, users UserGetter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireToken(tokens, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserIDFromContext(c)})
	})
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireToken_Success(t *testing.T) {
	tokens := NewTokenManager("k", time.Hour)
	users := &fakeUserGetter{users: map[int64]dom.User{5: {ID: 5, Username: "alice"}}}
	r := newProtectedRouter(tokens, users)

	tok, err := tokens.Issue(5)
	require.NoError(t, err)

	w := doGet(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 5}`, w.Body.String())
}

func TestRequireToken_Unauthorized(t *testing.T) {
	tokens := NewTokenManager("k", time.Hour)
	users := &fakeUserGetter{users: map[int64]dom.User{5: {ID: 5}}}
	r := newProtectedRouter(tokens, users)

	valid, err := tokens.Issue(5)
	require.NoError(t, err)
	foreign, err := NewTokenManager("other", time.Hour).Issue(5)
	require.NoError(t, err)
	deletedUser, err := tokens.Issue(99)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + valid},
		{"no token", "Bearer "},
		{"malformed token", "Bearer not.a.jwt"},
		{"wrong signature", "Bearer " + foreign},
		{"subject no longer exists", "Bearer " + deletedUser},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(r, tc.authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"detail": "Could not validate credentials"}`, w.Body.String())
		})
	}
}

func TestRequireToken_SchemeIsCaseInsensitive(t *testing.T) {
	tokens := NewTokenManager("k", time.Hour)
	users := &fakeUserGetter{users: map[int64]dom.User{5: {ID: 5}}}
	r := newProtectedRouter(tokens, users)

	tok, err := tokens.Issue(5)
	require.NoError(t, err)

	w := doGet(r, "bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
}
