package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"booking-backend/internal/auth"
	"booking-backend/internal/model"
	"booking-backend/internal/store"
)

// newTestAPI wires a router against a fresh in-memory database with generous
// rate limits, so handler tests never trip the limiter.
func newTestAPI(t *testing.T) (*gin.Engine, store.Store, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Team{}, &model.Category{}, &model.Item{},
		&model.Reservation{}, &model.PushSubscription{},
	))

	s := store.NewGormStore(db)
	tm := auth.NewTokenManager("test-secret", time.Hour)
	router := NewRouter(s, tm, nil, nil, Options{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTL:        time.Minute,
	})
	return router, s, tm
}

// signedInUser creates a user and returns it with a valid access token.
func signedInUser(t *testing.T, s store.Store, tm *auth.TokenManager, name, role string) (*model.User, string) {
	t.Helper()
	user, err := s.CreateUser(t.Context(), store.UserInput{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", strings.ToLower(name)),
		Password: "pw-" + name,
		Role:     role,
	})
	require.NoError(t, err)

	token, err := tm.Issue(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

// doJSON performs a JSON request against the router.
func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	router, s, tm := newTestAPI(t)
	_, memberToken := signedInUser(t, s, tm, "member", model.RoleMember)

	// No token at all.
	w := doJSON(router, http.MethodGet, "/teams", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "토큰이 존재하지 않습니다.", decodeBody(t, w)["message"])

	// Garbage token.
	w = doJSON(router, http.MethodGet, "/teams", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token, but not an admin.
	w = doJSON(router, http.MethodPost, "/teams", memberToken, gin.H{"name": "새 팀"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "접근 권한이 없습니다.", decodeBody(t, w)["message"])

	// The same request passes for an admin.
	_, adminToken := signedInUser(t, s, tm, "boss", model.RoleAdmin)
	w = doJSON(router, http.MethodPost, "/teams", adminToken, gin.H{"name": "새 팀"})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthMiddleware_CookieFallback(t *testing.T) {
	router, s, tm := newTestAPI(t)
	_, token := signedInUser(t, s, tm, "cookieuser", model.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSignIn(t *testing.T) {
	router, s, tm := newTestAPI(t)
	user, _ := signedInUser(t, s, tm, "signin", model.RoleMember)

	// Missing fields.
	w := doJSON(router, http.MethodPost, "/sign-in", "", gin.H{"email": user.Email})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password.
	w = doJSON(router, http.MethodPost, "/sign-in", "", gin.H{"email": user.Email, "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "이메일 또는 비밀번호를 확인해 주세요.", decodeBody(t, w)["message"])

	// Unknown email gets the same answer as a wrong password.
	w = doJSON(router, http.MethodPost, "/sign-in", "", gin.H{"email": "ghost@example.com", "password": "pw"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Success issues a token and mirrors it into the cookie.
	w = doJSON(router, http.MethodPost, "/sign-in", "", gin.H{"email": user.Email, "password": "pw-signin"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	accessToken, _ := body["accessToken"].(string)
	require.NotEmpty(t, accessToken)

	claims, err := tm.Verify(accessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)

	var hasCookie bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.Value == accessToken {
			hasCookie = true
			require.True(t, c.HttpOnly)
			// The cookie lifetime tracks the token TTL.
			require.Equal(t, int(tm.TTL().Seconds()), c.MaxAge)
		}
	}
	require.True(t, hasCookie, "token cookie must be set")

	// The issued token works against a protected route.
	w = doJSON(router, http.MethodGet, "/teams", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
