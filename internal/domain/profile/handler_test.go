package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umrahstay/internal/database"
	"umrahstay/internal/domain"
	"umrahstay/internal/middleware"
	"umrahstay/internal/pkg/jwt"
	"umrahstay/internal/repository"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, repository.UserModels()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	users := repository.NewUserRepository(db)
	me := &domain.User{Email: "me@example.com", PasswordHash: "h", Name: "سارة"}
	require.NoError(t, users.Create(context.Background(), me))
	require.NoError(t, users.Create(context.Background(), &domain.User{Email: "taken@example.com", PasswordHash: "h"}))

	jwtSvc := jwt.New("test-secret", time.Hour)
	token, err := jwtSvc.GenerateToken(me.ID, domain.RoleUser)
	require.NoError(t, err)

	r := gin.New()
	NewHandler(NewService(users)).RegisterRoutes(r.Group("/api", middleware.JWTAuth(jwtSvc)))
	return r, token
}

func call(r *gin.Engine, method, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, "/api/user/profile", &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHandler_GetProfile(t *testing.T) {
	r, token := setupRouter(t)

	w, env := call(r, http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "password")

	var u domain.User
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "me@example.com", u.Email)
	assert.Equal(t, "سارة", u.Name)

	w, _ = call(r, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_UpdateProfile(t *testing.T) {
	r, token := setupRouter(t)

	w, env := call(r, http.MethodPut, token, gin.H{"phone": "+966522222222"})
	require.Equal(t, http.StatusOK, w.Code)
	var u domain.User
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "+966522222222", u.Phone)
	assert.Equal(t, "سارة", u.Name)

	w, env = call(r, http.MethodPut, token, gin.H{"password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "WEAK_PASSWORD", env.Error.Code)

	w, env = call(r, http.MethodPut, token, gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = call(r, http.MethodPut, token, gin.H{"email": "Taken@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", env.Error.Code)
}
