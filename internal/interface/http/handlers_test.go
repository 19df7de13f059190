package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/bcit-connector/internal/application"
	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	repo "github.com/oksasatya/bcit-connector/internal/domain/repository"
	"github.com/oksasatya/bcit-connector/internal/infrastructure/memory"
	"github.com/oksasatya/bcit-connector/pkg/helpers"
	"github.com/oksasatya/bcit-connector/pkg/validation"
)

var errStoreDown = errors.New("store down")

type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *entity.User) error { return errStoreDown }
func (brokenUsers) GetByID(context.Context, string) (*entity.User, error) {
	return nil, errStoreDown
}
func (brokenUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, errStoreDown
}
func (brokenUsers) Delete(context.Context, string) error { return errStoreDown }

type racingUsers struct{}

func (racingUsers) Create(context.Context, *entity.User) error { return repo.ErrDuplicateEmail }
func (racingUsers) GetByID(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}
func (racingUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}
func (racingUsers) Delete(context.Context, string) error { return repo.ErrNotFound }

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterStoreFailureIsPlain500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	jwt := helpers.NewJWTManager("s", time.Hour)
	h := NewAuthHandler(application.NewAuthService(brokenUsers{}, jwt, helpers.NewNopLogger(), nil, nil), helpers.NewNopLogger())

	r := gin.New()
	r.POST("/api/users", h.Register)
	r.POST("/api/auth", h.Login)

	w := serve(r, http.MethodPost, "/api/users", `{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", w.Body.String())

	w = serve(r, http.MethodPost, "/api/auth", `{"email":"ada@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "store down")
}

func TestRegisterLostInsertRaceIsUserExists(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	jwt := helpers.NewJWTManager("s", time.Hour)
	h := NewAuthHandler(application.NewAuthService(racingUsers{}, jwt, helpers.NewNopLogger(), nil, nil), helpers.NewNopLogger())

	r := gin.New()
	r.POST("/api/users", h.Register)

	w := serve(r, http.MethodPost, "/api/users", `{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"User already exists."}]}`, w.Body.String())
}

func TestGithubRepos(t *testing.T) {
	gin.SetMode(gin.TestMode)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/octocat/repos" {
			_, _ = w.Write([]byte(`[{"name":"hello-world"}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	store := memory.NewStore()
	svc := application.NewProfileService(store.Profiles(), store.Users(), nil, helpers.NewNopLogger())
	gh := application.NewGithubClient(upstream.URL, "", nil, 0, helpers.NewNopLogger())
	h := NewProfileHandler(svc, gh, helpers.NewNopLogger())

	r := gin.New()
	r.GET("/api/profile/github/:username", h.GithubRepos)

	w := serve(r, http.MethodGet, "/api/profile/github/octocat", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"hello-world"}]`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/profile/github/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"msg":"No Github profile found"}`, w.Body.String())
}

func TestDates(t *testing.T) {
	from, to := dates("2020-01-01", "2021-01-01", false)
	assert.Equal(t, 2020, from.Year())
	if assert.NotNil(t, to) {
		assert.Equal(t, 2021, to.Year())
	}
	_, to = dates("2020-01-01", "2021-01-01", true)
	assert.Nil(t, to, "current entries have no end date")
}
