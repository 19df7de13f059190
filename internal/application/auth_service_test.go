package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bcit-connector/config"
	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	repo "github.com/oksasatya/bcit-connector/internal/domain/repository"
	"github.com/oksasatya/bcit-connector/internal/infrastructure/memory"
	"github.com/oksasatya/bcit-connector/pkg/helpers"
	"github.com/oksasatya/bcit-connector/pkg/mailer"
	tpl "github.com/oksasatya/bcit-connector/pkg/mailer/templates"
)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, body.(mailer.EmailJob))
	return nil
}

func newAuthService(t *testing.T, pub JobPublisher) (*AuthService, *memory.UserRepository) {
	t.Helper()
	users := memory.NewStore().Users()
	cfg := &config.Config{MailSendEnabled: true, CompanyName: "BCIT Connector"}
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, jwt, helpers.NewNopLogger(), pub, cfg), users
}

func TestRegisterIssuesTokenForNewUser(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc, users := newAuthService(t, pub)

	token, err := svc.Register(ctx, RegisterInput{Name: " Ada ", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)

	claims, err := svc.JWT.ParseToken(token)
	require.NoError(t, err)

	u, err := svc.Me(ctx, claims.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, helpers.GravatarURL("ada@example.com"), u.AvatarURL)
	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "secret1"))
	assert.Equal(t, 1, users.Count())

	require.Len(t, pub.jobs, 1)
	assert.Equal(t, "ada@example.com", pub.jobs[0].To)
	assert.Equal(t, tpl.Welcome, pub.jobs[0].Template)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthService(t, nil)

	_, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Imposter", Email: "ADA@example.com", Password: "other12"})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, 1, users.Count())
}

// racingUsers never sees the email on lookup but loses on insert, as when a
// concurrent registration commits between the two calls.
type racingUsers struct{ creates int }

func (r *racingUsers) Create(context.Context, *entity.User) error {
	r.creates++
	return repo.ErrDuplicateEmail
}
func (*racingUsers) GetByID(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}
func (*racingUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}
func (*racingUsers) Delete(context.Context, string) error { return repo.ErrNotFound }

func TestRegisterUniqueViolationAfterLookup(t *testing.T) {
	pub := &fakePublisher{}
	users := &racingUsers{}
	cfg := &config.Config{MailSendEnabled: true}
	svc := NewAuthService(users, helpers.NewJWTManager("test-secret", time.Hour), helpers.NewNopLogger(), pub, cfg)

	token, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Empty(t, token)
	assert.Equal(t, 1, users.creates)
	assert.Empty(t, pub.jobs)
}

func TestRegisterSkipsMailWhenDisabled(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newAuthService(t, pub)
	svc.Cfg.MailSendEnabled = false

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Empty(t, pub.jobs)
}

func TestLoginCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t, nil)
	_, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, "ADA@example.com ", "secret1")
	require.NoError(t, err)
	claims, err := svc.JWT.ParseToken(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.User.ID)

	_, wrongPw := svc.Login(ctx, "ada@example.com", "wrong-password")
	_, unknown := svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestMeUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t, nil)
	_, err := svc.Me(context.Background(), "6f1c2f0e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserJSONOmitsPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t, nil)
	token, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := svc.JWT.ParseToken(token)
	require.NoError(t, err)
	u, err := svc.Me(ctx, claims.User.ID)
	require.NoError(t, err)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "password")
	assert.Contains(t, m, "_id")
	assert.Contains(t, m, "avatar")
	assert.Contains(t, m, "date")
}
