package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bcit-connector/config"
	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	repo "github.com/oksasatya/bcit-connector/internal/domain/repository"
	"github.com/oksasatya/bcit-connector/pkg/helpers"
	"github.com/oksasatya/bcit-connector/pkg/mailer"
	tpl "github.com/oksasatya/bcit-connector/pkg/mailer/templates"
)

// JobPublisher enqueues background jobs; *helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	Mail   JobPublisher
	Cfg    *config.Config
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, mail JobPublisher, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger, Mail: mail, Cfg: cfg}
}

type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// NormalizeEmail is the canonical form used for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and returns a session token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := NormalizeEmail(in.Email)

	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return "", ErrUserExists
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  hash,
		AvatarURL: helpers.GravatarURL(email),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// the unique constraint is authoritative when two registrations race past the lookup
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return "", err
	}
	registrations.Add(1)
	s.enqueueWelcome(ctx, u, in)
	return token, nil
}

func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User, in RegisterInput) {
	if s.Mail == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	data := tpl.NewWelcomeData(s.Cfg, u.Name, u.Email,
		tpl.WithTime(time.Now()),
		tpl.WithIP(in.IP),
		tpl.WithUserAgent(in.UserAgent),
		tpl.WithAvatar(u.AvatarURL),
	)
	job := mailer.EmailJob{To: u.Email, Template: tpl.Welcome, Data: data}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue welcome email")
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnCompare spends the same bcrypt work as a real comparison so unknown
// emails are not distinguishable by response time.
func burnCompare(plain string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = helpers.HashPassword("connector-dummy-password")
	})
	_ = helpers.CompareHashAndPassword(dummyHash, plain)
}

// Login verifies credentials and returns a session token. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		burnCompare(password)
		loginFailures.Add(1)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		loginFailures.Add(1)
		return "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return "", err
	}
	logins.Add(1)
	return token, nil
}

// Me returns the account behind a verified token. The JSON form of
// entity.User never includes the password hash.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
