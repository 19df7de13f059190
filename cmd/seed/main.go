package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/bcit-connector/config"
	"github.com/oksasatya/bcit-connector/internal/application"
	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	repo "github.com/oksasatya/bcit-connector/internal/domain/repository"
	pginfra "github.com/oksasatya/bcit-connector/internal/infrastructure/postgres"
	"github.com/oksasatya/bcit-connector/pkg/helpers"
)

const (
	demoName     = "Demo Student"
	demoEmail    = "demo@bcitconnector.dev"
	demoPassword = "password123"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)

	u, err := users.GetByEmail(ctx, demoEmail)
	if errors.Is(err, repo.ErrNotFound) {
		hash, herr := helpers.HashPassword(demoPassword)
		if herr != nil {
			logger.Fatalf("failed to hash password: %v", herr)
		}
		u = &entity.User{Name: demoName, Email: demoEmail, Password: hash, AvatarURL: helpers.GravatarURL(demoEmail)}
		err = users.Create(ctx, u)
	}
	if err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}
	logger.WithField("user_id", u.ID).Infof("seeded user email=%s password=%s", demoEmail, demoPassword)

	// start the demo profile from scratch on every run
	if err := profiles.DeleteByUserID(ctx, u.ID); err != nil {
		logger.Fatalf("failed to reset profile: %v", err)
	}

	svc := application.NewProfileService(profiles, users, nil, logger)
	if _, err := svc.Upsert(ctx, u.ID, application.ProfileInput{
		Company:        "BCIT",
		Location:       "Burnaby, BC",
		Bio:            "Computer Systems Technology student.",
		Status:         "Student or Learning",
		GithubUsername: "octocat",
		Skills:         "Go, PostgreSQL, React",
		LinkedIn:       "https://www.linkedin.com/in/demo",
	}); err != nil {
		logger.Fatalf("failed to seed profile: %v", err)
	}
	if _, err := svc.AddEducation(ctx, u.ID, application.EducationInput{
		School:       "British Columbia Institute of Technology",
		Degree:       "Diploma",
		FieldOfStudy: "Computer Systems Technology",
		From:         time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		Current:      true,
	}); err != nil {
		logger.Fatalf("failed to seed education: %v", err)
	}
	logger.Info("seeded demo profile")
}
