package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	repo "github.com/oksasatya/bcit-connector/internal/domain/repository"
	"github.com/oksasatya/bcit-connector/internal/infrastructure/search"
)

// ProfileIndexer keeps the search index in step with profile writes.
type ProfileIndexer interface {
	Index(ctx context.Context, p *entity.Profile) error
	Delete(ctx context.Context, userID string) error
	Search(ctx context.Context, q string, size int) ([]search.ProfileDoc, error)
}

type ProfileService struct {
	Profiles repo.ProfileRepository
	Users    repo.UserRepository
	Index    ProfileIndexer
	Logger   *logrus.Logger
}

func NewProfileService(profiles repo.ProfileRepository, users repo.UserRepository, index ProfileIndexer, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Profiles: profiles, Users: users, Index: index, Logger: logger}
}

type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         string // comma separated
	YouTube        string
	Twitter        string
	Facebook       string
	LinkedIn       string
	Instagram      string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// SplitSkills turns "go, sql,,react " into [go sql react].
func SplitSkills(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *ProfileService) get(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, userID string) (*entity.Profile, error) {
	return s.get(ctx, userID)
}

// ByUserID returns a public profile; malformed ids are reported as not found.
func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrProfileNotFound
	}
	return s.get(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]entity.Profile, error) {
	list, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []entity.Profile{}
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

// Upsert creates or updates the caller's profile. Non-empty scalar fields
// overwrite; social links are replaced as a whole.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*entity.Profile, error) {
	p, err := s.get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		p = &entity.Profile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&p.Company, in.Company)
	set(&p.Website, in.Website)
	set(&p.Location, in.Location)
	set(&p.Bio, in.Bio)
	set(&p.Status, in.Status)
	set(&p.GithubUsername, in.GithubUsername)
	if skills := SplitSkills(in.Skills); len(skills) > 0 {
		p.Skills = skills
	}
	p.Social = entity.Social{
		YouTube:   strings.TrimSpace(in.YouTube),
		Twitter:   strings.TrimSpace(in.Twitter),
		Facebook:  strings.TrimSpace(in.Facebook),
		LinkedIn:  strings.TrimSpace(in.LinkedIn),
		Instagram: strings.TrimSpace(in.Instagram),
	}

	if err := s.Profiles.Upsert(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	profileUpserts.Add(1)

	saved, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, saved)
	return saved, nil
}

func (s *ProfileService) reindex(ctx context.Context, p *entity.Profile) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", p.UserID).Warn("profile index failed")
	}
}

// DeleteAccount removes the user; the store removes the profile with it.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Users.Delete(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("delete user: %w", err)
	}
	accountDeletions.Add(1)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, userID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile index delete failed")
		}
	}
	return nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*entity.Profile, error) {
	p, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	exp := entity.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	p.Experience = append([]entity.Experience{exp}, p.Experience...)
	return s.saveEntries(ctx, p)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error) {
	p, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, e := range p.Experience {
		if e.ID == expID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrExperienceNotFound
	}
	p.Experience = append(p.Experience[:idx], p.Experience[idx+1:]...)
	return s.saveEntries(ctx, p)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*entity.Profile, error) {
	p, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	edu := entity.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	p.Education = append([]entity.Education{edu}, p.Education...)
	return s.saveEntries(ctx, p)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error) {
	p, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, e := range p.Education {
		if e.ID == eduID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrEducationNotFound
	}
	p.Education = append(p.Education[:idx], p.Education[idx+1:]...)
	return s.saveEntries(ctx, p)
}

func (s *ProfileService) saveEntries(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	if err := s.Profiles.SaveEntries(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("save profile entries: %w", err)
	}
	p.Normalize()
	return p, nil
}

// Search queries the profile index; it returns nothing when search is off.
func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]search.ProfileDoc, error) {
	if s.Index == nil {
		return []search.ProfileDoc{}, nil
	}
	return s.Index.Search(ctx, strings.TrimSpace(q), size)
}
