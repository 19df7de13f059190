package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	"github.com/oksasatya/bcit-connector/internal/domain/repository"
)

// Store keeps users and profiles in process memory. It enforces the same
// rules as the Postgres schema: unique email, one profile per user, and
// profile removal when its user is deleted.
type Store struct {
	mu       sync.RWMutex
	users    map[string]entity.User
	byEmail  map[string]string
	profiles map[string]*entity.Profile // keyed by user id
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		byEmail:  make(map[string]string),
		profiles: make(map[string]*entity.Profile),
	}
}

// Users exposes the store as a UserRepository.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Profiles exposes the store as a ProfileRepository.
func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := r.s.byEmail[key]; exists {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.s.users[u.ID] = *u
	r.s.byEmail[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	delete(r.s.byEmail, strings.ToLower(u.Email))
	delete(r.s.profiles, id)
	return nil
}

// Count returns the number of stored users.
func (r *UserRepository) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users)
}

type ProfileRepository struct{ s *Store }

// populate copies the stored profile and fills the owner from the users map.
// Callers must hold at least a read lock.
func (r *ProfileRepository) populate(p *entity.Profile) entity.Profile {
	cp := p.Clone()
	u := r.s.users[p.UserID]
	cp.User = entity.ProfileOwner{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
	cp.Normalize()
	return *cp
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.populate(p)
	return &out, nil
}

func (r *ProfileRepository) List(_ context.Context) ([]entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, r.populate(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	if existing, ok := r.s.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.Experience = existing.Experience
		p.Education = existing.Education
	} else {
		p.ID = uuid.NewString()
		p.CreatedAt = now
		p.Experience = nil
		p.Education = nil
	}
	p.UpdatedAt = now
	r.s.profiles[p.UserID] = p.Clone()
	return nil
}

func (r *ProfileRepository) SaveEntries(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.profiles[p.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Experience = append([]entity.Experience(nil), p.Experience...)
	existing.Education = append([]entity.Education(nil), p.Education...)
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProfileRepository) DeleteByUserID(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.profiles, userID)
	return nil
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.ProfileRepository = (*ProfileRepository)(nil)
)
