package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	"github.com/oksasatya/bcit-connector/internal/domain/repository"
)

func TestUserCreateUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	u := &entity.User{Name: "Ada", Email: "ada@example.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	err := users.Create(ctx, &entity.User{Name: "Other", Email: "ADA@example.com", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Equal(t, 1, users.Count())

	got, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- users.Create(ctx, &entity.User{Name: "n", Email: "race@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, users.Count())
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users, profiles := s.Users(), s.Profiles()

	u := &entity.User{Name: "Ada", Email: "ada@example.com", AvatarURL: "http://avatar"}
	require.NoError(t, users.Create(ctx, u))

	err := profiles.Upsert(ctx, &entity.Profile{UserID: "nobody", Status: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	p := &entity.Profile{UserID: u.ID, Status: "Student", Skills: []string{"go"}}
	require.NoError(t, profiles.Upsert(ctx, p))
	firstID := p.ID

	p.Experience = []entity.Experience{{ID: "e1", Title: "Dev", Company: "Acme"}}
	require.NoError(t, profiles.SaveEntries(ctx, p))

	require.NoError(t, profiles.Upsert(ctx, &entity.Profile{UserID: u.ID, Status: "Developer"}))

	got, err := profiles.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, firstID, got.ID)
	assert.Equal(t, "Developer", got.Status)
	assert.Equal(t, "Ada", got.User.Name)
	assert.Equal(t, "http://avatar", got.User.AvatarURL)
	require.Len(t, got.Experience, 1, "upsert keeps entries")
	assert.NotNil(t, got.Education)

	list, err := profiles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = profiles.GetByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, u.ID), repository.ErrNotFound)
}

func TestReturnedProfilesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u := &entity.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Profiles().Upsert(ctx, &entity.Profile{UserID: u.ID, Status: "x", Skills: []string{"go"}}))

	got, err := s.Profiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	got.Skills[0] = "mutated"

	again, err := s.Profiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "go", again.Skills[0])
}
