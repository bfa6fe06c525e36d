package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rations/internal/adapter/memory"
	"rations/internal/app"
	"rations/internal/domain"
	"rations/internal/seed"
)

var fixedNow = time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() app.Option {
	return app.WithClock(func() time.Time { return fixedNow })
}

// newSeededStore returns a store holding the default seed data.
func newSeededStore(t *testing.T) *memory.DB {
	t.Helper()
	f, err := seed.Default()
	require.NoError(t, err)
	ds, err := f.Dataset(bcrypt.MinCost, fixedNow)
	require.NoError(t, err)
	return memory.New(ds)
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, session *domain.Session) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, errors.New("not found")
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}
