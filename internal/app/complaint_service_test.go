package app_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rations/internal/app"
	"rations/internal/domain"
	"rations/internal/metrics"
)

func TestComplaintService_File(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	svc := app.NewComplaintService(newSeededStore(t), fixedClock(), app.WithMetrics(m))

	c, err := svc.File(ctx, 1, 101, "  Scale looked off.  ")
	require.NoError(t, err)
	assert.Equal(t, int64(403), c.ID)
	assert.Equal(t, "Scale looked off.", c.Text)
	assert.Equal(t, domain.ComplaintPending, c.Status)
	assert.Equal(t, fixedNow, c.CreatedAt)
	assert.Nil(t, c.ResolvedAt)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComplaintsFiled))

	next, err := svc.File(ctx, 2, 101, "again")
	require.NoError(t, err)
	assert.Equal(t, int64(404), next.ID)
}

func TestComplaintService_File_Rejects(t *testing.T) {
	tests := []struct {
		name          string
		beneficiaryID int64
		shopID        int64
		text          string
		wantErr       error
	}{
		{"empty text", 1, 101, "", domain.ErrInvalidInput},
		{"whitespace text", 1, 101, " \t\n", domain.ErrInvalidInput},
		{"unknown beneficiary", 42, 101, "hello", domain.ErrNotFound},
		{"unknown shop", 1, 999, "hello", domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newSeededStore(t)
			before := store.Snapshot()
			svc := app.NewComplaintService(store)

			_, err := svc.File(context.Background(), tc.beneficiaryID, tc.shopID, tc.text)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, store.Snapshot())
		})
	}
}

func TestComplaintService_Resolve401Twice(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	store := newSeededStore(t)
	svc := app.NewComplaintService(store, fixedClock(), app.WithMetrics(m))

	first, err := svc.Resolve(ctx, 401, 501)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintResolved, first.Status)
	require.NotNil(t, first.ResolvedAt)
	assert.Equal(t, fixedNow, *first.ResolvedAt)
	assert.Equal(t, int64(501), first.ResolvedBy)

	snap := store.Snapshot()
	second, err := svc.Resolve(ctx, 401, 777)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, snap, store.Snapshot())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComplaintsResolved))
}

func TestComplaintService_Resolve_AlreadyResolvedSeed(t *testing.T) {
	svc := app.NewComplaintService(newSeededStore(t), fixedClock())

	c, err := svc.Resolve(context.Background(), 402, 501)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintResolved, c.Status)
	assert.Nil(t, c.ResolvedAt)
	assert.Zero(t, c.ResolvedBy)
}

func TestComplaintService_Resolve_Unknown(t *testing.T) {
	svc := app.NewComplaintService(newSeededStore(t))

	_, err := svc.Resolve(context.Background(), 999, 501)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
