package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/notifications"
	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/shared"
	"github.com/wareline/wareline/internal/users"
	"github.com/wareline/wareline/jobs"
)

type fakeLotRepo struct {
	lots []inventory.Lot
}

func (f *fakeLotRepo) List(ctx context.Context, filters inventory.ListFilters) ([]inventory.Lot, int, error) {
	return f.lots, len(f.lots), nil
}

func (f *fakeLotRepo) Get(ctx context.Context, id uuid.UUID) (inventory.Lot, error) {
	for _, l := range f.lots {
		if l.ID == id {
			return l, nil
		}
	}
	return inventory.Lot{}, shared.ErrNotFound
}

func (f *fakeLotRepo) Create(ctx context.Context, lot inventory.Lot) (inventory.Lot, error) {
	f.lots = append(f.lots, lot)
	return lot, nil
}

func (f *fakeLotRepo) Reserve(ctx context.Context, lotID uuid.UUID, qty float64) error { return nil }
func (f *fakeLotRepo) Restore(ctx context.Context, lotID uuid.UUID, qty float64) error { return nil }

func (f *fakeLotRepo) ListExpiring(ctx context.Context, before time.Time) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, l := range f.lots {
		if l.ExpiryDate != nil && l.ExpiryDate.Before(before) && l.RemainQty > 0 {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users []users.User
}

func (f *fakeUserRepo) ListUsers(ctx context.Context, role string) ([]users.User, error) {
	var out []users.User
	for _, u := range f.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u users.User) error { return nil }

func (f *fakeUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error { return nil }

type fakeNoteRepo struct {
	inserted []notifications.Notification
}

func (f *fakeNoteRepo) Insert(ctx context.Context, n notifications.Notification) error {
	f.inserted = append(f.inserted, n)
	return nil
}

func (f *fakeNoteRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]notifications.Notification, int, error) {
	return nil, 0, nil
}

func (f *fakeNoteRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error { return nil }

func (f *fakeNoteRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return len(f.inserted), nil
}

func expiringLot(in time.Duration, remain float64) inventory.Lot {
	expiry := time.Now().Add(in)
	return inventory.Lot{
		ID:           uuid.New(),
		ProductID:    uuid.New(),
		DepartmentID: uuid.New(),
		QtyOnHand:    remain,
		RemainQty:    remain,
		ExpiryDate:   &expiry,
	}
}

func TestExpiryScanNotifiesEverySupervisor(t *testing.T) {
	lots := &fakeLotRepo{lots: []inventory.Lot{
		expiringLot(24*time.Hour, 10),
		expiringLot(48*time.Hour, 5),
		expiringLot(30*24*time.Hour, 5), // outside the horizon
	}}
	userRepo := &fakeUserRepo{users: []users.User{
		{ID: uuid.New(), Role: rbac.RoleSupervisor},
		{ID: uuid.New(), Role: rbac.RoleSupervisor},
		{ID: uuid.New(), Role: rbac.RolePacker},
	}}
	notes := &fakeNoteRepo{}

	job := jobs.NewExpiryScanJob(inventory.NewService(lots), userRepo, notes,
		slog.New(slog.NewTextHandler(io.Discard, nil)), 7*24*time.Hour)

	task, err := jobs.NewExpiryScanTask(0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, notes.inserted, 2)
	for _, n := range notes.inserted {
		require.Equal(t, "Lots nearing expiry", n.Title)
		require.Contains(t, n.Body, "2 inventory lot(s)")
	}
}

func TestExpiryScanPayloadOverridesHorizon(t *testing.T) {
	lots := &fakeLotRepo{lots: []inventory.Lot{expiringLot(36*time.Hour, 10)}}
	userRepo := &fakeUserRepo{users: []users.User{{ID: uuid.New(), Role: rbac.RoleSupervisor}}}
	notes := &fakeNoteRepo{}

	job := jobs.NewExpiryScanJob(inventory.NewService(lots), userRepo, notes,
		slog.New(slog.NewTextHandler(io.Discard, nil)), 7*24*time.Hour)

	// 12-hour horizon from the payload: the 36-hour lot stays quiet.
	task, err := jobs.NewExpiryScanTask(12)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Empty(t, notes.inserted)
}

func TestExpiryScanNoLotsNoNoise(t *testing.T) {
	notes := &fakeNoteRepo{}
	job := jobs.NewExpiryScanJob(inventory.NewService(&fakeLotRepo{}), &fakeUserRepo{}, notes,
		slog.New(slog.NewTextHandler(io.Discard, nil)), 7*24*time.Hour)

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(jobs.TaskInventoryExpiryScan, nil)))
	require.Empty(t, notes.inserted)
}
