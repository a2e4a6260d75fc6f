package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wareline/wareline/internal/shared"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]Order{}}
}

func (r *fakeOrderRepo) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	var out []Order
	for _, o := range r.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s", shared.ErrNotFound, id)
	}
	return o, nil
}

func (r *fakeOrderRepo) CreateWithLines(ctx context.Context, order Order) (Order, error) {
	for _, existing := range r.orders {
		if existing.Code == order.Code {
			return Order{}, fmt.Errorf("%w: order code %s", shared.ErrDuplicate, order.Code)
		}
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = order
	return order, nil
}

func (r *fakeOrderRepo) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	return o.Lines, nil
}

func (r *fakeOrderRepo) SetStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: order %s", shared.ErrNotFound, id)
	}
	for _, s := range from {
		if o.Status == s {
			o.Status = to
			r.orders[id] = o
			return nil
		}
	}
	return fmt.Errorf("%w: order %s cannot move to %s", shared.ErrConflict, id, to)
}

func (r *fakeOrderRepo) MarkCODCollected(ctx context.Context, id uuid.UUID, amount float64) error {
	o, ok := r.orders[id]
	if !ok || o.CODCollectedAt != nil {
		return fmt.Errorf("%w: order %s", shared.ErrConflict, id)
	}
	now := time.Now()
	o.CODAmount = amount
	o.CODCollectedAt = &now
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) MarkCODRemitted(ctx context.Context, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok || o.CODCollectedAt == nil || o.CODRemittedAt != nil {
		return fmt.Errorf("%w: order %s", shared.ErrConflict, id)
	}
	now := time.Now()
	o.CODRemittedAt = &now
	r.orders[id] = o
	return nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		Code:         "so-100",
		CustomerName: "Alex Buyer",
		CODAmount:    50,
		Lines:        []CreateLineInput{{ProductID: uuid.NewString(), Qty: 3, UnitPrice: 10}},
	}
}

func TestCreateOrderNormalisesAndStartsDraft(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	order, err := svc.Create(context.Background(), validCreateInput())

	require.NoError(t, err)
	require.Equal(t, "SO-100", order.Code)
	require.Equal(t, StatusDraft, order.Status)
	require.Len(t, order.Lines, 1)
	require.Equal(t, order.ID, order.Lines[0].OrderID)
}

func TestCreateOrderRequiresLines(t *testing.T) {
	svc := NewService(newFakeOrderRepo())
	in := validCreateInput()
	in.Lines = nil

	_, err := svc.Create(context.Background(), in)

	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestOrderStatusFlow(t *testing.T) {
	svc := NewService(newFakeOrderRepo())
	ctx := context.Background()
	order, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Complete(ctx, order.ID), shared.ErrConflict, "draft cannot complete directly")
	require.NoError(t, svc.Confirm(ctx, order.ID))
	require.NoError(t, svc.Complete(ctx, order.ID))
	require.ErrorIs(t, svc.Cancel(ctx, order.ID), shared.ErrConflict, "completed is terminal")
}

func TestCODCollectThenRemit(t *testing.T) {
	svc := NewService(newFakeOrderRepo())
	ctx := context.Background()
	order, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.RemitCOD(ctx, order.ID), shared.ErrConflict, "remit before collect")
	require.ErrorIs(t, svc.CollectCOD(ctx, order.ID, 0), shared.ErrValidation)
	require.NoError(t, svc.CollectCOD(ctx, order.ID, 120))
	require.NoError(t, svc.RemitCOD(ctx, order.ID))
	require.ErrorIs(t, svc.RemitCOD(ctx, order.ID), shared.ErrConflict, "double remit")
}
