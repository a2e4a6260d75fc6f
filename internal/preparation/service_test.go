package preparation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wareline/wareline/internal/sales/orders"
	"github.com/wareline/wareline/internal/shared"
	"github.com/wareline/wareline/internal/users"
)

type lotState struct {
	onHand float64
	remain float64
}

type memState struct {
	tasks map[uuid.UUID]Task
	items map[uuid.UUID]Item
	lots  map[uuid.UUID]lotState
}

func (s memState) clone() memState {
	out := memState{
		tasks: make(map[uuid.UUID]Task, len(s.tasks)),
		items: make(map[uuid.UUID]Item, len(s.items)),
		lots:  make(map[uuid.UUID]lotState, len(s.lots)),
	}
	for k, v := range s.tasks {
		out.tasks[k] = v
	}
	for k, v := range s.items {
		out.items[k] = v
	}
	for k, v := range s.lots {
		out.lots[k] = v
	}
	return out
}

// fakeRepo keeps everything in maps. WithTx runs the unit of work against a
// clone and swaps it in only on success, mirroring commit/rollback.
type fakeRepo struct {
	mu    sync.Mutex
	state memState
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{state: memState{
		tasks: map[uuid.UUID]Task{},
		items: map[uuid.UUID]Item{},
		lots:  map[uuid.UUID]lotState{},
	}}
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	working := r.state.clone()
	if err := fn(ctx, &fakeTx{state: &working}); err != nil {
		return err
	}
	r.state = working
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filters ListFilters) ([]Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Task
	for _, t := range r.state.tasks {
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Get(ctx context.Context, id uuid.UUID) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.state.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	for _, it := range r.state.items {
		if it.TaskID == id {
			t.Items = append(t.Items, it)
		}
	}
	return t, nil
}

func (r *fakeRepo) GetItem(ctx context.Context, taskID, itemID uuid.UUID) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.state.items[itemID]
	if !ok || it.TaskID != taskID {
		return Item{}, fmt.Errorf("%w: item %s", shared.ErrNotFound, itemID)
	}
	return it, nil
}

func (r *fakeRepo) AggregatedPostQty(ctx context.Context, orderLineID uuid.UUID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, it := range r.state.items {
		if it.OrderLineID != orderLineID {
			continue
		}
		if r.state.tasks[it.TaskID].Status == StatusCancelled {
			continue
		}
		sum += it.PostQty
	}
	return sum, nil
}

func (r *fakeRepo) RefreshPickedCount(ctx context.Context, taskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.state.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, taskID)
	}
	count := 0
	for _, it := range r.state.items {
		if it.TaskID == taskID && it.PostQty > 0 {
			count++
		}
	}
	t.PickedCount = count
	r.state.tasks[taskID] = t
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteTaskCascade(ctx, id)
	})
}

func (r *fakeRepo) lot(id uuid.UUID) lotState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.lots[id]
}

func (r *fakeRepo) addLot(onHand, remain float64) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.lots[id] = lotState{onHand: onHand, remain: remain}
	return id
}

type fakeTx struct {
	state *memState
}

func (t *fakeTx) InsertTask(ctx context.Context, task Task) error {
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	t.state.tasks[task.ID] = task
	return nil
}

func (t *fakeTx) InsertItems(ctx context.Context, items []Item) error {
	for _, it := range items {
		t.state.items[it.ID] = it
	}
	return nil
}

func (t *fakeTx) StatusOf(ctx context.Context, id uuid.UUID) (Status, error) {
	task, ok := t.state.tasks[id]
	if !ok {
		return "", fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return task.Status, nil
}

func (t *fakeTx) HeaderOf(ctx context.Context, id uuid.UUID) (Task, error) {
	task, ok := t.state.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return task, nil
}

func (t *fakeTx) ItemsOf(ctx context.Context, taskID uuid.UUID) ([]Item, error) {
	var out []Item
	for _, it := range t.state.items {
		if it.TaskID == taskID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (t *fakeTx) UpdateTaskFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	task, ok := t.state.tasks[id]
	if !ok {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	for col, val := range fields {
		switch col {
		case "supervisor_id":
			task.SupervisorID = val.(uuid.UUID)
		case "packer_id":
			task.PackerID = val.(uuid.UUID)
		case "deadline":
			task.Deadline = val.(time.Time)
		case "note":
			task.Note = val.(string)
		}
	}
	task.UpdatedAt = time.Now()
	t.state.tasks[id] = task
	return nil
}

func (t *fakeTx) UpdateItemFields(ctx context.Context, itemID uuid.UUID, fields map[string]interface{}) error {
	it, ok := t.state.items[itemID]
	if !ok {
		return fmt.Errorf("%w: item %s", shared.ErrNotFound, itemID)
	}
	for col, val := range fields {
		switch col {
		case "post_qty":
			it.PostQty = val.(float64)
		case "pre_evd":
			it.PreEvd = val.(string)
		case "post_evd":
			it.PostEvd = val.(string)
		case "lot_id":
			lot := val.(uuid.UUID)
			it.LotID = &lot
		}
	}
	t.state.items[itemID] = it
	return nil
}

func (t *fakeTx) flip(id uuid.UUID, from []Status, mutate func(*Task)) (bool, error) {
	task, ok := t.state.tasks[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if task.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	mutate(&task)
	task.UpdatedAt = time.Now()
	t.state.tasks[id] = task
	return true, nil
}

func (t *fakeTx) MarkStarted(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.flip(id, []Status{StatusAssigned}, func(task *Task) {
		task.Status = StatusInProgress
		if task.StartedAt == nil {
			now := time.Now()
			task.StartedAt = &now
		}
	})
}

func (t *fakeTx) MarkSubmitted(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.flip(id, []Status{StatusInProgress}, func(task *Task) {
		task.Status = StatusPendingReview
		pending := ReviewPending
		task.ReviewResult = &pending
	})
}

func (t *fakeTx) MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.flip(id, []Status{StatusPendingReview}, func(task *Task) {
		task.Status = StatusCompleted
		confirmed := ReviewConfirmed
		task.ReviewResult = &confirmed
		if task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	})
}

func (t *fakeTx) MarkRejected(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	return t.flip(id, []Status{StatusPendingReview}, func(task *Task) {
		task.Status = StatusInProgress
		rejected := ReviewRejected
		task.ReviewResult = &rejected
		task.ReviewReason = reason
	})
}

func (t *fakeTx) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.flip(id, []Status{StatusAssigned, StatusInProgress, StatusPendingReview}, func(task *Task) {
		task.Status = StatusCancelled
	})
}

func (t *fakeTx) SetReviewPending(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.flip(id, []Status{StatusPendingReview}, func(task *Task) {
		pending := ReviewPending
		task.ReviewResult = &pending
	})
}

func (t *fakeTx) ReserveLot(ctx context.Context, lotID uuid.UUID, qty float64) error {
	lot, ok := t.state.lots[lotID]
	if !ok || lot.remain < qty {
		return fmt.Errorf("%w: lot %s", shared.ErrConflict, lotID)
	}
	lot.remain -= qty
	t.state.lots[lotID] = lot
	return nil
}

func (t *fakeTx) RestoreLot(ctx context.Context, lotID uuid.UUID, qty float64) error {
	lot, ok := t.state.lots[lotID]
	if !ok || lot.remain+qty > lot.onHand {
		return fmt.Errorf("%w: lot %s restore overflow", shared.ErrDependency, lotID)
	}
	lot.remain += qty
	t.state.lots[lotID] = lot
	return nil
}

func (t *fakeTx) DeleteTaskCascade(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.state.tasks[id]; !ok {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	delete(t.state.tasks, id)
	for itemID, it := range t.state.items {
		if it.TaskID == id {
			delete(t.state.items, itemID)
		}
	}
	return nil
}

type fakeOrderLines struct {
	lines map[uuid.UUID][]orders.OrderLine
}

func (f *fakeOrderLines) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]orders.OrderLine, error) {
	return f.lines[orderID], nil
}

type fakeUsers struct {
	known map[uuid.UUID]bool
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	if !f.known[id] {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	return &users.User{ID: id}, nil
}

type sentNote struct {
	userID uuid.UUID
	title  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNote
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, title, body, link string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNote{userID: userID, title: title})
}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	notifier   *fakeNotifier
	orderID    uuid.UUID
	lineID     uuid.UUID
	packerID   uuid.UUID
	supervisor uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	orderID := uuid.New()
	lineID := uuid.New()
	packerID := uuid.New()
	supervisor := uuid.New()
	orderLinesFake := &fakeOrderLines{lines: map[uuid.UUID][]orders.OrderLine{
		orderID: {{ID: lineID, OrderID: orderID, ProductID: uuid.New(), Qty: 10}},
	}}
	usersFake := &fakeUsers{known: map[uuid.UUID]bool{packerID: true, supervisor: true}}
	notifier := &fakeNotifier{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, orderLinesFake, usersFake, notifier)
	return &fixture{
		svc:        svc,
		repo:       repo,
		notifier:   notifier,
		orderID:    orderID,
		lineID:     lineID,
		packerID:   packerID,
		supervisor: supervisor,
	}
}

func (f *fixture) createTask(t *testing.T, lotID *uuid.UUID, qty float64) Task {
	t.Helper()
	var lotRef *string
	if lotID != nil {
		s := lotID.String()
		lotRef = &s
	}
	task, err := f.svc.CreateTask(context.Background(), f.supervisor, CreateInput{
		OrderID:  f.orderID.String(),
		PackerID: f.packerID.String(),
		Deadline: time.Now().Add(24 * time.Hour),
		Items:    []CreateItemInput{{OrderLineID: f.lineID.String(), Qty: qty, LotID: lotRef}},
	})
	require.NoError(t, err)
	return task
}

func TestCreateTaskReservesBoundLot(t *testing.T) {
	f := newFixture(t)
	lotID := f.repo.addLot(50, 50)

	task := f.createTask(t, &lotID, 10)

	require.Equal(t, StatusAssigned, task.Status)
	require.Equal(t, f.supervisor, task.SupervisorID)
	require.Len(t, task.Items, 1)
	require.Equal(t, float64(10), task.Items[0].RequestedQty)
	require.Zero(t, task.Items[0].PostQty)
	require.Equal(t, float64(40), f.repo.lot(lotID).remain)
}

func TestCreateTaskRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t)
	lotID := f.repo.addLot(5, 5)
	lotRef := lotID.String()

	_, err := f.svc.CreateTask(context.Background(), f.supervisor, CreateInput{
		OrderID:  f.orderID.String(),
		PackerID: f.packerID.String(),
		Deadline: time.Now().Add(time.Hour),
		Items:    []CreateItemInput{{OrderLineID: f.lineID.String(), Qty: 10, LotID: &lotRef}},
	})

	require.ErrorIs(t, err, shared.ErrConflict)
	require.Equal(t, float64(5), f.repo.lot(lotID).remain)
	_, total, listErr := f.repo.List(context.Background(), ListFilters{})
	require.NoError(t, listErr)
	require.Zero(t, total, "failed create must leave nothing behind")
}

func TestCreateTaskRejectsForeignOrderLine(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTask(context.Background(), f.supervisor, CreateInput{
		OrderID:  f.orderID.String(),
		PackerID: f.packerID.String(),
		Deadline: time.Now().Add(time.Hour),
		Items:    []CreateItemInput{{OrderLineID: uuid.NewString(), Qty: 1}},
	})

	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateTaskRejectsUnknownPacker(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTask(context.Background(), f.supervisor, CreateInput{
		OrderID:  f.orderID.String(),
		PackerID: uuid.NewString(),
		Deadline: time.Now().Add(time.Hour),
		Items:    []CreateItemInput{{OrderLineID: f.lineID.String(), Qty: 1}},
	})

	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCancelRestoresInventory(t *testing.T) {
	f := newFixture(t)
	lotID := f.repo.addLot(50, 50)
	task := f.createTask(t, &lotID, 10)
	require.Equal(t, float64(40), f.repo.lot(lotID).remain)

	require.NoError(t, f.svc.Cancel(context.Background(), task.ID))

	got, err := f.svc.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, got.Status)
	require.Equal(t, float64(50), f.repo.lot(lotID).remain)
}

func TestCancelTwiceIsConflictWithoutDoubleRestore(t *testing.T) {
	f := newFixture(t)
	lotID := f.repo.addLot(50, 50)
	task := f.createTask(t, &lotID, 10)

	require.NoError(t, f.svc.Cancel(context.Background(), task.ID))
	err := f.svc.Cancel(context.Background(), task.ID)

	require.ErrorIs(t, err, shared.ErrConflict)
	require.Equal(t, float64(50), f.repo.lot(lotID).remain)
	require.LessOrEqual(t, f.repo.lot(lotID).remain, f.repo.lot(lotID).onHand)
}

func TestCancelCompletedTaskIsConflict(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	ctx := context.Background()

	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "in_progress"))
	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "pending_review"))
	require.NoError(t, f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "confirmed"}))

	require.ErrorIs(t, f.svc.Cancel(ctx, task.ID), shared.ErrConflict)
}

func TestPackerItemUpdateRespectsTerminalGuard(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	ctx := context.Background()
	itemID := task.Items[0].ID
	qty := 7.0

	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "in_progress"))
	require.NoError(t, f.svc.UpdateItemByPacker(ctx, f.packerID, task.ID, itemID, PackerItemInput{PostQty: &qty}))

	got, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, 7.0, got.Items[0].PostQty)
	require.Equal(t, 1, got.PickedCount)

	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "pending_review"))
	require.NoError(t, f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "confirmed"}))

	err = f.svc.UpdateItemByPacker(ctx, f.packerID, task.ID, itemID, PackerItemInput{PostQty: &qty})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestPackerItemUpdateRejectsOtherCallers(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	qty := 3.0

	err := f.svc.UpdateItemByPacker(context.Background(), f.supervisor, task.ID, task.Items[0].ID, PackerItemInput{PostQty: &qty})

	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestPackerLotRebindMovesReservation(t *testing.T) {
	f := newFixture(t)
	oldLot := f.repo.addLot(50, 50)
	newLot := f.repo.addLot(30, 30)
	task := f.createTask(t, &oldLot, 10)
	require.Equal(t, float64(40), f.repo.lot(oldLot).remain)

	newRef := newLot.String()
	err := f.svc.UpdateItemByPacker(context.Background(), f.packerID, task.ID, task.Items[0].ID, PackerItemInput{LotID: &newRef})

	require.NoError(t, err)
	require.Equal(t, float64(50), f.repo.lot(oldLot).remain)
	require.Equal(t, float64(20), f.repo.lot(newLot).remain)
}

func TestReviewRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	ctx := context.Background()
	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "in_progress"))
	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "pending_review"))

	err := f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "rejected"})
	require.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "rejected", Reason: "short pick on line 1"}))
	got, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, got.Status)
	require.Equal(t, ReviewRejected, *got.ReviewResult)
	require.Equal(t, "short pick on line 1", got.ReviewReason)
}

func TestTimestampsSetOnce(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	ctx := context.Background()

	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "in_progress"))
	first, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, first.StartedAt)

	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "pending_review"))
	require.NoError(t, f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "rejected", Reason: "recount"}))

	again, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, first.StartedAt, again.StartedAt, "rejection must not reset startedAt")

	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "pending_review"))
	require.NoError(t, f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "confirmed"}))
	done, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	require.Equal(t, first.StartedAt, done.StartedAt)
}

func TestTerminalStatesAreAbsorbing(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	ctx := context.Background()
	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "in_progress"))
	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "pending_review"))
	require.NoError(t, f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "confirmed"}))

	note := "late edit"
	require.ErrorIs(t, f.svc.UpdateTask(ctx, task.ID, UpdateInput{Note: &note}), shared.ErrConflict)
	require.ErrorIs(t, f.svc.SetStatus(ctx, task.ID, "in_progress"), shared.ErrConflict)

	got, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, got.Status)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)

	err := f.svc.SetStatus(context.Background(), task.ID, "shipped")

	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSetStatusSkippingAStateIsConflict(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)

	err := f.svc.SetStatus(context.Background(), task.ID, "completed")

	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestAggregatedPostQtySpansTasksAndSkipsCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	qty := 5.0

	first := f.createTask(t, nil, 5)
	second := f.createTask(t, nil, 5)
	require.NoError(t, f.svc.SetStatus(ctx, first.ID, "in_progress"))
	require.NoError(t, f.svc.SetStatus(ctx, second.ID, "in_progress"))
	require.NoError(t, f.svc.UpdateItemByPacker(ctx, f.packerID, first.ID, first.Items[0].ID, PackerItemInput{PostQty: &qty}))
	require.NoError(t, f.svc.UpdateItemByPacker(ctx, f.packerID, second.ID, second.Items[0].ID, PackerItemInput{PostQty: &qty}))

	sum, err := f.svc.AggregatedPostQty(ctx, f.lineID)
	require.NoError(t, err)
	require.Equal(t, 10.0, sum)

	require.NoError(t, f.svc.Cancel(ctx, second.ID))
	sum, err = f.svc.AggregatedPostQty(ctx, f.lineID)
	require.NoError(t, err)
	require.Equal(t, 5.0, sum)
}

func TestTransitionsFanOutNotifications(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	ctx := context.Background()

	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "in_progress"))
	require.NoError(t, f.svc.SetStatus(ctx, task.ID, "pending_review"))
	require.NoError(t, f.svc.SetReview(ctx, task.ID, ReviewInput{Result: "confirmed"}))

	var titles []string
	for _, n := range f.notifier.sent {
		titles = append(titles, n.title)
	}
	require.Contains(t, titles, "New preparation task")
	require.Contains(t, titles, "Task ready for review")
	require.Contains(t, titles, "Task completed")
}

func TestDeleteTaskCascades(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil, 10)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteTask(ctx, task.ID))

	_, err := f.svc.GetTask(ctx, task.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.True(t, errors.Is(f.svc.DeleteTask(ctx, task.ID), shared.ErrNotFound))
}
