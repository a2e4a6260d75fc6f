package preparation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wareline/wareline/internal/sales/orders"
	"github.com/wareline/wareline/internal/shared"
	"github.com/wareline/wareline/internal/users"
)

// OrderLineSource supplies the order lines a task's items are validated
// against at creation.
type OrderLineSource interface {
	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]orders.OrderLine, error)
}

// UserDirectory resolves packer references.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Notifier is fire-and-forget: implementations never return an error to the
// triggering operation.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, body, link string)
}

type Service struct {
	logger     *slog.Logger
	repo       Repository
	orderLines OrderLineSource
	users      UserDirectory
	notifier   Notifier
	validate   *validator.Validate
}

func NewService(logger *slog.Logger, repo Repository, orderLines OrderLineSource, users UserDirectory, notifier Notifier) *Service {
	return &Service{
		logger:     logger,
		repo:       repo,
		orderLines: orderLines,
		users:      users,
		notifier:   notifier,
		validate:   validator.New(),
	}
}

// CreateTask creates the task header and its items in one transaction. Items
// created with a lot already bound reserve their requested quantity at that
// moment; reservation and the insert commit or fail together. The supervisor
// is always the authenticated caller.
func (s *Service) CreateTask(ctx context.Context, supervisorID uuid.UUID, in CreateInput) (Task, error) {
	if err := s.validate.Struct(in); err != nil {
		return Task{}, fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	orderID, err := shared.ParseID(in.OrderID)
	if err != nil {
		return Task{}, err
	}
	packerID, err := shared.ParseID(in.PackerID)
	if err != nil {
		return Task{}, err
	}
	if _, err := s.users.GetByID(ctx, packerID); err != nil {
		return Task{}, fmt.Errorf("packer lookup: %w", err)
	}
	lines, err := s.orderLines.GetOrderLines(ctx, orderID)
	if err != nil {
		return Task{}, err
	}
	if len(lines) == 0 {
		return Task{}, fmt.Errorf("%w: order %s", shared.ErrNotFound, orderID)
	}
	lineByID := make(map[uuid.UUID]orders.OrderLine, len(lines))
	for _, line := range lines {
		lineByID[line.ID] = line
	}

	task := Task{
		ID:           shared.NewID(),
		OrderID:      orderID,
		SupervisorID: supervisorID,
		PackerID:     packerID,
		Status:       StatusAssigned,
		Deadline:     in.Deadline,
		Note:         in.Note,
	}
	items := make([]Item, 0, len(in.Items))
	for _, itemIn := range in.Items {
		lineID, err := shared.ParseID(itemIn.OrderLineID)
		if err != nil {
			return Task{}, err
		}
		line, ok := lineByID[lineID]
		if !ok {
			return Task{}, fmt.Errorf("%w: line %s, order %s", ErrLineMismatch, lineID, orderID)
		}
		item := Item{
			ID:           shared.NewID(),
			TaskID:       task.ID,
			OrderLineID:  lineID,
			ProductID:    line.ProductID,
			RequestedQty: itemIn.Qty,
		}
		if itemIn.LotID != nil {
			lotID, err := shared.ParseID(*itemIn.LotID)
			if err != nil {
				return Task{}, err
			}
			item.LotID = &lotID
		}
		items = append(items, item)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertTask(ctx, task); err != nil {
			return err
		}
		if err := tx.InsertItems(ctx, items); err != nil {
			return err
		}
		for _, item := range items {
			if item.LotID == nil {
				continue
			}
			if err := tx.ReserveLot(ctx, *item.LotID, item.RequestedQty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Task{}, err
	}

	s.notify(ctx, packerID, "New preparation task", "You have been assigned a preparation task.", "/preparation/tasks/"+task.ID.String())
	return s.repo.Get(ctx, task.ID)
}

func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, filters ListFilters) ([]Task, int, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, filters.Status)
	}
	return s.repo.List(ctx, filters)
}

// UpdateTask patches the task header and, when supplied, existing items
// matched by ID. Status never moves through here. Terminal tasks are
// immutable.
func (s *Service) UpdateTask(ctx context.Context, id uuid.UUID, in UpdateInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	fields := map[string]interface{}{}
	if in.SupervisorID != nil {
		supervisorID, err := shared.ParseID(*in.SupervisorID)
		if err != nil {
			return err
		}
		fields["supervisor_id"] = supervisorID
	}
	if in.PackerID != nil {
		packerID, err := shared.ParseID(*in.PackerID)
		if err != nil {
			return err
		}
		if _, err := s.users.GetByID(ctx, packerID); err != nil {
			return fmt.Errorf("packer lookup: %w", err)
		}
		fields["packer_id"] = packerID
	}
	if in.Deadline != nil {
		fields["deadline"] = *in.Deadline
	}
	if in.Note != nil {
		fields["note"] = *in.Note
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		status, err := tx.StatusOf(ctx, id)
		if err != nil {
			return err
		}
		if status.Terminal() {
			return fmt.Errorf("%s: %w", status, ErrTaskTerminal)
		}
		if err := tx.UpdateTaskFields(ctx, id, fields); err != nil {
			return err
		}
		if len(in.Items) == 0 {
			return nil
		}
		existing, err := tx.ItemsOf(ctx, id)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]bool, len(existing))
		for _, it := range existing {
			known[it.ID] = true
		}
		for _, patch := range in.Items {
			itemID, err := shared.ParseID(patch.ID)
			if err != nil {
				return err
			}
			if !known[itemID] {
				return fmt.Errorf("%w: item %s in task %s", shared.ErrNotFound, itemID, id)
			}
			itemFields := map[string]interface{}{}
			if patch.PreEvd != nil {
				itemFields["pre_evd"] = *patch.PreEvd
			}
			if patch.PostEvd != nil {
				itemFields["post_evd"] = *patch.PostEvd
			}
			if err := tx.UpdateItemFields(ctx, itemID, itemFields); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTask hard-deletes a task and its items. Administrative correction
// only; no inventory compensation happens here.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UpdateItemByPacker records the pick for one item: post quantity, evidence,
// and optionally the lot. Binding a lot reserves the requested quantity;
// re-binding releases the previous reservation first, all in one transaction.
func (s *Service) UpdateItemByPacker(ctx context.Context, callerID uuid.UUID, taskID, itemID uuid.UUID, in PackerItemInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	var newLot *uuid.UUID
	if in.LotID != nil {
		lotID, err := shared.ParseID(*in.LotID)
		if err != nil {
			return err
		}
		newLot = &lotID
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		task, err := tx.HeaderOf(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Status.Terminal() {
			return fmt.Errorf("%s: %w", task.Status, ErrTaskTerminal)
		}
		if task.PackerID != callerID {
			return ErrNotPacker
		}
		items, err := tx.ItemsOf(ctx, taskID)
		if err != nil {
			return err
		}
		var item *Item
		for i := range items {
			if items[i].ID == itemID {
				item = &items[i]
				break
			}
		}
		if item == nil {
			return fmt.Errorf("%w: item %s in task %s", shared.ErrNotFound, itemID, taskID)
		}

		fields := map[string]interface{}{}
		if in.PostQty != nil {
			fields["post_qty"] = *in.PostQty
		}
		if in.PreEvd != nil {
			fields["pre_evd"] = *in.PreEvd
		}
		if in.PostEvd != nil {
			fields["post_evd"] = *in.PostEvd
		}
		if newLot != nil && (item.LotID == nil || *item.LotID != *newLot) {
			if item.LotID != nil {
				if err := tx.RestoreLot(ctx, *item.LotID, item.RequestedQty); err != nil {
					return err
				}
			}
			if err := tx.ReserveLot(ctx, *newLot, item.RequestedQty); err != nil {
				return err
			}
			fields["lot_id"] = *newLot
		}
		return tx.UpdateItemFields(ctx, itemID, fields)
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, taskID)
	return nil
}

// SetStatus is the status-endpoint adapter: it resolves the requested status
// to a transition event against the current state and applies it.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, raw string) error {
	status := Status(raw)
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrValidation, raw)
	}
	switch status {
	case StatusInProgress:
		return s.transition(ctx, id, eventStart, "")
	case StatusPendingReview:
		return s.transition(ctx, id, eventSubmit, "")
	case StatusCompleted:
		return s.transition(ctx, id, eventConfirm, "")
	case StatusCancelled:
		return s.Cancel(ctx, id)
	default:
		return fmt.Errorf("%w: no transition targets %q", ErrInvalidTransition, status)
	}
}

// SetReview is the review-endpoint adapter feeding the same transition
// function: confirmed completes the task, rejected returns it for correction
// with a mandatory reason, pending just records that review is outstanding.
func (s *Service) SetReview(ctx context.Context, id uuid.UUID, in ReviewInput) error {
	result := ReviewResult(in.Result)
	if !result.Valid() {
		return fmt.Errorf("%w: unknown review result %q", shared.ErrValidation, in.Result)
	}
	switch result {
	case ReviewConfirmed:
		return s.transition(ctx, id, eventConfirm, "")
	case ReviewRejected:
		if in.Reason == "" {
			return ErrReasonRequired
		}
		return s.transition(ctx, id, eventReject, in.Reason)
	default:
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			ok, err := tx.SetReviewPending(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return s.explainRejectedWrite(ctx, tx, id)
			}
			return nil
		})
	}
}

// Cancel flips the task to cancelled and restores every bound reservation in
// the same transaction. The conditional status update makes a concurrent or
// repeated cancel a conflict with zero inventory mutation.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	var packerID uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.MarkCancelled(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return s.explainRejectedWrite(ctx, tx, id)
		}
		task, err := tx.HeaderOf(ctx, id)
		if err != nil {
			return err
		}
		packerID = task.PackerID
		items, err := tx.ItemsOf(ctx, id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.LotID == nil {
				continue
			}
			if err := tx.RestoreLot(ctx, *item.LotID, item.RequestedQty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, packerID, "Task cancelled", "A preparation task assigned to you was cancelled.", "/preparation/tasks/"+id.String())
	return nil
}

// AggregatedPostQty returns the total picked quantity recorded for an order
// line across all non-cancelled tasks.
func (s *Service) AggregatedPostQty(ctx context.Context, orderLineID uuid.UUID) (float64, error) {
	return s.repo.AggregatedPostQty(ctx, orderLineID)
}

// transition applies one event. The Mark* statements are conditional updates,
// so a zero-row result means either the task is gone or its status moved; the
// follow-up read picks the right error.
func (s *Service) transition(ctx context.Context, id uuid.UUID, ev event, reason string) error {
	var packerID, supervisorID uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var ok bool
		var err error
		switch ev {
		case eventStart:
			ok, err = tx.MarkStarted(ctx, id)
		case eventSubmit:
			ok, err = tx.MarkSubmitted(ctx, id)
		case eventConfirm:
			ok, err = tx.MarkConfirmed(ctx, id)
		case eventReject:
			ok, err = tx.MarkRejected(ctx, id, reason)
		default:
			return fmt.Errorf("%w: event %q", ErrInvalidTransition, ev)
		}
		if err != nil {
			return err
		}
		if !ok {
			return s.explainRejectedWrite(ctx, tx, id)
		}
		task, err := tx.HeaderOf(ctx, id)
		if err != nil {
			return err
		}
		packerID = task.PackerID
		supervisorID = task.SupervisorID
		return nil
	})
	if err != nil {
		return err
	}

	s.refresh(ctx, id)
	link := "/preparation/tasks/" + id.String()
	switch ev {
	case eventSubmit:
		s.notify(ctx, supervisorID, "Task ready for review", "A preparation task is waiting for your review.", link)
	case eventConfirm:
		s.notify(ctx, packerID, "Task completed", "Your preparation task passed review.", link)
	case eventReject:
		s.notify(ctx, packerID, "Task rejected", "Your preparation task was rejected: "+reason, link)
	}
	return nil
}

// explainRejectedWrite turns a zero-row conditional update into the precise
// error: missing task, terminal task, or a plain transition conflict.
func (s *Service) explainRejectedWrite(ctx context.Context, tx TxRepository, id uuid.UUID) error {
	status, err := tx.StatusOf(ctx, id)
	if err != nil {
		return err
	}
	if status.Terminal() {
		return fmt.Errorf("%s: %w", status, ErrTaskTerminal)
	}
	return fmt.Errorf("from %s: %w", status, ErrInvalidTransition)
}

// refresh recomputes derived counters after a committed write. Best effort:
// failure is logged, the primary operation has already committed.
func (s *Service) refresh(ctx context.Context, taskID uuid.UUID) {
	if err := s.repo.RefreshPickedCount(ctx, taskID); err != nil {
		s.logger.Warn("refresh picked count failed", slog.String("task_id", taskID.String()), slog.Any("error", err))
	}
}

// notify is fire-and-forget; the dispatcher owns delivery and its failures.
func (s *Service) notify(ctx context.Context, userID uuid.UUID, title, body, link string) {
	if s.notifier == nil || userID == uuid.Nil {
		return
	}
	s.notifier.Notify(ctx, userID, title, body, link)
}
