package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/preparation"
)

// TaskSource lists tasks and resolves their items.
type TaskSource interface {
	ListTasks(ctx context.Context, filters preparation.ListFilters) ([]preparation.Task, int, error)
	GetTask(ctx context.Context, id uuid.UUID) (preparation.Task, error)
}

// LotSource lists inventory lots.
type LotSource interface {
	List(ctx context.Context, filters inventory.ListFilters) ([]inventory.Lot, int, error)
}

type Exporter struct {
	tasks TaskSource
	lots  LotSource
}

func NewExporter(tasks TaskSource, lots LotSource) *Exporter {
	return &Exporter{tasks: tasks, lots: lots}
}

const exportPageSize = 500

// Tasks builds a workbook with one row per preparation item, task header
// fields repeated. Item resolution fans out over a bounded errgroup.
func (e *Exporter) Tasks(ctx context.Context, filters preparation.ListFilters) (*excelize.File, error) {
	filters.Page = 1
	filters.Limit = exportPageSize
	tasks, _, err := e.tasks.ListTasks(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}

	full := make([]preparation.Task, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	var mu sync.Mutex
	for i, t := range tasks {
		g.Go(func() error {
			loaded, err := e.tasks.GetTask(gctx, t.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			full[i] = loaded
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Preparation Tasks"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Task ID", "Order ID", "Status", "Packer", "Supervisor", "Deadline", "Review", "Item ID", "Order Line", "Product", "Lot", "Requested Qty", "Post Qty"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, t := range full {
		review := ""
		if t.ReviewResult != nil {
			review = string(*t.ReviewResult)
		}
		if len(t.Items) == 0 {
			writeRow(f, sheet, row, []interface{}{t.ID.String(), t.OrderID.String(), string(t.Status), t.PackerID.String(), t.SupervisorID.String(), t.Deadline.Format(time.RFC3339), review})
			row++
			continue
		}
		for _, it := range t.Items {
			lot := ""
			if it.LotID != nil {
				lot = it.LotID.String()
			}
			writeRow(f, sheet, row, []interface{}{
				t.ID.String(), t.OrderID.String(), string(t.Status), t.PackerID.String(), t.SupervisorID.String(),
				t.Deadline.Format(time.RFC3339), review,
				it.ID.String(), it.OrderLineID.String(), it.ProductID.String(), lot, it.RequestedQty, it.PostQty,
			})
			row++
		}
	}
	return f, nil
}

// Lots builds a workbook with one row per inventory lot.
func (e *Exporter) Lots(ctx context.Context, filters inventory.ListFilters) (*excelize.File, error) {
	filters.Page = 1
	filters.Limit = exportPageSize
	lots, _, err := e.lots.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("export lots: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Inventory Lots"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Lot ID", "Product", "Department", "Qty On Hand", "Remain Qty", "Expiry Date"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, lot := range lots {
		expiry := ""
		if lot.ExpiryDate != nil {
			expiry = lot.ExpiryDate.Format("2006-01-02")
		}
		writeRow(f, sheet, i+2, []interface{}{
			lot.ID.String(), lot.ProductID.String(), lot.DepartmentID.String(), lot.QtyOnHand, lot.RemainQty, expiry,
		})
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}
