package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/wareline/wareline/internal/app"
	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/masterdata/departments"
	"github.com/wareline/wareline/internal/masterdata/products"
	"github.com/wareline/wareline/internal/masterdata/suppliers"
	"github.com/wareline/wareline/internal/platform/db"
	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/sales/orders"
	"github.com/wareline/wareline/internal/users"
)

// Seeds a development database with one account per role, master data, a
// confirmed order and a stocked lot so the preparation flow can be exercised
// immediately. Safe to rerun: duplicate-key failures are logged and skipped.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns, MaxConnLifetime: cfg.PGConnLife})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	usersService := users.NewService(users.NewRepository(pool))
	for _, account := range []users.CreateInput{
		{Email: "admin@wareline.local", Name: "Admin", Role: rbac.RoleAdmin, Password: "wareline-admin"},
		{Email: "manager@wareline.local", Name: "Morgan Manager", Role: rbac.RoleManager, Password: "wareline-manager"},
		{Email: "supervisor@wareline.local", Name: "Sam Supervisor", Role: rbac.RoleSupervisor, Password: "wareline-super"},
		{Email: "packer@wareline.local", Name: "Pat Packer", Role: rbac.RolePacker, Password: "wareline-packer"},
	} {
		if _, err := usersService.CreateUser(ctx, account); err != nil {
			logger.Warn("seed user skipped", slog.String("email", account.Email), slog.Any("error", err))
		}
	}

	departmentsService := departments.NewService(departments.NewRepository(pool))
	dept, err := departmentsService.Create(ctx, departments.Department{Code: "WH1", Name: "Main Warehouse"})
	if err != nil {
		logger.Warn("seed department skipped", slog.Any("error", err))
	}

	suppliersService := suppliers.NewService(suppliers.NewRepository(pool))
	if _, err := suppliersService.Create(ctx, suppliers.Supplier{Code: "ACME", Name: "Acme Foods", Email: "sales@acme.example"}); err != nil {
		logger.Warn("seed supplier skipped", slog.Any("error", err))
	}

	productsService := products.NewService(products.NewRepository(pool))
	product, err := productsService.Create(ctx, products.Product{SKU: "RICE-25", Name: "rice bag 25kg", Unit: "bag"})
	if err != nil {
		logger.Warn("seed product skipped", slog.Any("error", err))
		os.Exit(0)
	}

	expiry := time.Now().Add(90 * 24 * time.Hour)
	inventoryService := inventory.NewService(inventory.NewRepository(pool))
	if _, err := inventoryService.PostInbound(ctx, inventory.InboundInput{
		ProductID:    product.ID.String(),
		DepartmentID: dept.ID.String(),
		Qty:          500,
		ExpiryDate:   &expiry,
	}); err != nil {
		logger.Warn("seed lot skipped", slog.Any("error", err))
	}

	ordersService := orders.NewService(orders.NewRepository(pool))
	order, err := ordersService.Create(ctx, orders.CreateInput{
		Code:         "SO-0001",
		CustomerName: "First Customer",
		CODAmount:    120,
		Lines:        []orders.CreateLineInput{{ProductID: product.ID.String(), Qty: 10, UnitPrice: 12}},
	})
	if err != nil {
		logger.Warn("seed order skipped", slog.Any("error", err))
	} else if err := ordersService.Confirm(ctx, order.ID); err != nil {
		logger.Warn("seed order confirm skipped", slog.Any("error", err))
	}

	logger.Info("seed finished")
}
