package products_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wareline/wareline/internal/masterdata/products"
	mdshared "github.com/wareline/wareline/internal/masterdata/shared"
	"github.com/wareline/wareline/internal/shared"
)

type fakeProductRepo struct {
	items map[uuid.UUID]products.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: make(map[uuid.UUID]products.Product)}
}

func (f *fakeProductRepo) List(ctx context.Context, filters mdshared.ListFilters) ([]products.Product, int, error) {
	out := make([]products.Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProductRepo) Get(ctx context.Context, id uuid.UUID) (products.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return products.Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product products.Product) (products.Product, error) {
	for _, existing := range f.items {
		if existing.SKU == product.SKU {
			return products.Product{}, shared.ErrDuplicate
		}
	}
	f.items[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id uuid.UUID, product products.Product) error {
	if _, ok := f.items[id]; !ok {
		return shared.ErrNotFound
	}
	product.ID = id
	f.items[id] = product
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func TestCreateProductNormalisesFields(t *testing.T) {
	svc := products.NewService(newFakeProductRepo())

	created, err := svc.Create(context.Background(), products.Product{
		SKU:  "  rice-25 ",
		Name: "  jasmine rice 25kg ",
	})
	require.NoError(t, err)
	require.Equal(t, "RICE-25", created.SKU)
	require.Equal(t, "Jasmine Rice 25Kg", created.Name)
	require.Equal(t, "pcs", created.Unit)
	require.True(t, created.IsActive)
	require.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateProductRejectsBlankFields(t *testing.T) {
	svc := products.NewService(newFakeProductRepo())

	_, err := svc.Create(context.Background(), products.Product{Name: "Rice"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), products.Product{SKU: "RICE-25", Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc := products.NewService(newFakeProductRepo())

	_, err := svc.Create(context.Background(), products.Product{SKU: "RICE-25", Name: "Rice", Unit: "bag"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), products.Product{SKU: "rice-25", Name: "Rice Again", Unit: "bag"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateProductValidatesBeforeWrite(t *testing.T) {
	repo := newFakeProductRepo()
	svc := products.NewService(repo)

	created, err := svc.Create(context.Background(), products.Product{SKU: "RICE-25", Name: "Rice", Unit: "bag"})
	require.NoError(t, err)

	err = svc.Update(context.Background(), created.ID, products.Product{SKU: "", Name: "Rice"})
	require.ErrorIs(t, err, shared.ErrValidation)

	err = svc.Update(context.Background(), created.ID, products.Product{SKU: "rice-50", Name: "rice 50kg", Unit: "bag"})
	require.NoError(t, err)
	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "RICE-50", got.SKU)
	require.Equal(t, "Rice 50Kg", got.Name)
}
