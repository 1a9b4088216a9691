package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haseeb044/ecommerce-backend-design/internal/models"
	"github.com/Haseeb044/ecommerce-backend-design/internal/repo"
)

func newTestCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	return &CatalogService{Repo: &repo.GormRepo{DB: initTestDB(t)}}
}

func seedProducts(t *testing.T, svc *CatalogService, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		p := models.Product{
			Name:     fmt.Sprintf("product %d", i),
			Price:    float64(i),
			Category: "general",
			Stock:    uint(i),
		}
		require.NoError(t, svc.Repo.DB.Create(&p).Error)
	}
}

func TestCatalogService_ListPaged(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()
	seedProducts(t, svc, 25)

	res, err := svc.ListPaged(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)
	assert.EqualValues(t, 25, res.Meta.Total)
	assert.EqualValues(t, 3, res.Meta.TotalPages)
	assert.False(t, res.Meta.HasPrev)
	assert.True(t, res.Meta.HasNext)
	assert.EqualValues(t, 1, res.Items[0].ID)

	last, err := svc.ListPaged(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.False(t, last.Meta.HasNext)

	beyond, err := svc.ListPaged(ctx, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.EqualValues(t, 25, beyond.Meta.Total)
}

func TestCatalogService_ListPagedClampsPage(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()
	seedProducts(t, svc, 25)

	res, err := svc.ListPaged(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)
	assert.Equal(t, 1, res.Meta.Page)
	assert.EqualValues(t, 1, res.Items[0].ID)
}

func TestCatalogService_List_OrderedByID(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()
	seedProducts(t, svc, 5)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID, items[i].ID)
	}
}

func TestCatalogService_SearchCaseInsensitive(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.Repo.DB.Create(&models.Product{Name: "phone case", Category: "accessories", Stock: 3}).Error)
	require.NoError(t, svc.Repo.DB.Create(&models.Product{Name: "laptop", Category: "electronics", Stock: 2}).Error)

	res, err := svc.Search(ctx, "PHONE", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "phone case", res.Items[0].Name)

	byCategory, err := svc.Search(ctx, "ELECTRO", 1, 10)
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, "laptop", byCategory.Items[0].Name)
}

func TestCatalogService_SearchEmptyKeywordListsAll(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()
	seedProducts(t, svc, 3)

	res, err := svc.Search(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	assert.EqualValues(t, 3, res.Meta.Total)
}

func TestCatalogService_SearchPaginated(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()
	for i := 1; i <= 15; i++ {
		p := models.Product{Name: fmt.Sprintf("widget %d", i), Category: "tools"}
		require.NoError(t, svc.Repo.DB.Create(&p).Error)
	}

	res, err := svc.Search(ctx, "widget", 2, 10)
	require.NoError(t, err)
	assert.Len(t, res.Items, 5)
	assert.EqualValues(t, 15, res.Meta.Total)
	assert.EqualValues(t, 2, res.Meta.TotalPages)
}

func TestCatalogService_FeaturedCapAndStock(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		p := models.Product{Name: fmt.Sprintf("in stock %d", i), Stock: 5}
		require.NoError(t, svc.Repo.DB.Create(&p).Error)
	}
	for i := 1; i <= 3; i++ {
		p := models.Product{Name: fmt.Sprintf("sold out %d", i), Stock: 0}
		require.NoError(t, svc.Repo.DB.Create(&p).Error)
	}

	items, err := svc.Featured(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(items), FeaturedCap)
	for _, p := range items {
		assert.NotZero(t, p.Stock)
	}
}

func TestCatalogService_GetAbsent(t *testing.T) {
	svc := newTestCatalogService(t)

	prod, err := svc.Get(context.Background(), 12345)
	require.Error(t, err)
	assert.Nil(t, prod)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestCatalogService_ByCategory(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.Repo.DB.Create(&models.Product{Name: "mouse", Category: "electronics"}).Error)
	require.NoError(t, svc.Repo.DB.Create(&models.Product{Name: "mug", Category: "kitchen"}).Error)

	items, err := svc.ByCategory(ctx, "electronics")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mouse", items[0].Name)
}

func TestCatalogService_CreateAssignsID(t *testing.T) {
	svc := newTestCatalogService(t)

	created, err := svc.Create(context.Background(), &models.Product{
		Name:     "phone case",
		Price:    9.99,
		Category: "accessories",
		Stock:    4,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	stored, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "phone case", stored.Name)
}

func TestCatalogService_CreateValidation(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		prod models.Product
	}{
		{name: "empty name", prod: models.Product{Price: 1}},
		{name: "negative price", prod: models.Product{Name: "x", Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := svc.Create(ctx, &tt.prod)
			require.Error(t, err)
			assert.Nil(t, created)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
