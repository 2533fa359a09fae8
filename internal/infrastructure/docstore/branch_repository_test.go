package docstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchRepositoryRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	repo := NewBranchRepository(store)
	ctx := context.Background()

	branch := &entity.Branch{Name: "Westlands", Currency: "KES", DecimalPlaces: 2}
	require.NoError(t, repo.Create(ctx, branch))
	require.NotEqual(t, uuid.Nil, branch.ID)

	got, err := repo.GetByID(ctx, branch.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Westlands", got.Name)

	got.Name = "Westlands Mall"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, branch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Westlands Mall", got.Name)

	absent, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestBranchRepositoryListSortedByName(t *testing.T) {
	store := NewMemoryStore()
	repo := NewBranchRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Branch{Name: "Thika"}))
	require.NoError(t, repo.Create(ctx, &entity.Branch{Name: "Karen"}))

	branches, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "Karen", branches[0].Name)
	assert.Equal(t, "Thika", branches[1].Name)
}

// Deleting a branch document removes its nested collections too.
func TestBranchRepositoryDeleteRemovesNested(t *testing.T) {
	store := NewMemoryStore()
	repo := NewBranchRepository(store)
	ctx := context.Background()

	branch := &entity.Branch{Name: "Karen"}
	require.NoError(t, repo.Create(ctx, branch))

	products := NewProductRepository(store, branch.ID)
	require.NoError(t, products.Create(ctx, &entity.Product{Name: "Soda"}))

	require.NoError(t, repo.Delete(ctx, branch.ID))

	got, err := repo.GetByID(ctx, branch.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	remaining, _, err := products.List(ctx, branch.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestUserRepositoryKeepsPasswordHash(t *testing.T) {
	store := NewMemoryStore()
	repo := NewUserRepository(store)
	ctx := context.Background()

	user := &entity.User{
		Name:         "Amina",
		Email:        "amina@example.com",
		Password:     "$2a$10$hash",
		Capabilities: []string{entity.CapabilityCheckout},
	}
	require.NoError(t, repo.Create(ctx, user))

	// The entity hides the hash from JSON; the stored document must not.
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$2a$10$hash", got.Password)
	assert.True(t, got.Can(entity.CapabilityCheckout))

	byEmail, err := repo.GetByEmail(ctx, "AMINA@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "$2a$10$hash", byEmail.Password)

	absent, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestCategoryRepositoryRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	branchID := uuid.New()
	repo := NewCategoryRepository(store, branchID)
	ctx := context.Background()

	category := &entity.Category{Name: "Drinks", Slug: "drinks"}
	require.NoError(t, repo.Create(ctx, category))
	assert.Equal(t, branchID, category.BranchID)

	bySlug, err := repo.GetBySlug(ctx, "drinks")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, category.ID, bySlug.ID)

	require.NoError(t, repo.Create(ctx, &entity.Category{Name: "Snacks", Slug: "snacks"}))

	categories, total, err := repo.List(ctx, branchID, nil, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, categories, 2)
	assert.Equal(t, "Drinks", categories[0].Name)

	filtered, total, err := repo.List(ctx, branchID, nil, "sna")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Snacks", filtered[0].Name)

	require.NoError(t, repo.Delete(ctx, category.ID))
	gone, err := repo.GetBySlug(ctx, "drinks")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
