package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMenu() []Product {
	return []Product{
		{ID: "p1", Name: "SmashBoss Double", Category: CategoryPanini, Price: decimal.RequireFromString("10.50"), Available: true},
		{ID: "f1", Name: "Patatine Cheddar & Bacon", Category: CategoryFritti, Price: decimal.RequireFromString("5.50"), Available: true},
		{ID: "p2", Name: "Chicken Crunch", Category: CategoryPanini, Price: decimal.RequireFromString("9.00")},
		{ID: "b1", Name: "Coca Cola", Category: CategoryBevande, Price: decimal.RequireFromString("3.00"), Available: true},
	}
}

func TestFilter_AllReturnsEverything(t *testing.T) {
	menu := sampleMenu()
	assert.ElementsMatch(t, menu, Filter(menu, CategoryAll))
}

func TestFilter_CategoryReturnsExactSubset(t *testing.T) {
	menu := sampleMenu()
	for _, c := range Categories {
		got := Filter(menu, c)
		for _, p := range got {
			require.Equal(t, c, p.Category)
		}
		want := 0
		for _, p := range menu {
			if p.Category == c {
				want++
			}
		}
		require.Len(t, got, want, c)
	}
	require.Equal(t, []Product{menu[0], menu[2]}, Filter(menu, CategoryPanini))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	menu := sampleMenu()
	before := append([]Product(nil), menu...)
	_ = Filter(menu, CategoryBevande)
	require.Equal(t, before, menu)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("all")
	require.NoError(t, err)
	require.True(t, c.IsAll())

	c, err = ParseCategory("fritti")
	require.NoError(t, err)
	require.Equal(t, CategoryFritti, c)

	_, err = ParseCategory("Dolci")
	require.ErrorIs(t, err, ErrInvalidCategory)
	require.False(t, CategoryAll.Valid())
}

func TestDraft_Validate(t *testing.T) {
	require.ErrorIs(t, Draft{Price: decimal.NewFromInt(1), Category: CategoryMenu}.Validate(), ErrEmptyName)
	require.ErrorIs(t, Draft{Name: "Menu Boss", Price: decimal.Zero, Category: CategoryMenu}.Validate(), ErrInvalidPrice)
	require.ErrorIs(t, Draft{Name: "Menu Boss", Price: decimal.NewFromInt(12), Category: CategoryAll}.Validate(), ErrInvalidCategory)
	require.NoError(t, Draft{Name: "Menu Boss", Price: decimal.NewFromInt(12), Category: CategoryMenu}.Validate())
}
