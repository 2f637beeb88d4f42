package categories

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/catalog/models"
)

func TestBuildTreeFashionCatalog(t *testing.T) {
	forest, err := BuildTree(fashionRows())
	require.NoError(t, err)

	require.Equal(t, []string{"Men", "Women"}, names(forest.Roots))
	assert.Equal(t, []string{"Tops"}, names(forest.Roots[0].Children))
	assert.Empty(t, forest.Roots[1].Children)
	assert.Empty(t, forest.Unreachable)
	assert.Equal(t, int64(1), *forest.Roots[0].Children[0].ParentID)
}

func TestBuildTreeEmpty(t *testing.T) {
	forest, err := BuildTree(nil)
	require.NoError(t, err)
	assert.NotNil(t, forest.Roots)
	assert.Empty(t, forest.Roots)
}

func TestBuildTreeSiblingOrder(t *testing.T) {
	rows := []models.Category{
		row(10, "Root", nil, 0),
		row(14, "Bags", int64p(10), 2),
		row(13, "Shoes", int64p(10), 1),
		row(12, "Accessories", int64p(10), 1),
		row(11, "Accessories", int64p(10), 1),
	}

	forest, err := BuildTree(rows)
	require.NoError(t, err)

	children := forest.Roots[0].Children
	require.Len(t, children, 4)
	assert.Equal(t, int64(11), children[0].ID)
	assert.Equal(t, int64(12), children[1].ID)
	assert.Equal(t, "Shoes", children[2].Name)
	assert.Equal(t, "Bags", children[3].Name)
}

func TestBuildTreePermutationInvariant(t *testing.T) {
	rows := []models.Category{
		row(1, "Men", nil, 0),
		row(2, "Tops", int64p(1), 0),
		row(3, "Women", nil, 1),
		row(4, "Shirts", int64p(2), 0),
		row(5, "T-Shirts", int64p(2), 0),
		row(6, "Dresses", int64p(3), 0),
		row(7, "Kids", nil, 1),
		row(8, "Orphan", int64p(99), 0),
	}
	want, err := BuildTree(rows)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]models.Category(nil), rows...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := BuildTree(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBuildTreeUnreachableRows(t *testing.T) {
	rows := []models.Category{
		row(1, "Men", nil, 0),
		row(2, "Dangling", int64p(404), 0),
		row(3, "Below dangling", int64p(2), 0),
		row(5, "Loop A", int64p(6), 0),
		row(6, "Loop B", int64p(5), 0),
	}

	forest, err := BuildTree(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"Men"}, names(forest.Roots))
	assert.Equal(t, []int64{2, 3, 5, 6}, forest.Unreachable)
	assert.Equal(t, 1, CountNodes(forest.Roots))
}

func TestBuildTreeDuplicateIDFails(t *testing.T) {
	_, err := BuildTree([]models.Category{row(1, "Men", nil, 0), row(1, "Men again", nil, 1)})
	assert.True(t, errors.Is(err, ErrTreeCycle))
}

func TestBuildTreeEveryReachableRowAppearsOnce(t *testing.T) {
	forest, err := BuildTree(fashionRows())
	require.NoError(t, err)

	seen := map[int64]int{}
	for _, n := range Flatten(forest.Roots) {
		seen[n.ID]++
		assert.Nil(t, n.Children)
	}
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 1}, seen)
}

func TestForestHelpers(t *testing.T) {
	rows := append(fashionRows(), row(4, "Shirts", int64p(2), 0))
	forest, err := BuildTree(rows)
	require.NoError(t, err)

	assert.Equal(t, 4, CountNodes(forest.Roots))
	assert.Equal(t, 3, MaxDepth(forest.Roots))
	assert.Equal(t, 0, MaxDepth(nil))
	assert.Equal(t, []string{"Men", "Tops", "Shirts", "Women"}, names(Flatten(forest.Roots)))

	tops, ok := FindNode(forest.Roots, 2)
	require.True(t, ok)
	assert.Equal(t, []string{"Shirts"}, names(tops.Children))

	_, ok = FindNode(forest.Roots, 404)
	assert.False(t, ok)
}

func TestCloneForestIsIndependent(t *testing.T) {
	forest, err := BuildTree(fashionRows())
	require.NoError(t, err)

	clone := CloneForest(forest.Roots)
	clone[0].Name = "Changed"
	clone[0].Children[0].Name = "Changed"
	*clone[0].Children[0].ParentID = 77

	assert.Equal(t, "Men", forest.Roots[0].Name)
	assert.Equal(t, "Tops", forest.Roots[0].Children[0].Name)
	assert.Equal(t, int64(1), *forest.Roots[0].Children[0].ParentID)
	assert.Nil(t, CloneForest(nil))
}

func TestNodeFromModel(t *testing.T) {
	parent := int64(1)
	c := &models.Category{ID: 2, Name: "Tops", ParentID: &parent, GenderFilter: "m", LinkURL: "/tops"}

	n := NodeFromModel(c)
	parent = 9

	assert.Equal(t, int64(1), *n.ParentID)
	assert.Equal(t, models.GenderMale, n.GenderFilter)
	assert.False(t, n.IsRoot())
	assert.True(t, n.IsLeaf())
	assert.True(t, sameParent(int64p(3), int64p(3)))
	assert.False(t, sameParent(nil, int64p(3)))
	assert.True(t, sameParent(nil, nil))
}
