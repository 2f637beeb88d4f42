package categories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gLogger "gorm.io/gorm/logger"

	"github.com/joefazee/catalog/internal/cache"
	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/metrics"
	"github.com/joefazee/catalog/models"
)

func int64p(v int64) *int64 { return &v }

func row(id int64, name string, parent *int64, order int) models.Category {
	return models.Category{ID: id, Name: name, ParentID: parent, DisplayOrder: order, GenderFilter: models.GenderAll}
}

// fashionRows is the Men/Tops/Women catalog.
func fashionRows() []models.Category {
	return []models.Category{
		row(1, "Men", nil, 0),
		row(2, "Tops", int64p(1), 0),
		row(3, "Women", nil, 1),
	}
}

func names(nodes []CategoryNode) []string {
	out := make([]string, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Name
	}
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gLogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Category{}))
	return db
}

func seedRows(t *testing.T, db *gorm.DB, rows ...models.Category) {
	t.Helper()
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
}

// testStack is a fully wired module over sqlite and in-memory caches.
type testStack struct {
	db      *gorm.DB
	nodes   *cache.MemoryCache[NodeEntry]
	tree    *cache.MemoryCache[TreeEntry]
	metrics *metrics.Collector
	module  *Module
}

func newTestStack(t *testing.T, rows ...models.Category) *testStack {
	t.Helper()
	db := newTestDB(t)
	seedRows(t, db, rows...)

	nodes := cache.NewMemoryCache[NodeEntry]()
	tree := cache.NewMemoryCache[TreeEntry]()
	t.Cleanup(func() {
		nodes.Stop()
		tree.Stop()
	})

	collector := metrics.NewCollector("test")
	module := NewModule(Dependencies{
		DB:      db,
		Nodes:   nodes,
		Tree:    tree,
		Config:  DefaultConfig(),
		Logger:  logger.NewNullLogger(),
		Metrics: collector,
	})
	return &testStack{db: db, nodes: nodes, tree: tree, metrics: collector, module: module}
}

// MockRepository is a testify mock of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockRepository) GetByParentID(ctx context.Context, parentID int64) ([]models.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockRepository) SearchByName(ctx context.Context, needle string) ([]models.Category, error) {
	args := m.Called(ctx, needle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) HardDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newMockCoordinator wires a coordinator over repo with mock cache backends.
func newMockCoordinator(repo Repository) (*Coordinator, *cache.MockCache[NodeEntry], *cache.MockCache[TreeEntry]) {
	nodes := &cache.MockCache[NodeEntry]{}
	tree := &cache.MockCache[TreeEntry]{}
	coord := NewCoordinator(repo, NewNodeCache(nodes, "", time.Hour), NewTreeCache(tree, "", 30*time.Minute), nil, nil)
	return coord, nodes, tree
}
