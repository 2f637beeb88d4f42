package categories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gLogger "gorm.io/gorm/logger"

	"github.com/joefazee/catalog/models"
	"github.com/joefazee/catalog/tests/suites"
)

type CategoryRepositoryTestSuite struct {
	suites.RepositoryTestSuite
	repo Repository
}

func (suite *CategoryRepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("Skipping database integration test")
	}

	suite.RepositoryTestSuite.SetupSuite()
	suite.repo = NewRepository(suite.DB)
}

func TestCategoryRepository(t *testing.T) {
	suite.Run(t, new(CategoryRepositoryTestSuite))
}

func (suite *CategoryRepositoryTestSuite) create(name string, parentID *int64, order int) *models.Category {
	c := &models.Category{Name: name, ParentID: parentID, DisplayOrder: order}
	suite.Require().NoError(suite.repo.Save(context.Background(), c))
	suite.Require().NotZero(c.ID)
	return c
}

func (suite *CategoryRepositoryTestSuite) TestSaveAndGetByID() {
	ctx := context.Background()
	men := suite.create("Men", nil, 0)

	got, err := suite.repo.GetByID(ctx, men.ID)
	suite.Require().NoError(err)
	suite.Equal("Men", got.Name)
	suite.Equal(models.GenderAll, got.GenderFilter)
	suite.Nil(got.ParentID)

	got.Name = "Menswear"
	suite.Require().NoError(suite.repo.Update(ctx, got))
	again, err := suite.repo.GetByID(ctx, men.ID)
	suite.Require().NoError(err)
	suite.Equal("Menswear", again.Name)
}

func (suite *CategoryRepositoryTestSuite) TestGetByIDNotFound() {
	_, err := suite.repo.GetByID(context.Background(), 404)
	suite.ErrorIs(err, models.ErrRecordNotFound)
}

func (suite *CategoryRepositoryTestSuite) TestGetAllSiblingOrder() {
	men := suite.create("Men", nil, 0)
	suite.create("Women", nil, 1)
	suite.create("Shoes", &men.ID, 1)
	suite.create("Tops", &men.ID, 0)
	suite.create("Bags", &men.ID, 1)

	all, err := suite.repo.GetAll(context.Background())
	suite.Require().NoError(err)
	suite.Len(all, 5)

	children, err := suite.repo.GetByParentID(context.Background(), men.ID)
	suite.Require().NoError(err)
	suite.Require().Len(children, 3)
	suite.Equal("Tops", children[0].Name)
	suite.Equal("Bags", children[1].Name)
	suite.Equal("Shoes", children[2].Name)
}

func (suite *CategoryRepositoryTestSuite) TestSoftDeleteHidesRowsAndChildren() {
	ctx := context.Background()
	men := suite.create("Men", nil, 0)
	tops := suite.create("Tops", &men.ID, 0)

	count, err := suite.repo.CountChildren(ctx, men.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	suite.Require().NoError(suite.repo.Delete(ctx, tops.ID))
	_, err = suite.repo.GetByID(ctx, tops.ID)
	suite.ErrorIs(err, models.ErrRecordNotFound)

	count, err = suite.repo.CountChildren(ctx, men.ID)
	suite.Require().NoError(err)
	suite.Zero(count)
	suite.Equal(int64(2), suite.CountRecords("categories"))

	suite.ErrorIs(suite.repo.Delete(ctx, tops.ID), models.ErrRecordNotFound)
}

func (suite *CategoryRepositoryTestSuite) TestHardDeleteRespectsForeignKey() {
	ctx := context.Background()
	men := suite.create("Men", nil, 0)
	tops := suite.create("Tops", &men.ID, 0)
	suite.Require().NoError(suite.repo.Delete(ctx, tops.ID))

	err := suite.repo.HardDelete(ctx, men.ID)
	suite.ErrorIs(err, models.ErrStore, "a soft-deleted child still references the parent")

	suite.Require().NoError(suite.repo.HardDelete(ctx, tops.ID))
	suite.Require().NoError(suite.repo.HardDelete(ctx, men.ID))
	suite.Zero(suite.CountRecords("categories"))
}

func (suite *CategoryRepositoryTestSuite) TestSearchByNameEscapesWildcards() {
	suite.create("50% Off", nil, 0)
	suite.create("500 Club", nil, 1)
	suite.create("T-Shirts", nil, 2)

	found, err := suite.repo.SearchByName(context.Background(), "0%")
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal("50% Off", found[0].Name)

	found, err = suite.repo.SearchByName(context.Background(), "t-sh")
	suite.Require().NoError(err)
	suite.Len(found, 1)
}

func (suite *CategoryRepositoryTestSuite) TestSelfParentRejectedBySchema() {
	men := suite.create("Men", nil, 0)
	err := suite.ExecRaw("UPDATE categories SET parent_id = id WHERE id = ?", men.ID)
	suite.Error(err)
}

func TestRepositorySQLite(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	men := &models.Category{Name: "Men", GenderFilter: "male"}
	require.NoError(t, repo.Save(ctx, men))
	tops := &models.Category{Name: "Tops", ParentID: &men.ID}
	require.NoError(t, repo.Save(ctx, tops))

	got, err := repo.GetByID(ctx, men.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, got.GenderFilter)

	found, err := repo.SearchByName(ctx, "TOP")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, tops.ID, found[0].ID)

	found, err = repo.SearchByName(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, found)

	count, err := repo.CountChildren(ctx, men.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, tops.ID))
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.HardDelete(ctx, tops.ID))
	assert.ErrorIs(t, repo.HardDelete(ctx, tops.ID), models.ErrRecordNotFound)
}

func TestRepositoryUpdateLeavesDeletedRowDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	men := &models.Category{Name: "Men", DisplayOrder: 3, GenderFilter: models.GenderMale}
	require.NoError(t, repo.Save(ctx, men))

	stale, err := repo.GetByID(ctx, men.ID)
	require.NoError(t, err)
	stale.Name = "Menswear"
	stale.DisplayOrder = 9
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.GetByID(ctx, men.ID)
	require.NoError(t, err)
	assert.Equal(t, "Menswear", got.Name)
	assert.Equal(t, 3, got.DisplayOrder, "only name and description are written")
	assert.Equal(t, models.GenderMale, got.GenderFilter)

	require.NoError(t, repo.Delete(ctx, men.ID))
	stale.Name = "Ghost"
	err = repo.Update(ctx, stale)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	_, err = repo.GetByID(ctx, men.ID)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	var row models.Category
	require.NoError(t, db.Unscoped().First(&row, men.ID).Error)
	assert.True(t, row.DeletedAt.Valid)
	assert.Equal(t, "Menswear", row.Name)
}

func TestRepositoryUpdateWrapsStoreErrors(t *testing.T) {
	repo, mock := newMockedRepository(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE").WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Category{ID: 1, Name: "Men"})
	var se *models.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "update", se.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newMockedRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gLogger.Discard})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func TestRepositoryWrapsStoreErrors(t *testing.T) {
	cause := errors.New("connection reset by peer")
	ctx := context.Background()

	tests := []struct {
		name string
		op   string
		call func(Repository) error
	}{
		{"GetByID", "get_by_id", func(r Repository) error { _, err := r.GetByID(ctx, 1); return err }},
		{"GetAll", "get_all", func(r Repository) error { _, err := r.GetAll(ctx); return err }},
		{"GetByParentID", "get_by_parent_id", func(r Repository) error { _, err := r.GetByParentID(ctx, 1); return err }},
		{"SearchByName", "search_by_name", func(r Repository) error { _, err := r.SearchByName(ctx, "x"); return err }},
		{"CountChildren", "count_children", func(r Repository) error { _, err := r.CountChildren(ctx, 1); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockedRepository(t)
			mock.ExpectQuery("SELECT").WillReturnError(cause)

			err := tt.call(repo)

			var se *models.StoreError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.op, se.Op)
			assert.ErrorIs(t, err, cause)
			assert.False(t, errors.Is(err, models.ErrRecordNotFound))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositorySaveWrapsStoreErrors(t *testing.T) {
	repo, mock := newMockedRepository(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), &models.Category{Name: "Men"})
	assert.ErrorIs(t, err, models.ErrStore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
