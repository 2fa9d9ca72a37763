package items

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const colsRe = `id,\s*title,\s*description,\s*image,\s*large_image,\s*price,\s*user_id,\s*created_at`

var itemRowCols = []string{"id", "title", "description", "image", "large_image", "price", "user_id", "created_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := `(?s)^INSERT\s+INTO\s+items\s*\(title,\s*description,\s*image,\s*large_image,\s*price,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id,\s*created_at\s*$`
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q).
		WithArgs("Hat", "Red hat", "img", "img-large", 1500, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("i-1", created))

	got, err := repo.Create(context.Background(), &models.Item{
		Title: "Hat", Description: "Red hat", Image: "img", LargeImage: "img-large", Price: 1500, UserID: "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "i-1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+items`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Item{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := `(?s)^SELECT\s+` + colsRe + `\s+FROM\s+items\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs("i-1").
		WillReturnRows(sqlmock.NewRows(itemRowCols).AddRow("i-1", "Hat", "d", "", "", 100, "u-1", time.Now()))
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, "Hat", got.Title)
	assert.Equal(t, 100, got.Price)

	_, err = repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := `(?s)^SELECT\s+` + colsRe + `\s+FROM\s+items\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+LIMIT\s+\$1\s+OFFSET\s+\$2$`
	mock.ExpectQuery(q).WithArgs(2, 4).
		WillReturnRows(sqlmock.NewRows(itemRowCols).
			AddRow("i-2", "B", "", "", "", 2, "u-1", time.Now()).
			AddRow("i-1", "A", "", "", "", 1, "u-1", time.Now()))

	got, err := repo.List(context.Background(), 2, 4)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "i-2", got[0].ID)
}

func TestCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+items$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := `(?s)^UPDATE\s+items\s+SET\s+title\s*=\s*COALESCE\(\$2,\s*title\).*price\s*=\s*COALESCE\(\$6,\s*price\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+` + colsRe + `$`

	title := "New"
	price := 500
	mock.ExpectQuery(q).WithArgs("i-1", "New", nil, nil, nil, 500).
		WillReturnRows(sqlmock.NewRows(itemRowCols).AddRow("i-1", "New", "d", "", "", 500, "u-1", time.Now()))

	got, err := repo.Update(context.Background(), "i-1", models.ItemUpdate{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, 500, got.Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	q := `(?s)^DELETE\s+FROM\s+items\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs("i-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "i-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "ghost"), common.ErrorNotFound)
}
