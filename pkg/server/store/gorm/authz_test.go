package gorm

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

func expectPermissionCount(mock sqlmock.Sqlmock, count int) {
	rows := sqlmock.NewRows([]string{"count"}).AddRow(count)
	mock.ExpectQuery(`SELECT COUNT\(1\)`).
		WillReturnRows(rows)
}

func TestAuthzStoreHasPermission(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzStore(db)

	expectPermissionCount(mock, 1)

	assert.True(t, authz.HasPermission(2, "/cart_items", "POST"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthzStoreDeniesWithoutGrant(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzStore(db)

	expectPermissionCount(mock, 0)

	assert.False(t, authz.HasPermission(2, "/usuarios/{id}", "DELETE"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthzStoreCachesDecision(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzStore(db)

	// Only one query expected; the second call must hit the cache.
	expectPermissionCount(mock, 1)

	assert.True(t, authz.HasPermission(2, "/cart_items", "POST"))
	assert.True(t, authz.HasPermission(2, "/cart_items", "POST"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthzStoreInvalidatePurgesCache(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzStore(db)

	expectPermissionCount(mock, 1)
	assert.True(t, authz.HasPermission(2, "/cart_items", "POST"))

	authz.InvalidateAuthz()

	// Revoked in the meantime; the fresh query must be consulted.
	expectPermissionCount(mock, 0)
	assert.False(t, authz.HasPermission(2, "/cart_items", "POST"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthzStoreDeniesOnQueryError(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzStore(db)

	mock.ExpectQuery(`SELECT COUNT\(1\)`).
		WillReturnError(errors.New("connection reset"))

	assert.False(t, authz.HasPermission(2, "/cart_items", "POST"))

	// Failures are never cached; a recovered database must be consulted
	// again on the next call.
	expectPermissionCount(mock, 1)
	assert.True(t, authz.HasPermission(2, "/cart_items", "POST"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthzStoreCachesPerKey(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzStore(db)

	expectPermissionCount(mock, 1)
	expectPermissionCount(mock, 0)

	assert.True(t, authz.HasPermission(1, "/permisos", "POST"))
	assert.False(t, authz.HasPermission(2, "/permisos", "POST"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
