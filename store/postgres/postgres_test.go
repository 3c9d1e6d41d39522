package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
)

func TestPostgresStore_Execute(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock)

	query := "SELECT product, revenue FROM product_revenue"
	rows := pgxmock.NewRows([]string{"product", "revenue"}).
		AddRow("Chai", 180.0).
		AddRow("Chang", 85.5)

	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(rows)

	columns, result, err := store.Execute(context.Background(), query)
	assert.NoError(t, err)
	assert.Equal(t, []string{"product", "revenue"}, columns)
	assert.Len(t, result, 2)
	assert.Equal(t, "Chai", result[0]["product"])
	assert.Equal(t, 180.0, result[0]["revenue"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Execute_NormalizesBytes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock)

	query := "SELECT aov FROM kpi"
	rows := pgxmock.NewRows([]string{"aov"}).
		AddRow([]byte("1042.92"))

	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(rows)

	_, result, err := store.Execute(context.Background(), query)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "1042.92", result[0]["aov"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Execute_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock)

	dbError := errors.New(`relation "Order Details" does not exist`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM")).WillReturnError(dbError)

	columns, result, err := store.Execute(context.Background(), `SELECT * FROM "Order Details"`)
	assert.Error(t, err)
	assert.Nil(t, columns)
	assert.Nil(t, result)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Schema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock)

	rows := pgxmock.NewRows([]string{"table_name", "column_name"}).
		AddRow("orders", "order_id").
		AddRow("orders", "order_date").
		AddRow("products", "product_id").
		AddRow("products", "product_name")

	mock.ExpectQuery("SELECT table_name, column_name").WillReturnRows(rows)

	schema, err := store.Schema(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"order_id", "order_date"}, schema["orders"])
	assert.Equal(t, []string{"product_id", "product_name"}, schema["products"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Schema_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock)

	dbError := errors.New("database connection failed")
	mock.ExpectQuery("SELECT table_name, column_name").WillReturnError(dbError)

	schema, err := store.Schema(context.Background())
	assert.Error(t, err)
	assert.Nil(t, schema)
	assert.Contains(t, err.Error(), "failed to inspect schema")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)

	store := NewWithPool(mock)

	assert.NotPanics(t, func() {
		assert.NoError(t, store.Close())
	})
}

func TestNewPostgresStore_InvalidConnection(t *testing.T) {
	_, err := New(context.Background(), Options{ConnString: "invalid://connection-string"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unable to create connection pool")
}
