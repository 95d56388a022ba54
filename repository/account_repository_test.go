// repository/account_repository_test.go
package repository

import (
	"database/sql"
	"os"
	"regexp"
	"testing"
	"time"

	"farm-ledger-api/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "farmer_id", "bank_name", "account_type", "branch", "ifsc",
		"account_number", "is_primary", "balance", "created_at",
	})
}

func TestAccountRepository_GetAccountForUpdate(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	t.Run("locks and returns the row", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, farmer_id, bank_name, account_type, branch, ifsc, account_number, is_primary, balance, created_at FROM bank_accounts WHERE id = $1 FOR UPDATE`)).
			WithArgs(1).
			WillReturnRows(accountRows().AddRow(
				1, 7, "Grameen Agri Bank", "Savings", "Pune", "GRAM0001", "123456",
				true, "1000.00", time.Now(),
			))

		tx, err := db.Begin()
		assert.NoError(t, err)

		account, err := repo.GetAccountForUpdate(tx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, account.ID)
		assert.Equal(t, 7, account.FarmerID)
		assert.Equal(t, "1000", account.Balance.String())
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("missing account surfaces sql.ErrNoRows", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectQuery(`SELECT .* FROM bank_accounts WHERE id = \$1 FOR UPDATE`).
			WithArgs(99).
			WillReturnError(sql.ErrNoRows)

		tx, err := db.Begin()
		assert.NoError(t, err)

		_, err = repo.GetAccountForUpdate(tx, 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestAccountRepository_MarkPrimary(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	t.Run("owned account affects one row", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE bank_accounts SET is_primary = TRUE WHERE id = $1 AND farmer_id = $2`)).
			WithArgs(3, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		assert.NoError(t, err)

		affected, err := repo.MarkPrimary(tx, 7, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("foreign account affects zero rows", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE bank_accounts SET is_primary = TRUE WHERE id = $1 AND farmer_id = $2`)).
			WithArgs(3, 8).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		assert.NoError(t, err)

		affected, err := repo.MarkPrimary(tx, 8, 3)
		assert.NoError(t, err)
		assert.Zero(t, affected)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetAccountsByFarmerID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	dbMock.ExpectQuery(`SELECT .* FROM bank_accounts WHERE farmer_id = \$1 ORDER BY id`).
		WithArgs(7).
		WillReturnRows(accountRows().
			AddRow(1, 7, "Grameen Agri Bank", "Savings", "Pune", "GRAM0001", "123456", true, "1000.00", time.Now()).
			AddRow(2, 7, "State Co-op", "Current", "Nashik", "STCO0002", "654321", false, "0.00", time.Now()))

	accounts, err := repo.GetAccountsByFarmerID(7)
	assert.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.True(t, accounts[0].IsPrimary)
	assert.False(t, accounts[1].IsPrimary)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
