package repository

import (
	"database/sql"

	"farm-ledger-api/logger"
	"farm-ledger-api/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for bank account database operations.
type IAccountRepository interface {
	GetAccountByID(accountID int) (*model.Account, error)
	GetAccountsByFarmerID(farmerID int) ([]*model.Account, error)
	GetPrimaryAccount(farmerID int) (*model.Account, error)
	GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error
	ClearPrimaryFlags(tx *sql.Tx, farmerID int) error
	MarkPrimary(tx *sql.Tx, farmerID, accountID int) (int64, error)
}

// AccountRepository implements IAccountRepository on top of database/sql.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, farmer_id, bank_name, account_type, branch, ifsc, account_number, is_primary, balance, created_at`

func scanAccount(row interface{ Scan(...interface{}) error }, acc *model.Account) error {
	return row.Scan(&acc.ID, &acc.FarmerID, &acc.BankName, &acc.AccountType, &acc.Branch,
		&acc.IFSC, &acc.AccountNumber, &acc.IsPrimary, &acc.Balance, &acc.CreatedAt)
}

// GetAccountByID retrieves a single account by its primary key.
func (r *AccountRepository) GetAccountByID(accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Debug("Executing query to get account by ID")

	account := &model.Account{}
	query := `SELECT ` + accountColumns + ` FROM bank_accounts WHERE id = $1`
	err := scanAccount(r.DB.QueryRow(query, accountID), account)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get account query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByFarmerID retrieves all bank accounts for a specific farmer.
func (r *AccountRepository) GetAccountsByFarmerID(farmerID int) ([]*model.Account, error) {
	log := logger.Log.WithField("farmer_id", farmerID)
	log.Debug("Executing query to get accounts by farmer ID")

	query := `SELECT ` + accountColumns + ` FROM bank_accounts WHERE farmer_id = $1 ORDER BY id`
	rows, err := r.DB.Query(query, farmerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts by farmer ID")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := scanAccount(rows, &acc); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// GetPrimaryAccount retrieves the account flagged primary for the farmer.
// Returns sql.ErrNoRows when the farmer has no primary account.
func (r *AccountRepository) GetPrimaryAccount(farmerID int) (*model.Account, error) {
	log := logger.Log.WithField("farmer_id", farmerID)
	log.Debug("Executing query to get primary account")

	account := &model.Account{}
	query := `SELECT ` + accountColumns + ` FROM bank_accounts WHERE farmer_id = $1 AND is_primary = TRUE LIMIT 1`
	err := scanAccount(r.DB.QueryRow(query, farmerID), account)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get primary account query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountForUpdate reads an account inside the given transaction with a
// row lock, so the balance cannot change under us before we write it back.
func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Debug("Executing query to get account for update")

	account := &model.Account{}
	query := `SELECT ` + accountColumns + ` FROM bank_accounts WHERE id = $1 FOR UPDATE`
	err := scanAccount(tx.QueryRow(query, accountID), account)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance.String(),
	})
	log.Debug("Executing query to update account balance")

	query := `UPDATE bank_accounts SET balance = $1 WHERE id = $2`
	_, err := tx.Exec(query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}

// ClearPrimaryFlags unsets is_primary on every account the farmer owns.
func (r *AccountRepository) ClearPrimaryFlags(tx *sql.Tx, farmerID int) error {
	log := logger.Log.WithField("farmer_id", farmerID)
	log.Debug("Executing query to clear primary flags")

	query := `UPDATE bank_accounts SET is_primary = FALSE WHERE farmer_id = $1`
	_, err := tx.Exec(query, farmerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute clear primary flags query")
		return err
	}
	return nil
}

// MarkPrimary flags the given account as primary, but only if it belongs to
// the farmer. The returned row count is zero when the ownership check fails.
func (r *AccountRepository) MarkPrimary(tx *sql.Tx, farmerID, accountID int) (int64, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"farmer_id":  farmerID,
		"account_id": accountID,
	})
	log.Debug("Executing query to mark primary account")

	query := `UPDATE bank_accounts SET is_primary = TRUE WHERE id = $1 AND farmer_id = $2`
	res, err := tx.Exec(query, accountID, farmerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute mark primary query")
		return 0, err
	}
	return res.RowsAffected()
}
