package repository

import (
	"database/sql"
	"errors"

	"farm-ledger-api/logger"
	"farm-ledger-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrDuplicateReference reports a unique violation on the ledger reference
// code. The ledger service recovers from it once by disambiguating the code.
var ErrDuplicateReference = errors.New("duplicate transaction reference code")

const uniqueViolation = pq.ErrorCode("23505")
const referenceCodeConstraint = "transaction_logs_reference_code_key"

// ILedgerRepository defines the contract for transaction log database operations.
type ILedgerRepository interface {
	CreateEntry(tx *sql.Tx, entry *model.LedgerEntry) error
	GetEntriesByAccountID(accountID int, from, to *string) ([]*model.LedgerEntry, error)
	GetEntriesByFarmerID(farmerID int, from, to *string) ([]*model.LedgerEntry, error)
	SummarizeByAccountID(accountID int) ([]model.TypeSummary, error)
}

// LedgerRepository implements ILedgerRepository.
type LedgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// CreateEntry appends one ledger entry within the given transaction and fills
// in the generated id and timestamp. A unique violation on the reference code
// constraint is reported as ErrDuplicateReference so the caller can apply its
// retry policy without inspecting driver messages.
func (r *LedgerRepository) CreateEntry(tx *sql.Tx, entry *model.LedgerEntry) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":       entry.AccountID,
		"transaction_type": entry.Type,
		"amount":           entry.Amount.String(),
	})
	log.Debug("Executing query to create a new ledger entry")

	query := `INSERT INTO transaction_logs
		(account_id, transaction_type, amount, balance_before, balance_after, description, reference_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := tx.QueryRow(query,
		entry.AccountID, entry.Type, entry.Amount, entry.BalanceBefore, entry.BalanceAfter,
		entry.Description, entry.ReferenceCode, entry.Status,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == referenceCodeConstraint {
			log.WithField("reference_code", entry.ReferenceCode).Warn("Reference code collision on ledger insert")
			return ErrDuplicateReference
		}
		log.WithError(err).Error("Failed to execute create ledger entry query")
		return err
	}
	return nil
}

const entryColumns = `id, account_id, transaction_type, amount, balance_before, balance_after, description, reference_code, status, created_at`

func collectEntries(rows *sql.Rows, log *logrus.Entry) ([]*model.LedgerEntry, error) {
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.BalanceBefore,
			&e.BalanceAfter, &e.Description, &e.ReferenceCode, &e.Status, &e.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan ledger entry row")
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// GetEntriesByAccountID retrieves the ledger for one account, newest first.
// from and to are optional date bounds (YYYY-MM-DD) compared on the date part
// only, matching the history endpoints.
func (r *LedgerRepository) GetEntriesByAccountID(accountID int, from, to *string) ([]*model.LedgerEntry, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Debug("Executing query to get ledger entries by account ID")

	query := `SELECT ` + entryColumns + ` FROM transaction_logs WHERE account_id = $1`
	args := []interface{}{accountID}
	if from != nil {
		args = append(args, *from)
		query += ` AND created_at::date >= $2::date`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND created_at::date <= $3::date`
		} else {
			query += ` AND created_at::date <= $2::date`
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for ledger entries by account ID")
		return nil, err
	}
	return collectEntries(rows, log)
}

// GetEntriesByFarmerID retrieves the combined ledger across every account the
// farmer owns, newest first.
func (r *LedgerRepository) GetEntriesByFarmerID(farmerID int, from, to *string) ([]*model.LedgerEntry, error) {
	log := logger.Log.WithField("farmer_id", farmerID)
	log.Debug("Executing query to get ledger entries by farmer ID")

	query := `SELECT tl.id, tl.account_id, tl.transaction_type, tl.amount, tl.balance_before, tl.balance_after,
			tl.description, tl.reference_code, tl.status, tl.created_at
		FROM transaction_logs tl
		JOIN bank_accounts ba ON tl.account_id = ba.id
		WHERE ba.farmer_id = $1`
	args := []interface{}{farmerID}
	if from != nil {
		args = append(args, *from)
		query += ` AND tl.created_at::date >= $2::date`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND tl.created_at::date <= $3::date`
		} else {
			query += ` AND tl.created_at::date <= $2::date`
		}
	}
	query += ` ORDER BY tl.created_at DESC, tl.id DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for ledger entries by farmer ID")
		return nil, err
	}
	return collectEntries(rows, log)
}

// SummarizeByAccountID aggregates an account's successful entries per type.
func (r *LedgerRepository) SummarizeByAccountID(accountID int) ([]model.TypeSummary, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Debug("Executing query to summarize ledger entries by type")

	query := `SELECT transaction_type, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transaction_logs
		WHERE account_id = $1 AND status = 'Success'
		GROUP BY transaction_type
		ORDER BY transaction_type`
	rows, err := r.DB.Query(query, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute ledger summary query")
		return nil, err
	}
	defer rows.Close()

	var summaries []model.TypeSummary
	for rows.Next() {
		var s model.TypeSummary
		if err := rows.Scan(&s.Type, &s.Count, &s.Total); err != nil {
			log.WithError(err).Error("Failed to scan ledger summary row")
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
