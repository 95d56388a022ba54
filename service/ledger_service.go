package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"farm-ledger-api/logger"
	"farm-ledger-api/model"
	"farm-ledger-api/notifier"
	"farm-ledger-api/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported transaction type")
	ErrInvalidAmount        = errors.New("transaction amount must be greater than zero")
	ErrInvalidDestination   = errors.New("a destination account different from the source is required for transfers")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAccountNotFound      = errors.New("bank account not found")
	ErrDestinationNotFound  = errors.New("destination bank account not found")
	ErrPersistence          = errors.New("persistence failure")
)

// defaultTxTimeout bounds every apply call so a lost lock cannot hang a
// request indefinitely.
const defaultTxTimeout = 5 * time.Second

// referenceRetryLimit bounds how many times a colliding reference code is
// disambiguated before the operation is declared failed.
const referenceRetryLimit = 1

// LedgerService atomically applies financial movements to one or two bank
// accounts and records them in the transaction log. The account balance
// column is a projection of that log, so every balance write and its ledger
// entry happen inside the same database transaction.
type LedgerService struct {
	db               *sql.DB
	accountRepo      repository.IAccountRepository
	ledgerRepo       repository.ILedgerRepository
	notificationRepo repository.INotificationRepository
	notifier         notifier.INotifier
	txTimeout        time.Duration
}

// NewLedgerService wires the processor with its repositories. notificationRepo
// and n may be nil, which disables the corresponding best-effort notices.
func NewLedgerService(db *sql.DB, accountRepo repository.IAccountRepository, ledgerRepo repository.ILedgerRepository,
	notificationRepo repository.INotificationRepository, n notifier.INotifier) *LedgerService {
	return &LedgerService{
		db:               db,
		accountRepo:      accountRepo,
		ledgerRepo:       ledgerRepo,
		notificationRepo: notificationRepo,
		notifier:         n,
		txTimeout:        defaultTxTimeout,
	}
}

func persistence(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrPersistence, err)
}

// Apply validates and applies one transaction against the source account,
// plus the destination account for transfers. Either every write commits or
// none does; validation failures abort before any storage access.
func (s *LedgerService) Apply(ctx context.Context, accountID int, req model.ApplyTransactionRequest) (*model.TransactionResult, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":       accountID,
		"transaction_type": req.Type,
		"amount":           req.Amount.String(),
	})
	log.Info("Starting transaction processing")

	if !req.Type.Valid() {
		return nil, ErrUnsupportedOperation
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.Type == model.EntryTransfer {
		if req.DestinationAccountID == 0 {
			return nil, ErrInvalidDestination
		}
		if req.DestinationAccountID == accountID {
			return nil, ErrInvalidDestination
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence("could not begin transaction", err)
	}
	defer tx.Rollback()

	source, err := s.accountRepo.GetAccountForUpdate(tx, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, persistence("could not lock source account", err)
	}

	balanceBefore := source.Balance
	newBalance := balanceBefore
	if req.Type.IsCredit() {
		newBalance = balanceBefore.Add(req.Amount)
	} else {
		if balanceBefore.LessThan(req.Amount) {
			return nil, ErrInsufficientFunds
		}
		newBalance = balanceBefore.Sub(req.Amount)
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, source.ID, newBalance); err != nil {
		return nil, persistence("could not update source balance", err)
	}

	sourceEntry := &model.LedgerEntry{
		AccountID:     source.ID,
		Type:          req.Type,
		Amount:        req.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  newBalance,
		Description:   optionalString(req.Description),
		ReferenceCode: optionalString(req.ReferenceCode),
		Status:        model.StatusSuccess,
	}
	if err := s.appendEntry(tx, sourceEntry, log); err != nil {
		return nil, err
	}

	result := &model.TransactionResult{
		Message: "Transaction recorded",
		Source: model.LegResult{
			AccountID:     source.ID,
			EntryID:       sourceEntry.ID,
			BalanceBefore: balanceBefore,
			BalanceAfter:  newBalance,
		},
	}

	if req.Type == model.EntryTransfer {
		destLeg, err := s.applyTransferLeg(tx, req, sourceEntry, log)
		if err != nil {
			return nil, err
		}
		result.Message = "Transfer completed"
		result.Destination = destLeg
	}

	if err := tx.Commit(); err != nil {
		return nil, persistence("could not commit transaction", err)
	}

	log.Info("Transaction completed successfully")
	s.sendNotices(source.FarmerID, sourceEntry, result)
	return result, nil
}

// applyTransferLeg credits the destination account and records the incoming
// leg. The credited amount is the untouched original amount; both legs share
// the source reference, with the destination suffixed "-in".
func (s *LedgerService) applyTransferLeg(tx *sql.Tx, req model.ApplyTransactionRequest,
	sourceEntry *model.LedgerEntry, log *logrus.Entry) (*model.LegResult, error) {
	dest, err := s.accountRepo.GetAccountForUpdate(tx, req.DestinationAccountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDestinationNotFound
		}
		return nil, persistence("could not lock destination account", err)
	}

	destBefore := dest.Balance
	destAfter := destBefore.Add(req.Amount)

	if err := s.accountRepo.UpdateAccountBalance(tx, dest.ID, destAfter); err != nil {
		return nil, persistence("could not update destination balance", err)
	}

	destDescription := "Incoming transfer"
	if req.Description != "" {
		destDescription = req.Description + " (incoming transfer)"
	}
	var destReference *string
	if sourceEntry.ReferenceCode != nil {
		ref := *sourceEntry.ReferenceCode + "-in"
		destReference = &ref
	}

	destEntry := &model.LedgerEntry{
		AccountID:     dest.ID,
		Type:          model.EntryDeposit,
		Amount:        req.Amount,
		BalanceBefore: destBefore,
		BalanceAfter:  destAfter,
		Description:   &destDescription,
		ReferenceCode: destReference,
		Status:        model.StatusSuccess,
	}
	if err := s.appendEntry(tx, destEntry, log); err != nil {
		return nil, err
	}

	return &model.LegResult{
		AccountID:     dest.ID,
		EntryID:       destEntry.ID,
		BalanceBefore: destBefore,
		BalanceAfter:  destAfter,
	}, nil
}

// appendEntry inserts one ledger entry, retrying a bounded number of times
// when the reference code collides with an existing entry. Each retry keeps
// the caller's code and appends a unique timestamp suffix; exhausting the
// retry budget fails the whole operation.
func (s *LedgerService) appendEntry(tx *sql.Tx, entry *model.LedgerEntry, log *logrus.Entry) error {
	err := s.ledgerRepo.CreateEntry(tx, entry)
	for attempt := 0; errors.Is(err, repository.ErrDuplicateReference) && attempt < referenceRetryLimit; attempt++ {
		base := "REF"
		if entry.ReferenceCode != nil {
			base = *entry.ReferenceCode
		}
		ref := base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
		entry.ReferenceCode = &ref
		log.WithField("reference_code", ref).Warn("Retrying ledger insert with disambiguated reference")
		err = s.ledgerRepo.CreateEntry(tx, entry)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			return persistence("could not record ledger entry", err)
		}
		return persistence("could not create ledger entry", err)
	}
	return nil
}

// sendNotices emits the post-commit audit notices. Failures are logged and
// never propagate; the transaction has already committed.
func (s *LedgerService) sendNotices(farmerID int, entry *model.LedgerEntry, result *model.TransactionResult) {
	log := logger.Log.WithFields(logrus.Fields{
		"farmer_id": farmerID,
		"entry_id":  entry.ID,
	})

	if s.notificationRepo != nil {
		notification := &model.Notification{
			FarmerID: farmerID,
			Message: fmt.Sprintf("%s of %s processed on account %d",
				entry.Type, entry.Amount.StringFixed(2), entry.AccountID),
		}
		if err := s.notificationRepo.CreateNotification(notification); err != nil {
			log.WithError(err).Warn("Failed to record transaction notification")
		}
	}

	if s.notifier != nil {
		notice := notifier.TransactionNotice{
			FarmerID:      farmerID,
			AccountID:     entry.AccountID,
			EntryID:       entry.ID,
			Type:          string(entry.Type),
			Amount:        entry.Amount.StringFixed(2),
			BalanceAfter:  result.Source.BalanceAfter.StringFixed(2),
			ReferenceCode: entry.ReferenceCode,
			OccurredAt:    time.Now().UTC(),
		}
		if err := s.notifier.Notify(context.Background(), notice); err != nil {
			log.WithError(err).Warn("Failed to publish transaction notice")
		}
	}
}

// ListEntries retrieves the ledger for one account, newest first, optionally
// bounded by from/to dates (YYYY-MM-DD, inclusive).
func (s *LedgerService) ListEntries(ctx context.Context, accountID int, from, to *string) ([]*model.LedgerEntry, error) {
	if _, err := s.accountRepo.GetAccountByID(accountID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, persistence("could not load account", err)
	}
	entries, err := s.ledgerRepo.GetEntriesByAccountID(accountID, from, to)
	if err != nil {
		return nil, persistence("could not load ledger entries", err)
	}
	return entries, nil
}

// ListEntriesForFarmer retrieves the combined ledger across all of the
// farmer's accounts, newest first.
func (s *LedgerService) ListEntriesForFarmer(ctx context.Context, farmerID int, from, to *string) ([]*model.LedgerEntry, error) {
	entries, err := s.ledgerRepo.GetEntriesByFarmerID(farmerID, from, to)
	if err != nil {
		return nil, persistence("could not load farmer ledger entries", err)
	}
	return entries, nil
}

// Summarize aggregates the account's successful entries per transaction type
// for the dashboard view.
func (s *LedgerService) Summarize(ctx context.Context, accountID int) (*model.AccountSummary, error) {
	account, err := s.accountRepo.GetAccountByID(accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, persistence("could not load account", err)
	}

	byType, err := s.ledgerRepo.SummarizeByAccountID(accountID)
	if err != nil {
		return nil, persistence("could not summarize ledger entries", err)
	}

	return &model.AccountSummary{
		AccountID: account.ID,
		Balance:   account.Balance,
		ByType:    byType,
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
