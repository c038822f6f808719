package services

import (
	"sort"
	"time"

	"arletbank/database"
	"arletbank/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService ведет журнал операций по счетам
type TransactionService struct {
	transactions *database.Model[models.Transaction]
	now          func() time.Time
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(db *database.Database) *TransactionService {
	return &TransactionService{
		transactions: database.NewModel(db, models.TransactionCollection, "ID", models.TransactionFromRecord),
		now:          time.Now,
	}
}

// SetClock подменяет источник времени для поля Date
func (s *TransactionService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateTransaction добавляет запись в журнал. Сумма не проверяется.
func (s *TransactionService) CreateTransaction(account string, txType models.TransactionType, amount decimal.Decimal, message string) (*models.Transaction, error) {
	tx := models.Transaction{
		ID:      uuid.New().String(),
		Account: account,
		Type:    txType,
		Amount:  amount,
		Message: message,
		Date:    s.now().UTC(),
	}
	if err := s.transactions.Insert(tx.ToRecord()); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactions возвращает записи, подходящие под query, в порядке добавления
func (s *TransactionService) GetTransactions(query database.Record) ([]models.Transaction, error) {
	return s.transactions.FindAll(query)
}

// History возвращает операции по счету, новые первыми
func (s *TransactionService) History(account string) ([]models.Transaction, error) {
	txs, err := s.transactions.FindAll(database.Record{"Account": database.String(account)})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}
