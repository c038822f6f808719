package models

import (
	"time"

	"arletbank/database"

	"github.com/shopspring/decimal"
)

const TransactionCollection = "transactions"

// TransactionType представляет направление движения средств
type TransactionType int

const (
	TransactionTypeDebit TransactionType = iota
	TransactionTypeCredit
)

func (t TransactionType) String() string {
	if t == TransactionTypeCredit {
		return "CREDIT"
	}
	return "DEBIT"
}

// Transaction представляет запись журнала операций. Записи только добавляются.
type Transaction struct {
	ID      string
	Account string
	Type    TransactionType
	Amount  decimal.Decimal
	Message string
	Date    time.Time
}

func TransactionFromRecord(rec database.Record) (Transaction, error) {
	r := database.NewReader(rec)
	t := Transaction{
		ID:      r.String("ID"),
		Account: r.String("Account"),
		Type:    TransactionType(r.Int("Type")),
		Amount:  r.Decimal("Amount"),
		Message: r.String("Message"),
		Date:    r.Time("Date"),
	}
	return t, r.Err()
}

func (t Transaction) ToRecord() database.Record {
	return database.Record{
		"ID":      database.String(t.ID),
		"Account": database.String(t.Account),
		"Type":    database.Int(int64(t.Type)),
		"Amount":  database.Number(t.Amount),
		"Message": database.String(t.Message),
		"Date":    database.Time(t.Date),
	}
}
