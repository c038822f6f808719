package models

import (
	"fmt"
	"strings"

	"arletbank/database"

	"github.com/shopspring/decimal"
)

const AccountCollection = "accounts"

// DefaultPIN выдается каждому новому счету при одобрении регистрации
const DefaultPIN = "0000"

// AccountNumberLength - длина номера счета в цифрах
const AccountNumberLength = 10

// AccountType представляет тип счета
type AccountType int

const (
	AccountTypeUndefined AccountType = iota
	AccountTypeCurrent
	AccountTypeSavings
)

func (t AccountType) String() string {
	switch t {
	case AccountTypeCurrent:
		return "Current Account"
	case AccountTypeSavings:
		return "Savings Account"
	default:
		return "Undefined"
	}
}

// ParseAccountType разбирает тип счета из строки: current, savings, undefined или номер
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "undefined", "0":
		return AccountTypeUndefined, nil
	case "current", "1":
		return AccountTypeCurrent, nil
	case "savings", "2":
		return AccountTypeSavings, nil
	}
	return AccountTypeUndefined, fmt.Errorf("unknown account type %q", s)
}

// Account представляет банковский счет. Ключ - Number.
// Balance никогда не становится отрицательным после успешной операции.
type Account struct {
	Number        string
	CustomerEmail string
	PIN           string // bcrypt-хеш
	Balance       decimal.Decimal
	Type          AccountType
}

func AccountFromRecord(rec database.Record) (Account, error) {
	r := database.NewReader(rec)
	a := Account{
		Number:        r.String("Number"),
		CustomerEmail: r.String("CustomerEmail"),
		PIN:           r.String("PIN"),
		Balance:       r.Decimal("Balance"),
		Type:          AccountType(r.Int("Type")),
	}
	return a, r.Err()
}

func (a Account) ToRecord() database.Record {
	return database.Record{
		"Number":        database.String(a.Number),
		"CustomerEmail": database.String(a.CustomerEmail),
		"PIN":           database.String(a.PIN),
		"Balance":       database.Number(a.Balance),
		"Type":          database.Int(int64(a.Type)),
	}
}
