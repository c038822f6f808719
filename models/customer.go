package models

import "arletbank/database"

const CustomerCollection = "customers"

// Customer представляет клиента. Ключ - Email.
// Confirmed становится true только после одобрения сотрудником, тогда же появляется счет.
type Customer struct {
	Email         string
	FirstName     string
	LastName      string
	AccountNumber string
	AccountType   AccountType
	Confirmed     bool
	ConfirmedBy   string
}

// FullName возвращает имя и фамилию
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

func CustomerFromRecord(rec database.Record) (Customer, error) {
	r := database.NewReader(rec)
	c := Customer{
		Email:         r.String("Email"),
		FirstName:     r.String("FirstName"),
		LastName:      r.String("LastName"),
		AccountNumber: r.String("AccountNumber"),
		AccountType:   AccountType(r.Int("AccountType")),
		Confirmed:     r.Bool("Confirmed"),
		ConfirmedBy:   r.String("ConfirmedBy"),
	}
	return c, r.Err()
}

func (c Customer) ToRecord() database.Record {
	return database.Record{
		"Email":         database.String(c.Email),
		"FirstName":     database.String(c.FirstName),
		"LastName":      database.String(c.LastName),
		"AccountNumber": database.String(c.AccountNumber),
		"AccountType":   database.Int(int64(c.AccountType)),
		"Confirmed":     database.Bool(c.Confirmed),
		"ConfirmedBy":   database.String(c.ConfirmedBy),
	}
}
