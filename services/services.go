// Package services содержит операции предметной области банка поверх хранилища.
package services

import (
	"arletbank/config"
	"arletbank/database"
	"arletbank/utils"
)

// Services собирает все сервисы над одной базой
type Services struct {
	DB     *database.Database
	Config *config.Config
	Log    *utils.Logger

	Admins        *AdminService
	Staffs        *StaffService
	Customers     *CustomerService
	Accounts      *AccountService
	Transactions  *TransactionService
	Registrations *RegistrationService
	Statements    *StatementService
	Notifier      Notifier
}

// NewServices создает сервисы. notifier может быть nil.
func NewServices(db *database.Database, cfg *config.Config, log *utils.Logger, notifier Notifier) *Services {
	if log == nil {
		log = utils.Discard()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	cost := cfg.Security.BcryptCost

	transactions := NewTransactionService(db)
	customers := NewCustomerService(db, log)
	accounts := NewAccountService(db, transactions, log, cost)

	return &Services{
		DB:            db,
		Config:        cfg,
		Log:           log,
		Admins:        NewAdminService(db, log, cost),
		Staffs:        NewStaffService(db, log, cost),
		Customers:     customers,
		Accounts:      accounts,
		Transactions:  transactions,
		Registrations: NewRegistrationService(db, customers, accounts, notifier, log),
		Statements:    NewStatementService(accounts, customers, transactions, cfg.Statement.BankName),
		Notifier:      notifier,
	}
}

// Bootstrap создает администратора из конфигурации, если администраторов еще нет.
// Возвращает true, если администратор был создан.
func (s *Services) Bootstrap() (bool, error) {
	n, err := s.Admins.CountAdmins()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	b := s.Config.Bootstrap
	if _, err := s.Admins.CreateAdmin(b.Username, b.Password, b.Name, "system"); err != nil {
		return false, err
	}
	s.Log.Warn("bootstrap admin %q created", b.Username)
	return true, nil
}
