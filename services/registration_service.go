package services

import (
	"arletbank/database"
	"arletbank/models"
	"arletbank/utils"

	"github.com/shopspring/decimal"
)

// CustomerAccount - подтвержденный клиент вместе со счетом
type CustomerAccount struct {
	Customer models.Customer
	Account  models.Account
}

// RegistrationService управляет жизненным циклом клиента: одобрение, отказ, закрытие счета.
// Каждая операция затрагивает несколько коллекций и выполняется одной атомарной единицей.
type RegistrationService struct {
	db        *database.Database
	customers *CustomerService
	accounts  *AccountService
	notifier  Notifier
	log       *utils.Logger
}

// NewRegistrationService создает новый экземпляр RegistrationService
func NewRegistrationService(db *database.Database, customers *CustomerService, accounts *AccountService, notifier Notifier, log *utils.Logger) *RegistrationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RegistrationService{
		db:        db,
		customers: customers,
		accounts:  accounts,
		notifier:  notifier,
		log:       log,
	}
}

// Pending возвращает неподтвержденных клиентов в порядке регистрации
func (s *RegistrationService) Pending() ([]models.Customer, error) {
	return s.customers.GetCustomers(database.Record{"Confirmed": database.Bool(false)})
}

// Approve подтверждает клиента и открывает ему счет с PIN по умолчанию
func (s *RegistrationService) Approve(email, approvedBy string) (*models.Account, error) {
	var (
		customer *models.Customer
		account  *models.Account
	)
	err := s.db.Atomic(func() error {
		var err error
		if customer, err = s.customers.GetCustomer(email); err != nil {
			return err
		}
		if customer.Confirmed {
			return ErrAlreadyConfirmed
		}
		if err := s.customers.ApproveCustomer(customer.Email, approvedBy); err != nil {
			return err
		}
		number, err := s.accounts.GenerateUniqueAccountNumber()
		if err != nil {
			return err
		}
		if account, err = s.accounts.CreateAccount(customer.Email, number, models.DefaultPIN, customer.AccountType); err != nil {
			return err
		}
		_, err = s.customers.UpdateCustomer(customer.Email, database.Record{"AccountNumber": database.String(number)})
		return err
	})
	if err != nil {
		return nil, err
	}

	customer.Confirmed = true
	customer.ConfirmedBy = approvedBy
	customer.AccountNumber = account.Number
	if err := s.notifier.NotifyApproval(*customer, *account); err != nil {
		s.log.Warn("approval notification for %q failed: %v", customer.Email, err)
	}
	return account, nil
}

// Deny удаляет неподтвержденную регистрацию
func (s *RegistrationService) Deny(email string) error {
	customer, err := s.customers.GetCustomer(email)
	if err != nil {
		return err
	}
	if customer.Confirmed {
		return ErrAlreadyConfirmed
	}
	if _, err := s.customers.RemoveCustomer(customer.Email); err != nil {
		return err
	}
	s.log.Info("registration of %q denied", customer.Email)
	return nil
}

// Close закрывает счет: удаляет счет и клиента. Баланс должен быть нулевым.
func (s *RegistrationService) Close(number string) error {
	return s.db.Atomic(func() error {
		account, err := s.accounts.GetAccountByAccountNumber(number)
		if err != nil {
			return err
		}
		if !account.Balance.IsZero() {
			return ErrBalanceNotZero
		}
		if _, err := s.accounts.RemoveAccountByCustomerEmail(account.CustomerEmail); err != nil {
			return err
		}
		if _, err := s.customers.RemoveCustomer(account.CustomerEmail); err != nil {
			return err
		}
		s.log.Info("account %s of %q closed", account.Number, account.CustomerEmail)
		return nil
	})
}

// Confirmed возвращает подтвержденных клиентов с их счетами
func (s *RegistrationService) Confirmed() ([]CustomerAccount, error) {
	customers, err := s.customers.GetCustomers(database.Record{"Confirmed": database.Bool(true)})
	if err != nil {
		return nil, err
	}
	result := make([]CustomerAccount, 0, len(customers))
	for _, c := range customers {
		account, err := s.accounts.GetAccountByCustomerEmail(c.Email)
		if err != nil {
			return nil, err
		}
		result = append(result, CustomerAccount{Customer: c, Account: *account})
	}
	return result, nil
}

// TotalBalance возвращает сумму балансов по списку
func TotalBalance(list []CustomerAccount) decimal.Decimal {
	total := decimal.Zero
	for _, ca := range list {
		total = total.Add(ca.Account.Balance)
	}
	return total
}
