package services

import (
	"errors"
	"strings"

	"arletbank/database"
	"arletbank/models"
	"arletbank/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxNumberAttempts ограничивает перебор при генерации номера счета
const maxNumberAttempts = 1000

// CreateAccountRequest представляет данные для открытия счета
type CreateAccountRequest struct {
	CustomerEmail string             `validate:"required,email"`
	Number        string             `validate:"required,len=10,numeric"`
	PIN           string             `validate:"required,len=4,numeric"`
	Type          models.AccountType `validate:"gte=0,lte=2"`
}

// ChangePINRequest представляет новый PIN
type ChangePINRequest struct {
	PIN string `validate:"required,len=4,numeric"`
}

// AccountService предоставляет методы для работы со счетами
type AccountService struct {
	db           *database.Database
	accounts     *database.Model[models.Account]
	transactions *TransactionService
	validator    *validator.Validate
	log          *utils.Logger
	cost         int
	numbers      func() (string, error)
}

// NewAccountService создает новый экземпляр AccountService
func NewAccountService(db *database.Database, transactions *TransactionService, log *utils.Logger, cost int) *AccountService {
	return &AccountService{
		db:           db,
		accounts:     database.NewModel(db, models.AccountCollection, "Number", models.AccountFromRecord),
		transactions: transactions,
		validator:    newValidator(),
		log:          log,
		cost:         cost,
		numbers:      func() (string, error) { return utils.RandomDigits(models.AccountNumberLength) },
	}
}

// SetNumberSource подменяет генератор кандидатов в номера счетов
func (s *AccountService) SetNumberSource(next func() (string, error)) {
	s.numbers = next
}

func byNumber(number string) database.Record {
	return database.Record{"Number": database.String(strings.TrimSpace(number))}
}

// CreateAccount открывает счет с нулевым балансом и хешированным PIN
func (s *AccountService) CreateAccount(email, number, pin string, accountType models.AccountType) (*models.Account, error) {
	req := CreateAccountRequest{
		CustomerEmail: customerEmail(email),
		Number:        strings.TrimSpace(number),
		PIN:           pin,
		Type:          accountType,
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	n, err := s.accounts.Count(byNumber(req.Number))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyExists
	}

	hash, err := utils.HashSecret(req.PIN, s.cost)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		Number:        req.Number,
		CustomerEmail: req.CustomerEmail,
		PIN:           hash,
		Balance:       decimal.Zero,
		Type:          req.Type,
	}
	if err := s.accounts.Insert(account.ToRecord()); err != nil {
		return nil, err
	}
	s.log.Info("account %s opened for %q", account.Number, account.CustomerEmail)
	return &account, nil
}

// Login проверяет номер счета и PIN
func (s *AccountService) Login(number, pin string) (*models.Account, error) {
	account, err := s.accounts.FindByID(strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("account login failed for %q", number)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifySecret(pin, account.PIN) {
		s.log.Warn("account login failed for %q", number)
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}

func (s *AccountService) setBalance(number string, balance decimal.Decimal) error {
	found, err := s.accounts.UpdateOne(byNumber(number), database.Record{"Balance": database.Number(balance)})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// credit зачисляет amount и пишет Credit-запись. Вызывать внутри Atomic.
func (s *AccountService) credit(account *models.Account, amount decimal.Decimal, message string) error {
	if err := PolicyFor(account.Type).ValidateCredit(account.Balance, amount); err != nil {
		return err
	}
	account.Balance = account.Balance.Add(amount)
	if err := s.setBalance(account.Number, account.Balance); err != nil {
		return err
	}
	_, err := s.transactions.CreateTransaction(account.Number, models.TransactionTypeCredit, amount, message)
	return err
}

// debit списывает amount и пишет Debit-запись. Вызывать внутри Atomic.
func (s *AccountService) debit(account *models.Account, amount decimal.Decimal, message string) error {
	if err := PolicyFor(account.Type).ValidateDebit(account.Balance, amount); err != nil {
		return err
	}
	account.Balance = account.Balance.Sub(amount)
	if err := s.setBalance(account.Number, account.Balance); err != nil {
		return err
	}
	_, err := s.transactions.CreateTransaction(account.Number, models.TransactionTypeDebit, amount, message)
	return err
}

// Deposit зачисляет средства на счет вместе с записью в журнале
func (s *AccountService) Deposit(number string, amount decimal.Decimal) (*models.Account, error) {
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	var account models.Account
	err := s.db.Atomic(func() error {
		var err error
		if account, err = s.accounts.FindByID(strings.TrimSpace(number)); err != nil {
			return err
		}
		return s.credit(&account, amount, "Deposit")
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("deposit of %s to %s", amount, account.Number)
	return &account, nil
}

// Withdraw списывает средства со счета вместе с записью в журнале
func (s *AccountService) Withdraw(number string, amount decimal.Decimal) (*models.Account, error) {
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	var account models.Account
	err := s.db.Atomic(func() error {
		var err error
		if account, err = s.accounts.FindByID(strings.TrimSpace(number)); err != nil {
			return err
		}
		return s.debit(&account, amount, "Withdrawal")
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("withdrawal of %s from %s", amount, account.Number)
	return &account, nil
}

// Transfer переводит средства между счетами. Оба баланса и обе записи журнала
// меняются вместе или не меняются вовсе. Возвращает счет отправителя.
func (s *AccountService) Transfer(from, to string, amount decimal.Decimal) (*models.Account, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == to {
		return nil, ErrSameAccount
	}
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}

	var sender models.Account
	err := s.db.Atomic(func() error {
		var err error
		if sender, err = s.accounts.FindByID(from); err != nil {
			return err
		}
		receiver, err := s.accounts.FindByID(to)
		if err != nil {
			return err
		}
		if err := s.debit(&sender, amount, "Transfer to "+to); err != nil {
			return err
		}
		return s.credit(&receiver, amount, "Transfer from "+from)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("transfer of %s from %s to %s", amount, from, to)
	return &sender, nil
}

// ChangeAccountPIN устанавливает новый PIN
func (s *AccountService) ChangeAccountPIN(number, pin string) error {
	if err := validateStruct(s.validator, ChangePINRequest{PIN: pin}); err != nil {
		return err
	}
	hash, err := utils.HashSecret(pin, s.cost)
	if err != nil {
		return err
	}
	found, err := s.accounts.UpdateOne(byNumber(number), database.Record{"PIN": database.String(hash)})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.log.Info("PIN changed for %s", strings.TrimSpace(number))
	return nil
}

func (s *AccountService) GetAccountByAccountNumber(number string) (*models.Account, error) {
	account, err := s.accounts.FindByID(strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) GetAccountByCustomerEmail(email string) (*models.Account, error) {
	account, err := s.accounts.Find(database.Record{"CustomerEmail": database.String(customerEmail(email))})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) RemoveAccountByCustomerEmail(email string) (bool, error) {
	return s.accounts.Remove(database.Record{"CustomerEmail": database.String(customerEmail(email))})
}

// UpdateAccountByAccountNumber применяет patch к записи счета
func (s *AccountService) UpdateAccountByAccountNumber(number string, patch database.Record) (bool, error) {
	return s.accounts.UpdateOne(byNumber(number), patch)
}

// GenerateUniqueAccountNumber подбирает случайный 10-значный номер, которого еще нет в хранилище
func (s *AccountService) GenerateUniqueAccountNumber() (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		number, err := s.numbers()
		if err != nil {
			return "", err
		}
		n, err := s.accounts.Count(byNumber(number))
		if err != nil {
			return "", err
		}
		if n == 0 {
			return number, nil
		}
	}
	return "", ErrNumberExhausted
}
