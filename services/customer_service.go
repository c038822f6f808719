package services

import (
	"strings"

	"arletbank/database"
	"arletbank/models"
	"arletbank/utils"

	"github.com/go-playground/validator/v10"
)

// CreateCustomerRequest представляет данные регистрации клиента
type CreateCustomerRequest struct {
	Email       string             `validate:"required,email"`
	FirstName   string             `validate:"required,max=50"`
	LastName    string             `validate:"required,max=50"`
	AccountType models.AccountType `validate:"gte=0,lte=2"`
}

// CustomerService предоставляет методы для работы с клиентами
type CustomerService struct {
	customers *database.Model[models.Customer]
	validator *validator.Validate
	log       *utils.Logger
}

// NewCustomerService создает новый экземпляр CustomerService
func NewCustomerService(db *database.Database, log *utils.Logger) *CustomerService {
	return &CustomerService{
		customers: database.NewModel(db, models.CustomerCollection, "Email", models.CustomerFromRecord),
		validator: newValidator(),
		log:       log,
	}
}

func customerEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func byCustomerEmail(email string) database.Record {
	return database.Record{"Email": database.String(customerEmail(email))}
}

// CreateCustomer регистрирует клиента. Новый клиент не подтвержден.
func (s *CustomerService) CreateCustomer(email, firstName, lastName string, accountType models.AccountType) (*models.Customer, error) {
	req := CreateCustomerRequest{
		Email:       customerEmail(email),
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		AccountType: accountType,
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	exists, err := s.CustomerExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	customer := models.Customer{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AccountType: req.AccountType,
	}
	if err := s.customers.Insert(customer.ToRecord()); err != nil {
		return nil, err
	}
	s.log.Info("customer %q registered", customer.Email)
	return &customer, nil
}

// ApproveCustomer отмечает клиента подтвержденным. Счет создается отдельно.
func (s *CustomerService) ApproveCustomer(email, approvedBy string) error {
	found, err := s.customers.UpdateOne(byCustomerEmail(email), database.Record{
		"Confirmed":   database.Bool(true),
		"ConfirmedBy": database.String(approvedBy),
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.log.Info("customer %q approved by %q", customerEmail(email), approvedBy)
	return nil
}

// GetCustomer возвращает клиента по email
func (s *CustomerService) GetCustomer(email string) (*models.Customer, error) {
	customer, err := s.customers.Find(byCustomerEmail(email))
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByAccountNumber возвращает владельца счета
func (s *CustomerService) GetCustomerByAccountNumber(number string) (*models.Customer, error) {
	customer, err := s.customers.Find(database.Record{"AccountNumber": database.String(number)})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) CustomerExists(email string) (bool, error) {
	n, err := s.customers.Count(byCustomerEmail(email))
	return n > 0, err
}

// GetCustomers возвращает клиентов, подходящих под query; пустой query - всех
func (s *CustomerService) GetCustomers(query database.Record) ([]models.Customer, error) {
	return s.customers.FindAll(query)
}

func (s *CustomerService) RemoveCustomer(email string) (bool, error) {
	removed, err := s.customers.Remove(byCustomerEmail(email))
	if err == nil && removed {
		s.log.Info("customer %q removed", customerEmail(email))
	}
	return removed, err
}

// UpdateCustomer применяет patch к записи клиента
func (s *CustomerService) UpdateCustomer(email string, patch database.Record) (bool, error) {
	return s.customers.UpdateOne(byCustomerEmail(email), patch)
}
