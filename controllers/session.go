// Package controllers содержит ролевые сессии поверх сервисов.
// Сессия создается только успешным входом и хранит принципала.
package controllers

import (
	"errors"

	"arletbank/models"
	"arletbank/services"
	"arletbank/utils"
)

var (
	ErrSelfRemoval     = errors.New("cannot remove the currently logged in admin")
	ErrTooManyAttempts = errors.New("too many failed login attempts, try again later")
)

// Sessions выдает ролевые контроллеры после входа
type Sessions struct {
	svc     *services.Services
	limiter *utils.RateLimiter
}

// NewSessions создает новый экземпляр Sessions
func NewSessions(svc *services.Services) *Sessions {
	sec := svc.Config.Security
	return &Sessions{
		svc:     svc,
		limiter: utils.NewRateLimiter(sec.MaxLoginAttempts, sec.LoginWindow),
	}
}

// Limiter возвращает ограничитель попыток входа
func (s *Sessions) Limiter() *utils.RateLimiter { return s.limiter }

// login выполняет попытку входа с учетом лимита для ключа role:identifier
func login[T any](s *Sessions, role, identifier string, try func() (*T, error)) (*T, error) {
	key := role + ":" + identifier
	if !s.limiter.Allow(key) {
		s.svc.Log.Warn("%s login for %q blocked until %s", role, identifier, s.limiter.GetResetTime(key).Format("15:04:05"))
		return nil, ErrTooManyAttempts
	}
	principal, err := try()
	if err != nil {
		return nil, err
	}
	s.limiter.Reset(key)
	return principal, nil
}

// LoginAdmin открывает сессию администратора
func (s *Sessions) LoginAdmin(username, password string) (*AdminController, error) {
	admin, err := login(s, "admin", username, func() (*models.Admin, error) {
		return s.svc.Admins.Login(username, password)
	})
	if err != nil {
		return nil, err
	}
	s.svc.Log.Info("admin %q logged in", admin.Username)
	return &AdminController{svc: s.svc, admin: *admin}, nil
}

// LoginStaff открывает сессию сотрудника
func (s *Sessions) LoginStaff(username, password string) (*StaffController, error) {
	staff, err := login(s, "staff", username, func() (*models.Staff, error) {
		return s.svc.Staffs.Login(username, password)
	})
	if err != nil {
		return nil, err
	}
	s.svc.Log.Info("staff %q logged in", staff.Username)
	return &StaffController{svc: s.svc, staff: *staff}, nil
}

// LoginCustomer открывает сессию клиента по номеру счета и PIN
func (s *Sessions) LoginCustomer(number, pin string) (*CustomerController, error) {
	account, err := login(s, "customer", number, func() (*models.Account, error) {
		return s.svc.Accounts.Login(number, pin)
	})
	if err != nil {
		return nil, err
	}
	s.svc.Log.Info("account %s logged in", account.Number)
	return &CustomerController{svc: s.svc, number: account.Number, email: account.CustomerEmail}, nil
}

// Register регистрирует клиента без сессии. Счет появится после одобрения сотрудником.
func (s *Sessions) Register(email, firstName, lastName string, accountType models.AccountType) (*models.Customer, error) {
	return s.svc.Customers.CreateCustomer(email, firstName, lastName, accountType)
}
