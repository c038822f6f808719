package services

import (
	"fmt"

	"arletbank/config"
	"arletbank/models"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// Notifier уведомляет клиентов о событиях по счету
type Notifier interface {
	NotifyApproval(customer models.Customer, account models.Account) error
	NotifyTransaction(email string, tx models.Transaction, balance decimal.Decimal) error
}

// NopNotifier ничего не отправляет
type NopNotifier struct{}

func (NopNotifier) NotifyApproval(models.Customer, models.Account) error { return nil }

func (NopNotifier) NotifyTransaction(string, models.Transaction, decimal.Decimal) error { return nil }

// EmailService предоставляет методы для отправки email
type EmailService struct {
	send func(m ...*gomail.Message) error
	from string
	bank string
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		send: dialer.DialAndSend,
		from: cfg.SMTP.From,
		bank: cfg.Statement.BankName,
	}
}

// NewNotifier возвращает EmailService, если SMTP включен, иначе NopNotifier
func NewNotifier(cfg *config.Config) Notifier {
	if !cfg.SMTP.Enabled {
		return NopNotifier{}
	}
	return NewEmailService(cfg)
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %w", err)
	}

	return nil
}

// NotifyApproval сообщает клиенту номер открытого счета
func (s *EmailService) NotifyApproval(customer models.Customer, account models.Account) error {
	subject := s.bank + ": счет открыт"
	body := fmt.Sprintf(`
		<h2>Здравствуйте, %s!</h2>
		<p>Ваша регистрация подтверждена.</p>
		<p>Номер счета: %s</p>
		<p>Тип счета: %s</p>
		<p>PIN по умолчанию: %s. Смените его после первого входа.</p>
	`, customer.FullName(), account.Number, account.Type, models.DefaultPIN)

	return s.SendEmail(customer.Email, subject, body)
}

// NotifyTransaction отправляет уведомление о транзакции
func (s *EmailService) NotifyTransaction(email string, tx models.Transaction, balance decimal.Decimal) error {
	subject := "Уведомление о транзакции"
	body := fmt.Sprintf(`
		<h2>Уведомление о транзакции</h2>
		<p>Счет: %s</p>
		<p>Тип операции: %s</p>
		<p>Сумма: %s</p>
		<p>Остаток: %s</p>
		<p>Дата: %s</p>
	`, tx.Account, tx.Type, tx.Amount.StringFixed(2), balance.StringFixed(2), tx.Date.Format("02.01.2006 15:04:05"))

	return s.SendEmail(email, subject, body)
}
