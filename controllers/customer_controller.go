package controllers

import (
	"io"

	"arletbank/models"
	"arletbank/services"

	"github.com/shopspring/decimal"
)

// CustomerController - сессия клиента, открытая по номеру счета
type CustomerController struct {
	svc    *services.Services
	number string
	email  string
}

// Number возвращает номер счета сессии
func (c *CustomerController) Number() string { return c.number }

// Account возвращает текущее состояние счета
func (c *CustomerController) Account() (*models.Account, error) {
	return c.svc.Accounts.GetAccountByAccountNumber(c.number)
}

// Customer возвращает владельца счета
func (c *CustomerController) Customer() (*models.Customer, error) {
	return c.svc.Customers.GetCustomer(c.email)
}

func (c *CustomerController) Balance() (decimal.Decimal, error) {
	account, err := c.Account()
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (c *CustomerController) Deposit(amount decimal.Decimal) (*models.Account, error) {
	account, err := c.svc.Accounts.Deposit(c.number, amount)
	if err != nil {
		return nil, err
	}
	c.notifyLatest(account)
	return account, nil
}

func (c *CustomerController) Withdraw(amount decimal.Decimal) (*models.Account, error) {
	account, err := c.svc.Accounts.Withdraw(c.number, amount)
	if err != nil {
		return nil, err
	}
	c.notifyLatest(account)
	return account, nil
}

// Transfer переводит средства со счета сессии на счет to
func (c *CustomerController) Transfer(to string, amount decimal.Decimal) (*models.Account, error) {
	account, err := c.svc.Accounts.Transfer(c.number, to, amount)
	if err != nil {
		return nil, err
	}
	c.notifyLatest(account)
	return account, nil
}

// History возвращает операции по счету, новые первыми
func (c *CustomerController) History() ([]models.Transaction, error) {
	return c.svc.Transactions.History(c.number)
}

func (c *CustomerController) ChangePIN(pin string) error {
	return c.svc.Accounts.ChangeAccountPIN(c.number, pin)
}

// CloseAccount удаляет счет и клиента. После закрытия сессия недействительна.
func (c *CustomerController) CloseAccount() error {
	return c.svc.Registrations.Close(c.number)
}

// Statement пишет XML-выписку по счету
func (c *CustomerController) Statement(w io.Writer) error {
	return c.svc.Statements.Write(w, c.number)
}

// notifyLatest сообщает клиенту о последней операции. Ошибка отправки не отменяет операцию.
func (c *CustomerController) notifyLatest(account *models.Account) {
	history, err := c.svc.Transactions.History(account.Number)
	if err != nil || len(history) == 0 {
		return
	}
	if err := c.svc.Notifier.NotifyTransaction(account.CustomerEmail, history[0], account.Balance); err != nil {
		c.svc.Log.Warn("transaction notification for %s failed: %v", account.Number, err)
	}
}
