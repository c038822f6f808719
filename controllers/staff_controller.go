package controllers

import (
	"arletbank/models"
	"arletbank/services"
)

// StaffController - сессия сотрудника
type StaffController struct {
	svc   *services.Services
	staff models.Staff
}

// Principal возвращает вошедшего сотрудника
func (c *StaffController) Principal() models.Staff { return c.staff }

// PendingRegistrations возвращает заявки, ожидающие решения
func (c *StaffController) PendingRegistrations() ([]models.Customer, error) {
	return c.svc.Registrations.Pending()
}

// ApproveRegistration подтверждает клиента и открывает счет; ConfirmedBy - имя сотрудника
func (c *StaffController) ApproveRegistration(email string) (*models.Account, error) {
	return c.svc.Registrations.Approve(email, c.staff.Username)
}

// DenyRegistration отклоняет неподтвержденную заявку
func (c *StaffController) DenyRegistration(email string) error {
	return c.svc.Registrations.Deny(email)
}

// ListCustomers возвращает подтвержденных клиентов с номерами счетов и балансом
func (c *StaffController) ListCustomers() ([]services.CustomerAccount, error) {
	return c.svc.Registrations.Confirmed()
}
