package controllers

import (
	"strings"

	"arletbank/models"
	"arletbank/services"
)

// AdminController - сессия администратора
type AdminController struct {
	svc   *services.Services
	admin models.Admin
}

// Principal возвращает вошедшего администратора
func (c *AdminController) Principal() models.Admin { return c.admin }

// CreateStaff создает сотрудника от имени администратора
func (c *AdminController) CreateStaff(email, firstName, lastName, password string) (*models.Staff, error) {
	return c.svc.Staffs.CreateStaff(email, firstName, lastName, password, c.admin.Username)
}

// RemoveStaff удаляет сотрудника по email
func (c *AdminController) RemoveStaff(email string) error {
	removed, err := c.svc.Staffs.RemoveStaff(email)
	if err != nil {
		return err
	}
	if !removed {
		return services.ErrNotFound
	}
	return nil
}

func (c *AdminController) ListStaffs() ([]models.Staff, error) {
	return c.svc.Staffs.GetAllStaffs()
}

// CreateAdmin создает администратора, CreatedBy - текущий администратор
func (c *AdminController) CreateAdmin(username, password, name string) (*models.Admin, error) {
	return c.svc.Admins.CreateAdmin(username, password, name, c.admin.Username)
}

// RemoveAdmin удаляет другого администратора. Удалить себя нельзя.
func (c *AdminController) RemoveAdmin(username string) error {
	if strings.TrimSpace(username) == c.admin.Username {
		return ErrSelfRemoval
	}
	removed, err := c.svc.Admins.RemoveAdmin(username)
	if err != nil {
		return err
	}
	if !removed {
		return services.ErrNotFound
	}
	return nil
}

func (c *AdminController) ListAdmins() ([]models.Admin, error) {
	return c.svc.Admins.GetAllAdmins()
}
