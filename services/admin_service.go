package services

import (
	"errors"
	"strings"

	"arletbank/database"
	"arletbank/models"
	"arletbank/utils"

	"github.com/go-playground/validator/v10"
)

// CreateAdminRequest представляет данные для создания администратора
type CreateAdminRequest struct {
	Username  string `validate:"required,min=3,max=50"`
	Password  string `validate:"required,min=8"`
	Name      string `validate:"required,max=100"`
	CreatedBy string
}

// AdminService предоставляет методы для работы с администраторами
type AdminService struct {
	admins    *database.Model[models.Admin]
	validator *validator.Validate
	log       *utils.Logger
	cost      int
}

// NewAdminService создает новый экземпляр AdminService
func NewAdminService(db *database.Database, log *utils.Logger, cost int) *AdminService {
	return &AdminService{
		admins:    database.NewModel(db, models.AdminCollection, "Username", models.AdminFromRecord),
		validator: newValidator(),
		log:       log,
		cost:      cost,
	}
}

// Login проверяет имя и пароль администратора.
// Неизвестное имя и неверный пароль дают одну и ту же ошибку.
func (s *AdminService) Login(username, password string) (*models.Admin, error) {
	admin, err := s.admins.FindByID(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("admin login failed for %q", username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifySecret(password, admin.Password) {
		s.log.Warn("admin login failed for %q", username)
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}

// CreateAdmin создает нового администратора
func (s *AdminService) CreateAdmin(username, password, name, createdBy string) (*models.Admin, error) {
	req := CreateAdminRequest{
		Username:  strings.TrimSpace(username),
		Password:  password,
		Name:      strings.TrimSpace(name),
		CreatedBy: createdBy,
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	exists, err := s.AdminExists(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	hash, err := utils.HashSecret(req.Password, s.cost)
	if err != nil {
		return nil, err
	}

	admin := models.Admin{
		Username:  req.Username,
		Name:      req.Name,
		Password:  hash,
		CreatedBy: req.CreatedBy,
	}
	if err := s.admins.Insert(admin.ToRecord()); err != nil {
		return nil, err
	}
	s.log.Info("admin %q created by %q", admin.Username, admin.CreatedBy)
	return &admin, nil
}

// GetAdmin возвращает администратора по имени
func (s *AdminService) GetAdmin(username string) (*models.Admin, error) {
	admin, err := s.admins.FindByID(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *AdminService) AdminExists(username string) (bool, error) {
	n, err := s.admins.Count(database.Record{"Username": database.String(strings.TrimSpace(username))})
	return n > 0, err
}

func (s *AdminService) GetAllAdmins() ([]models.Admin, error) {
	return s.admins.All()
}

// CountAdmins возвращает число администраторов
func (s *AdminService) CountAdmins() (int, error) {
	return s.admins.Count(nil)
}

// RemoveAdmin удаляет администратора. Запрет на удаление самого себя проверяет вызывающий код.
func (s *AdminService) RemoveAdmin(username string) (bool, error) {
	removed, err := s.admins.Remove(database.Record{"Username": database.String(strings.TrimSpace(username))})
	if err == nil && removed {
		s.log.Info("admin %q removed", username)
	}
	return removed, err
}
