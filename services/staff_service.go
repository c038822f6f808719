package services

import (
	"errors"
	"strings"

	"arletbank/database"
	"arletbank/models"
	"arletbank/utils"

	"github.com/go-playground/validator/v10"
)

// CreateStaffRequest представляет данные для создания сотрудника
type CreateStaffRequest struct {
	Email     string `validate:"required,email"`
	FirstName string `validate:"required,max=50"`
	LastName  string `validate:"required,max=50"`
	Password  string `validate:"required,min=8"`
	CreatedBy string
}

// StaffService предоставляет методы для работы с сотрудниками.
// Сотрудник входит по Username, то есть по email в нижнем регистре.
type StaffService struct {
	staffs    *database.Model[models.Staff]
	validator *validator.Validate
	log       *utils.Logger
	cost      int
}

// NewStaffService создает новый экземпляр StaffService
func NewStaffService(db *database.Database, log *utils.Logger, cost int) *StaffService {
	return &StaffService{
		staffs:    database.NewModel(db, models.StaffCollection, "Email", models.StaffFromRecord),
		validator: newValidator(),
		log:       log,
		cost:      cost,
	}
}

func staffUsername(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func byStaffUsername(email string) database.Record {
	return database.Record{"Username": database.String(staffUsername(email))}
}

// Login проверяет имя пользователя и пароль сотрудника
func (s *StaffService) Login(username, password string) (*models.Staff, error) {
	staff, err := s.staffs.Find(byStaffUsername(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("staff login failed for %q", username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifySecret(password, staff.Password) {
		s.log.Warn("staff login failed for %q", username)
		return nil, ErrInvalidCredentials
	}
	return &staff, nil
}

// CreateStaff создает нового сотрудника
func (s *StaffService) CreateStaff(email, firstName, lastName, password, createdBy string) (*models.Staff, error) {
	req := CreateStaffRequest{
		Email:     strings.TrimSpace(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Password:  password,
		CreatedBy: createdBy,
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	exists, err := s.StaffExists(req.Email)
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

	staff := models.Staff{
		Email:     req.Email,
		Username:  staffUsername(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
		CreatedBy: req.CreatedBy,
	}
	if err := s.staffs.Insert(staff.ToRecord()); err != nil {
		return nil, err
	}
	s.log.Info("staff %q created by %q", staff.Username, staff.CreatedBy)
	return &staff, nil
}

// GetStaff возвращает сотрудника по email без учета регистра
func (s *StaffService) GetStaff(email string) (*models.Staff, error) {
	staff, err := s.staffs.Find(byStaffUsername(email))
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (s *StaffService) StaffExists(email string) (bool, error) {
	n, err := s.staffs.Count(byStaffUsername(email))
	return n > 0, err
}

func (s *StaffService) GetAllStaffs() ([]models.Staff, error) {
	return s.staffs.All()
}

func (s *StaffService) RemoveStaff(email string) (bool, error) {
	removed, err := s.staffs.Remove(byStaffUsername(email))
	if err == nil && removed {
		s.log.Info("staff %q removed", staffUsername(email))
	}
	return removed, err
}
