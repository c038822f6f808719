package controllers

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arletbank/config"
	"arletbank/database"
	"arletbank/models"
	"arletbank/services"
	"arletbank/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	cfg := &config.Config{}
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.Security.MaxLoginAttempts = 3
	cfg.Security.LoginWindow = time.Minute
	cfg.Bootstrap.Username = "admin"
	cfg.Bootstrap.Password = "admin1234"
	cfg.Bootstrap.Name = "Administrator"
	cfg.Statement.BankName = "Test Bank"

	db, err := database.Open(filepath.Join(t.TempDir(), "bank.json"))
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewServices(db, cfg, utils.Discard(), nil)
	if _, err := svc.Bootstrap(); err != nil {
		t.Fatal(err)
	}
	return NewSessions(svc)
}

func TestAdminCannotRemoveSelf(t *testing.T) {
	s := newTestSessions(t)
	admin, err := s.LoginAdmin("admin", "admin1234")
	if err != nil {
		t.Fatalf("LoginAdmin err=%v", err)
	}
	if err := admin.RemoveAdmin("admin"); !errors.Is(err, ErrSelfRemoval) {
		t.Fatalf("self removal err=%v", err)
	}

	created, err := admin.CreateAdmin("johndoe", "johndoe12", "John Doe")
	if err != nil {
		t.Fatal(err)
	}
	if created.CreatedBy != "admin" {
		t.Fatalf("CreatedBy=%q", created.CreatedBy)
	}
	other, err := s.LoginAdmin("johndoe", "johndoe12")
	if err != nil {
		t.Fatal(err)
	}
	if err := other.RemoveAdmin("admin"); err != nil {
		t.Fatalf("remove other admin err=%v", err)
	}
	if err := other.RemoveAdmin("admin"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("remove missing admin err=%v", err)
	}
	admins, _ := other.ListAdmins()
	if len(admins) != 1 || admins[0].Username != "johndoe" {
		t.Fatalf("admins=%v", admins)
	}
}

func TestAdminManagesStaff(t *testing.T) {
	s := newTestSessions(t)
	admin, err := s.LoginAdmin("admin", "admin1234")
	if err != nil {
		t.Fatal(err)
	}
	staff, err := admin.CreateStaff("Jane@Bank.com", "Jane", "Doe", "password1")
	if err != nil {
		t.Fatal(err)
	}
	if staff.CreatedBy != "admin" || staff.Username != "jane@bank.com" {
		t.Fatalf("staff=%+v", staff)
	}
	list, _ := admin.ListStaffs()
	if len(list) != 1 {
		t.Fatalf("staffs=%v", list)
	}
	if err := admin.RemoveStaff("jane@bank.com"); err != nil {
		t.Fatal(err)
	}
	if err := admin.RemoveStaff("jane@bank.com"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestLoginAttemptLimit(t *testing.T) {
	s := newTestSessions(t)
	for i := 0; i < 3; i++ {
		if _, err := s.LoginAdmin("admin", "wrong-pass"); !errors.Is(err, services.ErrInvalidCredentials) {
			t.Fatalf("attempt %d err=%v", i+1, err)
		}
	}
	if _, err := s.LoginAdmin("admin", "admin1234"); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("fourth attempt err=%v", err)
	}

	now := time.Now().Add(2 * time.Minute)
	s.Limiter().SetClock(func() time.Time { return now })
	if _, err := s.LoginAdmin("admin", "admin1234"); err != nil {
		t.Fatalf("login after window err=%v", err)
	}
	if got := s.Limiter().GetRemaining("admin:admin"); got != 3 {
		t.Fatalf("remaining after success=%d", got)
	}
}

func TestRegistrationFlow(t *testing.T) {
	s := newTestSessions(t)
	admin, _ := s.LoginAdmin("admin", "admin1234")
	if _, err := admin.CreateStaff("staff1@bank.com", "S", "One", "password1"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Register("a@x.com", "A", "B", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register("b@x.com", "C", "D", models.AccountTypeSavings); err != nil {
		t.Fatal(err)
	}

	staff, err := s.LoginStaff("STAFF1@bank.com", "password1")
	if err != nil {
		t.Fatalf("LoginStaff err=%v", err)
	}
	pending, _ := staff.PendingRegistrations()
	if len(pending) != 2 {
		t.Fatalf("pending=%v", pending)
	}

	account, err := staff.ApproveRegistration("a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if err := staff.DenyRegistration("b@x.com"); err != nil {
		t.Fatal(err)
	}
	pending, _ = staff.PendingRegistrations()
	if len(pending) != 0 {
		t.Fatalf("pending after decisions=%v", pending)
	}

	customer, err := s.svc.Customers.GetCustomer("a@x.com")
	if err != nil || customer.ConfirmedBy != "staff1@bank.com" {
		t.Fatalf("customer=%+v err=%v", customer, err)
	}
	listed, _ := staff.ListCustomers()
	if len(listed) != 1 || listed[0].Account.Number != account.Number {
		t.Fatalf("listed=%+v", listed)
	}
}

func TestCustomerSession(t *testing.T) {
	s := newTestSessions(t)
	if _, err := s.Register("a@x.com", "A", "B", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register("b@x.com", "C", "D", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	first, err := s.svc.Registrations.Approve("a@x.com", "staff1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.svc.Registrations.Approve("b@x.com", "staff1")
	if err != nil {
		t.Fatal(err)
	}

	c, err := s.LoginCustomer(first.Number, models.DefaultPIN)
	if err != nil {
		t.Fatalf("LoginCustomer err=%v", err)
	}
	if _, err := c.Deposit(decimal.NewFromInt(500)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Withdraw(decimal.NewFromInt(200)); err != nil {
		t.Fatal(err)
	}
	after, err := c.Transfer(second.Number, decimal.NewFromInt(300))
	if err != nil {
		t.Fatal(err)
	}
	if !after.Balance.IsZero() {
		t.Fatalf("balance=%s", after.Balance)
	}
	if bal, _ := c.Balance(); !bal.IsZero() {
		t.Fatalf("Balance=%s", bal)
	}
	history, _ := c.History()
	if len(history) != 3 {
		t.Fatalf("history=%v", history)
	}

	var buf bytes.Buffer
	if err := c.Statement(&buf); err != nil || !strings.Contains(buf.String(), first.Number) {
		t.Fatalf("statement=%q err=%v", buf.String(), err)
	}

	if err := c.ChangePIN("9876"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoginCustomer(first.Number, "0000"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("old PIN err=%v", err)
	}
	if _, err := s.LoginCustomer(first.Number, "9876"); err != nil {
		t.Fatalf("new PIN err=%v", err)
	}

	if err := c.CloseAccount(); err != nil {
		t.Fatalf("CloseAccount err=%v", err)
	}
	if _, err := c.Account(); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("closed account err=%v", err)
	}
	if _, err := c.Customer(); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("closed customer err=%v", err)
	}
}
