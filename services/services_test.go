package services

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"arletbank/config"
	"arletbank/database"
	"arletbank/models"
	"arletbank/utils"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Path = "test.json"
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.Security.MaxLoginAttempts = 3
	cfg.Security.LoginWindow = time.Minute
	cfg.Bootstrap.Username = "admin"
	cfg.Bootstrap.Password = "admin1234"
	cfg.Bootstrap.Name = "Administrator"
	cfg.Statement.BankName = "Test Bank"
	return cfg
}

func newTestServices(t *testing.T) (*Services, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.json")
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	return NewServices(db, testConfig(), utils.Discard(), nil), path
}

// registerApproved регистрирует и одобряет клиента, возвращая его счет
func registerApproved(t *testing.T, s *Services, email string, typ models.AccountType) *models.Account {
	t.Helper()
	if _, err := s.Customers.CreateCustomer(email, "A", "B", typ); err != nil {
		t.Fatalf("CreateCustomer err=%v", err)
	}
	acc, err := s.Registrations.Approve(email, "staff1")
	if err != nil {
		t.Fatalf("Approve err=%v", err)
	}
	return acc
}

func balance(t *testing.T, s *Services, number string) decimal.Decimal {
	t.Helper()
	acc, err := s.Accounts.GetAccountByAccountNumber(number)
	if err != nil {
		t.Fatalf("GetAccountByAccountNumber err=%v", err)
	}
	return acc.Balance
}

func txCount(t *testing.T, s *Services, query database.Record) int {
	t.Helper()
	txs, err := s.Transactions.GetTransactions(query)
	if err != nil {
		t.Fatal(err)
	}
	return len(txs)
}

var tenDigits = regexp.MustCompile(`^[0-9]{10}$`)

func TestApproveCreatesAccount(t *testing.T) {
	s, _ := newTestServices(t)

	c, err := s.Customers.CreateCustomer("a@x.com", "A", "B", models.AccountTypeCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if c.Confirmed {
		t.Fatal("new customer is confirmed")
	}

	acc, err := s.Registrations.Approve("a@x.com", "staff1")
	if err != nil {
		t.Fatalf("Approve err=%v", err)
	}
	if !tenDigits.MatchString(acc.Number) || !acc.Balance.IsZero() {
		t.Fatalf("account=%+v", acc)
	}

	c, err = s.Customers.GetCustomer("a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Confirmed || c.ConfirmedBy != "staff1" || c.AccountNumber != acc.Number {
		t.Fatalf("customer=%+v", c)
	}
	accounts, err := database.NewModel(s.DB, models.AccountCollection, "Number", models.AccountFromRecord).All()
	if err != nil || len(accounts) != 1 {
		t.Fatalf("accounts=%v err=%v", accounts, err)
	}
	if _, err := s.Accounts.Login(acc.Number, models.DefaultPIN); err != nil {
		t.Fatalf("default PIN login err=%v", err)
	}

	if _, err := s.Registrations.Approve("a@x.com", "staff2"); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("second approval err=%v", err)
	}
}

func TestApproveRollsBackWhenAccountCreationFails(t *testing.T) {
	s, _ := newTestServices(t)
	first := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)

	if _, err := s.Customers.CreateCustomer("b@x.com", "C", "D", models.AccountTypeSavings); err != nil {
		t.Fatal(err)
	}
	// генератор все время выдает занятый номер
	s.Accounts.SetNumberSource(func() (string, error) { return first.Number, nil })
	flushes := s.DB.Flushes()

	if _, err := s.Registrations.Approve("b@x.com", "staff1"); !errors.Is(err, ErrNumberExhausted) {
		t.Fatalf("err=%v", err)
	}
	c, err := s.Customers.GetCustomer("b@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if c.Confirmed || c.ConfirmedBy != "" {
		t.Fatalf("approval survived rollback: %+v", c)
	}
	if s.DB.Flushes() != flushes {
		t.Fatalf("failed approval wrote the store")
	}
}

func TestGenerateUniqueAccountNumberSkipsTaken(t *testing.T) {
	s, _ := newTestServices(t)
	if _, err := s.Accounts.CreateAccount("a@x.com", "1111111111", "0000", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	candidates := []string{"1111111111", "1111111111", "2222222222"}
	s.Accounts.SetNumberSource(func() (string, error) {
		n := candidates[0]
		candidates = candidates[1:]
		return n, nil
	})
	got, err := s.Accounts.GenerateUniqueAccountNumber()
	if err != nil || got != "2222222222" {
		t.Fatalf("got=%q err=%v", got, err)
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	s, _ := newTestServices(t)
	acc := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)
	byAccount := database.Record{"Account": database.String(acc.Number)}

	after, err := s.Accounts.Deposit(acc.Number, d("500"))
	if err != nil {
		t.Fatalf("Deposit err=%v", err)
	}
	if !after.Balance.Equal(d("500")) {
		t.Fatalf("balance=%s", after.Balance)
	}
	credits, err := s.Transactions.GetTransactions(database.Record{
		"Account": database.String(acc.Number),
		"Type":    database.Int(int64(models.TransactionTypeCredit)),
	})
	if err != nil || len(credits) != 1 || !credits[0].Amount.Equal(d("500")) {
		t.Fatalf("credits=%v err=%v", credits, err)
	}

	if _, err := s.Accounts.Withdraw(acc.Number, d("200")); err != nil {
		t.Fatalf("Withdraw err=%v", err)
	}
	if got := balance(t, s, acc.Number); !got.Equal(d("300")) {
		t.Fatalf("balance=%s", got)
	}
	if n := txCount(t, s, byAccount); n != 2 {
		t.Fatalf("transactions=%d", n)
	}

	_, err = s.Accounts.Withdraw(acc.Number, d("1000"))
	var ce *ConstraintError
	if !errors.As(err, &ce) || ce.Rule != RuleInsufficientFunds {
		t.Fatalf("overdraft err=%v", err)
	}
	if got := balance(t, s, acc.Number); !got.Equal(d("300")) {
		t.Fatalf("balance changed after failure: %s", got)
	}
	if n := txCount(t, s, byAccount); n != 2 {
		t.Fatalf("failed withdrawal recorded a transaction: %d", n)
	}
}

func TestAmountValidation(t *testing.T) {
	s, _ := newTestServices(t)
	acc := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)

	if _, err := s.Accounts.Deposit(acc.Number, decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero deposit err=%v", err)
	}
	if _, err := s.Accounts.Deposit(acc.Number, d("-5")); !errors.Is(err, ErrConstraint) {
		t.Fatalf("negative deposit err=%v", err)
	}
	if _, err := s.Accounts.Deposit("9999999999", d("5")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown account err=%v", err)
	}
	if _, err := s.Accounts.Transfer(acc.Number, acc.Number, d("5")); !errors.Is(err, ErrSameAccount) {
		t.Fatalf("same account err=%v", err)
	}
}

func TestSavingsFloor(t *testing.T) {
	s, _ := newTestServices(t)
	acc := registerApproved(t, s, "a@x.com", models.AccountTypeSavings)
	if _, err := s.Accounts.Deposit(acc.Number, d("300")); err != nil {
		t.Fatal(err)
	}
	_, err := s.Accounts.Withdraw(acc.Number, d("300"))
	var ce *ConstraintError
	if !errors.As(err, &ce) || ce.Rule != RuleSavingsFloor {
		t.Fatalf("err=%v", err)
	}
	if got := balance(t, s, acc.Number); !got.Equal(d("300")) {
		t.Fatalf("balance=%s", got)
	}
}

func TestTransfer(t *testing.T) {
	s, _ := newTestServices(t)
	first := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)
	second := registerApproved(t, s, "b@x.com", models.AccountTypeCurrent)
	if _, err := s.Accounts.Deposit(first.Number, d("300")); err != nil {
		t.Fatal(err)
	}
	before := txCount(t, s, nil)

	sender, err := s.Accounts.Transfer(first.Number, second.Number, d("300"))
	if err != nil {
		t.Fatalf("Transfer err=%v", err)
	}
	if !sender.Balance.IsZero() {
		t.Fatalf("sender balance=%s", sender.Balance)
	}
	a, b := balance(t, s, first.Number), balance(t, s, second.Number)
	if !a.IsZero() || !b.Equal(d("300")) {
		t.Fatalf("balances=%s,%s", a, b)
	}
	if !a.Add(b).Equal(d("300")) {
		t.Fatalf("money not conserved")
	}

	debits, _ := s.Transactions.GetTransactions(database.Record{
		"Account": database.String(first.Number),
		"Type":    database.Int(int64(models.TransactionTypeDebit)),
	})
	credits, _ := s.Transactions.GetTransactions(database.Record{
		"Account": database.String(second.Number),
		"Type":    database.Int(int64(models.TransactionTypeCredit)),
	})
	if len(debits) != 1 || len(credits) != 1 || !debits[0].Amount.Equal(credits[0].Amount) {
		t.Fatalf("debits=%v credits=%v", debits, credits)
	}
	if n := txCount(t, s, nil); n != before+2 {
		t.Fatalf("transactions=%d want %d", n, before+2)
	}

	if _, err := s.Accounts.Transfer(first.Number, second.Number, d("1")); !errors.Is(err, ErrConstraint) {
		t.Fatalf("transfer from empty account err=%v", err)
	}
}

func TestTransferRollsBackWhenCreditFails(t *testing.T) {
	s, path := newTestServices(t)
	sender := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)
	receiver := registerApproved(t, s, "b@x.com", models.AccountTypeSavings)
	if _, err := s.Accounts.Deposit(sender.Number, d("60000")); err != nil {
		t.Fatal(err)
	}
	before := txCount(t, s, nil)

	_, err := s.Accounts.Transfer(sender.Number, receiver.Number, d("60000"))
	var ce *ConstraintError
	if !errors.As(err, &ce) || ce.Rule != RuleMaxDeposit {
		t.Fatalf("err=%v", err)
	}
	if got := balance(t, s, sender.Number); !got.Equal(d("60000")) {
		t.Fatalf("sender balance=%s", got)
	}
	if got := balance(t, s, receiver.Number); !got.IsZero() {
		t.Fatalf("receiver balance=%s", got)
	}
	if n := txCount(t, s, nil); n != before {
		t.Fatalf("transactions=%d want %d", n, before)
	}

	// на диске тоже ничего не изменилось
	db, err := database.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	reloaded := NewServices(db, testConfig(), nil, nil)
	if got := balance(t, reloaded, sender.Number); !got.Equal(d("60000")) {
		t.Fatalf("persisted sender balance=%s", got)
	}
}

func TestAdminLogin(t *testing.T) {
	s, _ := newTestServices(t)
	if _, err := s.Admins.CreateAdmin("johndoe", "johndoe12", "John Doe", "admin"); err != nil {
		t.Fatalf("CreateAdmin err=%v", err)
	}
	admin, err := s.Admins.Login("johndoe", "johndoe12")
	if err != nil || admin.Name != "John Doe" {
		t.Fatalf("Login admin=%v err=%v", admin, err)
	}
	if admin.Password == "johndoe12" {
		t.Fatal("password stored in clear text")
	}

	_, wrongPassword := s.Admins.Login("johndoe", "wrong-password")
	_, unknownUser := s.Admins.Login("nobody", "johndoe12")
	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("errs=%v,%v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatal("login failure reveals whether the username exists")
	}
}

func TestCreateAdminValidation(t *testing.T) {
	s, _ := newTestServices(t)
	_, err := s.Admins.CreateAdmin("jd", "short", "", "admin")
	var ve *ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v", err)
	}
	if len(ve.Messages) != 3 || !strings.Contains(err.Error(), "; ") {
		t.Fatalf("messages=%v", ve.Messages)
	}
}

func TestRemoveAdminAllowsSelfAtServiceLayer(t *testing.T) {
	s, _ := newTestServices(t)
	if _, err := s.Admins.CreateAdmin("johndoe", "johndoe12", "John Doe", "admin"); err != nil {
		t.Fatal(err)
	}
	admin, err := s.Admins.Login("johndoe", "johndoe12")
	if err != nil {
		t.Fatal(err)
	}
	removed, err := s.Admins.RemoveAdmin(admin.Username)
	if err != nil || !removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if exists, _ := s.Admins.AdminExists("johndoe"); exists {
		t.Fatal("admin still exists")
	}
}

func TestUniqueKeys(t *testing.T) {
	s, _ := newTestServices(t)

	if _, err := s.Admins.CreateAdmin("johndoe", "johndoe12", "John", "admin"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Admins.CreateAdmin("johndoe", "other-pass", "John", "admin"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("admin err=%v", err)
	}

	if _, err := s.Staffs.CreateStaff("Staff@X.com", "S", "T", "password1", "admin"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Staffs.CreateStaff("staff@x.com", "S", "T", "password1", "admin"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("staff err=%v", err)
	}

	if _, err := s.Customers.CreateCustomer("a@x.com", "A", "B", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Customers.CreateCustomer("A@x.com ", "A", "B", models.AccountTypeCurrent); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("customer err=%v", err)
	}

	if _, err := s.Accounts.CreateAccount("a@x.com", "1234567890", "1234", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Accounts.CreateAccount("b@x.com", "1234567890", "1234", models.AccountTypeCurrent); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("account err=%v", err)
	}
	if _, err := s.Accounts.CreateAccount("b@x.com", "12345", "12", models.AccountTypeCurrent); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad account err=%v", err)
	}
}

func TestStaffLoginIsCaseInsensitive(t *testing.T) {
	s, _ := newTestServices(t)
	staff, err := s.Staffs.CreateStaff("Jane.Doe@Bank.com", "Jane", "Doe", "password1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if staff.Username != "jane.doe@bank.com" {
		t.Fatalf("username=%q", staff.Username)
	}
	if _, err := s.Staffs.Login("JANE.DOE@bank.com", "password1"); err != nil {
		t.Fatalf("Login err=%v", err)
	}
	if _, err := s.Staffs.Login("jane.doe@bank.com", "password2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err=%v", err)
	}
}

func TestChangeAccountPIN(t *testing.T) {
	s, _ := newTestServices(t)
	acc := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)

	if err := s.Accounts.ChangeAccountPIN(acc.Number, "12a4"); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad PIN err=%v", err)
	}
	if err := s.Accounts.ChangeAccountPIN(acc.Number, "4321"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Accounts.Login(acc.Number, models.DefaultPIN); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old PIN still works: %v", err)
	}
	if _, err := s.Accounts.Login(acc.Number, "4321"); err != nil {
		t.Fatalf("new PIN err=%v", err)
	}
	if err := s.Accounts.ChangeAccountPIN("0000000000", "4321"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown account err=%v", err)
	}
}

func TestDenyAndClose(t *testing.T) {
	s, _ := newTestServices(t)

	if _, err := s.Customers.CreateCustomer("pending@x.com", "P", "Q", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	pending, err := s.Registrations.Pending()
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending=%v err=%v", pending, err)
	}
	if err := s.Registrations.Deny("pending@x.com"); err != nil {
		t.Fatalf("Deny err=%v", err)
	}
	if exists, _ := s.Customers.CustomerExists("pending@x.com"); exists {
		t.Fatal("denied customer still exists")
	}

	acc := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)
	if err := s.Registrations.Deny("a@x.com"); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("deny confirmed err=%v", err)
	}

	if _, err := s.Accounts.Deposit(acc.Number, d("10")); err != nil {
		t.Fatal(err)
	}
	if err := s.Registrations.Close(acc.Number); !errors.Is(err, ErrBalanceNotZero) {
		t.Fatalf("close with balance err=%v", err)
	}
	if _, err := s.Accounts.Withdraw(acc.Number, d("10")); err != nil {
		t.Fatal(err)
	}
	if err := s.Registrations.Close(acc.Number); err != nil {
		t.Fatalf("Close err=%v", err)
	}
	if _, err := s.Accounts.GetAccountByAccountNumber(acc.Number); !errors.Is(err, ErrNotFound) {
		t.Fatalf("account survived close: %v", err)
	}
	if _, err := s.Customers.GetCustomer("a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("customer survived close: %v", err)
	}
}

func TestConfirmedListing(t *testing.T) {
	s, _ := newTestServices(t)
	a := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)
	registerApproved(t, s, "b@x.com", models.AccountTypeSavings)
	if _, err := s.Customers.CreateCustomer("c@x.com", "C", "D", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Accounts.Deposit(a.Number, d("25.50")); err != nil {
		t.Fatal(err)
	}

	list, err := s.Registrations.Confirmed()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Customer.Email != "a@x.com" || list[0].Account.Number != a.Number {
		t.Fatalf("list=%+v", list)
	}
	if !TotalBalance(list).Equal(d("25.5")) {
		t.Fatalf("total=%s", TotalBalance(list))
	}
}

func TestHistoryIsNewestFirst(t *testing.T) {
	s, _ := newTestServices(t)
	acc := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.Transactions.SetClock(func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	})
	for _, amount := range []string{"1", "2", "3"} {
		if _, err := s.Accounts.Deposit(acc.Number, d(amount)); err != nil {
			t.Fatal(err)
		}
	}

	history, err := s.Transactions.History(acc.Number)
	if err != nil || len(history) != 3 {
		t.Fatalf("history=%v err=%v", history, err)
	}
	if !history[0].Amount.Equal(d("3")) || !history[2].Amount.Equal(d("1")) {
		t.Fatalf("history order=%v", history)
	}
	if history[0].ID == history[1].ID {
		t.Fatal("transaction ids are not unique")
	}

	inserted, _ := s.Transactions.GetTransactions(database.Record{"Account": database.String(acc.Number)})
	if !inserted[0].Amount.Equal(d("1")) {
		t.Fatalf("GetTransactions is not in insertion order: %v", inserted)
	}
}

func TestStatement(t *testing.T) {
	s, _ := newTestServices(t)
	acc := registerApproved(t, s, "a@x.com", models.AccountTypeCurrent)
	if _, err := s.Accounts.Deposit(acc.Number, d("500")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Accounts.Withdraw(acc.Number, d("120.5")); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.Statements.Write(&buf, acc.Number); err != nil {
		t.Fatalf("Write err=%v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(buf.Bytes()); err != nil {
		t.Fatalf("statement is not valid XML: %v", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "statement" || root.SelectAttrValue("bank", "") != "Test Bank" {
		t.Fatalf("root=%v", root)
	}
	if got := doc.FindElement("//account").SelectAttrValue("number", ""); got != acc.Number {
		t.Fatalf("number=%q", got)
	}
	if got := doc.FindElement("//balance").Text(); got != "379.50" {
		t.Fatalf("balance=%q", got)
	}
	txs := doc.FindElements("//transaction")
	if len(txs) != 2 {
		t.Fatalf("transactions=%d", len(txs))
	}

	if err := s.Statements.Write(&buf, "0000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown account err=%v", err)
	}
}

func TestBootstrap(t *testing.T) {
	s, _ := newTestServices(t)
	created, err := s.Bootstrap()
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	if _, err := s.Admins.Login("admin", "admin1234"); err != nil {
		t.Fatalf("bootstrap login err=%v", err)
	}
	created, err = s.Bootstrap()
	if err != nil || created {
		t.Fatalf("second bootstrap created=%v err=%v", created, err)
	}
}

func TestEmailNotifier(t *testing.T) {
	cfg := testConfig()
	cfg.SMTP.Enabled = true
	cfg.SMTP.Host = "localhost"
	cfg.SMTP.From = "bank@x.com"

	if _, ok := NewNotifier(testConfig()).(NopNotifier); !ok {
		t.Fatal("disabled SMTP must give NopNotifier")
	}
	svc, ok := NewNotifier(cfg).(*EmailService)
	if !ok {
		t.Fatal("enabled SMTP must give EmailService")
	}
	var sent []*gomail.Message
	svc.send = func(m ...*gomail.Message) error {
		sent = append(sent, m...)
		return nil
	}

	customer := models.Customer{Email: "a@x.com", FirstName: "A", LastName: "B"}
	account := models.Account{Number: "0123456789", Type: models.AccountTypeSavings}
	if err := svc.NotifyApproval(customer, account); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0].GetHeader("To")[0] != "a@x.com" || sent[0].GetHeader("From")[0] != "bank@x.com" {
		t.Fatalf("sent=%v", sent)
	}

	svc.send = func(...*gomail.Message) error { return errors.New("dial failed") }
	tx := models.Transaction{Account: account.Number, Amount: d("5"), Date: time.Now()}
	if err := svc.NotifyTransaction("a@x.com", tx, d("5")); err == nil || !strings.Contains(err.Error(), "dial failed") {
		t.Fatalf("err=%v", err)
	}
}

func TestApproveIgnoresNotifierFailure(t *testing.T) {
	s, _ := newTestServices(t)
	s.Registrations.notifier = failingNotifier{}
	if _, err := s.Customers.CreateCustomer("a@x.com", "A", "B", models.AccountTypeCurrent); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Registrations.Approve("a@x.com", "staff1"); err != nil {
		t.Fatalf("Approve err=%v", err)
	}
}

type failingNotifier struct{}

func (failingNotifier) NotifyApproval(models.Customer, models.Account) error {
	return errors.New("smtp down")
}

func (failingNotifier) NotifyTransaction(string, models.Transaction, decimal.Decimal) error {
	return errors.New("smtp down")
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"":            nil,
		"not_found":   ErrNotFound,
		"credentials": ErrInvalidCredentials,
		"constraint":  &ConstraintError{Rule: RuleMaxDeposit},
		"validation":  &ValidationError{Messages: []string{"x"}},
		"storage":     &database.StorageError{Op: "write", Err: errors.New("disk")},
		"coercion":    &database.CoercionError{Field: "Balance"},
		"conflict":    ErrAlreadyExists,
		"other":       errors.New("x"),
	}
	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("ErrorKind(%v)=%q want %q", err, got, want)
		}
	}
}
