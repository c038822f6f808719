package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"arletbank/config"
	"arletbank/controllers"
	"arletbank/database"
	"arletbank/middleware"
	"arletbank/models"
	"arletbank/services"
	"arletbank/utils"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError - неверный вызов команды
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, v ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, v...)}
}

type options struct {
	user     string
	password string
	account  string
	pin      string
}

type app struct {
	svc      *services.Services
	sessions *controllers.Sessions
	opts     options
}

type handler func(a *app, cmd *middleware.Command) error

type command struct {
	args    string
	minArgs int
	run     handler
}

var commands = map[string]map[string]command{
	"": {
		"register": {"<email> <first-name> <last-name> [current|savings]", 3, cmdRegister},
	},
	"admin": {
		"create-staff": {"<email> <first-name> <last-name> <password>", 4, cmdCreateStaff},
		"remove-staff": {"<email>", 1, cmdRemoveStaff},
		"list-staff":   {"", 0, cmdListStaff},
		"create-admin": {"<username> <password> <name>", 3, cmdCreateAdmin},
		"remove-admin": {"<username>", 1, cmdRemoveAdmin},
		"list-admins":  {"", 0, cmdListAdmins},
		"reset":        {"", 0, cmdReset},
	},
	"staff": {
		"pending":   {"", 0, cmdPending},
		"approve":   {"<email>", 1, cmdApprove},
		"deny":      {"<email>", 1, cmdDeny},
		"customers": {"", 0, cmdCustomers},
	},
	"customer": {
		"balance":    {"", 0, cmdBalance},
		"deposit":    {"<amount>", 1, cmdDeposit},
		"withdraw":   {"<amount>", 1, cmdWithdraw},
		"transfer":   {"<to-account> <amount>", 2, cmdTransfer},
		"history":    {"", 0, cmdHistory},
		"change-pin": {"<new-pin>", 1, cmdChangePIN},
		"close":      {"", 0, cmdClose},
		"statement":  {"", 0, cmdStatement},
	},
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: arletbank [flags] <role> <command> [args]")
	fmt.Fprintln(w, "       arletbank register <email> <first-name> <last-name> [current|savings]")
	roles := []string{"admin", "staff", "customer"}
	for _, role := range roles {
		names := make([]string, 0, len(commands[role]))
		for name := range commands[role] {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "\n%s commands:\n", role)
		for _, name := range names {
			fmt.Fprintf(w, "  %s %s\n", name, commands[role][name].args)
		}
	}
	fmt.Fprintln(w, "\nflags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// run разбирает аргументы, выполняет команду и возвращает код выхода
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("arletbank", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts options
	fs.StringVar(&opts.user, "user", "", "admin username or staff email")
	fs.StringVar(&opts.password, "password", "", "admin or staff password")
	fs.StringVar(&opts.account, "account", "", "customer account number")
	fs.StringVar(&opts.pin, "pin", "", "customer PIN")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr, fs)
		return exitUsage
	}

	role, name, rest, def, err := resolve(fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr, fs)
		return exitUsage
	}

	// .env необязателен
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	log, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	defer log.Close()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Error("Ошибка открытия хранилища: %v", err)
		fmt.Fprintln(stderr, err)
		return exitError
	}

	svc := services.NewServices(db, cfg, log, services.NewNotifier(cfg))
	if _, err := svc.Bootstrap(); err != nil {
		log.Error("Ошибка создания администратора: %v", err)
		fmt.Fprintln(stderr, err)
		return exitError
	}

	metrics := utils.NewMetrics()
	a := &app{svc: svc, sessions: controllers.NewSessions(svc), opts: opts}
	h := middleware.Chain(func(cmd *middleware.Command) error {
		return def.run(a, cmd)
	}, middleware.Recovery(log), middleware.Logger(log), middleware.Metrics(metrics))

	err = h(&middleware.Command{Role: role, Name: name, Args: rest, Out: stdout})

	metrics.SetStoreFlushes(db.Flushes())
	log.Debug("metrics: %v", metrics.GetMetricsSnapshot())

	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		var ue *usageError
		if errors.As(err, &ue) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func resolve(args []string) (role, name string, rest []string, def command, err error) {
	if len(args) == 0 {
		return "", "", nil, def, usagef("missing command")
	}
	if args[0] == "register" {
		role, name, rest = "", args[0], args[1:]
	} else {
		if len(args) < 2 {
			return "", "", nil, def, usagef("missing command for role %q", args[0])
		}
		role, name, rest = args[0], args[1], args[2:]
	}
	byName, ok := commands[role]
	if !ok {
		return "", "", nil, def, usagef("unknown role %q", role)
	}
	def, ok = byName[name]
	if !ok {
		return "", "", nil, def, usagef("unknown command %q", strings.TrimSpace(role+" "+name))
	}
	if len(rest) < def.minArgs {
		return "", "", nil, def, usagef("usage: %s %s", strings.TrimSpace(role+" "+name), def.args)
	}
	return role, name, rest, def, nil
}

func newLogger(cfg *config.Config, stderr io.Writer) (*utils.Logger, error) {
	level, err := utils.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Log.Dir == "" {
		return utils.NewLogger(stderr, level), nil
	}
	return utils.NewFileLogger(stderr, cfg.Log.Dir, level)
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, usagef("invalid amount %q", s)
	}
	return amount, nil
}

func (a *app) admin() (*controllers.AdminController, error) {
	if a.opts.user == "" {
		return nil, usagef("admin commands require -user and -password")
	}
	return a.sessions.LoginAdmin(a.opts.user, a.opts.password)
}

func (a *app) staff() (*controllers.StaffController, error) {
	if a.opts.user == "" {
		return nil, usagef("staff commands require -user and -password")
	}
	return a.sessions.LoginStaff(a.opts.user, a.opts.password)
}

func (a *app) customer() (*controllers.CustomerController, error) {
	if a.opts.account == "" {
		return nil, usagef("customer commands require -account and -pin")
	}
	return a.sessions.LoginCustomer(a.opts.account, a.opts.pin)
}

func cmdRegister(a *app, cmd *middleware.Command) error {
	accountType := models.AccountTypeCurrent
	if len(cmd.Args) > 3 {
		t, err := models.ParseAccountType(cmd.Args[3])
		if err != nil {
			return usagef("%v", err)
		}
		accountType = t
	}
	c, err := a.sessions.Register(cmd.Args[0], cmd.Args[1], cmd.Args[2], accountType)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "registered %s (%s), waiting for staff approval\n", c.Email, c.AccountType)
	return nil
}

func cmdCreateStaff(a *app, cmd *middleware.Command) error {
	admin, err := a.admin()
	if err != nil {
		return err
	}
	staff, err := admin.CreateStaff(cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.Args[3])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "staff %s created, username %s\n", staff.FullName(), staff.Username)
	return nil
}

func cmdRemoveStaff(a *app, cmd *middleware.Command) error {
	admin, err := a.admin()
	if err != nil {
		return err
	}
	if err := admin.RemoveStaff(cmd.Args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "staff %s removed\n", cmd.Args[0])
	return nil
}

func cmdListStaff(a *app, cmd *middleware.Command) error {
	admin, err := a.admin()
	if err != nil {
		return err
	}
	staffs, err := admin.ListStaffs()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tCREATED BY")
	for _, s := range staffs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Username, s.FullName(), s.CreatedBy)
	}
	return tw.Flush()
}

func cmdCreateAdmin(a *app, cmd *middleware.Command) error {
	admin, err := a.admin()
	if err != nil {
		return err
	}
	created, err := admin.CreateAdmin(cmd.Args[0], cmd.Args[1], strings.Join(cmd.Args[2:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "admin %s created\n", created.Username)
	return nil
}

func cmdRemoveAdmin(a *app, cmd *middleware.Command) error {
	admin, err := a.admin()
	if err != nil {
		return err
	}
	if err := admin.RemoveAdmin(cmd.Args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "admin %s removed\n", cmd.Args[0])
	return nil
}

func cmdListAdmins(a *app, cmd *middleware.Command) error {
	admin, err := a.admin()
	if err != nil {
		return err
	}
	admins, err := admin.ListAdmins()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tCREATED BY")
	for _, ad := range admins {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ad.Username, ad.Name, ad.CreatedBy)
	}
	return tw.Flush()
}

// cmdReset очищает хранилище и заново создает администратора из конфигурации
func cmdReset(a *app, cmd *middleware.Command) error {
	if _, err := a.admin(); err != nil {
		return err
	}
	if err := a.svc.DB.Clear(); err != nil {
		return err
	}
	if _, err := a.svc.Bootstrap(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Out, "store cleared")
	return nil
}

func cmdPending(a *app, cmd *middleware.Command) error {
	staff, err := a.staff()
	if err != nil {
		return err
	}
	pending, err := staff.PendingRegistrations()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tNAME\tACCOUNT TYPE")
	for _, c := range pending {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Email, c.FullName(), c.AccountType)
	}
	return tw.Flush()
}

func cmdApprove(a *app, cmd *middleware.Command) error {
	staff, err := a.staff()
	if err != nil {
		return err
	}
	account, err := staff.ApproveRegistration(cmd.Args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "approved %s, account %s (%s)\n", account.CustomerEmail, account.Number, account.Type)
	return nil
}

func cmdDeny(a *app, cmd *middleware.Command) error {
	staff, err := a.staff()
	if err != nil {
		return err
	}
	if err := staff.DenyRegistration(cmd.Args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "registration of %s denied\n", cmd.Args[0])
	return nil
}

func cmdCustomers(a *app, cmd *middleware.Command) error {
	staff, err := a.staff()
	if err != nil {
		return err
	}
	list, err := staff.ListCustomers()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tACCOUNT\tTYPE\tBALANCE")
	for _, ca := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ca.Customer.FullName(), ca.Account.Number, ca.Account.Type, ca.Account.Balance.StringFixed(2))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", services.TotalBalance(list).StringFixed(2))
	return tw.Flush()
}

func cmdBalance(a *app, cmd *middleware.Command) error {
	c, err := a.customer()
	if err != nil {
		return err
	}
	balance, err := c.Balance()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "%s\n", balance.StringFixed(2))
	return nil
}

func cmdDeposit(a *app, cmd *middleware.Command) error {
	amount, err := parseAmount(cmd.Args[0])
	if err != nil {
		return err
	}
	c, err := a.customer()
	if err != nil {
		return err
	}
	account, err := c.Deposit(amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "deposited %s, balance %s\n", amount.StringFixed(2), account.Balance.StringFixed(2))
	return nil
}

func cmdWithdraw(a *app, cmd *middleware.Command) error {
	amount, err := parseAmount(cmd.Args[0])
	if err != nil {
		return err
	}
	c, err := a.customer()
	if err != nil {
		return err
	}
	account, err := c.Withdraw(amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "withdrew %s, balance %s\n", amount.StringFixed(2), account.Balance.StringFixed(2))
	return nil
}

func cmdTransfer(a *app, cmd *middleware.Command) error {
	amount, err := parseAmount(cmd.Args[1])
	if err != nil {
		return err
	}
	c, err := a.customer()
	if err != nil {
		return err
	}
	account, err := c.Transfer(cmd.Args[0], amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "transferred %s to %s, balance %s\n", amount.StringFixed(2), cmd.Args[0], account.Balance.StringFixed(2))
	return nil
}

func cmdHistory(a *app, cmd *middleware.Command) error {
	c, err := a.customer()
	if err != nil {
		return err
	}
	history, err := c.History()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tMESSAGE")
	for _, tx := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tx.Date.Format("2006-01-02 15:04:05"), tx.Type, tx.Amount.StringFixed(2), tx.Message)
	}
	return tw.Flush()
}

func cmdChangePIN(a *app, cmd *middleware.Command) error {
	c, err := a.customer()
	if err != nil {
		return err
	}
	if err := c.ChangePIN(cmd.Args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Out, "PIN changed")
	return nil
}

func cmdClose(a *app, cmd *middleware.Command) error {
	c, err := a.customer()
	if err != nil {
		return err
	}
	if err := c.CloseAccount(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "account %s closed\n", c.Number())
	return nil
}

func cmdStatement(a *app, cmd *middleware.Command) error {
	c, err := a.customer()
	if err != nil {
		return err
	}
	if err := c.Statement(cmd.Out); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Out)
	return nil
}
