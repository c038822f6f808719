package services

import (
	"io"
	"strconv"
	"time"

	"arletbank/models"

	"github.com/beevik/etree"
)

const statementTimeLayout = time.RFC3339

// StatementService формирует XML-выписку по счету
type StatementService struct {
	accounts     *AccountService
	customers    *CustomerService
	transactions *TransactionService
	bank         string
	now          func() time.Time
}

// NewStatementService создает новый экземпляр StatementService
func NewStatementService(accounts *AccountService, customers *CustomerService, transactions *TransactionService, bank string) *StatementService {
	return &StatementService{
		accounts:     accounts,
		customers:    customers,
		transactions: transactions,
		bank:         bank,
		now:          time.Now,
	}
}

// Build собирает документ выписки. Операции идут от новых к старым.
func (s *StatementService) Build(number string) (*etree.Document, error) {
	account, err := s.accounts.GetAccountByAccountNumber(number)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetCustomer(account.CustomerEmail)
	if err != nil {
		return nil, err
	}
	history, err := s.transactions.History(account.Number)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("statement")
	root.CreateAttr("bank", s.bank)
	root.CreateAttr("generated", s.now().UTC().Format(statementTimeLayout))

	acc := root.CreateElement("account")
	acc.CreateAttr("number", account.Number)
	acc.CreateAttr("type", account.Type.String())
	holder := acc.CreateElement("holder")
	holder.CreateAttr("email", customer.Email)
	holder.SetText(customer.FullName())
	acc.CreateElement("balance").SetText(account.Balance.StringFixed(2))

	txs := root.CreateElement("transactions")
	txs.CreateAttr("count", strconv.Itoa(len(history)))
	for _, tx := range history {
		addTransaction(txs, tx)
	}

	doc.Indent(2)
	return doc, nil
}

func addTransaction(parent *etree.Element, tx models.Transaction) {
	el := parent.CreateElement("transaction")
	el.CreateAttr("id", tx.ID)
	el.CreateAttr("type", tx.Type.String())
	el.CreateAttr("amount", tx.Amount.StringFixed(2))
	el.CreateAttr("date", tx.Date.UTC().Format(statementTimeLayout))
	el.SetText(tx.Message)
}

// Write пишет выписку по счету в w
func (s *StatementService) Write(w io.Writer, number string) error {
	doc, err := s.Build(number)
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}
