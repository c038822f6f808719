package services

import (
	"errors"
	"fmt"

	"arletbank/models"

	"github.com/shopspring/decimal"
)

var ErrConstraint = errors.New("ledger constraint violated")

// Правила, которые может нарушить операция над балансом
const (
	RuleNegativeAmount    = "negative-amount"
	RuleMaxDeposit        = "max-deposit"
	RuleMaxBalance        = "max-balance"
	RuleMaxWithdrawal     = "max-withdrawal"
	RuleInsufficientFunds = "insufficient-funds"
	RuleSavingsFloor      = "savings-floor"
)

// ConstraintError сообщает, какое правило нарушено и каков лимит
type ConstraintError struct {
	Rule    string
	Limit   decimal.NullDecimal
	Message string
}

func (e *ConstraintError) Error() string {
	if e.Limit.Valid {
		return fmt.Sprintf("%s (limit %s)", e.Message, e.Limit.Decimal.String())
	}
	return e.Message
}

func (e *ConstraintError) Unwrap() error { return ErrConstraint }

// Policy задает ограничения на зачисление и списание для типа счета.
// Невалидный NullDecimal означает отсутствие лимита.
type Policy struct {
	Name          string
	MaxDeposit    decimal.NullDecimal
	MaxWithdrawal decimal.NullDecimal
	MaxBalance    decimal.NullDecimal
	// KeepFloor запрещает списание, после которого баланс станет ровно 0
	KeepFloor bool
}

// SavingsLimit - лимит одной операции по сберегательному счету
var SavingsLimit = decimal.NewFromInt(50000)

var (
	currentPolicy = Policy{Name: models.AccountTypeCurrent.String()}
	savingsPolicy = Policy{
		Name:          models.AccountTypeSavings.String(),
		MaxDeposit:    decimal.NewNullDecimal(SavingsLimit),
		MaxWithdrawal: decimal.NewNullDecimal(SavingsLimit),
		KeepFloor:     true,
	}
)

// PolicyFor возвращает политику для типа счета. Undefined ведет себя как текущий счет.
func PolicyFor(t models.AccountType) Policy {
	if t == models.AccountTypeSavings {
		return savingsPolicy
	}
	p := currentPolicy
	if t == models.AccountTypeUndefined {
		p.Name = t.String()
	}
	return p
}

func exceeds(value decimal.Decimal, limit decimal.NullDecimal) bool {
	return limit.Valid && value.GreaterThan(limit.Decimal)
}

// ValidateCredit проверяет зачисление amount на счет с балансом balance
func (p Policy) ValidateCredit(balance, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ConstraintError{Rule: RuleNegativeAmount, Message: "amount cannot be negative"}
	}
	if exceeds(amount, p.MaxDeposit) {
		return &ConstraintError{Rule: RuleMaxDeposit, Limit: p.MaxDeposit, Message: "amount exceeds the maximum deposit"}
	}
	if exceeds(balance.Add(amount), p.MaxBalance) {
		return &ConstraintError{Rule: RuleMaxBalance, Limit: p.MaxBalance, Message: "balance would exceed the maximum balance"}
	}
	return nil
}

// ValidateDebit проверяет списание amount со счета с балансом balance
func (p Policy) ValidateDebit(balance, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ConstraintError{Rule: RuleNegativeAmount, Message: "amount cannot be negative"}
	}
	if exceeds(amount, p.MaxWithdrawal) {
		return &ConstraintError{Rule: RuleMaxWithdrawal, Limit: p.MaxWithdrawal, Message: "amount exceeds the maximum withdrawal"}
	}
	rest := balance.Sub(amount)
	if rest.IsNegative() {
		return &ConstraintError{
			Rule:    RuleInsufficientFunds,
			Limit:   decimal.NewNullDecimal(balance),
			Message: "insufficient funds",
		}
	}
	if p.KeepFloor && rest.IsZero() {
		return &ConstraintError{Rule: RuleSavingsFloor, Message: "savings account cannot be fully drained"}
	}
	return nil
}
