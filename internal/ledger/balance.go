package ledger

import "github.com/shopspring/decimal"

// Balance is a displayed balance: a non-negative magnitude plus its
// polarity. A zero balance keeps the Debit label but renders unsigned.
type Balance struct {
	Amount decimal.Decimal
	Type   BalanceType
}

// IsZero reports whether the balance magnitude is zero.
func (b Balance) IsZero() bool {
	return b.Amount.IsZero()
}

// Signed returns the balance in debit-positive terms.
func (b Balance) Signed() decimal.Decimal {
	if b.Type == BalanceTypeCredit {
		return b.Amount.Neg()
	}
	return b.Amount
}

// String renders the balance as "<amount> Dr" / "<amount> Cr", or the bare
// amount when zero.
func (b Balance) String() string {
	amount := b.Amount.StringFixed(2)
	if b.Amount.IsZero() {
		return amount
	}
	if b.Type == BalanceTypeCredit {
		return amount + " Cr"
	}
	return amount + " Dr"
}

// displayBalance converts a debit-positive running total into its display
// form: positive totals show as Debit, negative as Credit.
func displayBalance(running decimal.Decimal) Balance {
	if running.IsNegative() {
		return Balance{Amount: running.Neg(), Type: BalanceTypeCredit}
	}
	return Balance{Amount: running, Type: BalanceTypeDebit}
}

// openingSigned returns the account's opening balance contribution in
// debit-positive terms: +openingBalance when the opening type is Debit,
// -openingBalance when Credit.
func openingSigned(a Account) decimal.Decimal {
	if a.OpeningBalanceType == BalanceTypeCredit {
		return a.OpeningBalance.Neg()
	}
	return a.OpeningBalance
}

// naturalBalance converts a debit-positive running total into the balance
// as seen from the account's own nature: for credit-natured accounts a
// positive value means a credit balance.
func naturalBalance(a Account, running decimal.Decimal) decimal.Decimal {
	if a.Type.Nature() == BalanceTypeCredit {
		return running.Neg()
	}
	return running
}
