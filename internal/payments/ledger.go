// internal/payments/ledger.go
package payments

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrZeroAmount        = errors.New("amount must be positive")
	ErrUnknownParty      = errors.New("unknown party")
)

// Ledger is the native balance store. Balances are credited through the fiat
// on-ramp and debited by payouts; the registry moves value between parties
// with Pay. Every transfer is atomic: the full amount moves or nothing does.
type Ledger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[uuid.UUID]int64)}
}

// Pay moves amount from one party to another. Fail-fast: a short balance or
// bad argument leaves both balances untouched.
func (l *Ledger) Pay(from, to uuid.UUID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("pay: %w", ErrZeroAmount)
	}
	if from == uuid.Nil || to == uuid.Nil {
		return fmt.Errorf("pay: %w", ErrUnknownParty)
	}
	if l.balances[from] < amount {
		return fmt.Errorf("pay: %w", ErrInsufficientFunds)
	}

	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// Deposit credits a party's balance.
func (l *Ledger) Deposit(party uuid.UUID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("deposit: %w", ErrZeroAmount)
	}
	if party == uuid.Nil {
		return fmt.Errorf("deposit: %w", ErrUnknownParty)
	}

	l.balances[party] += amount
	return nil
}

// Withdraw debits a party's balance, failing when funds are short.
func (l *Ledger) Withdraw(party uuid.UUID, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("withdraw: %w", ErrZeroAmount)
	}
	if l.balances[party] < amount {
		return fmt.Errorf("withdraw: %w", ErrInsufficientFunds)
	}

	l.balances[party] -= amount
	return nil
}

// Balance returns a party's current balance.
func (l *Ledger) Balance(party uuid.UUID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[party]
}
