// Package bank emits fund-transfer instructions to the external funds
// subsystem. The marketplace core only emits instructions; it never verifies
// that they were executed.
package bank

import "context"

// Instruction moves escrowed funds to an account. Amounts are in the market
// denomination.
type Instruction struct {
	ToAddress string `json:"to_address"`
	Amount    uint64 `json:"amount"`
	Denom     string `json:"denom"`
}

// Ledger accepts fund-transfer instructions for execution elsewhere.
type Ledger interface {
	Send(ctx context.Context, instr Instruction) error
}
