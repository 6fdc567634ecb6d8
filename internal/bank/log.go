package bank

import (
	"context"

	"github.com/rs/zerolog"
)

// LogLedger records instructions to the log only. Used when no broker is
// configured, e.g. local development.
type LogLedger struct {
	log zerolog.Logger
}

func NewLogLedger(log zerolog.Logger) *LogLedger {
	return &LogLedger{log: log}
}

func (l *LogLedger) Send(ctx context.Context, instr Instruction) error {
	l.log.Info().
		Str("to_address", instr.ToAddress).
		Uint64("amount", instr.Amount).
		Str("denom", instr.Denom).
		Msg("fund transfer instruction")
	return nil
}
