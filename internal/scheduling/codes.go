package scheduling

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

const (
	codeLength      = 8
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 100
)

// ErrCodeSpaceExhausted means 100 consecutive collisions against the used-code
// ledger. With 36^8 possible codes this is effectively unreachable; the bound
// exists so a broken store cannot spin forever.
var ErrCodeSpaceExhausted = errors.New("could not generate a unique meeting code")

// CodeIssuer mints one-time meeting codes for online consultations and records
// them in the append-only used-code ledger.
type CodeIssuer struct {
	store    CodeStore
	generate func() (string, error)
}

func NewCodeIssuer(store CodeStore) *CodeIssuer {
	return &CodeIssuer{store: store, generate: randomCode}
}

// IssueCode returns a code that has never been issued before. The caller must
// record it with MarkUsed once the owning appointment is persisted.
func (ci *CodeIssuer) IssueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := ci.generate()
		if err != nil {
			return "", fmt.Errorf("generate meeting code: %w", err)
		}

		exists, err := ci.store.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check meeting code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// MarkUsed appends the code to the ledger. Codes are never removed, so a
// cancelled appointment does not free its code for reuse.
func (ci *CodeIssuer) MarkUsed(ctx context.Context, code, appointmentID string) error {
	uc := UsedCode{
		Code:          code,
		IssuedAt:      time.Now(),
		AppointmentID: appointmentID,
	}
	if err := ci.store.InsertUsedCode(ctx, uc); err != nil {
		return fmt.Errorf("record used code: %w", err)
	}
	return nil
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
