package commands

import (
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

var ErrExpireStalePaymentsCommandIsNotConstructed = errors.New(
	"ExpireStalePaymentsCommand must be created via NewExpireStalePaymentsCommand constructor",
)

const maxStaleBatch = 500

// ExpireStalePaymentsCommand moves Prepaid orders whose payment never
// arrived within the window to payment_failed.
type ExpireStalePaymentsCommand struct { //nolint:recvcheck //using for validation
	window time.Duration
	limit  int

	guard guard.ConstructorGuard
}

func NewExpireStalePaymentsCommand(window time.Duration, limit int) (ExpireStalePaymentsCommand, error) {
	var windowErr, limitErr error
	if window <= 0 {
		windowErr = errs.NewValueIsOutOfRangeError("window", window, "1ns", "unbounded")
	}
	if limit < 1 || limit > maxStaleBatch {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, maxStaleBatch)
	}
	if err := errors.Join(windowErr, limitErr); err != nil {
		return ExpireStalePaymentsCommand{}, err
	}

	return ExpireStalePaymentsCommand{window: window, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireStalePaymentsCommand) Validate() error {
	return c.guard.Validate(ErrExpireStalePaymentsCommandIsNotConstructed)
}

func (c ExpireStalePaymentsCommand) Window() time.Duration {
	return c.window
}

func (c ExpireStalePaymentsCommand) Limit() int {
	return c.limit
}
