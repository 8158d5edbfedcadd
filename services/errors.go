package services

import "errors"

// Business-rule errors surfaced to the boundary. None of these are
// retried by the core; they mean either an invariant would have been
// violated or a race the caller should re-decide. Handlers match with
// errors.Is and report the specific invariant to arena staff.
var (
	// ErrInsufficientFunds: the revolving fund cannot cover the
	// requested assignment or fund request.
	ErrInsufficientFunds = errors.New("exceeds revolving fund")

	// ErrInsufficientBalance: a teller's current balance cannot cover
	// a deduction or transfer.
	ErrInsufficientBalance = errors.New("insufficient teller balance")

	// ErrAlreadyProcessed: the cash transfer was already approved or
	// declined.
	ErrAlreadyProcessed = errors.New("transfer already processed")

	// ErrAlreadyDeclared: the fight result was already declared.
	ErrAlreadyDeclared = errors.New("result already declared")

	// ErrInvalidTransition: the operation is not permitted from the
	// current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound: referenced staff, fight, pool or transfer does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the acting role may not perform the operation.
	ErrForbidden = errors.New("operation not allowed for role")
)
