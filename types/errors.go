package types

import (
	"golang.org/x/xerrors"
)

var (
	ErrInvalidArgs   = xerrors.New("invalid arguments")
	ErrInvalidConfig = xerrors.New("invalid config")
	ErrNoSigner      = xerrors.New("no signer provided")
	ErrNoLedger      = xerrors.New("no ledger client provided")

	ErrSpawnFailed     = xerrors.New("failed to spawn the process")
	ErrInitFailed      = xerrors.New("failed to initialize the process")
	ErrEvalFailed      = xerrors.New("failed to evaluate the process source")
	ErrSendFailed      = xerrors.New("failed to send the message")
	ErrDryRunFailed    = xerrors.New("failed to dry run the message")
	ErrReadFailed      = xerrors.New("failed to read the process state")
	ErrResultFailed    = xerrors.New("failed to fetch the message result")
	ErrProcessNotFound = xerrors.New("process not found")

	ErrInvalidJSON = xerrors.New("invalid JSON data")
	ErrQueryFailed = xerrors.New("failed to query the gateway")
	ErrNotFound    = xerrors.New("not found")

	ErrUploadFailed   = xerrors.New("failed to upload the transaction")
	ErrUploadTooLarge = xerrors.New("paid uploads are not yet supported")
	ErrFetchFailed    = xerrors.New("failed to fetch the transaction data")

	ErrCacheMiss = xerrors.New("cache miss")
)

type wrapError struct {
	kind  error
	cause error
}

func (e *wrapError) Error() string {
	return e.kind.Error() + ", due to " + e.cause.Error()
}

func (e *wrapError) Is(target error) bool {
	return e.kind == target || xerrors.Is(e.kind, target)
}

func (e *wrapError) Unwrap() error {
	return e.cause
}

// Wrap tags cause with the given error kind. Both stay visible to xerrors.Is.
func Wrap(kind error, cause error) error {
	if cause == nil {
		return kind
	}
	return &wrapError{kind: kind, cause: cause}
}

func Wrapf(kind error, format string, args ...interface{}) error {
	return &wrapError{kind: kind, cause: xerrors.Errorf(format, args...)}
}

// Missing builds the validation error reported when a required field is absent.
func Missing(field string) error {
	return Wrapf(ErrInvalidArgs, "Missing field '%s'", field)
}
