package httperr

import "errors"

// Kind classifies a business error so the HTTP layer can map it without
// looking at the code.
type Kind string

const (
	KindInvalid  Kind = "invalid_argument"
	KindNotFound Kind = "not_found"
	KindConflict Kind = "conflict"
	KindExternal Kind = "external"
)

type BusinessError struct {
	Code    string
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness is a state rule violation (conflict).
func ErrBusiness(code string) error {
	return BusinessError{Code: code, Kind: KindConflict}
}

func Invalid(code, message string) error {
	return BusinessError{Code: code, Kind: KindInvalid, Message: message}
}

func NotFoundErr(code, message string) error {
	return BusinessError{Code: code, Kind: KindNotFound, Message: message}
}

func ConflictErr(code, message string, details any) error {
	return BusinessError{Code: code, Kind: KindConflict, Message: message, Details: details}
}

func External(code, message string, cause error) error {
	return BusinessError{Code: code, Kind: KindExternal, Message: message, Err: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of err, or "" for untyped errors.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
