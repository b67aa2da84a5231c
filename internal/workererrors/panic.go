package workererrors

import (
	"errors"

	goerrors "github.com/go-errors/errors"
)

// FromPanic converts a recovered panic value into an error carrying the
// goroutine stack at the panic site.
func FromPanic(v any) error {
	return goerrors.Wrap(v, 3)
}

// Details renders the full error text, including the stack trace when one
// was captured.
func Details(err error) string {
	var goerr *goerrors.Error
	if errors.As(err, &goerr) {
		return goerr.Error() + "\n" + string(goerr.Stack())
	}

	return err.Error()
}
