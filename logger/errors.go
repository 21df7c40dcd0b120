package logger

import (
	"fmt"
	"os"

	"github.com/philipp01105/napier/antilog"
)

// ErrorHandler receives failures of individual antilogs. err is either
// a wrapped error returned by Log or a *PanicError.
type ErrorHandler func(a antilog.Antilog, err error)

// PanicError reports an antilog whose Log panicked
type PanicError struct {
	Antilog antilog.Antilog
	Value   interface{}
	Stack   []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("antilog %T panicked: %v", e.Antilog, e.Value)
}

// Unwrap returns the panic value when it is an error
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// StderrErrorHandler writes one line per failure to os.Stderr. It is
// the default ErrorHandler.
func StderrErrorHandler(_ antilog.Antilog, err error) {
	fmt.Fprintf(os.Stderr, "napier: %v\n", err)
}
