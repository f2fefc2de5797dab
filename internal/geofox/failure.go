package geofox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a Failure so callers can branch on it.
type Kind string

const (
	KindConfiguration Kind = "ConfigurationError"
	KindNotFound      Kind = "NotFound"
	KindProvider      Kind = "ProviderError"
	KindTransport     Kind = "TransportError"
	KindTimeout       Kind = "Timeout"
)

// Failure is the single error type produced by this package. Provider supplied
// fields are kept verbatim for diagnosis.
type Failure struct {
	Kind         Kind   `json:"kind"`
	Message      string `json:"message"`
	Operation    string `json:"operation,omitempty"`
	Status       int    `json:"status,omitempty"`
	ReturnCode   string `json:"returnCode,omitempty"`
	ErrorText    string `json:"errorText,omitempty"`
	ErrorDevInfo string `json:"errorDevInfo,omitempty"`

	Err error `json:"-"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}

// AsFailure returns err as a *Failure. Errors that did not originate in this
// package are classified the same way transport errors are.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return transportFailure("", err)
}

func configurationFailure(format string, args ...any) *Failure {
	return &Failure{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func notFoundFailure(name string) *Failure {
	return &Failure{
		Kind:      KindNotFound,
		Operation: operationCheckName,
		Message:   fmt.Sprintf("no station found for %q", name),
	}
}

func transportFailure(operation string, err error) *Failure {
	kind := KindTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}

	msg := err.Error()
	if operation != "" {
		msg = operation + ": " + msg
	}
	return &Failure{Kind: kind, Operation: operation, Message: msg, Err: err}
}

func providerFailure(operation string, status int, base baseResponse) *Failure {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: HTTP %d", operation, status)
	if base.ReturnCode != "" {
		b.WriteString(" " + base.ReturnCode)
	}
	if base.ErrorText != "" {
		b.WriteString(": " + base.ErrorText)
	}
	if base.ErrorDevInfo != "" {
		b.WriteString(" (" + base.ErrorDevInfo + ")")
	}

	return &Failure{
		Kind:         KindProvider,
		Operation:    operation,
		Message:      b.String(),
		Status:       status,
		ReturnCode:   base.ReturnCode,
		ErrorText:    base.ErrorText,
		ErrorDevInfo: base.ErrorDevInfo,
	}
}
