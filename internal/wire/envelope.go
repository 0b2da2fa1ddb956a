// Package wire implements the wire/message surface (§6): a typed-call,
// structured-result contract over C6/C7/C8's public operations, wrapped
// in a response envelope carrying recovery hints on failure. The exact
// transport (JSON-RPC over stdio, HTTP, ...) is a caller's choice; this
// package only defines the envelope and a method dispatch table.
package wire

import (
	"time"

	"github.com/arkan-labs/vaultengine/internal/vaulterr"
)

// ErrorInfo is the machine-readable error carried by a failed Envelope.
type ErrorInfo struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Hints   []string `json:"hints,omitempty"`
}

// Envelope wraps the result of one dispatched operation.
type Envelope struct {
	VaultName string     `json:"vaultName,omitempty"`
	Operation string     `json:"operation"`
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Count     *int       `json:"count,omitempty"`
	ElapsedMS int64      `json:"elapsedMs"`
	Warnings  []string   `json:"warnings,omitempty"`
	NextOps   []string   `json:"nextOps,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
}

// Ok builds a successful Envelope. started is the time the operation
// began, used to compute ElapsedMS.
func Ok(vaultName, operation string, started time.Time, data any) Envelope {
	return Envelope{
		VaultName: vaultName,
		Operation: operation,
		Success:   true,
		Data:      data,
		ElapsedMS: time.Since(started).Milliseconds(),
	}
}

// WithCount attaches a result count to an Envelope.
func WithCount(e Envelope, n int) Envelope {
	e.Count = &n
	return e
}

// WithWarnings attaches non-fatal warnings to an Envelope.
func WithWarnings(e Envelope, warnings ...string) Envelope {
	e.Warnings = warnings
	return e
}

// WithNextOps attaches suggested follow-up operations to an Envelope.
func WithNextOps(e Envelope, ops ...string) Envelope {
	e.NextOps = ops
	return e
}

// Fail builds a failed Envelope from err, deriving its error code and
// recovery hints from err's vaulterr.Kind. An error's own hints (set at
// the point it was raised) take priority; DefaultHints fills in when an
// error carries none.
func Fail(vaultName, operation string, started time.Time, err error) Envelope {
	kind, _ := vaulterr.As(err)
	hints := vaulterr.Hints(err)
	if len(hints) == 0 {
		hints = DefaultHints(kind)
	}
	return Envelope{
		VaultName: vaultName,
		Operation: operation,
		Success:   false,
		ElapsedMS: time.Since(started).Milliseconds(),
		Error: &ErrorInfo{
			Code:    kind.String(),
			Message: err.Error(),
			Hints:   hints,
		},
	}
}
