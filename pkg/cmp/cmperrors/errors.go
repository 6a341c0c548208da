// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmperrors defines the stable error taxonomy shared by the client
// and server engines. Every fault carries a Kind plus optional free-text
// context, and layers may append their own context when rethrowing.
package cmperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a stable, wire-neutral error category.
type Kind string

const (
	NullArgument Kind = "NullArgument"
	InvalidArgs  Kind = "InvalidArgs"

	SenderGeneralNameTypeNotSupported Kind = "SenderGeneralNameTypeNotSupported"
	TransactionIDUnmatched            Kind = "TransactionIDUnmatched"
	NoncesDoNotMatch                  Kind = "NoncesDoNotMatch"
	ErrorValidatingProtection         Kind = "ErrorValidatingProtection"

	FailedToReceivePKIMessage Kind = "FailedToReceivePKIMessage"
	ErrorTransferringOut      Kind = "ErrorTransferringOut"
	ErrorDecodingMessage      Kind = "ErrorDecodingMessage"

	UnexpectedPKIBody      Kind = "UnexpectedPKIBody"
	PkibodyError           Kind = "PkibodyError"
	CertresponseNotFound   Kind = "CertresponseNotFound"
	PKIStatusInfoNotFound  Kind = "PKIStatusInfoNotFound"
	CertIDNotFound         Kind = "CertIDNotFound"

	BadRequestID        Kind = "BadRequestID"
	UnexpectedRequestID Kind = "UnexpectedRequestID"

	WrongCertHash Kind = "WrongCertHash"

	RequestNotAccepted Kind = "RequestNotAccepted"

	UnexpectedPKIStatus  Kind = "UnexpectedPKIStatus"
	UnknownPKIStatus     Kind = "UnknownPKIStatus"
	ErrorParsingPKIStatus Kind = "ErrorParsingPKIStatus"

	ErrorCreatingError    Kind = "ErrorCreatingError"
	ErrorCreatingIR       Kind = "ErrorCreatingIR"
	ErrorCreatingCR       Kind = "ErrorCreatingCR"
	ErrorCreatingKUR      Kind = "ErrorCreatingKUR"
	ErrorCreatingP10CR    Kind = "ErrorCreatingP10CR"
	ErrorCreatingRR       Kind = "ErrorCreatingRR"
	ErrorCreatingGENM     Kind = "ErrorCreatingGENM"
	ErrorCreatingCertConf Kind = "ErrorCreatingCertConf"
	ErrorCreatingPollRep  Kind = "ErrorCreatingPollRep"
	ErrorCreatingPKIConf  Kind = "ErrorCreatingPKIConf"
	ErrorCreatingCertRep  Kind = "ErrorCreatingCertRep"

	TotalTimeoutExceeded Kind = "TotalTimeoutExceeded"

	CertificateNotFound Kind = "CertificateNotFound"
	UnknownCertType     Kind = "UnknownCertType"
)

// Error is the concrete error type carrying a stable Kind, a message, an
// optional wrapped cause, and layered free-text context.
type Error struct {
	Kind    Kind
	Msg     string
	Cause   error
	Context []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	for _, c := range e.Context {
		b.WriteString(" [")
		b.WriteString(c)
		b.WriteString("]")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error of the given Kind with contextual key/value
// pairs appended as free text, mirroring the layered "error data" pattern
// described by the spec.
func New(kind Kind, msg string, errCtx ...interface{}) error {
	return &Error{Kind: kind, Msg: msg, Context: ctxStrings(errCtx)}
}

// Wrap annotates cause with kind and msg, preserving it as the Unwrap
// target so errors.Is/errors.As keep working against the original cause.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// WithCtx appends key/value context to an existing error, wrapping it in
// an Error of kind InvalidArgs if it is not already a *Error.
func WithCtx(err error, errCtx ...interface{}) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		clone := *e
		clone.Context = append(append([]string{}, e.Context...), ctxStrings(errCtx)...)
		return &clone
	}
	return &Error{Kind: InvalidArgs, Cause: err, Context: ctxStrings(errCtx)}
}

// Is reports whether err (or any error in its chain) has the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

func ctxStrings(kvs []interface{}) []string {
	var out []string
	for i := 0; i+1 < len(kvs); i += 2 {
		out = append(out, fmt.Sprintf("%v=%v", kvs[i], kvs[i+1]))
	}
	if len(kvs)%2 == 1 {
		out = append(out, fmt.Sprintf("%v", kvs[len(kvs)-1]))
	}
	return out
}

// List accumulates multiple errors, e.g. while validating several
// independent fields, and collapses to a single error via ToError.
type List []error

func (l List) Error() string {
	parts := make([]string, 0, len(l))
	for _, e := range l {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// ToError returns nil if the list is empty, the sole error if there is
// exactly one, or the list itself (as an error) otherwise.
func (l List) ToError() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	default:
		return l
	}
}
