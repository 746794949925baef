package swagger

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes builder errors.
type ErrorCode string

const (
	UnmappedColumn     ErrorCode = "UnmappedColumn"
	UnsupportedMethod  ErrorCode = "UnsupportedMethod"
	RegistrationFailed ErrorCode = "RegistrationFailed"
	ConversionFailed   ErrorCode = "ConversionFailed"
)

var (
	ErrUnmappedColumn     = errors.New("column type is neither scalar nor a relationship")
	ErrUnsupportedMethod  = errors.New("unsupported http method")
	ErrRegistrationFailed = errors.New("model registration failed")
	ErrConversionFailed   = errors.New("openapi conversion failed")
)

var sentinels = map[ErrorCode]error{
	UnmappedColumn:     ErrUnmappedColumn,
	UnsupportedMethod:  ErrUnsupportedMethod,
	RegistrationFailed: ErrRegistrationFailed,
	ConversionFailed:   ErrConversionFailed,
}

// Error is returned by the builder. Model and Column locate the failure when
// known.
type Error struct {
	Code   ErrorCode
	Model  string
	Column string
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := "swagger: " + string(e.Code)
	if s, ok := sentinels[e.Code]; ok {
		msg = "swagger: " + s.Error()
	}
	switch {
	case e.Model != "" && e.Column != "":
		msg = fmt.Sprintf("%s (%s.%s)", msg, e.Model, e.Column)
	case e.Model != "":
		msg = fmt.Sprintf("%s (%s)", msg, e.Model)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}
