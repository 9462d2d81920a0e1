package errs

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Well-known client-side codes. Server codes pass through unchanged.
const (
	CodeNetwork    = 1001 // transport-level failure, no HTTP status
	CodeRequest    = 1002 // 4xx/5xx without a server-supplied envelope
	CodeValidation = 1003 // rejected before any network call
	CodeSession    = 1004 // missing/expired credential
)

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// CodeError is the error shape surfaced to callers of the REST and gate
// layers: a stable code, a user-facing message and an optional detail.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{
		Code:   e.Code,
		Msg:    e.Msg,
		Detail: d,
	}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// UserMessage returns the string a view should render inline: the
// server-supplied message when present, else a generic fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *CodeError
	if errors.As(err, &ce) && ce.Msg != "" {
		return ce.Msg
	}
	return "request failed, please try again"
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code int) bool {
	var ce *CodeError
	return errors.As(err, &ce) && ce.Code == code
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

func New(msg string) error {
	return errors.New(msg)
}
