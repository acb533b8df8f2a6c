// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
)

const (
	// 0 - 99 is OK. They do not contain info.
	Ok uint16 = 0

	OkMax uint16 = 99

	// Group 1: Internal errors
	ErrStart        uint16 = 20100
	ErrInternal     uint16 = 20101
	ErrNYI          uint16 = 20102
	ErrNotSupported uint16 = 20105

	// Group 3: invalid input
	ErrBadConfig    uint16 = 20300
	ErrInvalidInput uint16 = 20301
	ErrInvalidArg   uint16 = 20302

	// Group 4: unexpected state and io errors
	ErrUnexpectedEOF uint16 = 20400

	// Group 5: storage engine
	ErrNoSuchTable        uint16 = 20500
	ErrTableAlreadyExists uint16 = 20501
	ErrEngineClosed       uint16 = 20502
	ErrReaderClosed       uint16 = 20503

	// Group 6: system catalog
	ErrOpenSystemCatalog   uint16 = 20600
	ErrCreateSystemCatalog uint16 = 20601
	ErrInvalidKey          uint16 = 20602
	ErrInvalidEntryType    uint16 = 20603
	ErrEmptyValue          uint16 = 20604
	ErrValueDeserialize    uint16 = 20605

	// ErrEnd, the max value of MOErrorCode
	ErrEnd uint16 = 65535
)

type moErrorMsgItem struct {
	errorMsgOrFormat string
}

var errorMsgRefer = map[uint16]moErrorMsgItem{
	// Group 1: Internal errors
	ErrStart:        {"internal error: error code start"},
	ErrInternal:     {"internal error: %s"},
	ErrNYI:          {"%s is not yet implemented"},
	ErrNotSupported: {"not supported: %s"},

	// Group 3: invalid input
	ErrBadConfig:    {"invalid configuration: %s"},
	ErrInvalidInput: {"invalid input: %s"},
	ErrInvalidArg:   {"invalid argument %s, bad value %s"},

	// Group 4: unexpected state and io errors
	ErrUnexpectedEOF: {"unexpected end of file %s"},

	// Group 5: storage engine
	ErrNoSuchTable:        {"no such table %s.%s.%s"},
	ErrTableAlreadyExists: {"table %s.%s.%s already exists"},
	ErrEngineClosed:       {"engine %s is closed"},
	ErrReaderClosed:       {"reader is closed"},

	// Group 6: system catalog
	ErrOpenSystemCatalog:   {"failed to open system catalog table: %s"},
	ErrCreateSystemCatalog: {"failed to create system catalog table: %s"},
	ErrInvalidKey:          {"invalid system catalog entry key: %s"},
	ErrInvalidEntryType:    {"invalid system catalog entry type: %d"},
	ErrEmptyValue:          {"empty system catalog table value"},
	ErrValueDeserialize:    {"failed to deserialize system catalog table value: %s"},

	// Group End: max value of MOErrorCode
	ErrEnd: {"internal error: end of errcode code"},
}

func newError(ctx context.Context, code uint16, args ...any) *Error {
	item, has := errorMsgRefer[code]
	if !has {
		panic(NewInternalError(ctx, "not exist MOErrorCode: %d", code))
	}
	msg := item.errorMsgOrFormat
	if len(args) != 0 {
		msg = fmt.Sprintf(item.errorMsgOrFormat, args...)
	}
	return &Error{
		code:    code,
		message: msg,
	}
}

type Error struct {
	code    uint16
	message string
	cause   error
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

// Unwrap returns the error this one was built from, if any, so that
// errors.Is and errors.As can reach the underlying engine failure.
func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) withCause(cause error) *Error {
	e.cause = cause
	return e
}

func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}

	me, ok := e.(*Error)
	if !ok {
		// This is not a moerr
		return false
	}
	return me.code == rc
}

// ConvertPanicError converts a runtime panic to internal error.
func ConvertPanicError(ctx context.Context, v interface{}) *Error {
	if e, ok := v.(*Error); ok {
		return e
	}
	return newError(ctx, ErrInternal, fmt.Sprintf("panic %v: %s", v, debug.Stack()))
}

// ConvertGoError converts a go error into mo error.
// Note here we must return error, because nil error
// is the same as nil *Error -- Go strangeness.
func ConvertGoError(ctx context.Context, err error) error {
	// nil is nil
	if err == nil {
		return err
	}

	// already a moerr, return it as is
	if _, ok := err.(*Error); ok {
		return err
	}

	// Convert a few well known os/go error.
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		// if io.EOF reaches here, we believe it is not expected.
		return NewUnexpectedEOF(ctx, err.Error())
	}

	return NewInternalError(ctx, "convert go error to mo error %v", err).withCause(err)
}

func NewInternalError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInternal, xmsg)
}

func NewNYI(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNYI, xmsg)
}

func NewNotSupported(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNotSupported, xmsg)
}

func NewBadConfig(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrBadConfig, xmsg)
}

func NewInvalidInput(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidInput, xmsg)
}

func NewInvalidArg(ctx context.Context, arg string, val any) *Error {
	return newError(ctx, ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewUnexpectedEOF(ctx context.Context, f string) *Error {
	return newError(ctx, ErrUnexpectedEOF, f)
}

func NewNoSuchTable(ctx context.Context, catalog, schema, tbl string) *Error {
	return newError(ctx, ErrNoSuchTable, catalog, schema, tbl)
}

func NewTableAlreadyExists(ctx context.Context, catalog, schema, tbl string) *Error {
	return newError(ctx, ErrTableAlreadyExists, catalog, schema, tbl)
}

func NewEngineClosed(ctx context.Context, name string) *Error {
	return newError(ctx, ErrEngineClosed, name)
}

func NewReaderClosed(ctx context.Context) *Error {
	return newError(ctx, ErrReaderClosed)
}

// NewOpenSystemCatalog wraps an engine failure raised while opening the
// system catalog table.
func NewOpenSystemCatalog(ctx context.Context, cause error) *Error {
	return newError(ctx, ErrOpenSystemCatalog, causeString(cause)).withCause(cause)
}

// NewCreateSystemCatalog wraps an engine failure raised while creating the
// system catalog table.
func NewCreateSystemCatalog(ctx context.Context, cause error) *Error {
	return newError(ctx, ErrCreateSystemCatalog, causeString(cause)).withCause(cause)
}

// NewInvalidKey reports a missing or malformed entry key. An empty key means
// the key (or the entry type) was absent.
func NewInvalidKey(ctx context.Context, key string) *Error {
	if key == "" {
		return newError(ctx, ErrInvalidKey, "<none>")
	}
	return newError(ctx, ErrInvalidKey, fmt.Sprintf("%q", key))
}

func NewInvalidEntryType(ctx context.Context, entryType uint8) *Error {
	return newError(ctx, ErrInvalidEntryType, entryType)
}

func NewEmptyValue(ctx context.Context) *Error {
	return newError(ctx, ErrEmptyValue)
}

func NewValueDeserialize(ctx context.Context, cause error) *Error {
	return newError(ctx, ErrValueDeserialize, causeString(cause)).withCause(cause)
}

func causeString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
