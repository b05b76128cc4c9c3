// Copyright 2021 - 2022 Matrix Origin
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
	"fmt"
)

const (
	// 0 - 99 is OK. They do not contain info, and are special handled
	// using a static instance, no alloc.
	Ok uint16 = 0

	OkMax uint16 = 99

	// Group 1: Internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101

	// Group 2: numeric and range
	ErrOutOfRange        uint16 = 20200
	ErrInvalidArg        uint16 = 20201
	ErrCapacityExceeded  uint16 = 20202
	ErrIteratorExhausted uint16 = 20203

	// Group 3: invalid input
	ErrBadConfig    uint16 = 20300
	ErrInvalidInput uint16 = 20301

	// ErrEnd, the max value of MOErrorCode
	ErrEnd uint16 = 65535
)

type moErrorMsgItem struct {
	errorCode        uint16
	errorMsgOrFormat string
}

var errorMsgRefer = map[uint16]moErrorMsgItem{
	Ok: {Ok, "ok"},

	ErrInternal:          {ErrInternal, "internal error: %s"},
	ErrOutOfRange:        {ErrOutOfRange, "%s out of range: %s"},
	ErrInvalidArg:        {ErrInvalidArg, "invalid argument %s, bad value %v"},
	ErrCapacityExceeded:  {ErrCapacityExceeded, "hash table capacity exceeded: cannot grow beyond %d buckets"},
	ErrIteratorExhausted: {ErrIteratorExhausted, "iterator out of range"},
	ErrBadConfig:         {ErrBadConfig, "invalid configuration: %s"},
	ErrInvalidInput:      {ErrInvalidInput, "invalid input: %s"},
}

func newError(code uint16, args ...any) *Error {
	var err *Error
	item, has := errorMsgRefer[code]
	if !has {
		panic(fmt.Errorf("not exist MOErrorCode: %d", code))
	}
	if len(args) == 0 {
		err = &Error{
			code:    code,
			message: item.errorMsgOrFormat,
		}
	} else {
		err = &Error{
			code:    code,
			message: fmt.Sprintf(item.errorMsgOrFormat, args...),
		}
	}
	return err
}

type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) Succeeded() bool {
	return e.code < OkMax
}

// IsMoErrCode returns true if the error is a moerr carrying the given code.
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

func NewInternalError(msg string, args ...any) *Error {
	return newError(ErrInternal, fmt.Sprintf(msg, args...))
}

func NewOutOfRange(typ string, msg string, args ...any) *Error {
	return newError(ErrOutOfRange, typ, fmt.Sprintf(msg, args...))
}

func NewInvalidArg(arg string, val any) *Error {
	return newError(ErrInvalidArg, arg, val)
}

func NewCapacityExceeded(limit uint64) *Error {
	return newError(ErrCapacityExceeded, limit)
}

func NewIteratorExhausted() *Error {
	return newError(ErrIteratorExhausted)
}

func NewBadConfig(msg string, args ...any) *Error {
	return newError(ErrBadConfig, fmt.Sprintf(msg, args...))
}

func NewInvalidInput(msg string, args ...any) *Error {
	return newError(ErrInvalidInput, fmt.Sprintf(msg, args...))
}
