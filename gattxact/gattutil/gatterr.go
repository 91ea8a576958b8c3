/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package gattutil

import (
	"fmt"

	"mynewt.apache.org/gattmgr/gattxact/bledefs"
)

// Represents a protocol-level error reported by the peer's ATT server.
type AttError struct {
	Text   string
	Status int
}

func NewAttError(status int, text string) *AttError {
	return &AttError{
		Status: status,
		Text:   text,
	}
}

func FmtAttError(status int, format string, args ...interface{}) *AttError {
	return NewAttError(status, fmt.Sprintf(format, args...))
}

// Builds an ATT error whose text is derived from the status code.
func AttStatusError(status int) *AttError {
	return FmtAttError(status, "ATT error; status=%s (0x%02x)",
		bledefs.AttErrCodeToString(status), status)
}

func (e *AttError) Error() string {
	return e.Text
}

func IsAtt(err error) bool {
	_, ok := err.(*AttError)
	return ok
}

func ToAtt(err error) *AttError {
	if aerr, ok := err.(*AttError); ok {
		return aerr
	} else {
		return nil
	}
}

// Indicates whether err is an ATT error with the specified status.
func IsAttStatus(err error, status int) bool {
	aerr := ToAtt(err)
	return aerr != nil && aerr.Status == status
}

// Generic failure.  Reported when an operation cannot complete because its
// owner went away.
type FailedError struct {
	Text string
}

func NewFailedError(text string) *FailedError {
	return &FailedError{text}
}

func (e *FailedError) Error() string {
	return e.Text
}

func IsFailed(err error) bool {
	if err == nil {
		return false
	}

	_, ok := err.(*FailedError)
	return ok
}

// Represents a low-level transport error.
type XportError struct {
	Text string
}

func NewXportError(text string) *XportError {
	return &XportError{text}
}

func (e *XportError) Error() string {
	return e.Text
}

func IsXport(err error) bool {
	if err == nil {
		return false
	}

	_, ok := err.(*XportError)
	return ok
}

type SesnAlreadyOpenError struct {
	Text string
}

func NewSesnAlreadyOpenError(text string) *SesnAlreadyOpenError {
	return &SesnAlreadyOpenError{
		Text: text,
	}
}

func (e *SesnAlreadyOpenError) Error() string {
	return e.Text
}

func IsSesnAlreadyOpen(err error) bool {
	_, ok := err.(*SesnAlreadyOpenError)
	return ok
}

type SesnClosedError struct {
	Text string
}

func NewSesnClosedError(text string) *SesnClosedError {
	return &SesnClosedError{
		Text: text,
	}
}

func (e *SesnClosedError) Error() string {
	return e.Text
}

func IsSesnClosed(err error) bool {
	_, ok := err.(*SesnClosedError)
	return ok
}

// Indicates an attempt to transition to the already-current state.
type AlreadyError struct {
	Text string
}

func NewAlreadyError(text string) *AlreadyError {
	return &AlreadyError{text}
}

func (err *AlreadyError) Error() string {
	return err.Text
}

func IsAlready(err error) bool {
	if err == nil {
		return false
	}

	_, ok := err.(*AlreadyError)
	return ok
}
