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

package bledefs

// ATT error codes [Vol 3, Part F, 3.4.1.1].
const (
	ERR_CODE_ATT_INVALID_HANDLE         int = 0x01
	ERR_CODE_ATT_READ_NOT_PERMITTED         = 0x02
	ERR_CODE_ATT_WRITE_NOT_PERMITTED        = 0x03
	ERR_CODE_ATT_INVALID_PDU                = 0x04
	ERR_CODE_ATT_INSUFFICIENT_AUTHEN        = 0x05
	ERR_CODE_ATT_REQ_NOT_SUPPORTED          = 0x06
	ERR_CODE_ATT_INVALID_OFFSET             = 0x07
	ERR_CODE_ATT_INSUFFICIENT_AUTHOR        = 0x08
	ERR_CODE_ATT_PREPARE_QUEUE_FULL         = 0x09
	ERR_CODE_ATT_ATTR_NOT_FOUND             = 0x0a
	ERR_CODE_ATT_ATTR_NOT_LONG              = 0x0b
	ERR_CODE_ATT_INSUFFICIENT_KEY_SZ        = 0x0c
	ERR_CODE_ATT_INVALID_ATTR_VALUE_LEN     = 0x0d
	ERR_CODE_ATT_UNLIKELY                   = 0x0e
	ERR_CODE_ATT_INSUFFICIENT_ENC           = 0x0f
	ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE     = 0x10
	ERR_CODE_ATT_INSUFFICIENT_RES           = 0x11
)

var AttErrCodeStringMap = map[int]string{
	ERR_CODE_ATT_INVALID_HANDLE:         "invalid handle",
	ERR_CODE_ATT_READ_NOT_PERMITTED:     "read not permitted",
	ERR_CODE_ATT_WRITE_NOT_PERMITTED:    "write not permitted",
	ERR_CODE_ATT_INVALID_PDU:            "invalid pdu",
	ERR_CODE_ATT_INSUFFICIENT_AUTHEN:    "insufficient authentication",
	ERR_CODE_ATT_REQ_NOT_SUPPORTED:      "request not supported",
	ERR_CODE_ATT_INVALID_OFFSET:         "invalid offset",
	ERR_CODE_ATT_INSUFFICIENT_AUTHOR:    "insufficient authorization",
	ERR_CODE_ATT_PREPARE_QUEUE_FULL:     "prepare queue full",
	ERR_CODE_ATT_ATTR_NOT_FOUND:         "attribute not found",
	ERR_CODE_ATT_ATTR_NOT_LONG:          "attribute not long",
	ERR_CODE_ATT_INSUFFICIENT_KEY_SZ:    "insufficient key size",
	ERR_CODE_ATT_INVALID_ATTR_VALUE_LEN: "invalid attribute value length",
	ERR_CODE_ATT_UNLIKELY:               "unlikely error",
	ERR_CODE_ATT_INSUFFICIENT_ENC:       "insufficient encryption",
	ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE: "unsupported group type",
	ERR_CODE_ATT_INSUFFICIENT_RES:       "insufficient resources",
}

func AttErrCodeToString(e int) string {
	s := AttErrCodeStringMap[e]
	if s == "" {
		s = "unknown"
	}

	return s
}
