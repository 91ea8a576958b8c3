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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynewt.apache.org/gattmgr/gattxact/bledefs"
)

func TestAttStatus(t *testing.T) {
	err := AttStatusError(bledefs.ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE)

	assert.True(t, IsAtt(err))
	assert.True(t, IsAttStatus(err, bledefs.ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE))
	assert.False(t, IsAttStatus(err, bledefs.ERR_CODE_ATT_REQ_NOT_SUPPORTED))
	assert.Contains(t, err.Error(), "unsupported group type")

	assert.False(t, IsAttStatus(nil, bledefs.ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE))
	assert.False(t, IsAttStatus(fmt.Errorf("x"),
		bledefs.ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE))
	assert.Nil(t, ToAtt(NewFailedError("failed")))
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsFailed(NewFailedError("failed")))
	assert.False(t, IsFailed(nil))
	assert.True(t, IsXport(NewXportError("xport")))
	assert.False(t, IsXport(nil))
	assert.True(t, IsAlready(NewAlreadyError("already")))
	assert.False(t, IsAlready(NewFailedError("failed")))
	assert.True(t, IsSesnClosed(NewSesnClosedError("closed")))
	assert.True(t, IsSesnAlreadyOpen(NewSesnAlreadyOpenError("open")))
}

func TestAssert(t *testing.T) {
	defer func() { Debug = false }()

	Debug = false
	assert.NotPanics(t, func() { Assert(false) })

	Debug = true
	assert.NotPanics(t, func() { Assert(true) })
	assert.Panics(t, func() { Assert(false) })
}

func TestBlockerUnblock(t *testing.T) {
	var b Blocker
	b.Start()
	require.True(t, b.Started())

	go b.Unblock("done")

	val, err := b.Wait(time.Second*5, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", val)
	assert.False(t, b.Started())
}

func TestBlockerTimeout(t *testing.T) {
	var b Blocker
	b.Start()

	_, err := b.Wait(time.Millisecond*10, nil)
	assert.Error(t, err)
}

func TestBlockerAbort(t *testing.T) {
	var b Blocker
	b.Start()

	stop := make(chan struct{})
	close(stop)

	_, err := b.Wait(time.Second*5, stop)
	assert.EqualError(t, err, "aborted")
}

func TestBlockerNotStarted(t *testing.T) {
	var b Blocker
	val, err := b.Wait(time.Millisecond, nil)
	assert.NoError(t, err)
	assert.Nil(t, val)
}
