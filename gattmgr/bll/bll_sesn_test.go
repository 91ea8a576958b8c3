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

package bll

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynewt.apache.org/gattmgr/gattxact/gattutil"
)

func newTestConn(t *testing.T) (*fakeBleClient, *bllConn) {
	fc := &fakeBleClient{disc: make(chan struct{})}

	c, err := newBllConn(fc, NewBllSesnCfg())
	require.NoError(t, err)
	t.Cleanup(func() { c.stopMgr(fmt.Errorf("test done")) })

	return fc, c
}

func waitDone(t *testing.T, done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(testTimeout):
		require.FailNow(t, "timeout")
	}
}

func TestSesnDisconnect(t *testing.T) {
	s := NewBllSesn(NewBllSesnCfg())

	fc, c := newTestConn(t)
	s.setConn(c)
	done := s.listenDisconnect(c)
	assert.True(t, s.IsOpen())

	close(fc.disc)
	waitDone(t, done)

	assert.False(t, s.IsOpen())
	assert.False(t, c.tq.Active())

	_, err := s.ListServices(nil)
	assert.True(t, gattutil.IsSesnClosed(err))
}

func TestSesnStaleDisconnect(t *testing.T) {
	s := NewBllSesn(NewBllSesnCfg())

	fc1, c1 := newTestConn(t)
	s.setConn(c1)
	done := s.listenDisconnect(c1)

	// A retried open replaces the connection before the first link reports
	// its disconnect.
	_, c2 := newTestConn(t)
	s.setConn(c2)

	close(fc1.disc)
	waitDone(t, done)

	assert.False(t, c1.tq.Active())
	assert.True(t, c2.tq.Active())

	cur, err := s.getConn()
	require.NoError(t, err)
	assert.Same(t, c2, cur)

	mtu, err := s.AttMtu()
	assert.NoError(t, err)
	assert.Equal(t, uint16(23), mtu)
}

func TestSesnClose(t *testing.T) {
	s := NewBllSesn(NewBllSesnCfg())

	fc, c := newTestConn(t)
	s.setConn(c)

	assert.NoError(t, s.Close())
	assert.False(t, s.IsOpen())
	assert.False(t, c.tq.Active())
	assert.True(t, fc.cancelled)

	assert.True(t, gattutil.IsSesnClosed(s.Close()))
}
