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

package svcmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "mynewt.apache.org/gattmgr/gattxact/bledefs"
)

func newCatalogSvc(start uint16, end uint16) Service {
	return &mockService{sd: svcData(0x1800, start, end)}
}

func TestCatalogAddFind(t *testing.T) {
	c := newCatalog()
	assert.Equal(t, 0, c.len())
	assert.Nil(t, c.find(10))

	a := newCatalogSvc(10, 15)
	require.NoError(t, c.add(10, a))
	assert.True(t, c.has(10))
	assert.Equal(t, a, c.find(10))

	// Duplicates are rejected, not overwritten.
	assert.Error(t, c.add(10, newCatalogSvc(10, 12)))
	assert.Equal(t, 1, c.len())
	assert.Equal(t, a, c.find(10))
}

func TestCatalogFloor(t *testing.T) {
	c := newCatalog()
	a := newCatalogSvc(10, 15)
	b := newCatalogSvc(20, 25)
	require.NoError(t, c.add(20, b))
	require.NoError(t, c.add(10, a))

	tests := []struct {
		handle uint16
		expect Service
	}{
		{5, nil},
		{10, a},
		{12, a},
		{17, a},
		{20, b},
		{BLE_ATT_HANDLE_MAX, b},
	}

	for _, tst := range tests {
		assert.Equal(t, tst.expect, c.floor(tst.handle),
			"handle=0x%04x", tst.handle)
	}
}

func TestCatalogOrderAndDrain(t *testing.T) {
	c := newCatalog()
	for _, h := range []uint16{30, 10, 20} {
		require.NoError(t, c.add(h, newCatalogSvc(h, h+5)))
	}

	assert.Equal(t, []uint16{10, 20, 30}, startHandles(c.services()))

	drained := c.drain()
	assert.Equal(t, []uint16{10, 20, 30}, startHandles(drained))
	assert.Equal(t, 0, c.len())
	assert.Empty(t, c.services())
}

func TestFilterServices(t *testing.T) {
	svcs := []Service{
		&mockService{sd: svcData(0x000a, 1, 5)},
		&mockService{sd: svcData(0x000b, 6, 9)},
		&mockService{sd: svcData(0x000a, 10, 15)},
	}

	assert.Equal(t, []uint16{1, 6, 10}, startHandles(filterServices(svcs, nil)))
	assert.Equal(t, []uint16{1, 10}, startHandles(
		filterServices(svcs, []BleUuid{NewBleUuid16(0x000a)})))
	assert.Empty(t, filterServices(svcs, []BleUuid{NewBleUuid16(0x000c)}))
}
