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
	"testing"

	"github.com/JuulLabs-OSS/ble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynewt.apache.org/gattmgr/gattxact/bledefs"
)

func TestUuid16Conversion(t *testing.T) {
	uuid, err := UuidFromBllUuid(ble.UUID{0x0d, 0x18})
	require.NoError(t, err)
	assert.Equal(t, bledefs.NewBleUuid16(0x180d), uuid)

	assert.Equal(t, ble.UUID{0x0d, 0x18}, BllUuidFromUuid(uuid))
}

func TestUuid128Conversion(t *testing.T) {
	uuid, err := bledefs.ParseUuid("8d53dc1d-1db7-4cd3-868b-8a527460aa84")
	require.NoError(t, err)

	bllUuid := BllUuidFromUuid(uuid)
	require.Len(t, bllUuid, 16)
	assert.Equal(t, byte(0x84), bllUuid[0])
	assert.Equal(t, byte(0x8d), bllUuid[15])

	back, err := UuidFromBllUuid(bllUuid)
	require.NoError(t, err)
	assert.Equal(t, 0, bledefs.CompareUuids(uuid, back))
}

func TestUuidInvalid(t *testing.T) {
	_, err := UuidFromBllUuid(ble.UUID{1, 2, 3})
	assert.Error(t, err)
}

func TestUuidsEmpty(t *testing.T) {
	assert.Nil(t, BllUuidsFromUuids(nil))
	assert.Len(t, BllUuidsFromUuids([]bledefs.BleUuid{
		bledefs.NewBleUuid16(0x1800),
		bledefs.NewBleUuid16(0x1801),
	}), 2)
}
