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

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynewt.apache.org/gattmgr/gattmgr/bll"
	"mynewt.apache.org/gattmgr/gattxact/bledefs"
	"mynewt.apache.org/gattmgr/gattxact/remsvc"
	"mynewt.apache.org/gattmgr/gattxact/svcmgr"
)

func testSvc(kind bledefs.BleSvcType, uuid uint16, start uint16,
	end uint16) svcmgr.Service {

	return remsvc.NewRemoteService(svcmgr.ServiceData{
		Kind:        kind,
		Uuid:        bledefs.NewBleUuid16(uuid),
		StartHandle: start,
		EndHandle:   end,
	})
}

func TestWriteSvcList(t *testing.T) {
	var sb strings.Builder
	writeSvcList(&sb, nil)
	assert.Equal(t, "No services\n", sb.String())

	sb.Reset()
	writeSvcList(&sb, []svcmgr.Service{
		testSvc(bledefs.BLE_SVC_TYPE_PRIMARY, 0x1800, 0x0001, 0x0005),
		testSvc(bledefs.BLE_SVC_TYPE_SECONDARY, 0x180d, 0x0010, 0x0018),
	})

	assert.Equal(t,
		"Services (2):\n"+
			"    0x0001-0x0005 primary   0x1800\n"+
			"    0x0010-0x0018 secondary 0x180d\n",
		sb.String())
}

func TestWriteSvcDetail(t *testing.T) {
	var sb strings.Builder
	writeSvcDetail(&sb,
		testSvc(bledefs.BLE_SVC_TYPE_PRIMARY, 0x180d, 0x0010, 0x0018))

	assert.Equal(t,
		"    end_handle: 0x0018\n"+
			"    kind: primary\n"+
			"    start_handle: 0x0010\n"+
			"    uuid: 0x180d\n",
		sb.String())
}

func TestParseHandle(t *testing.T) {
	h, err := parseHandle("0x0010")
	require.NoError(t, err)
	assert.Equal(t, uint16(16), h)

	h, err = parseHandle("32")
	require.NoError(t, err)
	assert.Equal(t, uint16(32), h)

	for _, s := range []string{"", "0", "abc", "-1"} {
		_, err := parseHandle(s)
		assert.Error(t, err, "handle=%s", s)
	}
}

func TestNotificationString(t *testing.T) {
	assert.Equal(t, "notification handle=0x0012 len=2 data=[06 48]",
		notificationString(remsvc.Notification{
			ValHandle: 0x12,
			Data:      []byte{0x06, 0x48},
		}))

	assert.Equal(t, "indication handle=0x0020 len=0 data=[]",
		notificationString(remsvc.Notification{
			ValHandle:  0x20,
			Indication: true,
		}))
}

func TestParseChrId(t *testing.T) {
	chrId, err := parseChrId("0x180d", "0x2a37")
	require.NoError(t, err)
	assert.Equal(t, bledefs.NewBleUuid16(0x180d), chrId.SvcUuid)
	assert.Equal(t, bledefs.NewBleUuid16(0x2a37), chrId.ChrUuid)

	_, err = parseChrId("0x180d", "bogus")
	assert.Error(t, err)
}

func TestWatchList(t *testing.T) {
	wl := newWatchList()

	chrId := bledefs.BleChrId{
		SvcUuid: bledefs.NewBleUuid16(0x180d),
		ChrUuid: bledefs.NewBleUuid16(0x2a37),
	}

	e0 := wl.add(chrId, &bll.Subscription{ValHandle: 0x12})
	e1 := wl.add(chrId, &bll.Subscription{ValHandle: 0x15})
	assert.Equal(t, 0, e0.Id)
	assert.Equal(t, 1, e1.Id)

	elems := wl.sorted()
	require.Len(t, elems, 2)
	assert.Equal(t, uint16(0x12), elems[0].Sub.ValHandle)

	_, ok := wl.remove(0)
	assert.True(t, ok)
	_, ok = wl.remove(0)
	assert.False(t, ok)
	assert.Len(t, wl.sorted(), 1)
}
