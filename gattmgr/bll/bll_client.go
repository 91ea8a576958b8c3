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
	"runtime"
	"sync"
	"time"

	"github.com/JuulLabs-OSS/ble"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	. "mynewt.apache.org/gattmgr/gattxact/bledefs"
	"mynewt.apache.org/gattmgr/gattxact/gattutil"
	"mynewt.apache.org/gattmgr/gattxact/svcmgr"
	"mynewt.apache.org/gattmgr/gattxact/task"
)

// Drives a native BLE client on behalf of a service manager.  The library's
// procedures block, so each one runs in its own Goroutine; its completion is
// posted back to the task queue the manager runs on.
type BllClient struct {
	cln          ble.Client
	tq           *task.TaskQueue
	preferredMtu uint16

	// Only accessed from the task queue.
	notifyFn svcmgr.NotificationFn

	// Library service objects, keyed by start handle.
	svcs map[uint16]*ble.Service

	// Subscribed characteristics, keyed by value handle.
	subs map[uint16]*ble.Characteristic

	// Protects:
	// * svcs
	// * subs
	mtx sync.Mutex
}

func NewBllClient(cln ble.Client, tq *task.TaskQueue,
	preferredMtu uint16) *BllClient {

	return &BllClient{
		cln:          cln,
		tq:           tq,
		preferredMtu: preferredMtu,
		svcs:         map[uint16]*ble.Service{},
		subs:         map[uint16]*ble.Characteristic{},
	}
}

// Converts an error reported by the BLE library.  ATT errors keep their
// status code; everything else is a transport error.
func bllError(err error, op string) error {
	if err == nil {
		return nil
	}

	if attErr, ok := errors.Cause(err).(ble.ATTError); ok {
		return gattutil.AttStatusError(int(attErr))
	}

	return gattutil.NewXportError(errors.Wrap(err, op).Error())
}

// Runs the specified function in the task queue.  If the queue has stopped,
// the session is closing and the completion is discarded.
func (c *BllClient) post(fn func()) {
	if err := c.tq.Post(fn); err != nil {
		log.Debugf("Discarding BLE completion: %s", err.Error())
	}
}

func exchangeMtu(cln ble.Client, preferredMtu uint16) (uint16, error) {
	log.Debugf("Exchanging MTU")

	// On macOS, the exchange request is a no-op; the OS performs the
	// exchange on its own schedule.  Until it does, the library reports the
	// default MTU of 23, so keep asking for a few seconds.
	var mtu int
	for i := 0; i < 3; i++ {
		var err error
		mtu, err = cln.ExchangeMTU(int(preferredMtu))
		if err != nil {
			return 0, err
		}

		if runtime.GOOS != "darwin" {
			break
		}

		if mtu != BLE_ATT_MTU_DFLT {
			break
		}

		log.Debugf("macOS reports an MTU of 23.  " +
			"Assume exchange hasn't completed; wait and requery.")
		time.Sleep(time.Second)
	}

	return uint16(mtu), nil
}

func (c *BllClient) ExchangeMtu(cb svcmgr.MtuFn) {
	go func() {
		mtu, err := exchangeMtu(c.cln, c.preferredMtu)
		err = bllError(err, "MTU exchange failed")

		c.post(func() { cb(mtu, err) })
	}()
}

func (c *BllClient) DiscoverServices(kind BleSvcType, uuids []BleUuid,
	svcCb svcmgr.ServiceDataFn, statusCb svcmgr.StatusFn) {

	if kind == BLE_SVC_TYPE_SECONDARY {
		// The library only implements primary service discovery.  Report
		// what a peer without secondary services would.
		log.Debugf("Secondary service discovery not supported by host " +
			"BLE library")
		// Called from within a task queue job; posting from this Goroutine
		// would block on a full queue.
		go c.post(func() {
			statusCb(gattutil.AttStatusError(
				ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE))
		})
		return
	}

	go func() {
		svcs, err := c.cln.DiscoverServices(BllUuidsFromUuids(uuids))
		if err != nil {
			err = bllError(err, "service discovery failed")
			c.post(func() { statusCb(err) })
			return
		}

		sds := make([]svcmgr.ServiceData, 0, len(svcs))
		for _, s := range svcs {
			uuid, err := UuidFromBllUuid(s.UUID)
			if err != nil {
				log.Debugf("Ignoring service with bad UUID: %s", err.Error())
				continue
			}

			sds = append(sds, svcmgr.ServiceData{
				Kind:        kind,
				Uuid:        uuid,
				StartHandle: s.Handle,
				EndHandle:   s.EndHandle,
			})

			c.mtx.Lock()
			c.svcs[s.Handle] = s
			c.mtx.Unlock()
		}

		c.post(func() {
			for _, sd := range sds {
				svcCb(sd)
			}
			statusCb(nil)
		})
	}()
}

func (c *BllClient) SetNotificationHandler(fn svcmgr.NotificationFn) {
	c.notifyFn = fn
}

func (c *BllClient) rxNotification(indication bool, valHandle uint16,
	data []byte) {

	c.post(func() {
		if c.notifyFn == nil {
			log.Debugf("Dropping notification; no handler; handle=0x%04x",
				valHandle)
			return
		}

		c.notifyFn(indication, valHandle, data)
	})
}

// Discovers the specified characteristic, and its descriptors, within a
// previously discovered service.  Blocking; must not be called from the task
// queue.
func (c *BllClient) FindChr(startHandle uint16, chrUuid BleUuid) (
	*ble.Characteristic, error) {

	c.mtx.Lock()
	svc := c.svcs[startHandle]
	c.mtx.Unlock()

	if svc == nil {
		return nil, fmt.Errorf("No service with start handle 0x%04x",
			startHandle)
	}

	filter := []ble.UUID{BllUuidFromUuid(chrUuid)}
	chrs, err := c.cln.DiscoverCharacteristics(filter, svc)
	if err != nil {
		return nil, bllError(err, "characteristic discovery failed")
	}

	for _, chr := range chrs {
		uuid, err := UuidFromBllUuid(chr.UUID)
		if err != nil {
			return nil, err
		}

		if CompareUuids(uuid, chrUuid) == 0 {
			if _, err := c.cln.DiscoverDescriptors(nil, chr); err != nil {
				return nil, bllError(err, "descriptor discovery failed")
			}
			return chr, nil
		}
	}

	return nil, fmt.Errorf("Service 0x%04x lacks characteristic %s",
		startHandle, chrUuid.String())
}

// Enables notifications or indications for a characteristic.  Incoming values
// are handed to the registered notification handler.  Blocking.
func (c *BllClient) Subscribe(chr *ble.Characteristic, indication bool) error {
	valHandle := chr.ValueHandle

	c.mtx.Lock()
	_, ok := c.subs[valHandle]
	c.mtx.Unlock()

	if ok {
		return gattutil.NewAlreadyError(fmt.Sprintf(
			"Already subscribed to handle 0x%04x", valHandle))
	}

	onNotify := func(data []byte) {
		c.rxNotification(indication, valHandle, data)
	}

	if err := c.cln.Subscribe(chr, indication, onNotify); err != nil {
		return bllError(err, "subscribe failed")
	}

	c.mtx.Lock()
	c.subs[valHandle] = chr
	c.mtx.Unlock()

	return nil
}

func (c *BllClient) Unsubscribe(valHandle uint16, indication bool) error {
	c.mtx.Lock()
	chr := c.subs[valHandle]
	delete(c.subs, valHandle)
	c.mtx.Unlock()

	if chr == nil {
		return fmt.Errorf("Not subscribed to handle 0x%04x", valHandle)
	}

	if err := c.cln.Unsubscribe(chr, indication); err != nil {
		return bllError(err, "unsubscribe failed")
	}

	return nil
}
