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
	"fmt"

	. "mynewt.apache.org/gattmgr/gattxact/bledefs"
)

// Describes a single service as reported by the peer during discovery.
type ServiceData struct {
	Kind        BleSvcType
	Uuid        BleUuid
	StartHandle uint16
	EndHandle   uint16
}

func (sd *ServiceData) String() string {
	return fmt.Sprintf("kind=%s uuid=%s range=0x%04x-0x%04x",
		BleSvcTypeToString(sd.Kind), sd.Uuid.String(),
		sd.StartHandle, sd.EndHandle)
}

// Indicates whether the handle falls within the service's handle range.
func (sd *ServiceData) Contains(handle uint16) bool {
	return handle >= sd.StartHandle && handle <= sd.EndHandle
}

// A remote service record.  The service manager keeps one reference to each
// record in its catalog; other holders may keep their own.  The manager only
// reads the record's info and calls HandleNotification() and ShutDown().
type Service interface {
	Info() ServiceData

	// Delivers a notification or indication whose value handle falls within
	// the service's range.
	HandleNotification(indication bool, valHandle uint16, data []byte)

	// Called when the manager removes the record from its catalog.
	ShutDown()
}

// Builds a service record from a discovered service.  An error indicates the
// record could not be created; the service is skipped.
type ServiceFactory func(sd ServiceData) (Service, error)

type StatusFn func(err error)
type MtuFn func(mtu uint16, err error)
type ServiceDataFn func(sd ServiceData)
type ServiceListFn func(err error, svcs []Service)
type ServiceWatcherFn func(svc Service)
type NotificationFn func(indication bool, valHandle uint16, data []byte)

// The ATT client a service manager drives.  Every callback must be invoked on
// the manager's dispatcher.
type Client interface {
	ExchangeMtu(cb MtuFn)

	// Discovers services of the specified kind.  An empty UUID set requests
	// all services.  svcCb is called once per discovered service, then
	// statusCb is called exactly once.
	DiscoverServices(kind BleSvcType, uuids []BleUuid,
		svcCb ServiceDataFn, statusCb StatusFn)

	// Registers the single notification handler; nil removes it.
	SetNotificationHandler(fn NotificationFn)
}

// The single execution context all manager operations run on.
type Dispatcher interface {
	InTask() bool
}
