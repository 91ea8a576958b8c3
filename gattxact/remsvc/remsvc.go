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

// Package remsvc implements the service records a GATT service manager
// catalogs.  A record hands incoming notifications to listeners registered
// for a characteristic value handle.
package remsvc

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/gattmgr/gattxact/gattutil"
	"mynewt.apache.org/gattmgr/gattxact/svcmgr"
)

const NOTIFY_QUEUE_DEPTH = 16

type Notification struct {
	ValHandle  uint16
	Data       []byte
	Indication bool
}

type NotifyListener struct {
	NotifyChan chan Notification
	ErrChan    chan error
}

func NewNotifyListener(depth int) *NotifyListener {
	return &NotifyListener{
		NotifyChan: make(chan Notification, depth),
		ErrChan:    make(chan error, 1),
	}
}

func (nl *NotifyListener) abort(err error) {
	nl.ErrChan <- err
	close(nl.NotifyChan)
	close(nl.ErrChan)
}

type RemoteService struct {
	sd        svcmgr.ServiceData
	listeners map[uint16]*NotifyListener
	shutDown  bool

	// Protects:
	// * listeners
	// * shutDown
	mtx sync.Mutex
}

func NewRemoteService(sd svcmgr.ServiceData) *RemoteService {
	return &RemoteService{
		sd:        sd,
		listeners: map[uint16]*NotifyListener{},
	}
}

// Builds remote services for a service manager.
func Factory(sd svcmgr.ServiceData) (svcmgr.Service, error) {
	if sd.EndHandle < sd.StartHandle {
		return nil, fmt.Errorf("Invalid service handle range: %s",
			sd.String())
	}

	return NewRemoteService(sd), nil
}

func (s *RemoteService) Info() svcmgr.ServiceData {
	return s.sd
}

func (s *RemoteService) String() string {
	return s.sd.String()
}

// Registers a listener for notifications and indications with the specified
// value handle.  The listener's channels close when the service shuts down or
// the listener is removed with Unlisten().
func (s *RemoteService) Listen(valHandle uint16) (*NotifyListener, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.shutDown {
		return nil, gattutil.NewSesnClosedError(
			"Attempt to listen on shut down service")
	}

	if !s.sd.Contains(valHandle) {
		return nil, fmt.Errorf(
			"Value handle 0x%04x outside service range 0x%04x-0x%04x",
			valHandle, s.sd.StartHandle, s.sd.EndHandle)
	}

	if _, ok := s.listeners[valHandle]; ok {
		return nil, fmt.Errorf(
			"Already listening for notifications on handle 0x%04x",
			valHandle)
	}

	nl := NewNotifyListener(NOTIFY_QUEUE_DEPTH)
	s.listeners[valHandle] = nl

	return nl, nil
}

func (s *RemoteService) Unlisten(valHandle uint16) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	nl := s.listeners[valHandle]
	if nl == nil {
		return fmt.Errorf("No listener for handle 0x%04x", valHandle)
	}
	delete(s.listeners, valHandle)

	close(nl.NotifyChan)
	close(nl.ErrChan)

	return nil
}

func (s *RemoteService) NumListeners() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.listeners)
}

// Never blocks the caller; if the listener isn't keeping up, the notification
// is dropped.
func (s *RemoteService) HandleNotification(indication bool, valHandle uint16,
	data []byte) {

	s.mtx.Lock()
	defer s.mtx.Unlock()

	nl := s.listeners[valHandle]
	if nl == nil {
		log.Debugf("No listener for notification; svc=%s handle=0x%04x",
			s.sd.Uuid.String(), valHandle)
		return
	}

	n := Notification{
		ValHandle:  valHandle,
		Data:       data,
		Indication: indication,
	}

	select {
	case nl.NotifyChan <- n:
	default:
		log.Warnf("Notification queue full; dropping notification "+
			"svc=%s handle=0x%04x", s.sd.Uuid.String(), valHandle)
	}
}

func (s *RemoteService) ShutDown() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.shutDown {
		return
	}
	s.shutDown = true

	err := gattutil.NewSesnClosedError(
		fmt.Sprintf("Service shut down; %s", s.sd.String()))
	for _, nl := range s.listeners {
		nl.abort(err)
	}
	s.listeners = map[uint16]*NotifyListener{}
}
