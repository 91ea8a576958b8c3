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
	log "github.com/sirupsen/logrus"

	. "mynewt.apache.org/gattmgr/gattxact/bledefs"
	"mynewt.apache.org/gattmgr/gattxact/gattutil"
)

type InitState int

const (
	INIT_STATE_IDLE InitState = iota
	INIT_STATE_AWAITING_MTU
	INIT_STATE_AWAITING_PRIMARY
	INIT_STATE_AWAITING_SECONDARY
	INIT_STATE_DONE
)

var initStateNameMap = map[InitState]string{
	INIT_STATE_IDLE:               "idle",
	INIT_STATE_AWAITING_MTU:       "awaiting_mtu",
	INIT_STATE_AWAITING_PRIMARY:   "awaiting_primary",
	INIT_STATE_AWAITING_SECONDARY: "awaiting_secondary",
	INIT_STATE_DONE:               "done",
}

func (s InitState) String() string {
	name := initStateNameMap[s]
	if name == "" {
		return "???"
	}

	return name
}

// Shared with every continuation the manager hands to its client.  Shutdown
// invalidates it; a continuation that finds it invalid must not touch the
// manager.
type liveness struct {
	mgr *Manager
}

func (l *liveness) get() *Manager {
	return l.mgr
}

func (l *liveness) invalidate() {
	l.mgr = nil
}

type MgrParams struct {
	Client     Client
	Dispatcher Dispatcher
	Factory    ServiceFactory

	// Optional.
	Metrics *Metrics
}

// Manages the set of services a remote GATT server exposes.  The manager
// discovers the peer's services, answers service queries, and routes incoming
// notifications to the service that owns the value handle.
//
// All methods, and all client callbacks, must run on the dispatcher.
type Manager struct {
	cln     Client
	disp    Dispatcher
	factory ServiceFactory
	metrics *Metrics
	self    *liveness

	state       InitState
	initialized bool
	initErr     error
	attMtu      uint16
	uuids       []BleUuid

	cat     catalog
	pending []listRequest
	watcher ServiceWatcherFn
}

func NewManager(params MgrParams) *Manager {
	m := &Manager{
		cln:     params.Client,
		disp:    params.Dispatcher,
		factory: params.Factory,
		metrics: params.Metrics,
		attMtu:  BLE_ATT_MTU_DFLT,
		cat:     newCatalog(),
	}
	m.self = &liveness{mgr: m}

	self := m.self
	m.cln.SetNotificationHandler(
		func(indication bool, valHandle uint16, data []byte) {
			if m := self.get(); m != nil {
				m.OnNotification(indication, valHandle, data)
			}
		})

	return m
}

func newShutdownError() error {
	return gattutil.NewFailedError("GATT service manager shut down")
}

// Best-effort; see task.TaskQueue.InTask.
func (m *Manager) assertDispatcher() {
	gattutil.Assert(m.disp.InTask())
}

func (m *Manager) alive() bool {
	return m.self.get() != nil
}

func (m *Manager) setState(state InitState) {
	log.Debugf("GATT service manager state change; from=%s to=%s",
		m.state.String(), state.String())
	m.state = state
}

func (m *Manager) State() InitState {
	return m.state
}

func (m *Manager) AttMtu() uint16 {
	return m.attMtu
}

func (m *Manager) NumServices() int {
	return m.cat.len()
}

// Wraps a discovery continuation.  If the manager shut down before the
// continuation runs, the user's init callback fails instead.
func (m *Manager) guard(initCb StatusFn,
	fn func(m *Manager, err error)) StatusFn {

	self := m.self
	return func(err error) {
		m := self.get()
		if m == nil {
			log.Debugf("Discovery completed after service manager shutdown")
			initCb(newShutdownError())
			return
		}

		fn(m, err)
	}
}

// Performs the MTU exchange followed by primary and secondary service
// discovery.  uuids restricts discovery to the specified services; an empty
// set discovers all services.  cb is called exactly once when the sequence
// completes.  A manager can only be initialized once.
func (m *Manager) Initialize(cb StatusFn, uuids []BleUuid) {
	m.assertDispatcher()

	if !m.alive() {
		cb(newShutdownError())
		return
	}

	if m.state != INIT_STATE_IDLE {
		gattutil.Assert(false)
		cb(gattutil.NewAlreadyError(
			"Attempt to initialize GATT service manager twice"))
		return
	}

	m.uuids = uuids
	m.setState(INIT_STATE_AWAITING_MTU)

	self := m.self
	m.cln.ExchangeMtu(func(mtu uint16, err error) {
		m := self.get()
		if m == nil {
			log.Debugf("MTU exchange completed after service manager shutdown")
			cb(newShutdownError())
			return
		}

		m.onMtu(cb, mtu, err)
	})
}

func (m *Manager) onMtu(initCb StatusFn, mtu uint16, err error) {
	if err != nil {
		log.Debugf("MTU exchange failed: %s", err.Error())
		m.completeInit(initCb, err)
		return
	}

	log.Debugf("Exchanged MTU; ATT MTU = %d", mtu)
	m.attMtu = mtu

	m.setState(INIT_STATE_AWAITING_PRIMARY)
	m.discoverServicesOfKind(BLE_SVC_TYPE_PRIMARY,
		m.guard(initCb, func(m *Manager, err error) {
			m.onPrimaryDone(initCb, err)
		}))
}

func (m *Manager) onPrimaryDone(initCb StatusFn, err error) {
	if err != nil {
		m.failDiscovery(initCb, err)
		return
	}

	m.setState(INIT_STATE_AWAITING_SECONDARY)
	m.discoverServicesOfKind(BLE_SVC_TYPE_SECONDARY,
		m.guard(initCb, func(m *Manager, err error) {
			m.onSecondaryDone(initCb, err)
		}))
}

func (m *Manager) onSecondaryDone(initCb StatusFn, err error) {
	// Not all GATT servers support the "secondary service" group type.
	if gattutil.IsAttStatus(err, ERR_CODE_ATT_UNSUPPORTED_GROUP_TYPE) {
		log.Debugf("Peer does not support secondary services; " +
			"ignoring ATT error")
		err = nil
	}

	if err != nil {
		m.failDiscovery(initCb, err)
		return
	}

	m.completeInit(initCb, nil)
}

func (m *Manager) failDiscovery(initCb StatusFn, err error) {
	log.Debugf("Failed to discover services: %s", err.Error())

	// Discard services that were buffered so far.
	m.clearServices()
	m.completeInit(initCb, err)
}

func (m *Manager) completeInit(initCb StatusFn, err error) {
	m.initialized = true
	m.initErr = err
	m.setState(INIT_STATE_DONE)
	m.metrics.discoveryDone(err)

	if err == nil && m.watcher != nil {
		for _, svc := range m.cat.services() {
			if !m.alive() {
				break
			}
			m.watcher(svc)
		}

		// The watcher shut the manager down; the catalog is gone.
		if !m.alive() {
			err = newShutdownError()
		}
	}

	initCb(err)

	m.resolvePending(err)
}

func (m *Manager) resolvePending(err error) {
	pending := m.pending
	m.pending = nil

	svcs := m.cat.services()
	for i := range pending {
		pending[i].complete(err, svcs)
	}
}

func (m *Manager) discoverServicesOfKind(kind BleSvcType, statusCb StatusFn) {
	self := m.self
	svcCb := func(sd ServiceData) {
		if m := self.get(); m != nil {
			sd.Kind = kind
			m.addService(sd)
		}
	}

	m.cln.DiscoverServices(kind, m.uuids, svcCb, statusCb)
}

func (m *Manager) addService(sd ServiceData) {
	if m.cat.has(sd.StartHandle) {
		log.Errorf("Found duplicate service attribute handle; handle=0x%04x",
			sd.StartHandle)
		return
	}

	svc, err := m.factory(sd)
	if err != nil {
		log.Debugf("Failed to allocate service record (%s): %s",
			sd.String(), err.Error())
		return
	}

	if err := m.cat.add(sd.StartHandle, svc); err != nil {
		gattutil.Assert(false)
		return
	}

	log.Debugf("Discovered service; %s", sd.String())
	m.metrics.setServices(m.cat.len())
}

func (m *Manager) clearServices() {
	svcs := m.cat.drain()
	for _, svc := range svcs {
		svc.ShutDown()
	}

	m.metrics.setServices(0)
}

// Registers a callback that is called once per service after discovery
// completes successfully.
func (m *Manager) SetDiscoveryWatcher(fn ServiceWatcherFn) {
	m.assertDispatcher()

	m.watcher = fn
}

// Reports the services matching the UUID set; an empty set matches all
// services.  If initialization hasn't completed, the request is queued and
// answered, in order, when it does.
func (m *Manager) ListServices(uuids []BleUuid, cb ServiceListFn) {
	m.assertDispatcher()

	req := listRequest{
		cb:    cb,
		uuids: uuids,
	}

	switch {
	case !m.alive():
		req.complete(newShutdownError(), nil)

	case m.initialized:
		req.complete(m.initErr, m.cat.services())

	default:
		m.pending = append(m.pending, req)
	}
}

// Retrieves the service with the specified start handle, or nil if there is
// none.
func (m *Manager) FindService(startHandle uint16) Service {
	m.assertDispatcher()

	return m.cat.find(startHandle)
}

// Routes a notification to the service whose handle range contains
// valHandle.  Notifications for handles outside every known range are
// dropped.
func (m *Manager) OnNotification(indication bool, valHandle uint16,
	data []byte) {

	m.assertDispatcher()

	if m.cat.len() == 0 {
		log.Debugf("Ignoring notification from unknown service; "+
			"handle=0x%04x", valHandle)
		m.metrics.notification(NOTIFY_OUTCOME_NO_SERVICES)
		return
	}

	svc := m.cat.floor(valHandle)
	if svc == nil {
		log.Debugf("Ignoring notification preceding all services; "+
			"handle=0x%04x", valHandle)
		m.metrics.notification(NOTIFY_OUTCOME_UNMAPPED)
		return
	}

	info := svc.Info()
	gattutil.Assert(valHandle >= info.StartHandle)

	if valHandle > info.EndHandle {
		log.Debugf("Ignoring notification between services; handle=0x%04x",
			valHandle)
		m.metrics.notification(NOTIFY_OUTCOME_UNMAPPED)
		return
	}

	svc.HandleNotification(indication, valHandle, data)
	m.metrics.notification(NOTIFY_OUTCOME_DELIVERED)
}

// Detaches from the client, shuts down every service, and fails all pending
// requests.  In-flight client callbacks become no-ops.  Safe to call more
// than once.
func (m *Manager) Shutdown() {
	m.assertDispatcher()

	if !m.alive() {
		return
	}
	m.self.invalidate()

	m.cln.SetNotificationHandler(nil)
	m.clearServices()

	// Resolve all pending requests with an error.
	pending := m.pending
	m.pending = nil

	err := newShutdownError()
	for i := range pending {
		pending[i].complete(err, nil)
	}

	log.Debugf("GATT service manager shut down")
}
