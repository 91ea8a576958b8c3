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
	"context"
	"fmt"
	"sync"

	"github.com/JuulLabs-OSS/ble"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"mynewt.apache.org/gattmgr/gattmgr/gmutil"
	"mynewt.apache.org/gattmgr/gattxact/bledefs"
	"mynewt.apache.org/gattmgr/gattxact/gattutil"
	"mynewt.apache.org/gattmgr/gattxact/remsvc"
	"mynewt.apache.org/gattmgr/gattxact/svcmgr"
	"mynewt.apache.org/gattmgr/gattxact/task"
)

const taskQueueDepth = 16

// An active characteristic subscription.
type Subscription struct {
	Svc        *remsvc.RemoteService
	ValHandle  uint16
	Indication bool
	Listener   *remsvc.NotifyListener
}

// The state of one connection to the peer.  Each open attempt builds a fresh
// one; nothing in it is reassigned afterwards.
type bllConn struct {
	cln  ble.Client
	bcln *BllClient
	tq   *task.TaskQueue
	mgr  *svcmgr.Manager
}

// Starts a task queue for the connection and builds its service manager.
func newBllConn(cln ble.Client, cfg BllSesnCfg) (*bllConn, error) {
	tq := task.NewTaskQueue("bll_sesn")
	if err := tq.Start(taskQueueDepth); err != nil {
		return nil, err
	}

	c := &bllConn{
		cln:  cln,
		bcln: NewBllClient(cln, tq, cfg.PreferredMtu),
		tq:   tq,
	}

	err := tq.Run(func() error {
		c.mgr = svcmgr.NewManager(svcmgr.MgrParams{
			Client:     c.bcln,
			Dispatcher: tq,
			Factory:    remsvc.Factory,
			Metrics:    cfg.Metrics,
		})
		return nil
	})
	if err != nil {
		tq.Stop(err)
		return nil, err
	}

	return c, nil
}

// Tears down the manager and its task queue.  Returns nil if they were
// already torn down.
func (c *bllConn) stopMgr(cause error) error {
	if !c.tq.Active() {
		return nil
	}

	err := c.tq.Run(func() error {
		c.mgr.Shutdown()
		return nil
	})
	if err == task.InactiveError {
		// Stopped concurrently.
		return nil
	}

	multierr.AppendInto(&err, c.tq.Stop(cause))
	return err
}

// A session with a remote GATT server over the host machine's native BLE
// support.  Opening the session connects and runs service discovery; the
// session then answers service queries from the discovered catalog.
type BllSesn struct {
	cfg BllSesnCfg

	// The current connection; nil when closed.  All accesses must be
	// protected by the mutex.
	conn *bllConn
	mtx  sync.Mutex
}

func NewBllSesn(cfg BllSesnCfg) *BllSesn {
	return &BllSesn{
		cfg: cfg,
	}
}

func (s *BllSesn) getConn() (*bllConn, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.conn == nil {
		return nil, gattutil.NewSesnClosedError("disconnected")
	}

	return s.conn, nil
}

func (s *BllSesn) setConn(c *bllConn) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.conn = c
}

// Clears the current connection if it is still c.  A later open attempt may
// have replaced it already.
func (s *BllSesn) clearConn(c *bllConn) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.conn == c {
		s.conn = nil
	}
}

// Tears down c when its peer disconnects.  The returned channel closes once
// the teardown is done.
func (s *BllSesn) listenDisconnect(c *bllConn) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		<-c.cln.Disconnected()

		log.Debugf("BLE peer disconnected")
		if err := c.stopMgr(gattutil.NewSesnClosedError(
			"BLE peer disconnected")); err != nil {

			log.Debugf("Error stopping service manager: %s", err.Error())
		}
		s.clearConn(c)
	}()

	return done
}

func (s *BllSesn) connect() (ble.Client, error) {
	log.Debugf("Connecting to peer")

	ctx := ble.WithSigHandler(context.WithTimeout(context.Background(),
		s.cfg.ConnTimeout))

	cln, err := ble.Connect(ctx, s.cfg.AdvFilter)
	if err != nil {
		if gmutil.ErrorCausedBy(err, context.DeadlineExceeded) {
			return nil, gattutil.NewXportError(fmt.Sprintf(
				"Failed to connect to peer after %s",
				s.cfg.ConnTimeout.String()))
		} else {
			return nil, bllError(err, "connect failed")
		}
	}

	return cln, nil
}

// Runs the discovery sequence on c.  Blocks until discovery completes, the
// peer disconnects, or the init timeout expires.
func (s *BllSesn) initMgr(c *bllConn) error {
	var bl gattutil.Blocker
	bl.Start()

	err := c.tq.Run(func() error {
		c.mgr.Initialize(func(err error) {
			bl.Unblock(err)
		}, s.cfg.SvcUuids)

		return nil
	})
	if err != nil {
		return err
	}

	res, err := bl.Wait(s.cfg.InitTimeout, c.cln.Disconnected())
	if err != nil {
		return gattutil.NewXportError(fmt.Sprintf(
			"Service discovery did not complete: %s", err.Error()))
	}

	if res != nil {
		return res.(error)
	}

	return nil
}

// Makes a single attempt to connect and discover.  The bool result indicates
// whether a failed attempt is worth retrying; it is false on success.
func (s *BllSesn) openOnce() (bool, error) {
	if s.IsOpen() {
		return false, gattutil.NewSesnAlreadyOpenError(
			"Attempt to open an already-open bll session")
	}

	cln, err := s.connect()
	if err != nil {
		return false, err
	}

	c, err := newBllConn(cln, s.cfg)
	if err != nil {
		cln.CancelConnection()
		return false, err
	}

	s.setConn(c)
	s.listenDisconnect(c)

	if err := s.initMgr(c); err != nil {
		// A dropped link during discovery is worth another attempt.
		return gattutil.IsXport(err), err
	}

	return false, nil
}

func (s *BllSesn) Open() error {
	var err error

	for i := 0; i < s.cfg.ConnTries; i++ {
		var retry bool

		retry, err = s.openOnce()
		if err != nil {
			// Ensure the session is closed.
			s.Close()
		}

		if !retry {
			break
		}
	}

	return err
}

func (s *BllSesn) Close() error {
	c, err := s.getConn()
	if err != nil {
		return gattutil.NewSesnClosedError(
			"Attempt to close an unopened bll session")
	}

	err = c.stopMgr(gattutil.NewSesnClosedError("BLE session closed"))
	multierr.AppendInto(&err, c.cln.CancelConnection())

	s.clearConn(c)
	return err
}

// Indicates whether the session is currently open.
func (s *BllSesn) IsOpen() bool {
	c, _ := s.getConn()
	return c != nil
}

func (s *BllSesn) AttMtu() (uint16, error) {
	c, err := s.getConn()
	if err != nil {
		return 0, gattutil.NewSesnClosedError(
			"Attempt to query closed BLE session")
	}

	var mtu uint16
	err = c.tq.Run(func() error {
		mtu = c.mgr.AttMtu()
		return nil
	})

	return mtu, err
}

// Retrieves the discovered services whose UUID is in the specified set.  An
// empty set retrieves all services.
func (s *BllSesn) ListServices(uuids []bledefs.BleUuid) (
	[]svcmgr.Service, error) {

	c, err := s.getConn()
	if err != nil {
		return nil, err
	}

	type listResult struct {
		err  error
		svcs []svcmgr.Service
	}
	ch := make(chan listResult, 1)

	err = c.tq.Run(func() error {
		c.mgr.ListServices(uuids, func(err error, svcs []svcmgr.Service) {
			ch <- listResult{err, svcs}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	select {
	case res := <-ch:
		return res.svcs, res.err
	case <-c.cln.Disconnected():
		return nil, gattutil.NewSesnClosedError("BLE peer disconnected")
	}
}

// Retrieves the service with the specified start handle, or nil if there is
// none.
func (s *BllSesn) FindService(startHandle uint16) (svcmgr.Service, error) {
	c, err := s.getConn()
	if err != nil {
		return nil, gattutil.NewSesnClosedError(
			"Attempt to query closed BLE session")
	}

	var svc svcmgr.Service
	err = c.tq.Run(func() error {
		svc = c.mgr.FindService(startHandle)
		return nil
	})

	return svc, err
}

// Subscribes to notifications (or indications) of the specified
// characteristic.  Values are delivered to the returned subscription's
// listener.
func (s *BllSesn) Watch(chrId bledefs.BleChrId, indication bool) (
	*Subscription, error) {

	svcs, err := s.ListServices([]bledefs.BleUuid{chrId.SvcUuid})
	if err != nil {
		return nil, err
	}
	if len(svcs) == 0 {
		return nil, fmt.Errorf("Peer lacks service %s",
			chrId.SvcUuid.String())
	}

	rs, ok := svcs[0].(*remsvc.RemoteService)
	if !ok {
		return nil, fmt.Errorf("Unexpected service record type: %T", svcs[0])
	}

	c, err := s.getConn()
	if err != nil {
		return nil, err
	}

	chr, err := c.bcln.FindChr(rs.Info().StartHandle, chrId.ChrUuid)
	if err != nil {
		return nil, err
	}

	nl, err := rs.Listen(chr.ValueHandle)
	if err != nil {
		return nil, err
	}

	if err := c.bcln.Subscribe(chr, indication); err != nil {
		rs.Unlisten(chr.ValueHandle)
		return nil, err
	}

	log.Debugf("Subscribed to characteristic; %s handle=0x%04x",
		chrId.String(), chr.ValueHandle)

	return &Subscription{
		Svc:        rs,
		ValHandle:  chr.ValueHandle,
		Indication: indication,
		Listener:   nl,
	}, nil
}

func (s *BllSesn) Unwatch(sub *Subscription) error {
	c, err := s.getConn()
	if err != nil {
		return err
	}

	return multierr.Combine(
		c.bcln.Unsubscribe(sub.ValHandle, sub.Indication),
		sub.Svc.Unlisten(sub.ValHandle),
	)
}
