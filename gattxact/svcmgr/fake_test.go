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

	"github.com/stretchr/testify/mock"

	. "mynewt.apache.org/gattmgr/gattxact/bledefs"
)

// Runs everything inline; the test goroutine is the dispatcher.
type inlineDispatcher struct{}

func (d inlineDispatcher) InTask() bool {
	return true
}

type discoverCall struct {
	kind     BleSvcType
	uuids    []BleUuid
	svcCb    ServiceDataFn
	statusCb StatusFn
}

// A scripted client.  Requests are recorded and their continuations are fired
// by the test.
type fakeClient struct {
	mtuCb     MtuFn
	discovers []discoverCall
	notify    NotificationFn
	notifySet int
}

func (c *fakeClient) ExchangeMtu(cb MtuFn) {
	c.mtuCb = cb
}

func (c *fakeClient) DiscoverServices(kind BleSvcType, uuids []BleUuid,
	svcCb ServiceDataFn, statusCb StatusFn) {

	c.discovers = append(c.discovers, discoverCall{
		kind:     kind,
		uuids:    uuids,
		svcCb:    svcCb,
		statusCb: statusCb,
	})
}

func (c *fakeClient) SetNotificationHandler(fn NotificationFn) {
	c.notify = fn
	c.notifySet++
}

func (c *fakeClient) lastDiscover() discoverCall {
	return c.discovers[len(c.discovers)-1]
}

// Fires the most recent discovery request: reports each service, then the
// status.
func (c *fakeClient) completeDiscover(err error, sds ...ServiceData) {
	call := c.lastDiscover()
	for _, sd := range sds {
		call.svcCb(sd)
	}
	call.statusCb(err)
}

type mockService struct {
	mock.Mock
	sd ServiceData
}

func (s *mockService) Info() ServiceData {
	return s.sd
}

func (s *mockService) HandleNotification(indication bool, valHandle uint16,
	data []byte) {

	s.Called(indication, valHandle, data)
}

func (s *mockService) ShutDown() {
	s.Called()
}

// Builds mock services and remembers every one it created.
type mockFactory struct {
	created []*mockService
	fail    map[uint16]bool
}

func (f *mockFactory) create(sd ServiceData) (Service, error) {
	if f.fail[sd.StartHandle] {
		return nil, fmt.Errorf("out of memory")
	}

	svc := &mockService{sd: sd}
	svc.On("ShutDown").Return().Maybe()
	f.created = append(f.created, svc)
	return svc, nil
}

type fixture struct {
	cln     *fakeClient
	fact    *mockFactory
	metrics *Metrics
	mgr     *Manager
}

func newFixture() *fixture {
	f := &fixture{
		cln:     &fakeClient{},
		fact:    &mockFactory{fail: map[uint16]bool{}},
		metrics: NewMetrics(),
	}

	f.mgr = NewManager(MgrParams{
		Client:     f.cln,
		Dispatcher: inlineDispatcher{},
		Factory:    f.fact.create,
		Metrics:    f.metrics,
	})

	return f
}

// Records the completions of an Initialize() call.
type statusRecorder struct {
	errs []error
}

func (r *statusRecorder) cb(err error) {
	r.errs = append(r.errs, err)
}

type listResult struct {
	err  error
	svcs []Service
}

type listRecorder struct {
	results []listResult
}

func (r *listRecorder) cb(err error, svcs []Service) {
	r.results = append(r.results, listResult{err, svcs})
}

func svcData(uuid uint16, start uint16, end uint16) ServiceData {
	return ServiceData{
		Uuid:        NewBleUuid16(uuid),
		StartHandle: start,
		EndHandle:   end,
	}
}

func startHandles(svcs []Service) []uint16 {
	handles := make([]uint16, len(svcs))
	for i, svc := range svcs {
		handles[i] = svc.Info().StartHandle
	}

	return handles
}
