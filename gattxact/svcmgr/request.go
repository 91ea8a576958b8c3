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
	. "mynewt.apache.org/gattmgr/gattxact/bledefs"
)

// A ListServices() request received before initialization completed.
type listRequest struct {
	cb    ServiceListFn
	uuids []BleUuid
}

func (r *listRequest) complete(err error, svcs []Service) {
	if err != nil {
		r.cb(err, []Service{})
		return
	}

	r.cb(nil, filterServices(svcs, r.uuids))
}

// Retains the services whose UUID is in the set, preserving order.  An empty
// set retains everything.
func filterServices(svcs []Service, uuids []BleUuid) []Service {
	result := []Service{}
	for _, svc := range svcs {
		info := svc.Info()
		if UuidInSet(info.Uuid, uuids) {
			result = append(result, svc)
		}
	}

	return result
}
