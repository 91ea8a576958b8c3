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
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/gattmgr/gattxact/svcmgr"
)

var globalMetrics *svcmgr.Metrics
var metricsOnce sync.Once

func getMetrics() *svcmgr.Metrics {
	metricsOnce.Do(func() {
		globalMetrics = svcmgr.NewMetrics()
		if err := globalMetrics.Register(prometheus.DefaultRegisterer); err != nil {
			log.Warnf("Failed to register metrics: %s", err.Error())
		}
	})

	return globalMetrics
}

func startMetricsServer(addr string) {
	getMetrics()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		log.Debugf("Serving metrics at %s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("Metrics server failed: %s", err.Error())
		}
	}()
}
