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
	"github.com/prometheus/client_golang/prometheus"
)

const (
	NOTIFY_OUTCOME_DELIVERED   = "delivered"
	NOTIFY_OUTCOME_NO_SERVICES = "no_services"
	NOTIFY_OUTCOME_UNMAPPED    = "unmapped"
)

// Prometheus collectors describing service manager activity.  A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	discoveries   *prometheus.CounterVec
	services      prometheus.Gauge
	notifications *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		discoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gattmgr_discovery_total",
			Help: "Completed service discovery sequences, by result",
		}, []string{"result"}),

		services: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gattmgr_services",
			Help: "Number of services in the catalog",
		}),

		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gattmgr_notifications_total",
			Help: "Received notifications, by routing outcome",
		}, []string{"outcome"}),
	}
}

func (mt *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		mt.discoveries,
		mt.services,
		mt.notifications,
	}
}

func (mt *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range mt.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

func (mt *Metrics) discoveryDone(err error) {
	if mt == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "failure"
	}
	mt.discoveries.WithLabelValues(result).Inc()
}

func (mt *Metrics) setServices(count int) {
	if mt == nil {
		return
	}

	mt.services.Set(float64(count))
}

func (mt *Metrics) notification(outcome string) {
	if mt == nil {
		return
	}

	mt.notifications.WithLabelValues(outcome).Inc()
}
