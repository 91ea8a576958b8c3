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
	"github.com/JuulLabs-OSS/ble"
	"github.com/JuulLabs-OSS/ble/examples/lib/dev"
	"github.com/pkg/errors"
)

type XportCfg struct {
	CtlrName string
	HciIdx   int
}

func NewXportCfg() XportCfg {
	return XportCfg{
		CtlrName: "default",
	}
}

// Owns the host's BLE controller.  A transport must be started before any
// session built from it is opened.
type BllXport struct {
	cfg XportCfg
}

func NewBllXport(cfg XportCfg) *BllXport {
	return &BllXport{
		cfg: cfg,
	}
}

func (bx *BllXport) BuildBllSesn(cfg BllSesnCfg) *BllSesn {
	return NewBllSesn(cfg)
}

func (bx *BllXport) Start() error {
	d, err := dev.DefaultDevice(ble.OptDeviceID(bx.cfg.HciIdx))
	if err != nil {
		return errors.Wrapf(err, "failed to open BLE controller %s",
			bx.cfg.CtlrName)
	}

	ble.SetDefaultDevice(d)

	return nil
}

func (bx *BllXport) Stop() error {
	if err := ble.Stop(); err != nil {
		return err
	}

	return nil
}
