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

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JuulLabs-OSS/ble"
	"github.com/spf13/cast"

	"mynewt.apache.org/gattmgr/gattmgr/bll"
	"mynewt.apache.org/gattmgr/gattmgr/gmutil"
	"mynewt.apache.org/gattmgr/gattxact/bledefs"
	"mynewt.apache.org/newt/util"
)

type BllConfig struct {
	CtlrName string
	PeerId   string
	PeerName string

	// Connection timeout, in seconds.
	ConnTimeout float64

	PreferredMtu uint16
	SvcUuids     []bledefs.BleUuid
	HciIdx       int
}

func NewBllConfig() *BllConfig {
	return &BllConfig{
		ConnTimeout:  gmutil.Timeout,
		PreferredMtu: bll.NewBllSesnCfg().PreferredMtu,
	}
}

func einvalBllConnString(f string, args ...interface{}) error {
	suffix := fmt.Sprintf(f, args...)
	return util.FmtNewtError("Invalid BLE connstring; %s", suffix)
}

// Parses a comma-separated list of key=value pairs.  svc_uuid may be
// repeated; together its values form the discovery filter.
func ParseBllConnString(cs string) (*BllConfig, error) {
	bc := NewBllConfig()

	if strings.TrimSpace(cs) == "" {
		return bc, nil
	}

	parts := strings.Split(cs, ",")
	for _, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, einvalBllConnString("expected comma-separated "+
				"key=value pairs; no '=' in: %s", p)
		}

		k := strings.TrimSpace(kv[0])
		v := strings.TrimSpace(kv[1])

		switch k {
		case "ctlr_name":
			bc.CtlrName = v
		case "peer_id":
			bc.PeerId = v
		case "peer_name":
			bc.PeerName = v
		case "conn_timeout":
			var err error
			bc.ConnTimeout, err = strconv.ParseFloat(v, 64)
			if err != nil || bc.ConnTimeout <= 0 {
				return nil, einvalBllConnString("Invalid conn_timeout: %s", v)
			}
		case "preferred_mtu":
			mtu, err := cast.ToUint16E(v)
			if err != nil || mtu < bledefs.BLE_ATT_MTU_DFLT {
				return nil, einvalBllConnString("Invalid preferred_mtu: %s", v)
			}
			bc.PreferredMtu = mtu
		case "svc_uuid":
			uuid, err := bledefs.ParseUuid(v)
			if err != nil {
				return nil, einvalBllConnString("Invalid svc_uuid: %s", v)
			}
			bc.SvcUuids = append(bc.SvcUuids, uuid)

		default:
			return nil, einvalBllConnString("Unrecognized key: %s", k)
		}
	}

	bc.HciIdx = gmutil.HciIdx

	return bc, nil
}

func BuildBllXportCfg(bc *BllConfig) bll.XportCfg {
	xc := bll.NewXportCfg()
	if bc.CtlrName != "" {
		xc.CtlrName = bc.CtlrName
	}
	xc.HciIdx = bc.HciIdx

	return xc
}

func BuildBllSesnCfg(bc *BllConfig) (bll.BllSesnCfg, error) {
	if gmutil.DeviceName != "" {
		bc.PeerName = gmutil.DeviceName
	}

	sc := bll.NewBllSesnCfg()

	if bc.PeerName != "" {
		sc.AdvFilter = func(a ble.Advertisement) bool {
			return a.LocalName() == bc.PeerName
		}
	} else if bc.PeerId != "" {
		sc.AdvFilter = func(a ble.Advertisement) bool {
			return strings.EqualFold(a.Addr().String(), bc.PeerId)
		}
	} else {
		return sc, util.NewNewtError("bll session lacks a peer specifier")
	}

	if bc.ConnTimeout > 0 {
		sc.ConnTimeout = time.Duration(bc.ConnTimeout * float64(time.Second))
	}
	sc.PreferredMtu = bc.PreferredMtu
	sc.SvcUuids = bc.SvcUuids

	return sc, nil
}
