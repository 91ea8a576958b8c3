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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mynewt.apache.org/gattmgr/gattmgr/bll"
	"mynewt.apache.org/gattmgr/gattmgr/config"
	"mynewt.apache.org/gattmgr/gattmgr/gmutil"
	"mynewt.apache.org/newt/util"
)

var globalSesn *bll.BllSesn
var globalXport *bll.BllXport

var onExit func()

func GmSetOnExit(fn func()) {
	onExit = fn
}

// Prints the error and the command's usage text, then exits.
func gmUsage(cmd *cobra.Command, err error) {
	if err != nil {
		if ne, ok := err.(*util.NewtError); ok {
			log.Debugf("%s", ne.StackTrace)
			fmt.Fprintf(os.Stderr, "Error: %s\n", ne.Text)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		}
	}

	if cmd != nil {
		fmt.Printf("\n")
		fmt.Printf("%s - ", cmd.Name())
		cmd.Help()
	}

	if onExit != nil {
		onExit()
	}
	os.Exit(1)
}

// Retrieves the selected connection profile.  The --conntype and
// --connstring flags take precedence over the stored profile.
func getConnProfile() (*config.ConnProfile, error) {
	var cp *config.ConnProfile

	if gmutil.ConnProfile != "" {
		p, err := config.GlobalConnProfileMgr().GetConnProfile(
			gmutil.ConnProfile)
		if err != nil {
			return nil, err
		}

		// Don't modify the stored profile.
		cpCopy := *p
		cp = &cpCopy
	} else {
		cp = config.NewConnProfile()
	}

	if gmutil.ConnType != "" {
		var err error
		cp.Type, err = config.ConnTypeFromString(gmutil.ConnType)
		if err != nil {
			return nil, err
		}
	}

	if gmutil.ConnString != "" {
		cp.ConnString = gmutil.ConnString
	}

	if cp.Type == config.CONN_TYPE_NONE {
		return nil, util.NewNewtError("no connection profile specified; " +
			"use --conn or --conntype")
	}

	return cp, nil
}

func getBllConfig() (*config.BllConfig, error) {
	cp, err := getConnProfile()
	if err != nil {
		return nil, err
	}

	if cp.Type != config.CONN_TYPE_BLL {
		return nil, util.FmtNewtError("Unknown connection type: %s (%d)",
			config.ConnTypeToString(cp.Type), int(cp.Type))
	}

	return config.ParseBllConnString(cp.ConnString)
}

func GetXport() (*bll.BllXport, error) {
	if globalXport != nil {
		return globalXport, nil
	}

	bc, err := getBllConfig()
	if err != nil {
		return nil, err
	}

	bx := bll.NewBllXport(config.BuildBllXportCfg(bc))
	if err := bx.Start(); err != nil {
		return nil, util.ChildNewtError(err)
	}

	globalXport = bx
	return globalXport, nil
}

func GetXportIfOpen() (*bll.BllXport, error) {
	if globalXport == nil {
		return nil, fmt.Errorf("xport not initialized")
	}

	return globalXport, nil
}

// Connects to the peer and discovers its services.
func GetSesn() (*bll.BllSesn, error) {
	if globalSesn != nil {
		return globalSesn, nil
	}

	bc, err := getBllConfig()
	if err != nil {
		return nil, err
	}

	bx, err := GetXport()
	if err != nil {
		return nil, err
	}

	sc, err := config.BuildBllSesnCfg(bc)
	if err != nil {
		return nil, err
	}
	sc.Metrics = getMetrics()

	s := bx.BuildBllSesn(sc)
	if err := s.Open(); err != nil {
		return nil, util.ChildNewtError(err)
	}

	globalSesn = s
	return globalSesn, nil
}

func GetSesnIfOpen() (*bll.BllSesn, error) {
	if globalSesn == nil {
		return nil, fmt.Errorf("sesn not initialized")
	}

	return globalSesn, nil
}
