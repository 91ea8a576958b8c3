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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mynewt.apache.org/gattmgr/gattmgr/gmutil"
	"mynewt.apache.org/gattmgr/gattxact/gattutil"
	"mynewt.apache.org/newt/util"
)

var GattmgrLogLevel log.Level

func Commands() *cobra.Command {
	logLevelStr := ""
	gmCmd := &cobra.Command{
		Use: gmutil.ToolInfo.ExeName,
		Short: gmutil.ToolInfo.ShortName +
			" discovers and watches the services of remote GATT servers",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			GattmgrLogLevel, err = log.ParseLevel(logLevelStr)
			if err != nil {
				gmUsage(nil, util.ChildNewtError(err))
			}

			err = util.Init(GattmgrLogLevel, "", util.VERBOSITY_DEFAULT)
			if err != nil {
				gmUsage(nil, err)
			}
			gattutil.SetLogLevel(GattmgrLogLevel)
			gattutil.Debug = GattmgrLogLevel >= log.DebugLevel

			if gmutil.MetricsAddr != "" {
				startMetricsServer(gmutil.MetricsAddr)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	gmCmd.PersistentFlags().StringVarP(&gmutil.ConnProfile, "conn", "c", "",
		"connection profile to use")

	gmCmd.PersistentFlags().Float64VarP(&gmutil.Timeout, "timeout", "t", 10.0,
		"connect timeout in seconds (partial seconds allowed)")

	gmCmd.PersistentFlags().StringVarP(&logLevelStr, "loglevel", "l", "info",
		"log level to use")

	gmCmd.PersistentFlags().StringVar(&gmutil.DeviceName, "name",
		"", "name of target BLE device; overrides profile setting")

	gmCmd.PersistentFlags().StringVar(&gmutil.ConnType, "conntype", "",
		"Connection type to use instead of using the profile's type")

	gmCmd.PersistentFlags().StringVar(&gmutil.ConnString, "connstring", "",
		"Connection key-value pairs to use instead of using the profile's "+
			"connstring")

	gmCmd.PersistentFlags().IntVarP(&gmutil.HciIdx, "hci", "i",
		0, "HCI index for the controller on Linux machine")

	gmCmd.PersistentFlags().StringVar(&gmutil.MetricsAddr, "metrics-addr",
		"", "serve Prometheus metrics at this address (e.g., :9100)")

	versCmd := &cobra.Command{
		Use:     "version",
		Short:   "Display the " + gmutil.ToolInfo.ShortName + " version number",
		Example: "  " + gmutil.ToolInfo.ExeName + " version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n",
				gmutil.ToolInfo.LongName,
				gmutil.ToolInfo.VersionString)
		},
	}
	gmCmd.AddCommand(versCmd)

	gmCmd.AddCommand(connProfileCmd())
	gmCmd.AddCommand(svcCmd())
	gmCmd.AddCommand(watchCmd())
	gmCmd.AddCommand(interactiveCmd())

	return gmCmd
}
