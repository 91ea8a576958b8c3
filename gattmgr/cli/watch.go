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

	"github.com/spf13/cobra"

	"mynewt.apache.org/gattmgr/gattxact/bledefs"
	"mynewt.apache.org/gattmgr/gattxact/remsvc"
	"mynewt.apache.org/newt/util"
)

func notificationString(n remsvc.Notification) string {
	kind := "notification"
	if n.Indication {
		kind = "indication"
	}

	return fmt.Sprintf("%s handle=0x%04x len=%d data=[% x]",
		kind, n.ValHandle, len(n.Data), n.Data)
}

func parseChrId(svcStr string, chrStr string) (bledefs.BleChrId, error) {
	uuids, err := bledefs.ParseUuids([]string{svcStr, chrStr})
	if err != nil {
		return bledefs.BleChrId{}, util.ChildNewtError(err)
	}

	return bledefs.BleChrId{
		SvcUuid: uuids[0],
		ChrUuid: uuids[1],
	}, nil
}

func watchCmd() *cobra.Command {
	var indicate bool
	var count int

	watchRunCmd := func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			gmUsage(cmd, util.NewNewtError(
				"Need a service UUID and a characteristic UUID"))
		}

		chrId, err := parseChrId(args[0], args[1])
		if err != nil {
			gmUsage(cmd, err)
		}

		s, err := GetSesn()
		if err != nil {
			gmUsage(nil, err)
		}

		sub, err := s.Watch(chrId, indicate)
		if err != nil {
			gmUsage(nil, util.ChildNewtError(err))
		}

		fmt.Printf("Watching %s (value handle 0x%04x)\n",
			chrId.String(), sub.ValHandle)

		received := 0
		for n := range sub.Listener.NotifyChan {
			fmt.Println(notificationString(n))

			received++
			if count > 0 && received >= count {
				if err := s.Unwatch(sub); err != nil {
					gmUsage(nil, util.ChildNewtError(err))
				}
				return
			}
		}

		// The listener was aborted; report why.
		if err := <-sub.Listener.ErrChan; err != nil {
			gmUsage(nil, util.ChildNewtError(err))
		}
	}

	wCmd := &cobra.Command{
		Use:   "watch <svc-uuid> <chr-uuid>",
		Short: "Print notifications of a characteristic",
		Example: "  gattmgr -c hrm watch 0x180d 0x2a37\n" +
			"  gattmgr -c hrm watch --indicate --count 3 0x1809 0x2a1c",
		Run: watchRunCmd,
	}

	wCmd.Flags().BoolVar(&indicate, "indicate", false,
		"subscribe to indications rather than notifications")
	wCmd.Flags().IntVarP(&count, "count", "n", 0,
		"exit after this many values; 0 watches until interrupted")

	return wCmd
}
