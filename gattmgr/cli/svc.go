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
	"io"
	"sort"

	"github.com/fatih/structs"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"mynewt.apache.org/gattmgr/gattxact/bledefs"
	"mynewt.apache.org/gattmgr/gattxact/svcmgr"
	"mynewt.apache.org/newt/util"
)

// Printable form of a service record.
type svcInfo struct {
	Kind        string `structs:"kind"`
	Uuid        string `structs:"uuid"`
	StartHandle string `structs:"start_handle"`
	EndHandle   string `structs:"end_handle"`
}

func newSvcInfo(svc svcmgr.Service) svcInfo {
	sd := svc.Info()
	return svcInfo{
		Kind:        sd.Kind.String(),
		Uuid:        sd.Uuid.String(),
		StartHandle: fmt.Sprintf("0x%04x", sd.StartHandle),
		EndHandle:   fmt.Sprintf("0x%04x", sd.EndHandle),
	}
}

func svcSummary(svc svcmgr.Service) string {
	si := newSvcInfo(svc)
	return fmt.Sprintf("%s-%s %-9s %s",
		si.StartHandle, si.EndHandle, si.Kind, si.Uuid)
}

func writeSvcList(w io.Writer, svcs []svcmgr.Service) {
	if len(svcs) == 0 {
		fmt.Fprintf(w, "No services\n")
		return
	}

	fmt.Fprintf(w, "Services (%d):\n", len(svcs))
	for _, svc := range svcs {
		fmt.Fprintf(w, "    %s\n", svcSummary(svc))
	}
}

// Writes each field of the service record, one per line, sorted by name.
func writeSvcDetail(w io.Writer, svc svcmgr.Service) {
	m := structs.Map(newSvcInfo(svc))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "    %s: %v\n", k, m[k])
	}
}

// Accepts decimal or 0x-prefixed hex handles.
func parseHandle(s string) (uint16, error) {
	h, err := cast.ToUint16E(s)
	if err != nil || h == 0 {
		return 0, util.FmtNewtError("Invalid attribute handle: %s", s)
	}

	return h, nil
}

func svcListCmd(cmd *cobra.Command, args []string) {
	uuids, err := bledefs.ParseUuids(args)
	if err != nil {
		gmUsage(cmd, util.ChildNewtError(err))
	}

	s, err := GetSesn()
	if err != nil {
		gmUsage(nil, err)
	}

	svcs, err := s.ListServices(uuids)
	if err != nil {
		gmUsage(nil, util.ChildNewtError(err))
	}

	mtu, err := s.AttMtu()
	if err == nil {
		fmt.Printf("ATT MTU: %d\n", mtu)
	}

	writeSvcList(cmd.OutOrStdout(), svcs)
}

func svcFindCmd(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		gmUsage(cmd, util.NewNewtError("Need a service start handle"))
	}

	handle, err := parseHandle(args[0])
	if err != nil {
		gmUsage(cmd, err)
	}

	s, err := GetSesn()
	if err != nil {
		gmUsage(nil, err)
	}

	svc, err := s.FindService(handle)
	if err != nil {
		gmUsage(nil, util.ChildNewtError(err))
	}

	if svc == nil {
		fmt.Printf("No service with start handle 0x%04x\n", handle)
		return
	}

	writeSvcDetail(cmd.OutOrStdout(), svc)
}

func svcCmd() *cobra.Command {
	svcCmd := &cobra.Command{
		Use:   "svc",
		Short: "Discover the services of a remote GATT server",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [svc-uuid ...]",
		Short: "List discovered services, optionally only those with a UUID",
		Example: "  gattmgr -c hrm svc list\n" +
			"  gattmgr -c hrm svc list 0x180d 0x180f",
		Run: svcListCmd,
	}
	svcCmd.AddCommand(listCmd)

	findCmd := &cobra.Command{
		Use:     "find <start-handle>",
		Short:   "Show the service with the specified start handle",
		Example: "  gattmgr -c hrm svc find 0x0010",
		Run:     svcFindCmd,
	}
	svcCmd.AddCommand(findCmd)

	return svcCmd
}
