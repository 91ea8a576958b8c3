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
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/abiosoft/ishell.v2"

	"mynewt.apache.org/gattmgr/gattmgr/bll"
	"mynewt.apache.org/gattmgr/gattmgr/gmutil"
	"mynewt.apache.org/gattmgr/gattxact/bledefs"
)

type watchElem struct {
	Id    int
	ChrId bledefs.BleChrId
	Sub   *bll.Subscription
}

// Active subscriptions created from the shell, keyed by ID.
type watchList struct {
	nextId int
	elems  map[int]watchElem
	mtx    sync.Mutex
}

func newWatchList() *watchList {
	return &watchList{
		elems: map[int]watchElem{},
	}
}

func (wl *watchList) add(chrId bledefs.BleChrId,
	sub *bll.Subscription) watchElem {

	wl.mtx.Lock()
	defer wl.mtx.Unlock()

	e := watchElem{
		Id:    wl.nextId,
		ChrId: chrId,
		Sub:   sub,
	}
	wl.nextId++
	wl.elems[e.Id] = e

	return e
}

func (wl *watchList) remove(id int) (watchElem, bool) {
	wl.mtx.Lock()
	defer wl.mtx.Unlock()

	e, ok := wl.elems[id]
	if ok {
		delete(wl.elems, id)
	}

	return e, ok
}

func (wl *watchList) sorted() []watchElem {
	wl.mtx.Lock()
	defer wl.mtx.Unlock()

	elems := make([]watchElem, 0, len(wl.elems))
	for _, e := range wl.elems {
		elems = append(elems, e)
	}
	sort.Slice(elems, func(i, j int) bool {
		return elems[i].Id < elems[j].Id
	})

	return elems
}

func shellSesn(c *ishell.Context) *bll.BllSesn {
	s, err := GetSesn()
	if err != nil {
		c.Println("Error:", err)
		return nil
	}

	return s
}

func shellListCmd(c *ishell.Context) {
	uuids, err := bledefs.ParseUuids(c.Args)
	if err != nil {
		c.Println("Error:", err)
		return
	}

	s := shellSesn(c)
	if s == nil {
		return
	}

	svcs, err := s.ListServices(uuids)
	if err != nil {
		c.Println("Error:", err)
		return
	}

	var sb strings.Builder
	writeSvcList(&sb, svcs)
	c.Print(sb.String())
}

func shellFindCmd(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println(c.HelpText())
		return
	}

	handle, err := parseHandle(c.Args[0])
	if err != nil {
		c.Println("Error:", err)
		return
	}

	s := shellSesn(c)
	if s == nil {
		return
	}

	svc, err := s.FindService(handle)
	if err != nil {
		c.Println("Error:", err)
		return
	}

	if svc == nil {
		c.Printf("No service with start handle 0x%04x\n", handle)
		return
	}

	var sb strings.Builder
	writeSvcDetail(&sb, svc)
	c.Print(sb.String())
}

func shellWatchCmd(c *ishell.Context, wl *watchList, shell *ishell.Shell) {
	if len(c.Args) < 2 || len(c.Args) > 3 {
		c.Println(c.HelpText())
		return
	}

	chrId, err := parseChrId(c.Args[0], c.Args[1])
	if err != nil {
		c.Println("Error:", err)
		return
	}

	indicate := len(c.Args) == 3 && c.Args[2] == "ind"

	s := shellSesn(c)
	if s == nil {
		return
	}

	sub, err := s.Watch(chrId, indicate)
	if err != nil {
		c.Println("Error:", err)
		return
	}

	e := wl.add(chrId, sub)
	c.Printf("Watcher added: id=%d chr=%s\n", e.Id, chrId.String())

	go func() {
		for n := range sub.Listener.NotifyChan {
			shell.Printf("[%d] %s\n", e.Id, notificationString(n))
		}
	}()
}

func shellUnwatchCmd(c *ishell.Context, wl *watchList) {
	if len(c.Args) != 1 {
		c.Println(c.HelpText())
		return
	}

	id, err := strconv.Atoi(c.Args[0])
	if err != nil {
		c.Println(c.HelpText())
		return
	}

	e, ok := wl.remove(id)
	if !ok {
		c.Println("Watcher id:", id, "not found")
		return
	}

	s := shellSesn(c)
	if s == nil {
		return
	}

	if err := s.Unwatch(e.Sub); err != nil {
		c.Println("Error:", err)
		return
	}

	c.Println("Watcher removed: id:", e.Id)
}

func shellWatchersCmd(c *ishell.Context, wl *watchList) {
	for _, e := range wl.sorted() {
		c.Printf("id: %d, chr: %s, handle: 0x%04x\n",
			e.Id, e.ChrId.String(), e.Sub.ValHandle)
	}
}

func startInteractive(cmd *cobra.Command, args []string) {
	// By default, a new shell includes 'exit', 'help' and 'clear' commands.
	shell := ishell.New()
	shell.SetPrompt("> ")

	wl := newWatchList()

	shell.Println()
	shell.Println(" " + gmutil.ToolInfo.LongName + " shell mode:")
	shell.Println("	Connection profile: ", gmutil.ConnProfile)
	shell.Println()

	shell.AddCmd(&ishell.Cmd{
		Name: "list",
		Help: "List discovered services: list [svc-uuid ...]",
		Func: shellListCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "find",
		Help: "Show the service with a start handle: find <start-handle>",
		Func: shellFindCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "watch",
		Help: "Watch a characteristic: watch <svc-uuid> <chr-uuid> [ind]",
		Func: func(c *ishell.Context) {
			shellWatchCmd(c, wl, shell)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "unwatch",
		Help: "Stop watching a characteristic: unwatch <id>",
		Func: func(c *ishell.Context) {
			shellUnwatchCmd(c, wl)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "watchers",
		Help: "Print active watchers: watchers",
		Func: func(c *ishell.Context) {
			shellWatchersCmd(c, wl)
		},
	})

	shell.Run()
	shell.Close()
}

func interactiveCmd() *cobra.Command {
	shellCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Run " + gmutil.ToolInfo.ShortName + " interactive mode",
		Run:   startInteractive,
	}

	return shellCmd
}
