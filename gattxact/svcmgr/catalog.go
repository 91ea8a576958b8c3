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
	"fmt"

	"github.com/google/btree"
)

type catalogEntry struct {
	handle uint16
	svc    Service
}

func catalogLess(a catalogEntry, b catalogEntry) bool {
	return a.handle < b.handle
}

// Maps service start handles to service records, ordered by handle.  The
// ordering allows a notification's value handle to be resolved to the service
// whose range precedes it.
type catalog struct {
	tree *btree.BTreeG[catalogEntry]
}

func newCatalog() catalog {
	return catalog{
		tree: btree.NewG(8, catalogLess),
	}
}

func (c *catalog) len() int {
	return c.tree.Len()
}

func (c *catalog) has(handle uint16) bool {
	return c.tree.Has(catalogEntry{handle: handle})
}

func (c *catalog) add(handle uint16, svc Service) error {
	if c.has(handle) {
		return fmt.Errorf("Service with duplicate start handle: 0x%04x",
			handle)
	}

	c.tree.ReplaceOrInsert(catalogEntry{handle: handle, svc: svc})
	return nil
}

func (c *catalog) find(handle uint16) Service {
	e, ok := c.tree.Get(catalogEntry{handle: handle})
	if !ok {
		return nil
	}

	return e.svc
}

// Retrieves the service with the greatest start handle that is less than or
// equal to the specified handle.
func (c *catalog) floor(handle uint16) Service {
	var svc Service

	c.tree.DescendLessOrEqual(catalogEntry{handle: handle},
		func(e catalogEntry) bool {
			svc = e.svc
			return false
		})

	return svc
}

// Lists every service in handle order.
func (c *catalog) services() []Service {
	svcs := make([]Service, 0, c.tree.Len())
	c.tree.Ascend(func(e catalogEntry) bool {
		svcs = append(svcs, e.svc)
		return true
	})

	return svcs
}

// Empties the catalog and returns the removed services in handle order.
func (c *catalog) drain() []Service {
	svcs := c.services()
	c.tree.Clear(false)
	return svcs
}
