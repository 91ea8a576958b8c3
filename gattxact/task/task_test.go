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

package task

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedQueue(t *testing.T) *TaskQueue {
	t.Helper()

	q := NewTaskQueue("test")
	require.NoError(t, q.Start(10))
	return q
}

func TestRunReturnsJobResult(t *testing.T) {
	q := startedQueue(t)
	defer q.Stop(fmt.Errorf("done"))

	assert.NoError(t, q.Run(func() error { return nil }))
	assert.EqualError(t, q.Run(func() error { return fmt.Errorf("oops") }),
		"oops")
}

func TestInactiveQueue(t *testing.T) {
	q := NewTaskQueue("test")

	assert.Equal(t, InactiveError, q.Run(func() error { return nil }))
	assert.Equal(t, InactiveError, q.Post(func() {}))
	assert.False(t, q.Active())
}

func TestStartTwice(t *testing.T) {
	q := startedQueue(t)
	defer q.Stop(fmt.Errorf("done"))

	assert.Error(t, q.Start(10))
}

func TestStopTwice(t *testing.T) {
	q := startedQueue(t)

	require.NoError(t, q.Stop(fmt.Errorf("done")))
	assert.Error(t, q.Stop(fmt.Errorf("done")))
	assert.Equal(t, InactiveError, q.Run(func() error { return nil }))
}

func TestPostOrdering(t *testing.T) {
	q := startedQueue(t)
	defer q.Stop(fmt.Errorf("done"))

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, q.Post(func() { order = append(order, i) }))
	}

	// Jobs run serially; by the time this one runs, all posts have run.
	var got []int
	require.NoError(t, q.Run(func() error {
		got = append(got, order...)
		return nil
	}))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestInTask(t *testing.T) {
	q := startedQueue(t)
	defer q.Stop(fmt.Errorf("done"))

	assert.False(t, q.InTask())

	inside := false
	require.NoError(t, q.Run(func() error {
		inside = q.InTask()
		return nil
	}))

	assert.True(t, inside)
	assert.False(t, q.InTask())
}

func TestInTaskOtherGoroutine(t *testing.T) {
	q := startedQueue(t)
	defer q.Stop(fmt.Errorf("done"))

	release := make(chan struct{})
	started := make(chan struct{})

	ch := q.Enqueue(func() error {
		close(started)
		<-release
		return nil
	})

	// The flag reports a running job, not the calling Goroutine.
	<-started
	assert.True(t, q.InTask())

	close(release)
	require.NoError(t, <-ch)
	assert.False(t, q.InTask())
}

func TestStopFailsQueuedJobs(t *testing.T) {
	q := startedQueue(t)

	release := make(chan struct{})
	started := make(chan struct{})

	first := q.Enqueue(func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	second := q.Enqueue(func() error { return nil })

	cause := fmt.Errorf("stopped")
	require.NoError(t, q.StopNoWait(cause))
	assert.Equal(t, cause, <-second)

	close(release)
	assert.NoError(t, <-first)
	assert.False(t, q.Active())
}
