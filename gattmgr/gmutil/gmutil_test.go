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

package gmutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorCausedBy(t *testing.T) {
	wrapped := errors.Wrap(errors.WithMessage(context.DeadlineExceeded,
		"scan"), "connect failed")

	assert.True(t, ErrorCausedBy(wrapped, context.DeadlineExceeded))
	assert.True(t, ErrorCausedBy(context.Canceled, context.Canceled))
	assert.False(t, ErrorCausedBy(wrapped, context.Canceled))
	assert.False(t, ErrorCausedBy(fmt.Errorf("other"), context.Canceled))
}

func TestTimeoutDuration(t *testing.T) {
	old := Timeout
	defer func() { Timeout = old }()

	Timeout = 1.5
	assert.Equal(t, "1.5s", TimeoutDuration().String())
}
