// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmptracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/internal/cmptracing"
)

func TestSetupAndCtxWith(t *testing.T) {
	closer, err := cmptracing.Setup("cmpengine-test", "")
	require.NoError(t, err)
	defer closer.Close()

	span, ctx := cmptracing.CtxWith(context.Background(), "enroll")
	require.NotNil(t, span)
	require.NotNil(t, ctx)
	span.Finish()
}
