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

package cmplog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/internal/cmplog"
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
)

func TestSetupDefaultLevel(t *testing.T) {
	logger, err := cmplog.Setup(cmplog.Config{})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := cmplog.Setup(cmplog.Config{Level: "not-a-level"})
	require.Error(t, err)
}

// TestLoggerSatisfiesCmpcontextInterface is a compile-time check that *zap.SugaredLogger
// (as returned by Setup/Nop) satisfies cmpcontext.Logger without an
// adapter.
func TestLoggerSatisfiesCmpcontextInterface(t *testing.T) {
	var _ cmpcontext.Logger = cmplog.Nop()
}
