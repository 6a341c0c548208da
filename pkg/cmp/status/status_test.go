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

package status_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

func TestFailInfoNoBitAbove26(t *testing.T) {
	f := status.DuplicateCertReq
	require.True(t, status.ValidBits(f))
	require.False(t, status.ValidBits(f<<1))
}

func TestFailInfoNames(t *testing.T) {
	f := status.BadAlg.Set(status.SignerNotTrusted)
	require.Equal(t, []string{"badAlg", "signerNotTrusted"}, f.Names())
}

func TestStatusFailInfoExclusivity(t *testing.T) {
	cases := []struct {
		name    string
		info    status.Info
		wantErr bool
	}{
		{"accepted with no failinfo", status.Info{Status: status.Accepted}, false},
		{"accepted with failinfo", status.Info{Status: status.Accepted, FailInfo: status.BadAlg}, true},
		{"grantedWithMods with failinfo", status.Info{Status: status.GrantedWithMods, FailInfo: status.BadAlg}, true},
		{"rejection with failinfo", status.Info{Status: status.Rejection, FailInfo: status.SignerNotTrusted}, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			err := c.info.Validate()
			if c.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRenderIncludesStatusFailInfoAndText(t *testing.T) {
	info := status.Info{
		Status:       status.Rejection,
		FailInfo:     status.SignerNotTrusted,
		StatusString: []string{"not in trust store"},
	}
	got := status.Render(info)
	require.Contains(t, got, "rejection")
	require.Contains(t, got, "signerNotTrusted")
	require.Contains(t, got, "not in trust store")
}

func TestAppendAccumulatesFreeText(t *testing.T) {
	info := status.Info{Status: status.Waiting}
	info.Append("first")
	info.Append("second")
	require.Equal(t, []string{"first", "second"}, info.StatusString)
}
