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

package header_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/header"
)

func TestSetImplicitConfirmIdempotent(t *testing.T) {
	h := &header.PKIHeader{}
	require.False(t, header.CheckImplicitConfirm(*h))

	header.SetImplicitConfirm(h)
	header.SetImplicitConfirm(h)

	require.True(t, header.CheckImplicitConfirm(*h))
	count := 0
	for _, itav := range h.GeneralInfo {
		if itav.Equal(header.ImplicitConfirmITAV()) {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestValidatePVNO(t *testing.T) {
	h := header.PKIHeader{PVNO: header.ProtocolVersion}
	require.NoError(t, h.Validate())

	bad := header.PKIHeader{PVNO: 1}
	require.Error(t, bad.Validate())
}

func TestDupIsIndependent(t *testing.T) {
	n := header.Nonce{1, 2, 3}
	h := header.PKIHeader{RecipNonce: &n}
	dup := h.Dup()
	dup.RecipNonce[0] = 0xFF
	require.Equal(t, byte(1), h.RecipNonce[0])
}
