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

package cmpcontext_test

import (
	"crypto/x509/pkix"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
)

func newTestContext() *cmpcontext.Context {
	c := cmpcontext.NewContext()
	c.Self = header.DirectoryNameOf(pkix.Name{CommonName: "client"})
	c.ExpectedServerName = header.DirectoryNameOf(pkix.Name{CommonName: "ca"})
	return c
}

func TestInitHeaderBindsIdentityAndTransaction(t *testing.T) {
	c := newTestContext()
	var hdr header.PKIHeader
	require.NoError(t, c.InitHeader(&hdr))

	require.Equal(t, header.ProtocolVersion, hdr.PVNO)
	require.True(t, hdr.Sender.Equal(c.Self))
	require.True(t, hdr.Recipient.Equal(c.ExpectedServerName))
	require.Equal(t, c.TransactionID, hdr.TransactionID)
	require.Equal(t, c.LastSenderNonce, hdr.SenderNonce)
	require.Nil(t, hdr.RecipNonce)
}

func TestInitHeaderFreshNoncePerCall(t *testing.T) {
	c := newTestContext()
	var h1, h2 header.PKIHeader
	require.NoError(t, c.InitHeader(&h1))
	require.NoError(t, c.InitHeader(&h2))

	// Same transaction, but senderNonce must never repeat.
	require.Equal(t, h1.TransactionID, h2.TransactionID)
	require.NotEqual(t, h1.SenderNonce, h2.SenderNonce)
}

func TestInitHeaderSetsImplicitConfirm(t *testing.T) {
	c := newTestContext()
	c.Options.ImplicitConfirm = true
	var hdr header.PKIHeader
	require.NoError(t, c.InitHeader(&hdr))
	require.True(t, header.CheckImplicitConfirm(hdr))
}

func TestInitHeaderDisableConfirmWins(t *testing.T) {
	c := newTestContext()
	c.Options.ImplicitConfirm = true
	c.Options.DisableConfirm = true
	var hdr header.PKIHeader
	require.NoError(t, c.InitHeader(&hdr))
	require.False(t, header.CheckImplicitConfirm(hdr))
}

func TestObserveReceivedEchoesRecipNonce(t *testing.T) {
	c := newTestContext()
	var hdr header.PKIHeader
	require.NoError(t, c.InitHeader(&hdr))

	var in header.PKIHeader
	in.SenderNonce = [16]byte{0xAA}
	c.ObserveReceived(in, 0)
	require.NotNil(t, c.LastRecipNonce)
	require.Equal(t, in.SenderNonce, *c.LastRecipNonce)

	var next header.PKIHeader
	require.NoError(t, c.InitHeader(&next))
	require.NotNil(t, next.RecipNonce)
	require.Equal(t, in.SenderNonce, *next.RecipNonce)
}

func TestInitHeaderNilArg(t *testing.T) {
	c := newTestContext()
	err := c.InitHeader(nil)
	require.Error(t, err)
}

func TestNewServerContextReady(t *testing.T) {
	s := cmpcontext.NewServerContext()
	var tx header.TransactionID
	s.PollCount = 2
	require.False(t, s.Ready(tx))
	require.False(t, s.Ready(tx))
	require.True(t, s.Ready(tx))
}
