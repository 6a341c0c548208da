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

package response_test

import (
	"crypto/x509/pkix"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/response"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

func requestHeader() header.PKIHeader {
	var tid header.TransactionID
	copy(tid[:], []byte("tttttttttttttttt"))
	var sn header.Nonce
	copy(sn[:], []byte("ssssssssssssssss"))
	return header.PKIHeader{
		PVNO:          header.ProtocolVersion,
		Sender:        header.DirectoryNameOf(pkix.Name{CommonName: "client"}),
		Recipient:     header.DirectoryNameOf(pkix.Name{CommonName: "ca"}),
		TransactionID: tid,
		SenderNonce:   sn,
	}
}

func newServerCtx() *cmpcontext.ServerContext {
	s := cmpcontext.NewServerContext()
	s.Self = header.DirectoryNameOf(pkix.Name{CommonName: "ca"})
	s.CertOut = []byte{0xAA, 0xBB}
	return s
}

func TestBuildIPMirrorsHeader(t *testing.T) {
	s := newServerCtx()
	req := requestHeader()
	m, err := response.BuildIP(s, req)
	require.NoError(t, err)
	require.Equal(t, req.TransactionID, m.Header.TransactionID)
	require.NotNil(t, m.Header.RecipNonce)
	require.Equal(t, req.SenderNonce, *m.Header.RecipNonce)
	require.True(t, m.Header.Recipient.Equal(req.Sender))

	ip, ok := m.Body.(message.IPContent)
	require.True(t, ok)
	require.Equal(t, []byte{0xAA, 0xBB}, ip.Responses[0].CertDER)
	require.Equal(t, status.Accepted, ip.Responses[0].Status.Status)
}

func TestBuildIPGrantsImplicitConfirm(t *testing.T) {
	s := newServerCtx()
	s.GrantImplicitConfirm = true
	req := requestHeader()
	header.SetImplicitConfirm(&req)
	m, err := response.BuildIP(s, req)
	require.NoError(t, err)
	require.True(t, header.CheckImplicitConfirm(m.Header))
}

func TestBuildWaiting(t *testing.T) {
	s := newServerCtx()
	req := requestHeader()
	m, err := response.BuildWaiting(s, req, message.BodyIR)
	require.NoError(t, err)
	ip, ok := m.Body.(message.IPContent)
	require.True(t, ok)
	require.Equal(t, status.Waiting, ip.Responses[0].Status.Status)
}

func TestBuildRP(t *testing.T) {
	s := newServerCtx()
	req := requestHeader()
	id := message.CertID{Issuer: "CN=ca"}
	m, err := response.BuildRP(s, req, id)
	require.NoError(t, err)
	rp, ok := m.Body.(message.RPContent)
	require.True(t, ok)
	require.Equal(t, id, rp.RevCerts[0])
}

func TestBuildPKIConf(t *testing.T) {
	s := newServerCtx()
	m, err := response.BuildPKIConf(s, requestHeader())
	require.NoError(t, err)
	_, ok := m.Body.(message.PKICONFContent)
	require.True(t, ok)
}

func TestBuildPollRep(t *testing.T) {
	s := newServerCtx()
	s.CheckAfter = 30 * time.Second
	m, err := response.BuildPollRep(s, requestHeader(), 0)
	require.NoError(t, err)
	pr, ok := m.Body.(message.POLLREPContent)
	require.True(t, ok)
	require.Equal(t, 30, pr.CheckAfter)
}

func TestBuildGENP(t *testing.T) {
	s := newServerCtx()
	itavs := []header.ITAV{header.ImplicitConfirmITAV()}
	m, err := response.BuildGENP(s, requestHeader(), itavs)
	require.NoError(t, err)
	genp, ok := m.Body.(message.GENPContent)
	require.True(t, ok)
	require.Len(t, genp.ITAVs, 1)
}

func TestBuildErrorResponse(t *testing.T) {
	s := newServerCtx()
	s.PKIStatusOut = &status.Info{Status: status.Rejection, FailInfo: status.BadRequest}
	m, err := response.BuildError(s, requestHeader(), "nope")
	require.NoError(t, err)
	e, ok := m.Body.(message.ERRORContent)
	require.True(t, ok)
	require.Equal(t, status.Rejection, e.PKIStatusInfo.Status)
}
