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

package request_test

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/request"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

func newCtx() *cmpcontext.Context {
	c := cmpcontext.NewContext()
	c.Self = header.DirectoryNameOf(pkix.Name{CommonName: "client"})
	c.ExpectedServerName = header.DirectoryNameOf(pkix.Name{CommonName: "ca"})
	c.Template.Subject = "CN=client"
	return c
}

func TestBuildIR(t *testing.T) {
	c := newCtx()
	m, err := request.BuildIR(c, []byte{0x01})
	require.NoError(t, err)
	ir, ok := m.Body.(message.IRContent)
	require.True(t, ok)
	require.Len(t, ir.Requests, 1)
	require.Equal(t, "CN=client", ir.Requests[0].Template.Subject)
	require.Equal(t, message.BodyIR, c.LastSentBody)
}

func TestBuildKURRequiresOldCert(t *testing.T) {
	c := newCtx()
	_, err := request.BuildKUR(c, []byte{0x01})
	require.Error(t, err)
}

func TestBuildKUR(t *testing.T) {
	c := newCtx()
	c.Template.OldCert = &x509.Certificate{Subject: pkix.Name{CommonName: "old"}, Issuer: pkix.Name{CommonName: "ca"}}
	m, err := request.BuildKUR(c, []byte{0x01})
	require.NoError(t, err)
	kur, ok := m.Body.(message.KURContent)
	require.True(t, ok)
	require.Equal(t, "CN=client", kur.Requests[0].Template.Subject)
}

func TestBuildP10CRRequiresCSR(t *testing.T) {
	c := newCtx()
	_, err := request.BuildP10CR(c)
	require.Error(t, err)

	c.Template.CSRDER = []byte{0xDE, 0xAD}
	m, err := request.BuildP10CR(c)
	require.NoError(t, err)
	p10, ok := m.Body.(message.P10CRContent)
	require.True(t, ok)
	require.Equal(t, []byte{0xDE, 0xAD}, p10.CSRDER)
}

func TestBuildRR(t *testing.T) {
	c := newCtx()
	c.Template.OldCert = &x509.Certificate{
		Issuer:       pkix.Name{CommonName: "ca"},
		SerialNumber: big.NewInt(42),
	}
	c.Options.RevocationReason = 1
	m, err := request.BuildRR(c)
	require.NoError(t, err)
	rr, ok := m.Body.(message.RRContent)
	require.True(t, ok)
	require.Equal(t, big.NewInt(42), rr.Details[0].CertID.Serial)
	require.Equal(t, 1, rr.Details[0].Reason)
}

func TestBuildGENM(t *testing.T) {
	c := newCtx()
	itavs := []header.ITAV{header.ImplicitConfirmITAV()}
	m, err := request.BuildGENM(c, itavs)
	require.NoError(t, err)
	genm, ok := m.Body.(message.GENMContent)
	require.True(t, ok)
	require.Len(t, genm.ITAVs, 1)
}

func TestBuildCertConf(t *testing.T) {
	c := newCtx()
	m, err := request.BuildCertConf(c, []byte{0x01, 0x02, 0x03}, status.Info{Status: status.Accepted})
	require.NoError(t, err)
	cc, ok := m.Body.(message.CERTCONFContent)
	require.True(t, ok)
	require.Len(t, cc.Confirmations[0].CertHash, 32) // sha256
}

func TestBuildPollReq(t *testing.T) {
	c := newCtx()
	m, err := request.BuildPollReq(c, 0)
	require.NoError(t, err)
	pr, ok := m.Body.(message.POLLREQContent)
	require.True(t, ok)
	require.Equal(t, 0, pr.CertReqId)
}

func TestBuildError(t *testing.T) {
	c := newCtx()
	m, err := request.BuildError(c, status.Info{Status: status.Rejection}, "bad thing")
	require.NoError(t, err)
	ec, ok := m.Body.(message.ERRORContent)
	require.True(t, ok)
	require.Equal(t, status.Rejection, ec.PKIStatusInfo.Status)
	require.Equal(t, []string{"bad thing"}, ec.ErrorDetails)
}
