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

package message_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

func sampleHeader() header.PKIHeader {
	now := time.Unix(1700000000, 0).UTC()
	var recip header.Nonce
	copy(recip[:], []byte("rrrrrrrrrrrrrrrr"))
	var tid header.TransactionID
	copy(tid[:], []byte("tttttttttttttttt"))
	var sn header.Nonce
	copy(sn[:], []byte("ssssssssssssssss"))
	return header.PKIHeader{
		PVNO:          header.ProtocolVersion,
		Sender:        header.NullDN,
		Recipient:     header.NullDN,
		MessageTime:   &now,
		TransactionID: tid,
		SenderNonce:   sn,
		RecipNonce:    &recip,
		GeneralInfo:   []header.ITAV{header.ImplicitConfirmITAV()},
	}
}

func TestRoundtripIR(t *testing.T) {
	m := message.Message{
		Header: sampleHeader(),
		Body: message.IRContent{Requests: []message.CertRequest{
			{CertReqId: 0, Template: message.CertTemplate{Subject: "CN=client"}},
		}},
		ExtraCerts: [][]byte{{0x01, 0x02}},
	}
	out, err := message.Roundtrip(m)
	require.NoError(t, err)
	require.Equal(t, m.Header.TransactionID, out.Header.TransactionID)
	require.Equal(t, m.Header.SenderNonce, out.Header.SenderNonce)
	require.True(t, header.CheckImplicitConfirm(out.Header))
	ir, ok := out.Body.(message.IRContent)
	require.True(t, ok)
	require.Len(t, ir.Requests, 1)
	require.Equal(t, "CN=client", ir.Requests[0].Template.Subject)
}

// TestRoundtripHeaderFullEquality diffs every exported header field at
// once, catching a field the per-field assertions above don't name.
func TestRoundtripHeaderFullEquality(t *testing.T) {
	m := message.Message{Header: sampleHeader(), Body: message.PKICONFContent{}}
	out, err := message.Roundtrip(m)
	require.NoError(t, err)
	if diff := cmp.Diff(m.Header, out.Header); diff != "" {
		t.Fatalf("header changed across DER roundtrip (-want +got):\n%s", diff)
	}
}

func TestRoundtripIP(t *testing.T) {
	m := message.Message{
		Header: sampleHeader(),
		Body: message.IPContent{
			CAPubs: [][]byte{{0x01}, {0x02}},
			Responses: []message.CertResponse{
				{CertReqId: 0, Status: status.Info{Status: status.Accepted}, CertDER: []byte{0xAA}},
			},
		},
	}
	out, err := message.Roundtrip(m)
	require.NoError(t, err)
	ip, ok := out.Body.(message.IPContent)
	require.True(t, ok)
	require.Equal(t, [][]byte{{0x01}, {0x02}}, ip.CAPubs)
	require.Equal(t, status.Accepted, ip.Responses[0].Status.Status)
	require.Equal(t, []byte{0xAA}, ip.Responses[0].CertDER)
}

func TestRoundtripError(t *testing.T) {
	code := 42
	m := message.Message{
		Header: sampleHeader(),
		Body: message.ERRORContent{
			PKIStatusInfo: status.Info{Status: status.Rejection, FailInfo: status.SignerNotTrusted},
			ErrorCode:     &code,
			ErrorDetails:  []string{"not trusted"},
		},
	}
	out, err := message.Roundtrip(m)
	require.NoError(t, err)
	e, ok := out.Body.(message.ERRORContent)
	require.True(t, ok)
	require.Equal(t, status.Rejection, e.PKIStatusInfo.Status)
	require.Equal(t, status.SignerNotTrusted, e.PKIStatusInfo.FailInfo)
	require.NotNil(t, e.ErrorCode)
	require.Equal(t, 42, *e.ErrorCode)
}

func TestMessageDupIndependent(t *testing.T) {
	m := message.Message{Header: sampleHeader(), Body: message.PKICONFContent{}, Protection: []byte{0x01}}
	dup := m.Dup()
	dup.Protection[0] = 0xFF
	require.Equal(t, byte(0x01), m.Protection[0])
}
