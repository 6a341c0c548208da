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

package client_test

import (
	"context"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/client"
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

type okProtector struct{}

func (okProtector) VerifyProtection(*cmpcontext.Context, message.Message) error { return nil }

func newCtx() *cmpcontext.Context {
	c := cmpcontext.NewContext()
	c.Self = header.DirectoryNameOf(pkix.Name{CommonName: "client"})
	c.ExpectedServerName = header.DirectoryNameOf(pkix.Name{CommonName: "ca"})
	c.Template.Subject = "CN=client"
	return c
}

// reply builds a protected response mirroring req's transactionID and
// echoing its senderNonce into recipNonce, the shape every stub
// transfer in this file returns.
func reply(req message.Message, body message.Body) message.Message {
	hdr := req.Header
	hdr.Sender, hdr.Recipient = req.Header.Recipient, req.Header.Sender
	n := req.Header.SenderNonce
	hdr.RecipNonce = &n
	hdr.SenderNonce = [16]byte{0x99}
	return message.Message{Header: hdr, Body: body, Protection: []byte{0x01}}
}

func TestEnrollDirectIssuance(t *testing.T) {
	c := newCtx()
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		return reply(req, message.IPContent{
			CAPubs:    [][]byte{{0x01}},
			Responses: []message.CertResponse{{CertReqId: 0, Status: status.Info{Status: status.Accepted}, CertDER: []byte{0xAA}}},
		}), nil
	}
	c.Options.DisableConfirm = true

	err := client.Enroll(context.Background(), c, okProtector{}, client.KindIR, []byte{0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA}, c.NewCert)
	require.Equal(t, [][]byte{{0x01}}, c.CAPubs)
}

func TestEnrollWithCertConf(t *testing.T) {
	c := newCtx()
	confSent := false
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		switch req.Body.BodyType() {
		case message.BodyIR:
			return reply(req, message.IPContent{
				Responses: []message.CertResponse{{CertReqId: 0, Status: status.Info{Status: status.Accepted}, CertDER: []byte{0xAA}}},
			}), nil
		case message.BodyCERTCONF:
			confSent = true
			return reply(req, message.PKICONFContent{}), nil
		default:
			t.Fatalf("unexpected body type %v", req.Body.BodyType())
			return message.Message{}, nil
		}
	}

	err := client.Enroll(context.Background(), c, okProtector{}, client.KindIR, []byte{0x01})
	require.NoError(t, err)
	require.True(t, confSent)
}

func TestEnrollPolling(t *testing.T) {
	c := newCtx()
	c.Options.DisableConfirm = true
	c.Options.TotalTimeout = 100 * time.Second
	polls := 0
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		switch req.Body.BodyType() {
		case message.BodyIR:
			return reply(req, message.IPContent{
				Responses: []message.CertResponse{{CertReqId: 0, Status: status.Info{Status: status.Waiting}}},
			}), nil
		case message.BodyPOLLREQ:
			polls++
			if polls < 2 {
				return reply(req, message.POLLREPContent{CertReqId: 0, CheckAfter: 0}), nil
			}
			return reply(req, message.IPContent{
				Responses: []message.CertResponse{{CertReqId: 0, Status: status.Info{Status: status.Accepted}, CertDER: []byte{0xBB}}},
			}), nil
		default:
			t.Fatalf("unexpected body type %v", req.Body.BodyType())
			return message.Message{}, nil
		}
	}

	err := client.Enroll(context.Background(), c, okProtector{}, client.KindIR, []byte{0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{0xBB}, c.NewCert)
	require.Equal(t, 2, polls)
}

func TestEnrollPollingTotalTimeoutExceeded(t *testing.T) {
	c := newCtx()
	c.Options.DisableConfirm = true
	c.Options.TotalTimeout = 5 * time.Second
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		switch req.Body.BodyType() {
		case message.BodyIR:
			return reply(req, message.IPContent{
				Responses: []message.CertResponse{{CertReqId: 0, Status: status.Info{Status: status.Waiting}}},
			}), nil
		case message.BodyPOLLREQ:
			return reply(req, message.POLLREPContent{CertReqId: 0, CheckAfter: 10}), nil
		default:
			t.Fatalf("unexpected body type %v", req.Body.BodyType())
			return message.Message{}, nil
		}
	}

	err := client.Enroll(context.Background(), c, okProtector{}, client.KindIR, []byte{0x01})
	require.Error(t, err)
}

func TestEnrollRejectedStatus(t *testing.T) {
	c := newCtx()
	c.Options.DisableConfirm = true
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		return reply(req, message.IPContent{
			Responses: []message.CertResponse{{CertReqId: 0, Status: status.Info{Status: status.Rejection}}},
		}), nil
	}
	err := client.Enroll(context.Background(), c, okProtector{}, client.KindIR, []byte{0x01})
	require.Error(t, err)
}

func TestEnrollKURRequiresOldCert(t *testing.T) {
	c := newCtx()
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		t.Fatal("transfer should not be called")
		return message.Message{}, nil
	}
	err := client.Enroll(context.Background(), c, okProtector{}, client.KindKUR, nil)
	require.Error(t, err)
}

func TestRRRejectedIsNotAnError(t *testing.T) {
	c := newCtx()
	c.Template.OldCert = &x509.Certificate{Issuer: pkix.Name{CommonName: "ca"}, SerialNumber: big.NewInt(7)}
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		return reply(req, message.RPContent{Status: []status.Info{{Status: status.Rejection}}}), nil
	}
	result, err := client.RR(context.Background(), c, okProtector{})
	require.NoError(t, err)
	require.Equal(t, client.RRRejected, result)
}

func TestRRAccepted(t *testing.T) {
	c := newCtx()
	c.Template.OldCert = &x509.Certificate{Issuer: pkix.Name{CommonName: "ca"}, SerialNumber: big.NewInt(7)}
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		return reply(req, message.RPContent{Status: []status.Info{{Status: status.Accepted}}}), nil
	}
	result, err := client.RR(context.Background(), c, okProtector{})
	require.NoError(t, err)
	require.Equal(t, client.RRAccepted, result)
}

func TestRRUnexpectedStatusIsError(t *testing.T) {
	c := newCtx()
	c.Template.OldCert = &x509.Certificate{Issuer: pkix.Name{CommonName: "ca"}, SerialNumber: big.NewInt(7)}
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		return reply(req, message.RPContent{Status: []status.Info{{Status: status.Waiting}}}), nil
	}
	_, err := client.RR(context.Background(), c, okProtector{})
	require.Error(t, err)
}

func TestGENMEchoesITAVs(t *testing.T) {
	c := newCtx()
	itav := header.ImplicitConfirmITAV()
	c.Transfer = func(ctx context.Context, req message.Message) (message.Message, error) {
		genm, ok := req.Body.(message.GENMContent)
		require.True(t, ok)
		return reply(req, message.GENPContent{ITAVs: genm.ITAVs}), nil
	}
	out, err := client.GENM(context.Background(), c, okProtector{}, []header.ITAV{itav})
	require.NoError(t, err)
	require.Len(t, out, 1)
}
