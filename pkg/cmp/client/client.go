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

package client

import (
	"context"
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/request"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
	"github.com/anapaya/cmpengine/pkg/cmp/verify"
)

// sleep is the wait pollLoop performs between polling rounds.
var sleep = time.Sleep

// exchange sends req over c.Transfer and validates the reply against c.
// An ERROR body is reported as an error carrying its PKIStatusInfo, per
// spec section 4.4 ("else if response.body is ERROR: record and fail").
func exchange(ctx context.Context, c *cmpcontext.Context, p verify.Protector, req message.Message) (message.Message, error) {
	resp, err := c.Transfer(ctx, req)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.FailedToReceivePKIMessage, "transfer", err)
	}
	if err := verify.ValidateReceived(c, p, resp); err != nil {
		return message.Message{}, err
	}
	if e, ok := resp.Body.(message.ERRORContent); ok {
		return message.Message{}, cmperrors.New(cmperrors.PkibodyError, "server returned error",
			"status", e.PKIStatusInfo.Status.String(), "failInfo", e.PKIStatusInfo.FailInfo.String())
	}
	return resp, nil
}

// firstCertResponse extracts the sole CertResponse a CertRepMessage
// (IP/CP/KUP) carries in this engine.
func firstCertResponse(m message.Message) (message.CertResponse, status.Info, error) {
	var responses []message.CertResponse
	switch b := m.Body.(type) {
	case message.IPContent:
		responses = b.Responses
	case message.CPContent:
		responses = b.Responses
	case message.KUPContent:
		responses = b.Responses
	default:
		return message.CertResponse{}, status.Info{}, cmperrors.New(cmperrors.UnexpectedPKIBody,
			"expected a cert-response body", "got", m.Body.BodyType().String())
	}
	if len(responses) == 0 {
		return message.CertResponse{}, status.Info{}, cmperrors.New(cmperrors.CertresponseNotFound,
			"cert-response body carries no CertResponse")
	}
	return responses[0], responses[0].Status, nil
}

func capubsOf(m message.Message) [][]byte {
	switch b := m.Body.(type) {
	case message.IPContent:
		return b.CAPubs
	case message.CPContent:
		return b.CAPubs
	case message.KUPContent:
		return b.CAPubs
	default:
		return nil
	}
}

// pollLoop drives the polling submode (spec section 4.4): send
// PollReq(certReqId), and on PollRep sleep checkAfter and repeat,
// enforcing that the running sum of checkAfter values never exceeds
// c.Options.TotalTimeout. It returns once a terminal cert-response
// arrives.
func pollLoop(
	ctx context.Context,
	c *cmpcontext.Context,
	p verify.Protector,
	certReqId int,
) (message.Message, message.CertResponse, status.Info, error) {
	var elapsed time.Duration
	for {
		req, err := request.BuildPollReq(c, certReqId)
		if err != nil {
			return message.Message{}, message.CertResponse{}, status.Info{}, err
		}
		resp, err := exchange(ctx, c, p, req)
		if err != nil {
			return message.Message{}, message.CertResponse{}, status.Info{}, err
		}
		if pr, ok := resp.Body.(message.POLLREPContent); ok {
			wait := time.Duration(pr.CheckAfter) * time.Second
			elapsed += wait
			if c.Options.TotalTimeout > 0 && elapsed > c.Options.TotalTimeout {
				return message.Message{}, message.CertResponse{}, status.Info{},
					cmperrors.New(cmperrors.TotalTimeoutExceeded, "polling budget exhausted",
						"elapsed", elapsed.String(), "budget", c.Options.TotalTimeout.String())
			}
			sleep(wait)
			continue
		}
		cr, info, err := firstCertResponse(resp)
		if err != nil {
			return message.Message{}, message.CertResponse{}, status.Info{}, err
		}
		if info.Status == status.Waiting {
			continue
		}
		return resp, cr, info, nil
	}
}

// confirmCert builds and sends certConf for certDER, then expects and
// validates PKIConf (spec section 4.4's "exchange_certConf"). If
// c.OnCertConf is set, it is given a chance to reject the certificate
// before certConf is sent.
func confirmCert(ctx context.Context, c *cmpcontext.Context, p verify.Protector, certDER []byte, info status.Info) error {
	if c.OnCertConf != nil {
		if err := c.OnCertConf(certDER); err != nil {
			return err
		}
	}
	req, err := request.BuildCertConf(c, certDER, info)
	if err != nil {
		return err
	}
	resp, err := exchange(ctx, c, p, req)
	if err != nil {
		return err
	}
	if _, ok := resp.Body.(message.PKICONFContent); !ok {
		return cmperrors.New(cmperrors.UnexpectedPKIBody, "expected pkiConf",
			"got", resp.Body.BodyType().String())
	}
	return nil
}
