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

package server

import (
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/response"
)

// processPollReq implements spec section 4.5's process_pollReq: while
// pollCount is still above zero, decrement and answer with another
// PollRep; once exhausted, answer with the pending request's real
// CertRepMessage.
func processPollReq(s *cmpcontext.ServerContext, req message.Message, body message.POLLREQContent) (message.Message, error) {
	pending, ok := s.PendingRequests[req.Header.TransactionID]
	if !ok {
		return message.Message{}, cmperrors.New(cmperrors.CertresponseNotFound,
			"no pending request for transaction", "certReqId", body.CertReqId)
	}

	if s.PollCount > 0 {
		s.PollCount--
		return response.BuildPollRep(s, req.Header, body.CertReqId)
	}

	certDER := pending.CertDER
	if len(certDER) == 0 {
		var err error
		certDER, err = issuedCert(s, message.CertRequest{CertReqId: pending.CertReqId})
		if err != nil {
			return message.Message{}, err
		}
	}
	pending.CertDER = certDER
	s.PendingRequests[req.Header.TransactionID] = pending

	prevOut := s.CertOut
	s.CertOut = certDER
	defer func() { s.CertOut = prevOut }()
	return response.BuildIP(s, req.Header)
}
