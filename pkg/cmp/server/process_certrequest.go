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
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/response"
)

// processCertRequest implements spec section 4.5's process_cert_request:
// on pollCount > 0, persist the request and answer with PKIStatus
// waiting; otherwise issue (or replay the fixed CertOut) and answer with
// the matching CertRepMessage.
func processCertRequest(
	s *cmpcontext.ServerContext,
	req message.Message,
	bt message.BodyType,
	requests []message.CertRequest,
) (message.Message, error) {
	if len(requests) == 0 {
		return message.Message{}, cmperrors.New(cmperrors.CertresponseNotFound, "request carries no CertRequest")
	}

	if s.PollCount > 0 {
		s.PollCount--
		s.PendingRequests[req.Header.TransactionID] = cmpcontext.PendingRequest{
			CertReqId: requests[0].CertReqId,
			Received:  time.Now(),
		}
		return response.BuildWaiting(s, req.Header, bt)
	}

	certDER, err := issuedCert(s, requests[0])
	if err != nil {
		return message.Message{}, err
	}
	s.PendingRequests[req.Header.TransactionID] = cmpcontext.PendingRequest{
		CertReqId: requests[0].CertReqId,
		CertDER:   certDER,
		Received:  time.Now(),
	}

	prevOut := s.CertOut
	s.CertOut = certDER
	defer func() { s.CertOut = prevOut }()

	switch bt {
	case message.BodyIR:
		return response.BuildIP(s, req.Header)
	case message.BodyCR:
		return response.BuildCP(s, req.Header)
	case message.BodyKUR:
		return response.BuildKUP(s, req.Header)
	default:
		return response.BuildIP(s, req.Header)
	}
}

// processP10CR handles a PKCS#10-wrapped request the same way as
// IR/CR/KUR, responding with CP per convention for p10cr (RFC 4210
// section 5.3.4).
func processP10CR(s *cmpcontext.ServerContext, req message.Message, body message.P10CRContent) (message.Message, error) {
	if s.PollCount > 0 {
		s.PollCount--
		s.PendingRequests[req.Header.TransactionID] = cmpcontext.PendingRequest{Received: time.Now()}
		return response.BuildWaiting(s, req.Header, message.BodyCR)
	}

	certDER := s.CertOut
	if len(certDER) == 0 && s.Issuer != nil {
		issued, err := s.Issuer(body.CSRDER)
		if err != nil {
			return message.Message{}, err
		}
		certDER = issued
	}
	s.PendingRequests[req.Header.TransactionID] = cmpcontext.PendingRequest{CertDER: certDER, Received: time.Now()}

	prevOut := s.CertOut
	s.CertOut = certDER
	defer func() { s.CertOut = prevOut }()
	return response.BuildCP(s, req.Header)
}

func issuedCert(s *cmpcontext.ServerContext, cr message.CertRequest) ([]byte, error) {
	if len(s.CertOut) > 0 {
		return s.CertOut, nil
	}
	if s.Issuer != nil && len(cr.Template.PublicKeyDER) > 0 {
		return s.Issuer(cr.Template.PublicKeyDER)
	}
	return nil, cmperrors.New(cmperrors.CertificateNotFound, "no CertOut and no Issuer configured")
}
