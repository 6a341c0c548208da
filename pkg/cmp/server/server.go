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

// Package server implements the responder engine: per-request
// validation, body-type dispatch to a processor, and response assembly
// (spec section 4.5). It is state-free between requests except for the
// bookkeeping ServerContext.PendingRequests carries across a pollReq or
// certConf exchange.
package server

import (
	"github.com/anapaya/cmpengine/internal/cmpmetrics"
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/response"
)

// Protector verifies an inbound request's protection value against the
// responder's own trust configuration (PBM shared secret or a trusted
// client certificate).
type Protector interface {
	VerifyProtection(s *cmpcontext.ServerContext, msg message.Message) error
}

// Handle runs a single request through the full responder pipeline: a
// defensive DER round-trip, header/protection validation, fault
// injection, body-type dispatch, and response construction.
func Handle(s *cmpcontext.ServerContext, p Protector, req message.Message) (resp message.Message, err error) {
	bodyType := req.Body.BodyType().String()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		cmpmetrics.ObserveRequest(bodyType, outcome)
	}()

	if s == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "server context is nil")
	}

	req, err = roundtripDefensive(req)
	if err != nil {
		return message.Message{}, err
	}

	if err := validateInbound(s, p, req); err != nil {
		return message.Message{}, err
	}

	if s.SendError {
		return response.BuildError(s, req.Header, "unconditional fault injection")
	}

	switch body := req.Body.(type) {
	case message.IRContent:
		return processCertRequest(s, req, message.BodyIR, body.Requests)
	case message.CRContent:
		return processCertRequest(s, req, message.BodyCR, body.Requests)
	case message.KURContent:
		return processCertRequest(s, req, message.BodyKUR, body.Requests)
	case message.P10CRContent:
		return processP10CR(s, req, body)
	case message.POLLREQContent:
		return processPollReq(s, req, body)
	case message.RRContent:
		return processRR(s, req, body)
	case message.ERRORContent:
		return processError(s, req)
	case message.CERTCONFContent:
		return processCertConf(s, req, body)
	case message.GENMContent:
		return processGENM(s, req, body)
	default:
		return message.Message{}, cmperrors.New(cmperrors.UnexpectedPKIBody, "unsupported request body",
			"got", req.Body.BodyType().String())
	}
}

// roundtripDefensive re-encodes and re-decodes req so a malformed or
// inconsistent in-memory Message never reaches a processor.
func roundtripDefensive(req message.Message) (message.Message, error) {
	out, err := message.Roundtrip(req)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "defensive roundtrip", err)
	}
	return out, nil
}

// validateInbound mirrors spec section 4.2's checks from the
// responder's side: sender GeneralName kind and the unprotected-
// exception rule (AcceptUnprotected / AcceptRAVerified).
func validateInbound(s *cmpcontext.ServerContext, p Protector, req message.Message) error {
	if req.Header.Sender.Kind != header.DirectoryName {
		return cmperrors.New(cmperrors.SenderGeneralNameTypeNotSupported,
			"sender GeneralName kind not supported", "kind", req.Header.Sender.Kind)
	}
	exempt := s.AcceptUnprotected || s.AcceptRAVerified
	if !req.Protected() {
		if !exempt {
			return cmperrors.New(cmperrors.ErrorValidatingProtection, "request is not protected")
		}
		return nil
	}
	if p == nil {
		return nil
	}
	if err := p.VerifyProtection(s, req); err != nil {
		return cmperrors.Wrap(cmperrors.ErrorValidatingProtection, "protection verification failed", err)
	}
	return nil
}
