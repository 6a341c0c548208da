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

package response

import (
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

// certResponse builds the single CertResponse a CertRepMessage carries
// in this engine, using s's fixed outputs.
func certResponse(s *cmpcontext.ServerContext, info status.Info) message.CertResponse {
	return message.CertResponse{
		CertReqId: 0,
		Status:    info,
		CertDER:   s.CertOut,
	}
}

func statusOrDefault(s *cmpcontext.ServerContext) status.Info {
	if s.PKIStatusOut != nil {
		return *s.PKIStatusOut
	}
	return status.Info{Status: status.Accepted}
}

// BuildIP builds an IP response to an IR, in reply to req, using s's
// fixed CertOut/CAPubs/PKIStatusOut (spec section 4.5
// process_cert_request's non-polling branch).
func BuildIP(s *cmpcontext.ServerContext, req header.PKIHeader) (message.Message, error) {
	return buildCertRep(s, req, message.BodyIP, func(cr message.CertResponse) message.Body {
		return message.IPContent{CAPubs: s.CAPubs, Responses: []message.CertResponse{cr}}
	})
}

// BuildCP builds a CP response to a CR.
func BuildCP(s *cmpcontext.ServerContext, req header.PKIHeader) (message.Message, error) {
	return buildCertRep(s, req, message.BodyCP, func(cr message.CertResponse) message.Body {
		return message.CPContent{CAPubs: s.CAPubs, Responses: []message.CertResponse{cr}}
	})
}

// BuildKUP builds a KUP response to a KUR.
func BuildKUP(s *cmpcontext.ServerContext, req header.PKIHeader) (message.Message, error) {
	return buildCertRep(s, req, message.BodyKUP, func(cr message.CertResponse) message.Body {
		return message.KUPContent{CAPubs: s.CAPubs, Responses: []message.CertResponse{cr}}
	})
}

func buildCertRep(
	s *cmpcontext.ServerContext,
	req header.PKIHeader,
	bt message.BodyType,
	wrap func(message.CertResponse) message.Body,
) (message.Message, error) {
	if s == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "server context is nil")
	}
	hdr, err := mirrorHeader(s, req)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingCertRep, "mirror header", err)
	}
	if header.CheckImplicitConfirm(req) && s.GrantImplicitConfirm {
		header.SetImplicitConfirm(&hdr)
	}
	cr := certResponse(s, statusOrDefault(s))
	return message.Message{Header: hdr, Body: wrap(cr)}, nil
}

// BuildWaiting builds a CertRepMessage whose sole response carries
// PKIStatus waiting, used when s.PollCount > 0 (spec section 4.5
// process_cert_request's polling branch).
func BuildWaiting(s *cmpcontext.ServerContext, req header.PKIHeader, bt message.BodyType) (message.Message, error) {
	if s == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "server context is nil")
	}
	hdr, err := mirrorHeader(s, req)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingCertRep, "mirror header", err)
	}
	cr := message.CertResponse{CertReqId: 0, Status: status.Info{Status: status.Waiting}}
	var body message.Body
	switch bt {
	case message.BodyIR:
		body = message.IPContent{Responses: []message.CertResponse{cr}}
	case message.BodyCR:
		body = message.CPContent{Responses: []message.CertResponse{cr}}
	case message.BodyKUR:
		body = message.KUPContent{Responses: []message.CertResponse{cr}}
	default:
		body = message.IPContent{Responses: []message.CertResponse{cr}}
	}
	return message.Message{Header: hdr, Body: body}, nil
}
