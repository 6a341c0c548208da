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
	"crypto/x509"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/response"
)

// processRR implements spec section 4.5's process_rr: the revocation
// target must name the issuer and serial of s.CertOut, the certificate
// this responder is scripted to consider "the" subject certificate.
func processRR(s *cmpcontext.ServerContext, req message.Message, body message.RRContent) (message.Message, error) {
	if len(body.Details) == 0 {
		return message.Message{}, cmperrors.New(cmperrors.CertIDNotFound, "rr carries no revocation details")
	}
	target := body.Details[0].CertID

	if len(s.CertOut) > 0 {
		cert, err := x509.ParseCertificate(s.CertOut)
		if err != nil {
			return message.Message{}, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "parse certOut", err)
		}
		if target.Issuer != cert.Issuer.String() || target.Serial == nil || target.Serial.Cmp(cert.SerialNumber) != 0 {
			return message.Message{}, cmperrors.New(cmperrors.RequestNotAccepted,
				"revocation target does not match certOut")
		}
	}

	return response.BuildRP(s, req.Header, target)
}
