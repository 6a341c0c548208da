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

package request

import (
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
)

// BuildRR builds a Revocation Request for c.Template.OldCert, using
// c.Options.RevocationReason as the CRLReason value.
func BuildRR(c *cmpcontext.Context) (message.Message, error) {
	if c == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if c.Template.OldCert == nil {
		return message.Message{}, cmperrors.New(cmperrors.ErrorCreatingRR, "oldCert is required for rr")
	}
	hdr, err := newHeader(c)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingRR, "init header", err)
	}
	c.LastSentBody = message.BodyRR
	return message.Message{
		Header: hdr,
		Body: message.RRContent{Details: []message.RevDetails{{
			CertID: message.CertID{
				Issuer: c.Template.OldCert.Issuer.String(),
				Serial: c.Template.OldCert.SerialNumber,
			},
			Reason: c.Options.RevocationReason,
		}}},
	}, nil
}
