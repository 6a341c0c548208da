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

// Package request builds the nine outbound PKIMessage bodies a client
// session emits: IR, CR, KUR, P10CR, RR, GENM, certConf, pollReq, and
// error, each paired with a freshly bound header (spec section 4.4).
package request

import (
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
)

// certTemplate builds the single CertTemplate this engine always emits
// from c.Template's subject, issuer and public key.
func certTemplate(c *cmpcontext.Context) message.CertTemplate {
	return message.CertTemplate{
		Subject:      c.Template.Subject,
		Issuer:       c.Template.Issuer,
		PublicKeyDER: c.Template.PublicKeyDER,
	}
}

func certRequest(c *cmpcontext.Context, popBytes []byte) message.CertRequest {
	return message.CertRequest{
		CertReqId: 0,
		Template:  certTemplate(c),
		POP: message.ProofOfPossession{
			Method: int(c.Options.PopoMethod),
			Raw:    popBytes,
		},
	}
}

// newHeader binds and returns a freshly initialized header for the next
// outbound message of this session.
func newHeader(c *cmpcontext.Context) (header.PKIHeader, error) {
	var hdr header.PKIHeader
	if err := c.InitHeader(&hdr); err != nil {
		return header.PKIHeader{}, err
	}
	return hdr, nil
}
