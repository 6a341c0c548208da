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

// BuildKUR builds a Key Update Request: requires c.Template.OldCert to
// derive the subject/issuer being renewed.
func BuildKUR(c *cmpcontext.Context, popBytes []byte) (message.Message, error) {
	if c == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if c.Template.OldCert == nil {
		return message.Message{}, cmperrors.New(cmperrors.ErrorCreatingKUR, "oldCert is required for kur")
	}
	hdr, err := newHeader(c)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingKUR, "init header", err)
	}
	tmpl := certTemplate(c)
	if tmpl.Subject == "" {
		tmpl.Subject = c.Template.OldCert.Subject.String()
	}
	if tmpl.Issuer == "" {
		tmpl.Issuer = c.Template.OldCert.Issuer.String()
	}
	req := message.CertRequest{
		CertReqId: 0,
		Template:  tmpl,
		POP: message.ProofOfPossession{
			Method: int(c.Options.PopoMethod),
			Raw:    popBytes,
		},
	}
	c.LastSentBody = message.BodyKUR
	return message.Message{
		Header: hdr,
		Body:   message.KURContent{Requests: []message.CertRequest{req}},
	}, nil
}
