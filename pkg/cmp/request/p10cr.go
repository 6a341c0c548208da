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

// BuildP10CR wraps a caller-supplied, already-signed PKCS#10
// CertificationRequest. The engine treats the CSR bytes as opaque; all
// proof of possession lives inside the CSR's own signature.
func BuildP10CR(c *cmpcontext.Context) (message.Message, error) {
	if c == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if len(c.Template.CSRDER) == 0 {
		return message.Message{}, cmperrors.New(cmperrors.ErrorCreatingP10CR, "CSRDER is required for p10cr")
	}
	hdr, err := newHeader(c)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingP10CR, "init header", err)
	}
	c.LastSentBody = message.BodyP10CR
	return message.Message{
		Header: hdr,
		Body:   message.P10CRContent{CSRDER: c.Template.CSRDER},
	}, nil
}
