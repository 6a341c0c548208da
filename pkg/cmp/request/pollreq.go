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

// BuildPollReq builds a PollReq for the given certReqId, sent while a
// client session is in the polling submode (spec section 4.4).
func BuildPollReq(c *cmpcontext.Context, certReqId int) (message.Message, error) {
	if c == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	hdr, err := newHeader(c)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingIR, "init header", err)
	}
	c.LastSentBody = message.BodyPOLLREQ
	return message.Message{
		Header: hdr,
		Body:   message.POLLREQContent{CertReqId: certReqId},
	}, nil
}
