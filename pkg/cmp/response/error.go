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
)

// BuildError builds the responder's ERROR body, sent when
// s.SendError is set (spec section 4.5's "if sendError is set" branch).
func BuildError(s *cmpcontext.ServerContext, req header.PKIHeader, details ...string) (message.Message, error) {
	if s == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "server context is nil")
	}
	hdr, err := mirrorHeader(s, req)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingError, "mirror header", err)
	}
	return message.Message{
		Header: hdr,
		Body: message.ERRORContent{
			PKIStatusInfo: statusOrDefault(s),
			ErrorDetails:  details,
		},
	}, nil
}
