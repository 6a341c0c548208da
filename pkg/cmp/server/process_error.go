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
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/response"
)

// processError implements spec section 4.5's process_error default
// behavior: log the peer's error and acknowledge with a PKIConf.
func processError(s *cmpcontext.ServerContext, req message.Message) (message.Message, error) {
	if s.Log != nil {
		errBody, _ := req.Body.(message.ERRORContent)
		s.Log.Warnw("received error transaction", "status", errBody.PKIStatusInfo.Status.String())
	}
	return response.BuildPKIConf(s, req.Header)
}
