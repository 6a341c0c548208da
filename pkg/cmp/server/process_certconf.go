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
	"bytes"
	"crypto/sha256"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/response"
)

// processCertConf implements spec section 4.5's process_certConf: the
// client-supplied hash must match a locally recomputed SHA-256 digest of
// the certificate the responder issued for this transaction, and the
// echoed certReqId must match the one stored alongside it.
func processCertConf(s *cmpcontext.ServerContext, req message.Message, body message.CERTCONFContent) (message.Message, error) {
	if len(body.Confirmations) == 0 {
		return message.Message{}, cmperrors.New(cmperrors.BadRequestID, "certConf carries no confirmations")
	}
	confirm := body.Confirmations[0]

	pending, ok := s.PendingRequests[req.Header.TransactionID]
	if !ok {
		return message.Message{}, cmperrors.New(cmperrors.CertresponseNotFound,
			"no pending request for transaction")
	}
	if confirm.CertReqId != pending.CertReqId {
		return message.Message{}, cmperrors.New(cmperrors.UnexpectedRequestID,
			"certConf certReqId mismatch", "got", confirm.CertReqId, "want", pending.CertReqId)
	}

	want := sha256.Sum256(pending.CertDER)
	if !bytes.Equal(confirm.CertHash, want[:]) {
		return message.Message{}, cmperrors.New(cmperrors.WrongCertHash, "certConf hash mismatch")
	}

	delete(s.PendingRequests, req.Header.TransactionID)
	return response.BuildPKIConf(s, req.Header)
}
