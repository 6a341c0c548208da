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

// Package response builds the server responder's outbound PKIMessage
// bodies: IP/CP/KUP, RP, PKIConf, PollRep, GENP, and error, each paired
// with a header mirroring the inbound request's transactionID and a
// recipNonce derived from the request's senderNonce (spec section 4.5).
package response

import (
	"crypto/rand"
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
)

// mirrorHeader builds the common response header: pvno fixed, sender is
// self, recipient mirrors the request's sender, transactionID is
// unchanged, and recipNonce echoes the request's senderNonce. A fresh
// senderNonce is drawn for the response itself.
func mirrorHeader(s *cmpcontext.ServerContext, req header.PKIHeader) (header.PKIHeader, error) {
	var hdr header.PKIHeader
	hdr.PVNO = header.ProtocolVersion
	hdr.Sender = s.Self
	hdr.Recipient = req.Sender
	hdr.TransactionID = req.TransactionID
	n := req.SenderNonce
	hdr.RecipNonce = &n
	now := timeNow()
	hdr.MessageTime = &now
	if err := drawNonce(&hdr.SenderNonce); err != nil {
		return header.PKIHeader{}, err
	}
	return hdr, nil
}

// timeNow exists so tests can stub wall-clock dependence out of the
// response-construction path without touching the engine's logic.
var timeNow = func() time.Time { return time.Now().UTC() }

func drawNonce(n *header.Nonce) error {
	if _, err := rand.Read(n[:]); err != nil {
		return cmperrors.Wrap(cmperrors.ErrorCreatingCertRep, "generate senderNonce", err)
	}
	return nil
}
