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

// Package verify implements validate_received (spec section 4.2): the
// checks every inbound PKIMessage undergoes before its body is handed to
// a processor, and the nonce bookkeeping update that follows success.
package verify

import (
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
)

// Protector verifies or computes a message's protection value. The
// engine never touches key material directly; HMAC/signature math is
// delegated here so verify stays a pure orchestration layer.
type Protector interface {
	// VerifyProtection reports whether msg's Protection value is valid
	// given the sender identity context implies (PBM shared secret or
	// the sender's certificate).
	VerifyProtection(c *cmpcontext.Context, msg message.Message) error
}

// ValidateReceived runs the spec section 4.2 checks against an inbound
// message in a client session: sender GeneralName kind, transactionID
// match, protection (unless exempted), and recipNonce match. On success
// it updates c's recipNonce-echo/lastRecvBody bookkeeping.
func ValidateReceived(c *cmpcontext.Context, p Protector, msg message.Message) error {
	if c == nil || msg.Body == nil {
		return cmperrors.New(cmperrors.NullArgument, "context or body is nil")
	}

	if msg.Header.Sender.Kind != header.DirectoryName {
		return cmperrors.New(cmperrors.SenderGeneralNameTypeNotSupported,
			"sender GeneralName kind not supported", "kind", msg.Header.Sender.Kind)
	}

	if msg.Header.TransactionID != c.TransactionID {
		return cmperrors.New(cmperrors.TransactionIDUnmatched, "transactionID does not match session")
	}

	exempt := isUnprotectedException(c, msg.Body.BodyType())
	if !msg.Protected() {
		if !exempt {
			return cmperrors.New(cmperrors.ErrorValidatingProtection, "message is not protected")
		}
	} else if p != nil {
		if err := p.VerifyProtection(c, msg); err != nil {
			return cmperrors.Wrap(cmperrors.ErrorValidatingProtection, "protection verification failed", err)
		}
	}

	if msg.Header.RecipNonce == nil || *msg.Header.RecipNonce != c.LastSenderNonce {
		return cmperrors.New(cmperrors.NoncesDoNotMatch, "recipNonce does not echo last senderNonce")
	}

	c.ObserveReceived(msg.Header, msg.Body.BodyType())
	return nil
}

// isUnprotectedException reports whether bt is allowed to arrive
// unprotected under c's options: error responses when UnprotectedErrors
// is set, or any response at all when UnprotectedSend is set (a lenient
// session talking to a CA that never protects its responses).
func isUnprotectedException(c *cmpcontext.Context, bt message.BodyType) bool {
	if c.Options.UnprotectedSend {
		return true
	}
	if c.Options.UnprotectedErrors && bt == message.BodyERROR {
		return true
	}
	return false
}
