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

package cmpcontext

import (
	"crypto"
	"crypto/x509"
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

// ServerContext is the responder-side counterpart to Context: it carries
// the CA's own identity plus the fixed outputs and fault-injection knobs
// a conformance-test or mock server uses to drive scripted behavior,
// per spec section 3.
type ServerContext struct {
	// Identity
	CACert     *x509.Certificate
	CAKey      crypto.Signer
	Self       header.GeneralName
	CAPubs     [][]byte

	// Fixed outputs a scripted responder returns for every accepted
	// request. If CertOut is empty and Issuer is set, the responder calls
	// Issuer to issue a real leaf certificate instead (see
	// pkg/cmp/server.CAPolicy.IssueFunc): with the CSR bytes of a P10CR,
	// or with the request template's PublicKeyDER for IR/CR/KUR.
	CertOut      []byte
	ChainOut     [][]byte
	PKIStatusOut *status.Info
	Issuer       func(csrDER []byte) (certDER []byte, err error)

	// Log receives diagnostic events (process_error, fault injection). A
	// nil Log is valid; callers that don't care about logging leave it
	// unset.
	Log Logger

	// Fault injection
	SendError           bool
	AcceptUnprotected   bool
	AcceptRAVerified    bool
	SendUnprotectedErrs bool
	GrantImplicitConfirm bool

	// Polling simulation: PollCount more polls are required before a
	// real response is handed back; CheckAfter is echoed in pollRep.
	PollCount     int
	CheckAfter    time.Duration

	// Retained per-request state needed to answer a later pollReq or
	// certConf for the same transactionID.
	PendingRequests map[header.TransactionID]PendingRequest
}

// PendingRequest is what the responder remembers about an in-flight
// enrollment between the initial request and its eventual pollRep or
// certConf.
type PendingRequest struct {
	CertReqId int
	CertDER   []byte
	Received  time.Time
}

// NewServerContext returns a ServerContext with its pending-request map
// initialized.
func NewServerContext() *ServerContext {
	return &ServerContext{PendingRequests: make(map[header.TransactionID]PendingRequest)}
}

// Ready reports whether a request may be answered for real: it returns
// true once PollCount has reached zero, and otherwise decrements
// PollCount and returns false. txID is not consulted; the count is shared
// by all transactions.
func (s *ServerContext) Ready(txID header.TransactionID) bool {
	if s.PollCount <= 0 {
		return true
	}
	s.PollCount--
	return false
}
