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
	"context"
	"crypto"
	"crypto/rand"
	"crypto/x509"

	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
)

// Logger is the subset of a structured logger the engine needs. A
// zap.SugaredLogger satisfies this without adaptation.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// noopLogger is the zero-value Logger so callers need not set one.
type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Infow(string, ...interface{})  {}
func (noopLogger) Warnw(string, ...interface{})  {}
func (noopLogger) Errorw(string, ...interface{}) {}

// TransferFunc is the seam the client session engine uses to exchange a
// request Message for a response Message. pkg/cmp/transfer supplies the
// HTTP, in-process, and mock implementations bound into this type.
type TransferFunc func(ctx context.Context, req message.Message) (message.Message, error)

// CertConfHook, if set, is invoked with the DER bytes of a just-received
// certificate before the engine sends certConf, letting the caller
// inspect or reject it by returning an error.
type CertConfHook func(certDER []byte) error

// RequestTemplate is the subset of spec section 3's "request content"
// fields the client uses to build CertTemplate values across IR/CR/KUR.
type RequestTemplate struct {
	Subject      string
	Issuer       string
	SANs         []string
	PublicKeyDER []byte
	OldCert      *x509.Certificate // required for kur
	CSRDER       []byte            // required for p10cr
}

// Context is the long-lived, per-session state a client engine carries
// across an entire CMP exchange: identity material, negotiated options,
// nonce/transactionID bookkeeping, and accumulated results.
type Context struct {
	// Identity
	ClientCert      *x509.Certificate
	SigningKey      crypto.Signer
	ReferenceValue  []byte
	SecretValue     []byte
	TrustAnchors    *x509.CertPool
	ExpectedSender  header.GeneralName
	Self            header.GeneralName

	// Server identity
	ServerCert          *x509.Certificate
	ExpectedServerName  header.GeneralName

	// Request template
	Template RequestTemplate

	// Options
	Options Options

	// Transaction state. InitHeader calls StartTransaction for the first
	// message a Context sends; TransactionID then stays fixed until
	// StartTransaction is called again.
	TransactionID   header.TransactionID
	LastSenderNonce header.Nonce
	LastRecipNonce  *header.Nonce
	LastSentBody    message.BodyType
	LastRecvBody    message.BodyType
	haveTransaction bool

	// Results, populated as a transaction completes.
	NewCert      []byte
	CAPubs       [][]byte
	ExtraCertsIn [][]byte
	NewPkey      []byte

	// Callbacks
	Log          Logger
	Transfer     TransferFunc
	OnCertConf   CertConfHook
}

// NewContext returns a Context with a no-op logger and zeroed session
// state; callers set identity, options, and callbacks before use.
func NewContext() *Context {
	return &Context{Log: noopLogger{}}
}

// StartTransaction resets the per-exchange nonce/transactionID state and
// draws a fresh random transactionID and senderNonce, per spec section
// 4.1: a new exchange never reuses a prior transaction's binding values.
func (c *Context) StartTransaction() error {
	if _, err := rand.Read(c.TransactionID[:]); err != nil {
		return cmperrors.Wrap(cmperrors.ErrorCreatingIR, "generate transactionID", err)
	}
	if _, err := rand.Read(c.LastSenderNonce[:]); err != nil {
		return cmperrors.Wrap(cmperrors.ErrorCreatingIR, "generate senderNonce", err)
	}
	c.LastRecipNonce = nil
	c.haveTransaction = true
	return nil
}

// InitHeader binds hdr's sender/recipient/transactionID/senderNonce
// fields to the session's current identity and transaction state (spec
// section 4.1). Every outbound request header is produced this way. A
// fresh random senderNonce is drawn for every call so that retries and
// follow-up messages within one transaction never repeat a nonce, while
// transactionID and recipNonce-echo stay governed by the session.
func (c *Context) InitHeader(hdr *header.PKIHeader) error {
	if hdr == nil {
		return cmperrors.New(cmperrors.NullArgument, "hdr is nil")
	}
	if !c.haveTransaction {
		if err := c.StartTransaction(); err != nil {
			return err
		}
	} else if _, err := rand.Read(c.LastSenderNonce[:]); err != nil {
		return cmperrors.Wrap(cmperrors.ErrorCreatingIR, "generate senderNonce", err)
	}

	hdr.PVNO = header.ProtocolVersion
	hdr.Sender = c.Self
	hdr.Recipient = c.ExpectedServerName
	hdr.TransactionID = c.TransactionID
	hdr.SenderNonce = c.LastSenderNonce
	if c.LastRecipNonce != nil {
		n := *c.LastRecipNonce
		hdr.RecipNonce = &n
	}
	if c.Options.ImplicitConfirm && !c.Options.DisableConfirm {
		header.SetImplicitConfirm(hdr)
	}
	return nil
}

// ObserveReceived records the recipNonce-echo and bodyType bookkeeping
// that verify.ValidateReceived updates on every successfully validated
// inbound message (spec section 4.2).
func (c *Context) ObserveReceived(hdr header.PKIHeader, bt message.BodyType) {
	n := hdr.SenderNonce
	c.LastRecipNonce = &n
	c.LastRecvBody = bt
}
