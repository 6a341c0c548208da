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

package header

import (
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
)

// ProtocolVersion is the only supported pvno value.
const ProtocolVersion = 2

// TransactionIDLen and NonceLen are the fixed wire lengths mandated by the
// spec for transactionID and the two nonce fields.
const (
	TransactionIDLen = 16
	NonceLen         = 16
)

// TransactionID is an opaque, exactly-16-byte session-binding token.
type TransactionID [TransactionIDLen]byte

// Nonce is an opaque, exactly-16-byte per-message token.
type Nonce [NonceLen]byte

// PKIHeader carries the protocol metadata common to every CMP message.
type PKIHeader struct {
	PVNO             int
	Sender           GeneralName
	Recipient        GeneralName
	MessageTime      *time.Time
	ProtectionAlg    *ProtectionAlgorithm
	SenderKID        []byte
	RecipKID         []byte
	TransactionID    TransactionID
	SenderNonce      Nonce
	RecipNonce       *Nonce
	GeneralInfo      []ITAV
	FreeText         []string
}

// ProtectionAlgorithm identifies the algorithm protecting a message, as
// selected by the out-of-scope crypto seam.
type ProtectionAlgorithm struct {
	Algorithm string
	Params    []byte
}

// CheckImplicitConfirm reports true iff generalInfo contains the
// implicitConfirm ITAV.
func CheckImplicitConfirm(h PKIHeader) bool {
	for _, itav := range h.GeneralInfo {
		if itav.isImplicitConfirm() {
			return true
		}
	}
	return false
}

// SetImplicitConfirm pushes the implicitConfirm ITAV onto h.GeneralInfo
// exactly once; repeated calls are idempotent.
func SetImplicitConfirm(h *PKIHeader) {
	if CheckImplicitConfirm(*h) {
		return
	}
	h.GeneralInfo = append(h.GeneralInfo, ImplicitConfirmITAV())
}

// Dup returns a deep-enough copy of h for structural comparison and safe
// independent mutation.
func (h PKIHeader) Dup() PKIHeader {
	out := h
	out.GeneralInfo = append([]ITAV{}, h.GeneralInfo...)
	out.FreeText = append([]string{}, h.FreeText...)
	if h.SenderKID != nil {
		out.SenderKID = append([]byte{}, h.SenderKID...)
	}
	if h.RecipKID != nil {
		out.RecipKID = append([]byte{}, h.RecipKID...)
	}
	if h.RecipNonce != nil {
		n := *h.RecipNonce
		out.RecipNonce = &n
	}
	if h.MessageTime != nil {
		t := *h.MessageTime
		out.MessageTime = &t
	}
	return out
}

// Validate enforces the two header-level invariants: pvno == 2, and both
// transactionID and senderNonce are present (always true given the fixed-
// size array types, but PVNO is still checked explicitly since it is an
// int field that a malformed wire message could set incorrectly).
func (h PKIHeader) Validate() error {
	if h.PVNO != ProtocolVersion {
		return cmperrors.New(cmperrors.InvalidArgs, "unsupported pvno", "pvno", h.PVNO)
	}
	return nil
}
