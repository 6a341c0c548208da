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

// Package cmpcontext implements the long-lived per-endpoint Context and
// ServerContext described by the spec: identity material, cryptographic
// knobs, nonces, options, and accumulated results shared by the client
// session engine and request/response builders.
package cmpcontext

import "time"

// PopoMethod selects which proof-of-possession variant a builder emits.
// The engine only selects the variant; the actual cryptography is
// delegated to the caller-supplied Signer (or, for key-encipherment POP,
// a caller-supplied decryption seam).
type PopoMethod int

const (
	PopoRAVerified PopoMethod = iota
	PopoSignature
	PopoKeyEncipherment
)

// Options bundles every session-shaping knob listed in spec section 3.
type Options struct {
	ImplicitConfirm      bool
	DisableConfirm       bool
	UnprotectedSend      bool
	UnprotectedErrors    bool
	IgnoreKeyUsage       bool
	PermitTAInExtraCerts bool
	TotalTimeout         time.Duration
	MessageTimeout       time.Duration
	PopoMethod           PopoMethod
	DigestAlgorithm      string
	RevocationReason     int
	ValidityDays         int
	SANDefaults          []string
}
