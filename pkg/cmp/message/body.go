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

// Package message implements the CMP Message tagged union (header + body
// + optional protection + extraCerts) and its DER codec seam.
package message

import (
	"math/big"
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

// BodyType tags which of the nine (plus responses/acks) CMP body kinds a
// Message carries.
type BodyType int

const (
	BodyIR BodyType = iota
	BodyIP
	BodyCR
	BodyCP
	BodyP10CR
	BodyKUR
	BodyKUP
	BodyRR
	BodyRP
	BodyGENM
	BodyGENP
	BodyCERTCONF
	BodyPKICONF
	BodyPOLLREQ
	BodyPOLLREP
	BodyERROR
)

var bodyTypeNames = map[BodyType]string{
	BodyIR: "ir", BodyIP: "ip", BodyCR: "cr", BodyCP: "cp", BodyP10CR: "p10cr",
	BodyKUR: "kur", BodyKUP: "kup", BodyRR: "rr", BodyRP: "rp",
	BodyGENM: "genm", BodyGENP: "genp", BodyCERTCONF: "certConf",
	BodyPKICONF: "pkiConf", BodyPOLLREQ: "pollReq", BodyPOLLREP: "pollRep",
	BodyERROR: "error",
}

func (t BodyType) String() string {
	if n, ok := bodyTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Body is the tagged-union interface every concrete body payload satisfies.
type Body interface {
	BodyType() BodyType
}

// CertTemplate is the (simplified) CRMF certificate template: the
// identity/extension data the engine manages directly. The actual
// certified public key and its proof of possession are opaque blobs
// produced by the out-of-scope crypto seam.
type CertTemplate struct {
	Subject         string // DN string form; X.509 Name construction is the crypto seam's job
	Issuer          string
	NotBefore       *time.Time
	NotAfter        *time.Time
	PublicKeyDER    []byte
	ExtensionOIDs   []string
	ExtensionValues [][]byte
}

// ProofOfPossession carries the POP variant selected by PopoMethod and the
// opaque signature/encipherment bytes the crypto seam produced.
type ProofOfPossession struct {
	Method int // mirrors cmpcontext.PopoMethod; engine does not interpret the bytes
	Raw    []byte
}

// CertRequest is a single entry of a CertReqMessages sequence. This spec
// uses exactly one certReqId per session, value 0 (spec section 6).
type CertRequest struct {
	CertReqId int
	Template  CertTemplate
	POP       ProofOfPossession
}

// CertResponse is a single entry of a CertRepMessage's response sequence.
type CertResponse struct {
	CertReqId     int
	Status        status.Info
	CertDER       []byte // direct issuance
	EncCertDER    []byte // indirect POP: encrypted for the requester's newPkey
	IndirectPOP   bool
}

// IRContent / CRContent / KURContent are all CertReqMessages.
type IRContent struct{ Requests []CertRequest }
type CRContent struct{ Requests []CertRequest }
type KURContent struct{ Requests []CertRequest }

func (IRContent) BodyType() BodyType { return BodyIR }
func (CRContent) BodyType() BodyType { return BodyCR }
func (KURContent) BodyType() BodyType { return BodyKUR }

// IPContent / CPContent / KUPContent are all CertRepMessage.
type IPContent struct {
	CAPubs    [][]byte
	Responses []CertResponse
}
type CPContent struct {
	CAPubs    [][]byte
	Responses []CertResponse
}
type KUPContent struct {
	CAPubs    [][]byte
	Responses []CertResponse
}

func (IPContent) BodyType() BodyType  { return BodyIP }
func (CPContent) BodyType() BodyType  { return BodyCP }
func (KUPContent) BodyType() BodyType { return BodyKUP }

// P10CRContent wraps a raw PKCS#10 CertificationRequest, encoded and
// signed entirely by the crypto seam.
type P10CRContent struct {
	CSRDER []byte
}

func (P10CRContent) BodyType() BodyType { return BodyP10CR }

// CertID identifies a certificate by issuer DN and serial number.
type CertID struct {
	Issuer string
	Serial *big.Int
}

// RevDetails is a single revocation request entry.
type RevDetails struct {
	CertID CertID
	Reason int
}

// RRContent is RevReqContent: one or more revocation requests. This spec
// always builds exactly one.
type RRContent struct {
	Details []RevDetails
}

func (RRContent) BodyType() BodyType { return BodyRR }

// RPContent is RevRepContent.
type RPContent struct {
	Status   []status.Info
	RevCerts []CertID
}

func (RPContent) BodyType() BodyType { return BodyRP }

// GENMContent / GENPContent carry a list of ITAVs.
type GENMContent struct {
	ITAVs []header.ITAV
}
type GENPContent struct {
	ITAVs []header.ITAV
}

func (GENMContent) BodyType() BodyType { return BodyGENM }
func (GENPContent) BodyType() BodyType { return BodyGENP }

// CertStatus is a single entry of a CertConfirmContent.
type CertStatus struct {
	CertHash    []byte
	CertReqId   int
	StatusInfo  *status.Info
}

// CERTCONFContent is CertConfirmContent.
type CERTCONFContent struct {
	Confirmations []CertStatus
}

func (CERTCONFContent) BodyType() BodyType { return BodyCERTCONF }

// PKICONFContent is the (empty) PKIConfirmContent.
type PKICONFContent struct{}

func (PKICONFContent) BodyType() BodyType { return BodyPKICONF }

// POLLREQContent is PollReqContent.
type POLLREQContent struct {
	CertReqId int
}

func (POLLREQContent) BodyType() BodyType { return BodyPOLLREQ }

// POLLREPContent is PollRepContent.
type POLLREPContent struct {
	CertReqId   int
	CheckAfter  int // seconds
	Reason      string
}

func (POLLREPContent) BodyType() BodyType { return BodyPOLLREP }

// ERRORContent is ErrorMsgContent.
type ERRORContent struct {
	PKIStatusInfo status.Info
	ErrorCode     *int
	ErrorDetails  []string
}

func (ERRORContent) BodyType() BodyType { return BodyERROR }
