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

// This file implements the DER codec seam for Message. The spec treats
// the ASN.1/DER codec for the wire structures as an assumed-available
// external collaborator; encoding/asn1 is the grounded choice here (see
// DESIGN.md) since no third-party generic ASN.1 encoder appears anywhere
// in the retrieved corpus. The wire layout below is a practical, fully
// deterministic DER encoding that satisfies the round-trip invariant; it
// is not claimed to be byte-identical to another vendor's CMP stack.
package message

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

type wireRDN struct {
	Type  string
	Value string
}

type wireGeneralName struct {
	Kind int
	DN   []wireRDN `asn1:"optional"`
	Other []byte   `asn1:"optional"`
}

type wireITAV struct {
	TypeOID   asn1.ObjectIdentifier
	ValueTag  int
	ValueByte []byte `asn1:"optional"`
}

type wireHeader struct {
	PVNO           int
	Sender         wireGeneralName
	Recipient      wireGeneralName
	MessageTime    int64  `asn1:"optional"`
	HasMessageTime bool
	ProtAlg        string `asn1:"optional"`
	ProtParams     []byte `asn1:"optional"`
	SenderKID      []byte `asn1:"optional"`
	RecipKID       []byte `asn1:"optional"`
	TransactionID  []byte
	SenderNonce    []byte
	RecipNonce     []byte `asn1:"optional"`
	HasRecipNonce  bool
	GeneralInfo    []wireITAV `asn1:"optional"`
	FreeText       []string   `asn1:"optional"`
}

type wireCertTemplate struct {
	Subject         string
	Issuer          string `asn1:"optional"`
	NotBefore       int64  `asn1:"optional"`
	HasNotBefore    bool
	NotAfter        int64 `asn1:"optional"`
	HasNotAfter     bool
	PublicKeyDER    []byte   `asn1:"optional"`
	ExtensionOIDs   []string `asn1:"optional"`
	ExtensionValues [][]byte `asn1:"optional"`
}

type wirePOP struct {
	Method int
	Raw    []byte `asn1:"optional"`
}

type wireCertRequest struct {
	CertReqId int
	Template  wireCertTemplate
	POP       wirePOP
}

type wireStatusInfo struct {
	Status       int
	FailInfo     int
	StatusString []string `asn1:"optional"`
}

type wireCertResponse struct {
	CertReqId   int
	Status      wireStatusInfo
	CertDER     []byte `asn1:"optional"`
	EncCertDER  []byte `asn1:"optional"`
	IndirectPOP bool
}

type wireCertRepMessage struct {
	CAPubs    [][]byte `asn1:"optional"`
	Responses []wireCertResponse
}

type wireCertID struct {
	Issuer string
	Serial []byte
}

type wireRevDetails struct {
	CertID wireCertID
	Reason int
}

type wireCertStatus struct {
	CertHash   []byte
	CertReqId  int
	HasStatus  bool
	Status     wireStatusInfo `asn1:"optional"`
}

type wirePollRep struct {
	CertReqId  int
	CheckAfter int
	Reason     string `asn1:"optional"`
}

type wireErrorContent struct {
	Status       wireStatusInfo
	HasErrorCode bool
	ErrorCode    int `asn1:"optional"`
	ErrorDetails []string `asn1:"optional"`
}

// wireBody has at most one non-nil member, selected by BodyType.
type wireBody struct {
	CertReqMessages *[]wireCertRequest  `asn1:"optional,tag:0"`
	CertRepMessage  *wireCertRepMessage `asn1:"optional,tag:1"`
	P10CR           []byte              `asn1:"optional,tag:2"`
	RRContent       *[]wireRevDetails   `asn1:"optional,tag:3"`
	RPContent       *wireRPContent      `asn1:"optional,tag:4"`
	GenContent      *[]wireITAV         `asn1:"optional,tag:5"`
	CertConf        *[]wireCertStatus   `asn1:"optional,tag:6"`
	PKIConf         bool                `asn1:"optional,tag:7"`
	PollReq         *int                `asn1:"optional,tag:8"`
	PollRep         *wirePollRep        `asn1:"optional,tag:9"`
	ErrorContent    *wireErrorContent   `asn1:"optional,tag:10"`
}

type wireRPContent struct {
	Status   []wireStatusInfo
	RevCerts []wireCertID `asn1:"optional"`
}

type wireMessage struct {
	Header     wireHeader
	BodyType   int
	Body       wireBody
	Protection []byte   `asn1:"optional"`
	ExtraCerts [][]byte `asn1:"optional"`
}

// Encode produces the canonical DER encoding of m.
func Encode(m Message) ([]byte, error) {
	wh, err := encodeHeader(m.Header)
	if err != nil {
		return nil, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "encoding header", err)
	}
	wb, err := encodeBody(m.Body)
	if err != nil {
		return nil, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "encoding body", err)
	}
	wm := wireMessage{
		Header:     wh,
		BodyType:   int(m.Body.BodyType()),
		Body:       wb,
		Protection: m.Protection,
		ExtraCerts: m.ExtraCerts,
	}
	raw, err := asn1.Marshal(wm)
	if err != nil {
		return nil, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "marshaling DER", err)
	}
	return raw, nil
}

// Decode parses the canonical DER encoding of a Message.
func Decode(der []byte) (Message, error) {
	var wm wireMessage
	rest, err := asn1.Unmarshal(der, &wm)
	if err != nil {
		return Message{}, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "unmarshaling DER", err)
	}
	if len(rest) != 0 {
		return Message{}, cmperrors.New(cmperrors.ErrorDecodingMessage, "trailing bytes after message")
	}
	h, err := decodeHeader(wm.Header)
	if err != nil {
		return Message{}, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "decoding header", err)
	}
	body, err := decodeBody(BodyType(wm.BodyType), wm.Body)
	if err != nil {
		return Message{}, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "decoding body", err)
	}
	return Message{
		Header:     h,
		Body:       body,
		Protection: wm.Protection,
		ExtraCerts: wm.ExtraCerts,
	}, nil
}

// Roundtrip re-encodes and re-decodes m as a defensive wire-validity
// check; the server engine performs this on every message it handles.
func Roundtrip(m Message) (Message, error) {
	der, err := Encode(m)
	if err != nil {
		return Message{}, err
	}
	return Decode(der)
}

func encodeGeneralName(g header.GeneralName) wireGeneralName {
	w := wireGeneralName{Kind: int(g.Kind)}
	if g.Kind == header.DirectoryName {
		for _, atv := range g.Directory.Names {
			w.DN = append(w.DN, wireRDN{Type: atv.Type.String(), Value: toStringValue(atv.Value)})
		}
		for _, atv := range g.Directory.ExtraNames {
			w.DN = append(w.DN, wireRDN{Type: atv.Type.String(), Value: toStringValue(atv.Value)})
		}
	} else {
		w.Other = g.Other
	}
	return w
}

func toStringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func decodeGeneralName(w wireGeneralName) header.GeneralName {
	g := header.GeneralName{Kind: header.GeneralNameKind(w.Kind)}
	if g.Kind == header.DirectoryName {
		for _, rdn := range w.DN {
			g.Directory.Names = append(g.Directory.Names, pkixAttribute(rdn))
		}
	} else {
		g.Other = w.Other
	}
	return g
}

func encodeHeader(h header.PKIHeader) (wireHeader, error) {
	wh := wireHeader{
		PVNO:          h.PVNO,
		Sender:        encodeGeneralName(h.Sender),
		Recipient:     encodeGeneralName(h.Recipient),
		SenderKID:     h.SenderKID,
		RecipKID:      h.RecipKID,
		TransactionID: h.TransactionID[:],
		SenderNonce:   h.SenderNonce[:],
		FreeText:      h.FreeText,
	}
	if h.MessageTime != nil {
		wh.HasMessageTime = true
		wh.MessageTime = h.MessageTime.Unix()
	}
	if h.RecipNonce != nil {
		wh.HasRecipNonce = true
		wh.RecipNonce = h.RecipNonce[:]
	}
	if h.ProtectionAlg != nil {
		wh.ProtAlg = h.ProtectionAlg.Algorithm
		wh.ProtParams = h.ProtectionAlg.Params
	}
	for _, itav := range h.GeneralInfo {
		wh.GeneralInfo = append(wh.GeneralInfo, encodeITAV(itav))
	}
	return wh, nil
}

func decodeHeader(wh wireHeader) (header.PKIHeader, error) {
	h := header.PKIHeader{
		PVNO:      wh.PVNO,
		Sender:    decodeGeneralName(wh.Sender),
		Recipient: decodeGeneralName(wh.Recipient),
		SenderKID: wh.SenderKID,
		RecipKID:  wh.RecipKID,
		FreeText:  wh.FreeText,
	}
	if len(wh.TransactionID) != header.TransactionIDLen {
		return header.PKIHeader{}, cmperrors.New(cmperrors.InvalidArgs, "bad transactionID length")
	}
	copy(h.TransactionID[:], wh.TransactionID)
	if len(wh.SenderNonce) != header.NonceLen {
		return header.PKIHeader{}, cmperrors.New(cmperrors.InvalidArgs, "bad senderNonce length")
	}
	copy(h.SenderNonce[:], wh.SenderNonce)
	if wh.HasRecipNonce {
		if len(wh.RecipNonce) != header.NonceLen {
			return header.PKIHeader{}, cmperrors.New(cmperrors.InvalidArgs, "bad recipNonce length")
		}
		var n header.Nonce
		copy(n[:], wh.RecipNonce)
		h.RecipNonce = &n
	}
	if wh.HasMessageTime {
		t := time.Unix(wh.MessageTime, 0).UTC()
		h.MessageTime = &t
	}
	if wh.ProtAlg != "" {
		h.ProtectionAlg = &header.ProtectionAlgorithm{Algorithm: wh.ProtAlg, Params: wh.ProtParams}
	}
	for _, w := range wh.GeneralInfo {
		h.GeneralInfo = append(h.GeneralInfo, decodeITAV(w))
	}
	return h, nil
}

func encodeITAV(i header.ITAV) wireITAV {
	return wireITAV{TypeOID: i.Type, ValueTag: i.Value.Tag, ValueByte: i.Value.Bytes}
}

func decodeITAV(w wireITAV) header.ITAV {
	return header.ITAV{Type: w.TypeOID, Value: asn1.RawValue{Tag: w.ValueTag, Bytes: w.ValueByte}}
}

func encodeCertTemplate(t CertTemplate) wireCertTemplate {
	w := wireCertTemplate{
		Subject:         t.Subject,
		Issuer:          t.Issuer,
		PublicKeyDER:    t.PublicKeyDER,
		ExtensionOIDs:   t.ExtensionOIDs,
		ExtensionValues: t.ExtensionValues,
	}
	if t.NotBefore != nil {
		w.HasNotBefore = true
		w.NotBefore = t.NotBefore.Unix()
	}
	if t.NotAfter != nil {
		w.HasNotAfter = true
		w.NotAfter = t.NotAfter.Unix()
	}
	return w
}

func decodeCertTemplate(w wireCertTemplate) CertTemplate {
	t := CertTemplate{
		Subject:         w.Subject,
		Issuer:          w.Issuer,
		PublicKeyDER:    w.PublicKeyDER,
		ExtensionOIDs:   w.ExtensionOIDs,
		ExtensionValues: w.ExtensionValues,
	}
	if w.HasNotBefore {
		nb := time.Unix(w.NotBefore, 0).UTC()
		t.NotBefore = &nb
	}
	if w.HasNotAfter {
		na := time.Unix(w.NotAfter, 0).UTC()
		t.NotAfter = &na
	}
	return t
}

func encodeStatusInfo(s status.Info) wireStatusInfo {
	return wireStatusInfo{
		Status:       int(s.Status),
		FailInfo:     int(s.FailInfo),
		StatusString: s.StatusString,
	}
}

func decodeStatusInfo(w wireStatusInfo) status.Info {
	return status.Info{
		Status:       status.PKIStatus(w.Status),
		FailInfo:     status.PKIFailureInfo(w.FailInfo),
		StatusString: w.StatusString,
	}
}

func encodeCertRequests(reqs []CertRequest) []wireCertRequest {
	out := make([]wireCertRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, wireCertRequest{
			CertReqId: r.CertReqId,
			Template:  encodeCertTemplate(r.Template),
			POP:       wirePOP{Method: r.POP.Method, Raw: r.POP.Raw},
		})
	}
	return out
}

func decodeCertRequests(ws []wireCertRequest) []CertRequest {
	out := make([]CertRequest, 0, len(ws))
	for _, w := range ws {
		out = append(out, CertRequest{
			CertReqId: w.CertReqId,
			Template:  decodeCertTemplate(w.Template),
			POP:       ProofOfPossession{Method: w.POP.Method, Raw: w.POP.Raw},
		})
	}
	return out
}

func encodeCertResponses(reps []CertResponse) []wireCertResponse {
	out := make([]wireCertResponse, 0, len(reps))
	for _, r := range reps {
		out = append(out, wireCertResponse{
			CertReqId:   r.CertReqId,
			Status:      encodeStatusInfo(r.Status),
			CertDER:     r.CertDER,
			EncCertDER:  r.EncCertDER,
			IndirectPOP: r.IndirectPOP,
		})
	}
	return out
}

func decodeCertResponses(ws []wireCertResponse) []CertResponse {
	out := make([]CertResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, CertResponse{
			CertReqId:   w.CertReqId,
			Status:      decodeStatusInfo(w.Status),
			CertDER:     w.CertDER,
			EncCertDER:  w.EncCertDER,
			IndirectPOP: w.IndirectPOP,
		})
	}
	return out
}

func encodeBody(b Body) (wireBody, error) {
	var w wireBody
	switch v := b.(type) {
	case IRContent:
		reqs := encodeCertRequests(v.Requests)
		w.CertReqMessages = &reqs
	case CRContent:
		reqs := encodeCertRequests(v.Requests)
		w.CertReqMessages = &reqs
	case KURContent:
		reqs := encodeCertRequests(v.Requests)
		w.CertReqMessages = &reqs
	case IPContent:
		w.CertRepMessage = &wireCertRepMessage{CAPubs: v.CAPubs, Responses: encodeCertResponses(v.Responses)}
	case CPContent:
		w.CertRepMessage = &wireCertRepMessage{CAPubs: v.CAPubs, Responses: encodeCertResponses(v.Responses)}
	case KUPContent:
		w.CertRepMessage = &wireCertRepMessage{CAPubs: v.CAPubs, Responses: encodeCertResponses(v.Responses)}
	case P10CRContent:
		w.P10CR = v.CSRDER
	case RRContent:
		details := make([]wireRevDetails, 0, len(v.Details))
		for _, d := range v.Details {
			details = append(details, wireRevDetails{
				CertID: wireCertID{Issuer: d.CertID.Issuer, Serial: serialBytes(d.CertID.Serial)},
				Reason: d.Reason,
			})
		}
		w.RRContent = &details
	case RPContent:
		statuses := make([]wireStatusInfo, 0, len(v.Status))
		for _, s := range v.Status {
			statuses = append(statuses, encodeStatusInfo(s))
		}
		revCerts := make([]wireCertID, 0, len(v.RevCerts))
		for _, c := range v.RevCerts {
			revCerts = append(revCerts, wireCertID{Issuer: c.Issuer, Serial: serialBytes(c.Serial)})
		}
		w.RPContent = &wireRPContent{Status: statuses, RevCerts: revCerts}
	case GENMContent:
		itavs := make([]wireITAV, 0, len(v.ITAVs))
		for _, i := range v.ITAVs {
			itavs = append(itavs, encodeITAV(i))
		}
		w.GenContent = &itavs
	case GENPContent:
		itavs := make([]wireITAV, 0, len(v.ITAVs))
		for _, i := range v.ITAVs {
			itavs = append(itavs, encodeITAV(i))
		}
		w.GenContent = &itavs
	case CERTCONFContent:
		confs := make([]wireCertStatus, 0, len(v.Confirmations))
		for _, c := range v.Confirmations {
			wc := wireCertStatus{CertHash: c.CertHash, CertReqId: c.CertReqId}
			if c.StatusInfo != nil {
				wc.HasStatus = true
				wc.Status = encodeStatusInfo(*c.StatusInfo)
			}
			confs = append(confs, wc)
		}
		w.CertConf = &confs
	case PKICONFContent:
		w.PKIConf = true
	case POLLREQContent:
		id := v.CertReqId
		w.PollReq = &id
	case POLLREPContent:
		w.PollRep = &wirePollRep{CertReqId: v.CertReqId, CheckAfter: v.CheckAfter, Reason: v.Reason}
	case ERRORContent:
		we := wireErrorContent{Status: encodeStatusInfo(v.PKIStatusInfo), ErrorDetails: v.ErrorDetails}
		if v.ErrorCode != nil {
			we.HasErrorCode = true
			we.ErrorCode = *v.ErrorCode
		}
		w.ErrorContent = &we
	default:
		return wireBody{}, cmperrors.New(cmperrors.UnexpectedPKIBody, "unknown body type for encoding")
	}
	return w, nil
}

func decodeBody(t BodyType, w wireBody) (Body, error) {
	switch t {
	case BodyIR:
		return IRContent{Requests: decodeCertRequests(derefReqs(w.CertReqMessages))}, nil
	case BodyCR:
		return CRContent{Requests: decodeCertRequests(derefReqs(w.CertReqMessages))}, nil
	case BodyKUR:
		return KURContent{Requests: decodeCertRequests(derefReqs(w.CertReqMessages))}, nil
	case BodyIP:
		crm := derefCertRep(w.CertRepMessage)
		return IPContent{CAPubs: crm.CAPubs, Responses: decodeCertResponses(crm.Responses)}, nil
	case BodyCP:
		crm := derefCertRep(w.CertRepMessage)
		return CPContent{CAPubs: crm.CAPubs, Responses: decodeCertResponses(crm.Responses)}, nil
	case BodyKUP:
		crm := derefCertRep(w.CertRepMessage)
		return KUPContent{CAPubs: crm.CAPubs, Responses: decodeCertResponses(crm.Responses)}, nil
	case BodyP10CR:
		return P10CRContent{CSRDER: w.P10CR}, nil
	case BodyRR:
		var details []RevDetails
		if w.RRContent != nil {
			for _, d := range *w.RRContent {
				details = append(details, RevDetails{
					CertID: CertID{Issuer: d.CertID.Issuer, Serial: serialFromBytes(d.CertID.Serial)},
					Reason: d.Reason,
				})
			}
		}
		return RRContent{Details: details}, nil
	case BodyRP:
		rp := w.RPContent
		if rp == nil {
			return RPContent{}, nil
		}
		var statuses []status.Info
		for _, s := range rp.Status {
			statuses = append(statuses, decodeStatusInfo(s))
		}
		var revCerts []CertID
		for _, c := range rp.RevCerts {
			revCerts = append(revCerts, CertID{Issuer: c.Issuer, Serial: serialFromBytes(c.Serial)})
		}
		return RPContent{Status: statuses, RevCerts: revCerts}, nil
	case BodyGENM:
		var itavs []header.ITAV
		if w.GenContent != nil {
			for _, i := range *w.GenContent {
				itavs = append(itavs, decodeITAV(i))
			}
		}
		return GENMContent{ITAVs: itavs}, nil
	case BodyGENP:
		var itavs []header.ITAV
		if w.GenContent != nil {
			for _, i := range *w.GenContent {
				itavs = append(itavs, decodeITAV(i))
			}
		}
		return GENPContent{ITAVs: itavs}, nil
	case BodyCERTCONF:
		var confs []CertStatus
		if w.CertConf != nil {
			for _, c := range *w.CertConf {
				cs := CertStatus{CertHash: c.CertHash, CertReqId: c.CertReqId}
				if c.HasStatus {
					si := decodeStatusInfo(c.Status)
					cs.StatusInfo = &si
				}
				confs = append(confs, cs)
			}
		}
		return CERTCONFContent{Confirmations: confs}, nil
	case BodyPKICONF:
		return PKICONFContent{}, nil
	case BodyPOLLREQ:
		id := 0
		if w.PollReq != nil {
			id = *w.PollReq
		}
		return POLLREQContent{CertReqId: id}, nil
	case BodyPOLLREP:
		if w.PollRep == nil {
			return POLLREPContent{}, nil
		}
		return POLLREPContent{CertReqId: w.PollRep.CertReqId, CheckAfter: w.PollRep.CheckAfter, Reason: w.PollRep.Reason}, nil
	case BodyERROR:
		if w.ErrorContent == nil {
			return ERRORContent{}, nil
		}
		e := ERRORContent{PKIStatusInfo: decodeStatusInfo(w.ErrorContent.Status), ErrorDetails: w.ErrorContent.ErrorDetails}
		if w.ErrorContent.HasErrorCode {
			code := w.ErrorContent.ErrorCode
			e.ErrorCode = &code
		}
		return e, nil
	default:
		return nil, cmperrors.New(cmperrors.UnexpectedPKIBody, "unknown body type for decoding", "type", int(t))
	}
}

func derefReqs(p *[]wireCertRequest) []wireCertRequest {
	if p == nil {
		return nil
	}
	return *p
}

func derefCertRep(p *wireCertRepMessage) wireCertRepMessage {
	if p == nil {
		return wireCertRepMessage{}
	}
	return *p
}

func serialBytes(n *big.Int) []byte {
	if n == nil {
		return nil
	}
	return n.Bytes()
}

func serialFromBytes(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).SetBytes(b)
}

func pkixAttribute(rdn wireRDN) pkix.AttributeTypeAndValue {
	// A best-effort OID parse; malformed input yields a zero OID rather
	// than failing the whole decode, since DN attributes are metadata,
	// not security-relevant to this engine's own invariants.
	return pkix.AttributeTypeAndValue{Type: parseOID(rdn.Type), Value: rdn.Value}
}

func parseOID(s string) asn1.ObjectIdentifier {
	var oid asn1.ObjectIdentifier
	cur := 0
	started := false
	for _, r := range s {
		if r == '.' {
			oid = append(oid, cur)
			cur = 0
			started = false
			continue
		}
		if r < '0' || r > '9' {
			return oid
		}
		cur = cur*10 + int(r-'0')
		started = true
	}
	if started {
		oid = append(oid, cur)
	}
	return oid
}
