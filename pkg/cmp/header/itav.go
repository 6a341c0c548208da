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

import "encoding/asn1"

// ITAV is an InfoTypeAndValue pair: an OID plus an ANY-typed value, used
// both in generalInfo and in GENM/GENP bodies.
type ITAV struct {
	Type  asn1.ObjectIdentifier
	Value asn1.RawValue
}

// OIDImplicitConfirm is the designated OID for the implicitConfirm ITAV
// (id-it-implicitConfirm, RFC 4210 section 5.3.19.6).
var OIDImplicitConfirm = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 4, 13}

// asn1NullValue is the DER encoding of ASN.1 NULL, the value carried by
// the implicitConfirm ITAV.
var asn1NullValue = asn1.RawValue{Tag: asn1.TagNull}

// ImplicitConfirmITAV builds the implicitConfirm marker ITAV.
func ImplicitConfirmITAV() ITAV {
	return ITAV{Type: OIDImplicitConfirm, Value: asn1NullValue}
}

func (i ITAV) isImplicitConfirm() bool {
	return i.Type.Equal(OIDImplicitConfirm)
}

// Equal reports structural equality between two ITAVs.
func (i ITAV) Equal(o ITAV) bool {
	return i.Type.Equal(o.Type) &&
		i.Value.Tag == o.Value.Tag &&
		string(i.Value.Bytes) == string(o.Value.Bytes)
}
