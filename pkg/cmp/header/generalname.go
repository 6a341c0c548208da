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

// Package header implements the CMP PKIHeader: protocol version,
// sender/recipient names, transactionID, nonces, messageTime, and the
// generalInfo ITAV list (notably the implicitConfirm marker).
package header

import "crypto/x509/pkix"

// GeneralNameKind identifies the GeneralName choice carried by a header's
// sender/recipient field. Only DirectoryName is ever produced by this
// engine's own builders; the other kinds exist so validate_received has
// something concrete to reject per spec section 4.2 item 1.
type GeneralNameKind int

const (
	DirectoryName GeneralNameKind = iota
	RFC822Name
	DNSName
	IPAddress
	RegisteredID
	OtherName
)

// GeneralName is a tagged union over the ASN.1 GeneralName CHOICE. Only
// Kind and, for DirectoryName, Directory are populated by this engine.
type GeneralName struct {
	Kind      GeneralNameKind
	Directory pkix.Name
	Other     []byte
}

// NullDN is the sentinel empty-DirectoryName GeneralName used when no
// other identity is configured.
var NullDN = GeneralName{Kind: DirectoryName}

// Equal reports structural equality between two GeneralNames.
func (g GeneralName) Equal(o GeneralName) bool {
	if g.Kind != o.Kind {
		return false
	}
	if g.Kind == DirectoryName {
		return dnEqual(g.Directory, o.Directory)
	}
	return string(g.Other) == string(o.Other)
}

func dnEqual(a, b pkix.Name) bool {
	return a.String() == b.String()
}

// DirectoryNameOf builds a DirectoryName GeneralName from a pkix.Name.
func DirectoryNameOf(name pkix.Name) GeneralName {
	return GeneralName{Kind: DirectoryName, Directory: name}
}
