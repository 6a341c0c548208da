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

package message

import "github.com/anapaya/cmpengine/pkg/cmp/header"

// Message is a full CMP PKIMessage: header, body, optional protection
// value, and any extraCerts carried alongside.
type Message struct {
	Header     header.PKIHeader
	Body       Body
	Protection []byte
	ExtraCerts [][]byte // DER-encoded certificates
}

// Dup returns a structurally independent deep copy of m.
func (m Message) Dup() Message {
	out := Message{Header: m.Header.Dup(), Body: m.Body}
	if m.Protection != nil {
		out.Protection = append([]byte{}, m.Protection...)
	}
	for _, c := range m.ExtraCerts {
		out.ExtraCerts = append(out.ExtraCerts, append([]byte{}, c...))
	}
	return out
}

// Protected reports whether m carries a protection value.
func (m Message) Protected() bool {
	return len(m.Protection) > 0
}
