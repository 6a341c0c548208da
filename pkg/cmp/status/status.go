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

// Package status defines the PKIStatus enumeration, the PKIFailureInfo
// bitset, and the PKIStatusInfo structure used throughout the CMP engine.
package status

import "fmt"

// PKIStatus is the closed enumeration of outcomes a PKIStatusInfo can carry.
type PKIStatus int

const (
	Accepted PKIStatus = iota
	GrantedWithMods
	Rejection
	Waiting
	RevocationWarning
	RevocationNotification
	KeyUpdateWarning
)

var statusNames = map[PKIStatus]string{
	Accepted:                "accepted",
	GrantedWithMods:         "grantedWithMods",
	Rejection:               "rejection",
	Waiting:                 "waiting",
	RevocationWarning:       "revocationWarning",
	RevocationNotification:  "revocationNotification",
	KeyUpdateWarning:        "keyUpdateWarning",
}

func (s PKIStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknownStatus(%d)", int(s))
}

// Valid reports whether s is one of the seven defined values.
func (s PKIStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Successful reports whether s is a status for which failInfo must be
// empty (accepted / grantedWithMods).
func (s PKIStatus) Successful() bool {
	return s == Accepted || s == GrantedWithMods
}
