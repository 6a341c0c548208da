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

package status

import "github.com/anapaya/cmpengine/pkg/cmp/cmperrors"

// Info is the PKIStatusInfo structure: a status, an optional failInfo
// bitset, and a list of free-text strings.
type Info struct {
	Status       PKIStatus
	FailInfo     PKIFailureInfo
	StatusString []string
}

// Dup returns a deep copy of info.
func (info Info) Dup() Info {
	out := Info{Status: info.Status, FailInfo: info.FailInfo}
	out.StatusString = append([]string{}, info.StatusString...)
	return out
}

// Append adds text to the statusString list without clobbering prior
// entries; OpenSSL's CMP status handling always accumulates free text
// rather than overwriting it.
func (info *Info) Append(text string) {
	info.StatusString = append(info.StatusString, text)
}

// Validate enforces the status-failInfo exclusivity invariant: for
// Accepted/GrantedWithMods, FailInfo must be empty.
func (info Info) Validate() error {
	if !info.Status.Valid() {
		return cmperrors.New(cmperrors.ErrorParsingPKIStatus, "unknown PKIStatus", "status", int(info.Status))
	}
	if !ValidBits(info.FailInfo) {
		return cmperrors.New(cmperrors.InvalidArgs, "failInfo bit above 26 set")
	}
	if info.Status.Successful() && !info.FailInfo.Empty() {
		return cmperrors.New(cmperrors.InvalidArgs,
			"failInfo must be empty for successful status", "status", info.Status.String())
	}
	return nil
}
