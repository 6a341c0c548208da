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

import "strings"

// Render produces a human-readable, side-effect-free rendering of info:
// the status name, any failInfo bit names, and the statusString entries.
// It never reads from a global error queue.
func Render(info Info) string {
	var b strings.Builder
	b.WriteString(info.Status.String())
	if !info.FailInfo.Empty() {
		b.WriteString(": ")
		b.WriteString(info.FailInfo.String())
	}
	if len(info.StatusString) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(info.StatusString, "; "))
		b.WriteString(")")
	}
	return b.String()
}
