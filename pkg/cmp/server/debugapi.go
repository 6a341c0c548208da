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

package server

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
)

// Problem is the application/problem+json envelope a DebugAPI response
// carries on any non-2xx outcome.
type Problem struct {
	Status int     `json:"status"`
	Title  string  `json:"title"`
	Detail *string `json:"detail,omitempty"`
}

// Error writes p as an application/problem+json response.
func Error(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.Encode(p)
}

func stringRef(s string) *string { return &s }

// DebugAPI is an optional introspection surface over a running mock
// responder: it never participates in the CMP exchange itself, only
// reports the ServerContext's current fault-injection configuration and
// in-flight pending requests, for operators driving conformance runs.
type DebugAPI struct {
	Ctx *cmpcontext.ServerContext
}

func (d DebugAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		Error(w, Problem{
			Status: http.StatusMethodNotAllowed,
			Title:  "method not allowed",
			Detail: stringRef(r.Method),
		})
		return
	}
	switch r.URL.Path {
	case "/debug/config":
		d.getConfig(w)
	case "/debug/pending":
		d.getPending(w)
	default:
		Error(w, Problem{Status: http.StatusNotFound, Title: "unknown debug endpoint"})
	}
}

// ConfigBrief summarizes a ServerContext's fault-injection knobs.
type ConfigBrief struct {
	SendError           bool   `json:"send_error"`
	AcceptUnprotected    bool   `json:"accept_unprotected"`
	AcceptRAVerified     bool   `json:"accept_ra_verified"`
	SendUnprotectedErrs  bool   `json:"send_unprotected_errors"`
	GrantImplicitConfirm bool   `json:"grant_implicit_confirm"`
	PollCount            int    `json:"poll_count"`
	CheckAfter           string `json:"check_after"`
}

func (d DebugAPI) getConfig(w http.ResponseWriter) {
	s := d.Ctx
	rep := ConfigBrief{
		SendError:            s.SendError,
		AcceptUnprotected:    s.AcceptUnprotected,
		AcceptRAVerified:     s.AcceptRAVerified,
		SendUnprotectedErrs:  s.SendUnprotectedErrs,
		GrantImplicitConfirm: s.GrantImplicitConfirm,
		PollCount:            s.PollCount,
		CheckAfter:           s.CheckAfter.String(),
	}
	encode(w, rep)
}

// PendingBrief describes one in-flight transaction a pollReq or certConf
// may still arrive for.
type PendingBrief struct {
	TransactionID string    `json:"transaction_id"`
	CertReqId     int       `json:"cert_req_id"`
	Received      time.Time `json:"received"`
	HasCert       bool      `json:"has_cert"`
}

func (d DebugAPI) getPending(w http.ResponseWriter) {
	rep := make([]PendingBrief, 0, len(d.Ctx.PendingRequests))
	for txID, p := range d.Ctx.PendingRequests {
		rep = append(rep, PendingBrief{
			TransactionID: hex.EncodeToString(txID[:]),
			CertReqId:     p.CertReqId,
			Received:      p.Received,
			HasCert:       len(p.CertDER) > 0,
		})
	}
	sort.Slice(rep, func(i, j int) bool { return rep[i].TransactionID < rep[j].TransactionID })
	encode(w, rep)
}

func encode(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		Error(w, Problem{Status: http.StatusInternalServerError, Title: "unable to marshal response"})
	}
}
