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

package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/server"
)

func TestDebugAPIConfig(t *testing.T) {
	s := newServerCtx()
	s.PollCount = 2
	s.AcceptUnprotected = true

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/config", nil)
	server.DebugAPI{Ctx: s}.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got server.ConfigBrief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.AcceptUnprotected)
	require.Equal(t, 2, got.PollCount)
}

func TestDebugAPIPendingListsAndHidesCert(t *testing.T) {
	s := newServerCtx()
	var txID header.TransactionID
	txID[0] = 0x42
	s.PendingRequests[txID] = cmpcontext.PendingRequest{
		CertReqId: 1,
		CertDER:   []byte{0x01},
		Received:  time.Now(),
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/pending", nil)
	server.DebugAPI{Ctx: s}.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []server.PendingBrief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.True(t, got[0].HasCert)
	require.Equal(t, 1, got[0].CertReqId)
}

func TestDebugAPIRejectsUnknownPath(t *testing.T) {
	s := newServerCtx()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/bogus", nil)
	server.DebugAPI{Ctx: s}.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebugAPIRejectsNonGET(t *testing.T) {
	s := newServerCtx()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/debug/config", nil)
	server.DebugAPI{Ctx: s}.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
