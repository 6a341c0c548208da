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

// Package transfer implements the request/response exchange seam a
// cmpcontext.Context.Transfer function plugs into: HTTP POST with the
// application/pkixcmp content type (RFC 6712), or an in-process adapter
// that calls a server.Handle pipeline directly without touching the
// network (used by offline tests and the mock responder command).
package transfer

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
)

// ContentType is the MIME type RFC 6712 assigns to a CMP message body.
const ContentType = "application/pkixcmp"

// Transport is the one-method interface mock_transfer generates a mock
// for; HTTPTransfer satisfies it directly.
type Transport interface {
	Transfer(ctx context.Context, req message.Message) (message.Message, error)
}

// HTTPTransfer posts a DER-encoded Message to Endpoint and decodes the
// response body as a Message, matching cmpcontext.TransferFunc.
type HTTPTransfer struct {
	Client   *http.Client
	Endpoint string
}

// NewHTTPTransfer returns an HTTPTransfer using http.DefaultClient, which
// sets no timeout of its own; callers that need a differently configured
// client should build HTTPTransfer directly.
func NewHTTPTransfer(endpoint string) HTTPTransfer {
	return HTTPTransfer{Client: http.DefaultClient, Endpoint: endpoint}
}

// Transfer implements cmpcontext.TransferFunc.
func (t HTTPTransfer) Transfer(ctx context.Context, req message.Message) (message.Message, error) {
	der, err := message.Encode(req)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorTransferringOut, "encoding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(der))
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorTransferringOut, "building http request", err)
	}
	httpReq.Header.Set("Content-Type", ContentType)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.FailedToReceivePKIMessage, "http post", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.FailedToReceivePKIMessage, "reading response body", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return message.Message{}, cmperrors.New(cmperrors.FailedToReceivePKIMessage,
			"unexpected http status", "code", httpResp.StatusCode)
	}

	resp, err := message.Decode(body)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "decoding response", err)
	}
	return resp, nil
}

// Handler is the server-side counterpart adapting a Responder into an
// http.Handler: decode the DER request body, invoke Responder, encode
// the DER response.
type Handler struct {
	Responder Responder
}

// Responder answers one request message. Callers build one by closing
// over server.Handle's ServerContext and Protector arguments.
type Responder func(req message.Message) (message.Message, error)

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}
	req, err := message.Decode(body)
	if err != nil {
		http.Error(w, "decoding request", http.StatusBadRequest)
		return
	}
	resp, err := h.Responder(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	der, err := message.Encode(resp)
	if err != nil {
		http.Error(w, "encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(der)
}

// InProcess adapts a Responder directly into a cmpcontext.TransferFunc-
// shaped call without any network hop, for offline tests and the mock
// responder.
func InProcess(responder Responder) func(ctx context.Context, req message.Message) (message.Message, error) {
	return func(ctx context.Context, req message.Message) (message.Message, error) {
		return responder(req)
	}
}
