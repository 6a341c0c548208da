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

// Package client implements the client session engine: the six
// transaction drivers (IR/CR/KUR/P10CR/RR/GENM) plus the error and
// certConf exchanges, all built on top of cmpcontext.Context,
// pkg/cmp/request, and pkg/cmp/verify (spec section 4.4).
package client

import (
	"context"
	"time"

	"github.com/anapaya/cmpengine/internal/cmpmetrics"
	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/request"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
	"github.com/anapaya/cmpengine/pkg/cmp/verify"
)

// EnrollKind selects which of the four certificate-issuance request
// bodies Enroll builds.
type EnrollKind int

const (
	KindIR EnrollKind = iota
	KindCR
	KindKUR
	KindP10CR
)

var enrollKindNames = map[EnrollKind]string{
	KindIR: "ir", KindCR: "cr", KindKUR: "kur", KindP10CR: "p10cr",
}

func (k EnrollKind) String() string {
	if n, ok := enrollKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Enroll drives a full IR/CR/KUR/P10CR transaction to completion: build,
// send, handle polling, extract the certificate, and (unless confirm is
// disabled or implicitly granted) perform the certConf/PKIConf exchange.
// On success c.NewCert, c.CAPubs, and c.ExtraCertsIn are populated.
func Enroll(ctx context.Context, c *cmpcontext.Context, p verify.Protector, kind EnrollKind, popBytes []byte) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		cmpmetrics.ObserveTransaction(kind.String(), outcome, start)
	}()

	if c == nil {
		return cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if c.Transfer == nil {
		return cmperrors.New(cmperrors.ErrorTransferringOut, "no transfer configured")
	}

	req, err := buildEnroll(c, kind, popBytes)
	if err != nil {
		return err
	}

	resp, err := exchange(ctx, c, p, req)
	if err != nil {
		return err
	}

	cr, info, err := firstCertResponse(resp)
	if err != nil {
		return err
	}

	if info.Status == status.Waiting {
		resp, cr, info, err = pollLoop(ctx, c, p, cr.CertReqId)
		if err != nil {
			return err
		}
	}

	if info.Status != status.Accepted && info.Status != status.GrantedWithMods {
		return cmperrors.New(cmperrors.UnexpectedPKIStatus, "cert request not accepted",
			"status", info.Status.String())
	}

	c.NewCert = cr.CertDER
	c.CAPubs = capubsOf(resp)
	c.ExtraCertsIn = resp.ExtraCerts

	if len(c.NewCert) == 0 || c.Options.DisableConfirm || header.CheckImplicitConfirm(resp.Header) {
		return nil
	}
	return confirmCert(ctx, c, p, c.NewCert, status.Info{Status: status.Accepted})
}

func buildEnroll(c *cmpcontext.Context, kind EnrollKind, popBytes []byte) (message.Message, error) {
	switch kind {
	case KindIR:
		return request.BuildIR(c, popBytes)
	case KindCR:
		return request.BuildCR(c, popBytes)
	case KindKUR:
		return request.BuildKUR(c, popBytes)
	case KindP10CR:
		return request.BuildP10CR(c)
	default:
		return message.Message{}, cmperrors.New(cmperrors.InvalidArgs, "unknown enroll kind", "kind", kind)
	}
}
