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

package client

import (
	"context"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/request"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
	"github.com/anapaya/cmpengine/pkg/cmp/verify"
)

// RRResult is the outcome of a revocation transaction, mapped from the
// RP's PKIStatus per spec section 4.4.
type RRResult int

const (
	RRAccepted RRResult = iota
	RRGrantedWithMods
	RRRevocationWarning
	RRRevocationNotification
	RRRejected
)

// RR drives a full revocation transaction: build RR from c.Template.OldCert,
// send, receive RP, validate, and map RP.Status to an RRResult. A
// `rejection` status is a non-error negative outcome (RRRejected, nil
// error); `waiting`/`keyUpdateWarning` and any other value are reported
// as errors.
func RR(ctx context.Context, c *cmpcontext.Context, p verify.Protector) (RRResult, error) {
	if c == nil {
		return 0, cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if c.Transfer == nil {
		return 0, cmperrors.New(cmperrors.ErrorTransferringOut, "no transfer configured")
	}

	req, err := request.BuildRR(c)
	if err != nil {
		return 0, err
	}
	resp, err := exchange(ctx, c, p, req)
	if err != nil {
		return 0, err
	}
	rp, ok := resp.Body.(message.RPContent)
	if !ok {
		return 0, cmperrors.New(cmperrors.UnexpectedPKIBody, "expected rp",
			"got", resp.Body.BodyType().String())
	}
	if len(rp.Status) == 0 {
		return 0, cmperrors.New(cmperrors.PKIStatusInfoNotFound, "rp carries no status")
	}

	switch rp.Status[0].Status {
	case status.Accepted:
		return RRAccepted, nil
	case status.GrantedWithMods:
		return RRGrantedWithMods, nil
	case status.RevocationWarning:
		return RRRevocationWarning, nil
	case status.RevocationNotification:
		return RRRevocationNotification, nil
	case status.Rejection:
		return RRRejected, nil
	case status.Waiting, status.KeyUpdateWarning:
		return 0, cmperrors.New(cmperrors.UnexpectedPKIStatus, "unexpected rr status",
			"status", rp.Status[0].Status.String())
	default:
		return 0, cmperrors.New(cmperrors.UnknownPKIStatus, "unknown rr status",
			"status", int(rp.Status[0].Status))
	}
}
