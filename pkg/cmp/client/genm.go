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
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/request"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
	"github.com/anapaya/cmpengine/pkg/cmp/verify"
)

// GENM drives a general-message transaction: build GENM carrying itavs,
// expect GENP, and hand back its ITAV list (ownership transferred to
// the caller).
func GENM(ctx context.Context, c *cmpcontext.Context, p verify.Protector, itavs []header.ITAV) ([]header.ITAV, error) {
	if c == nil {
		return nil, cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if c.Transfer == nil {
		return nil, cmperrors.New(cmperrors.ErrorTransferringOut, "no transfer configured")
	}

	req, err := request.BuildGENM(c, itavs)
	if err != nil {
		return nil, err
	}
	resp, err := exchange(ctx, c, p, req)
	if err != nil {
		return nil, err
	}
	genp, ok := resp.Body.(message.GENPContent)
	if !ok {
		return nil, cmperrors.New(cmperrors.UnexpectedPKIBody, "expected genp",
			"got", resp.Body.BodyType().String())
	}
	return genp.ITAVs, nil
}

// SendError sends an ERROR body at any point in a session (spec section
// 4.4 "exchange_error"). A reply is not required; if the peer answers
// with PKIConf it is validated but otherwise ignored, and a reply that
// is itself an ERROR is reported to the caller.
func SendError(ctx context.Context, c *cmpcontext.Context, p verify.Protector, info status.Info, details ...string) error {
	if c == nil {
		return cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if c.Transfer == nil {
		return cmperrors.New(cmperrors.ErrorTransferringOut, "no transfer configured")
	}
	req, err := request.BuildError(c, info, details...)
	if err != nil {
		return err
	}
	resp, err := c.Transfer(ctx, req)
	if err != nil {
		return cmperrors.Wrap(cmperrors.ErrorTransferringOut, "transfer", err)
	}
	if resp.Body == nil {
		return nil
	}
	if err := verify.ValidateReceived(c, p, resp); err != nil {
		return err
	}
	if e, ok := resp.Body.(message.ERRORContent); ok {
		return cmperrors.New(cmperrors.PkibodyError, "peer answered with error",
			"status", e.PKIStatusInfo.Status.String(), "failInfo", e.PKIStatusInfo.FailInfo.String())
	}
	return nil
}
