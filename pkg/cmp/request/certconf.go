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

package request

import (
	"crypto"
	_ "crypto/sha256" // register crypto.SHA256
	_ "crypto/sha512" // register crypto.SHA384/SHA512

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/status"
)

func digestAlgorithm(name string) crypto.Hash {
	switch name {
	case "SHA384":
		return crypto.SHA384
	case "SHA512":
		return crypto.SHA512
	default:
		return crypto.SHA256
	}
}

// BuildCertConf builds a CertConfirm for the certificate the client just
// received (spec section 4.4's "exchange_certConf"); callers must not
// invoke this before a newCert exists, nor when implicitConfirm has
// already been negotiated.
func BuildCertConf(c *cmpcontext.Context, certDER []byte, accepted status.Info) (message.Message, error) {
	if c == nil {
		return message.Message{}, cmperrors.New(cmperrors.NullArgument, "context is nil")
	}
	if len(certDER) == 0 {
		return message.Message{}, cmperrors.New(cmperrors.ErrorCreatingCertConf, "certDER is required")
	}
	h := digestAlgorithm(c.Options.DigestAlgorithm)
	d := h.New()
	d.Write(certDER)
	hash := d.Sum(nil)

	hdr, err := newHeader(c)
	if err != nil {
		return message.Message{}, cmperrors.Wrap(cmperrors.ErrorCreatingCertConf, "init header", err)
	}

	cs := message.CertStatus{CertHash: hash, CertReqId: 0, StatusInfo: &accepted}
	c.LastSentBody = message.BodyCERTCONF
	return message.Message{
		Header: hdr,
		Body:   message.CERTCONFContent{Confirmations: []message.CertStatus{cs}},
	}, nil
}
