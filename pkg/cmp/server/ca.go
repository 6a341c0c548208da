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
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha1"
	"crypto/x509"
	"math/big"
	"time"

	"github.com/anapaya/cmpengine/pkg/cmp/cmperrors"
)

// CAPolicy defines how leaf certificates are issued when a ServerContext
// has no fixed CertOut configured (a responder that actually signs
// instead of replaying a scripted output).
type CAPolicy struct {
	// Validity is the issued certificate's lifetime.
	Validity time.Duration
	// Certificate is the CA certificate.
	Certificate *x509.Certificate
	// Signer holds the private key authenticated by Certificate.
	Signer crypto.Signer
	// CurrentTime indicates the signing time; the zero value means "now".
	CurrentTime time.Time
}

// IssueFunc adapts ca into the cmpcontext.ServerContext.Issuer seam: it
// parses csrDER as a PKCS#10 CertificationRequest and issues a leaf
// certificate for it.
func (ca CAPolicy) IssueFunc() func(csrDER []byte) ([]byte, error) {
	return func(csrDER []byte) ([]byte, error) {
		csr, err := x509.ParseCertificateRequest(csrDER)
		if err != nil {
			return nil, cmperrors.Wrap(cmperrors.ErrorDecodingMessage, "parse csr", err)
		}
		if err := csr.CheckSignature(); err != nil {
			return nil, cmperrors.Wrap(cmperrors.ErrorValidatingProtection, "csr signature", err)
		}
		return ca.issue(csr)
	}
}

// issue creates a leaf certificate for csr signed by ca, mirroring
// CAPolicy.CreateChain's shape: random serial, subject key ID from the
// requester's public key, authority key ID from the CA certificate.
func (ca CAPolicy) issue(csr *x509.CertificateRequest) ([]byte, error) {
	now := ca.CurrentTime
	if now.IsZero() {
		now = time.Now()
	}

	serial := make([]byte, 20)
	if _, err := rand.Read(serial); err != nil {
		return nil, cmperrors.Wrap(cmperrors.ErrorCreatingCertRep, "generate serial", err)
	}

	skid, err := SubjectKeyID(csr.PublicKey)
	if err != nil {
		return nil, cmperrors.Wrap(cmperrors.ErrorCreatingCertRep, "compute subject key id", err)
	}

	subject := csr.Subject
	subject.ExtraNames = subject.Names

	tmpl := &x509.Certificate{
		SignatureAlgorithm:    x509.ECDSAWithSHA512,
		Version:               3,
		SerialNumber:          big.NewInt(0).SetBytes(serial),
		Subject:               subject,
		NotBefore:             now,
		NotAfter:              now.Add(ca.Validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: false,
		SubjectKeyId:          skid,
		AuthorityKeyId:        ca.Certificate.SubjectKeyId,
	}
	raw, err := x509.CreateCertificate(rand.Reader, tmpl, ca.Certificate, csr.PublicKey, ca.Signer)
	if err != nil {
		return nil, cmperrors.Wrap(cmperrors.ErrorCreatingCertRep, "sign certificate", err)
	}
	return raw, nil
}

// SubjectKeyID computes a subject key identifier per RFC 5280 section
// 4.2.1.2 (1): the SHA-1 hash of the marshaled public key.
func SubjectKeyID(pub crypto.PublicKey) ([]byte, error) {
	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		skid := sha1.Sum(elliptic.Marshal(k.Curve, k.X, k.Y))
		return skid[:], nil
	default:
		return nil, cmperrors.New(cmperrors.UnknownCertType, "unsupported public key type")
	}
}
