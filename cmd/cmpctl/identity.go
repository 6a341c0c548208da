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

package main

import (
	"crypto/ecdsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"os"

	"github.com/pkg/errors"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/transfer"
)

// readECKey reads a PEM-encoded PKCS#8 EC private key from file, the
// same format renew.go's readECKey expects.
func readECKey(file string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading key file %q", file)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.Errorf("no PEM block found in %q", file)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing PKCS#8 key in %q", file)
	}
	v, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.Errorf("%q: only ecdsa keys are supported", file)
	}
	return v, nil
}

// readCertificate reads a single PEM-encoded certificate from file.
func readCertificate(file string) (*x509.Certificate, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading certificate file %q", file)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.Errorf("no PEM block found in %q", file)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing certificate in %q", file)
	}
	return cert, nil
}

// writeCertificate writes a single DER certificate to file in PEM form.
func writeCertificate(certDER []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "creating output file %q", file)
	}
	defer f.Close()
	return pem.Encode(f, &pem.Block{Type: "CERTIFICATE", Bytes: certDER})
}

// newClientContext builds a cmpcontext.Context wired to cfg's HTTP
// endpoint, ready for any of Enroll/RR/GENM.
func newClientContext(endpoint, subject string, self *x509.Certificate) *cmpcontext.Context {
	c := cmpcontext.NewContext()
	if self != nil {
		c.Self = header.DirectoryNameOf(self.Subject)
	} else {
		c.Self = header.DirectoryNameOf(pkix.Name{CommonName: subject})
	}
	c.Template.Subject = subject
	c.Transfer = transfer.NewHTTPTransfer(endpoint).Transfer
	return c
}
