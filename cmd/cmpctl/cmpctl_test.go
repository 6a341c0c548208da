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
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/client"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/server"
	"github.com/anapaya/cmpengine/pkg/cmp/transfer"
)

func TestParseEnrollKind(t *testing.T) {
	cases := []struct {
		in      string
		want    client.EnrollKind
		wantErr bool
	}{
		{"ir", client.KindIR, false},
		{"", client.KindIR, false},
		{"cr", client.KindCR, false},
		{"p10cr", client.KindP10CR, false},
		{"kur", client.KindKUR, false},
		{"bogus", 0, true},
	}
	for _, tc := range cases {
		got, err := parseEnrollKind(tc.in)
		if tc.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

// writeTempECKey writes a fresh PKCS#8-PEM EC private key to dir and
// returns its path, for tests that need a --key file on disk.
func writeTempECKey(t *testing.T, dir string) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	path := filepath.Join(dir, "key.pem")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	return path
}

func TestReadECKeyRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := writeTempECKey(t, dir)
	key, err := readECKey(path)
	require.NoError(t, err)
	require.NotNil(t, key)
}

func TestReadECKeyMissingFile(t *testing.T) {
	_, err := readECKey(filepath.Join(t.TempDir(), "missing.pem"))
	require.Error(t, err)
}

// TestEnrollAgainstMockResponder drives newEnrollCmd's RunE end to end
// against an in-process mock responder reachable over HTTP, exercising
// the same wiring 'cmpctl enroll' performs against a real CA.
func TestEnrollAgainstMockResponder(t *testing.T) {
	s := cmpcontext.NewServerContext()
	s.AcceptUnprotected = true
	s.GrantImplicitConfirm = true
	s.CertOut = []byte{0xAA, 0xBB, 0xCC}

	handler := transfer.Handler{Responder: func(req message.Message) (message.Message, error) {
		return server.Handle(s, nil, req)
	}}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	dir := t.TempDir()
	keyPath := writeTempECKey(t, dir)
	outPath := filepath.Join(dir, "out.pem")

	global := &globalFlags{}
	cmd := newEnrollCmd(global)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Flags().Set("key", keyPath))
	require.NoError(t, cmd.Flags().Set("subject", "CN=test-client"))
	require.NoError(t, cmd.Flags().Set("endpoint", srv.URL))
	require.NoError(t, cmd.Flags().Set("out", outPath))

	require.NoError(t, cmd.RunE(cmd, nil))

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	block, _ := pem.Decode(raw)
	require.NotNil(t, block)
	require.Equal(t, s.CertOut, block.Bytes)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"enroll", "renew", "revoke", "genm", "serve-mock"} {
		require.True(t, names[want], "missing subcommand %q", want)
	}
}
