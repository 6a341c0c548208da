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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anapaya/cmpengine/pkg/cmp/client"
)

// newRevokeCmd implements 'cmpctl revoke' (rr).
func newRevokeCmd(global *globalFlags) *cobra.Command {
	var flags struct {
		keyFile  string
		certFile string
		reason   int
		endpoint string
	}

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a certificate (rr)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, cleanup, err := setupRuntime(global)
			if err != nil {
				return err
			}
			defer cleanup()

			endpoint := flags.endpoint
			if endpoint == "" {
				endpoint = cfg.Endpoint
			}

			key, err := readECKey(flags.keyFile)
			if err != nil {
				return err
			}
			cert, err := readCertificate(flags.certFile)
			if err != nil {
				return err
			}

			c := newClientContext(endpoint, cert.Subject.String(), cert)
			c.SigningKey = key
			c.Template.OldCert = cert
			c.Options.RevocationReason = flags.reason
			c.Options.UnprotectedSend = true

			result, err := client.RR(context.Background(), c, nil)
			if err != nil {
				return err
			}
			fmt.Println("revocation result:", result)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.keyFile, "key", "", "PEM PKCS#8 EC private key")
	cmd.Flags().StringVar(&flags.certFile, "cert", "", "PEM certificate being revoked")
	cmd.Flags().IntVar(&flags.reason, "reason", 0, "CRLReason code")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "responder URL; overrides config")
	return cmd
}
