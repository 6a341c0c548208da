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

// newRenewCmd implements 'cmpctl renew', the Key Update Request (kur)
// driver: it requires the certificate being renewed, unlike a fresh
// enroll.
func newRenewCmd(global *globalFlags) *cobra.Command {
	var flags struct {
		keyFile     string
		oldCertFile string
		outFile     string
		endpoint    string
	}

	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Renew an existing certificate (kur)",
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
			oldCert, err := readCertificate(flags.oldCertFile)
			if err != nil {
				return err
			}

			c := newClientContext(endpoint, oldCert.Subject.String(), oldCert)
			c.SigningKey = key
			c.Template.OldCert = oldCert
			c.Options.TotalTimeout = cfg.TotalTimeout
			c.Options.MessageTimeout = cfg.MessageTimeout
			c.Options.UnprotectedSend = true

			if err := client.Enroll(context.Background(), c, nil, client.KindKUR, nil); err != nil {
				return err
			}
			if flags.outFile != "" {
				if err := writeCertificate(c.NewCert, flags.outFile); err != nil {
					return err
				}
			}
			fmt.Println("renewed certificate, transactionID:", c.TransactionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.keyFile, "key", "", "PEM PKCS#8 EC private key")
	cmd.Flags().StringVar(&flags.oldCertFile, "cert", "", "PEM certificate being renewed")
	cmd.Flags().StringVar(&flags.outFile, "out", "", "output file for the renewed certificate")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "responder URL; overrides config")
	return cmd
}
