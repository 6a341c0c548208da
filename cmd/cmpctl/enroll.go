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

// newEnrollCmd implements 'cmpctl enroll', the IR/CR/P10CR driver,
// mirroring renew.go's newRenewCmd flags-struct-plus-RunE shape.
func newEnrollCmd(global *globalFlags) *cobra.Command {
	var flags struct {
		keyFile  string
		outFile  string
		subject  string
		kind     string
		endpoint string
	}

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Request a new certificate (ir/cr/p10cr)",
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

			c := newClientContext(endpoint, flags.subject, nil)
			c.SigningKey = key
			c.Options.TotalTimeout = cfg.TotalTimeout
			c.Options.MessageTimeout = cfg.MessageTimeout
			// No Protector is wired in yet, so every outbound message this
			// engine builds is unprotected; accept unprotected responses to
			// match.
			c.Options.UnprotectedSend = true

			kind, err := parseEnrollKind(flags.kind)
			if err != nil {
				return err
			}

			if err := client.Enroll(context.Background(), c, nil, kind, nil); err != nil {
				return err
			}

			if flags.outFile != "" {
				if err := writeCertificate(c.NewCert, flags.outFile); err != nil {
					return err
				}
			}
			fmt.Println("issued certificate, transactionID:", c.TransactionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.keyFile, "key", "", "PEM PKCS#8 EC private key")
	cmd.Flags().StringVar(&flags.outFile, "out", "", "output file for the issued certificate")
	cmd.Flags().StringVar(&flags.subject, "subject", "", "subject DN string")
	cmd.Flags().StringVar(&flags.kind, "kind", "ir", "request kind: ir, cr, or p10cr")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "responder URL; overrides config")
	return cmd
}

func parseEnrollKind(s string) (client.EnrollKind, error) {
	switch s {
	case "ir", "":
		return client.KindIR, nil
	case "cr":
		return client.KindCR, nil
	case "p10cr":
		return client.KindP10CR, nil
	case "kur":
		return client.KindKUR, nil
	default:
		return 0, fmt.Errorf("unknown enroll kind %q", s)
	}
}
