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
	"crypto/x509/pkix"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/anapaya/cmpengine/pkg/cmp/cmpcontext"
	"github.com/anapaya/cmpengine/pkg/cmp/header"
	"github.com/anapaya/cmpengine/pkg/cmp/message"
	"github.com/anapaya/cmpengine/pkg/cmp/server"
	"github.com/anapaya/cmpengine/pkg/cmp/transfer"
)

type allowAll struct{}

func (allowAll) VerifyProtection(*cmpcontext.ServerContext, message.Message) error { return nil }

// newServeMockCmd implements 'cmpctl serve-mock': a scripted in-process
// responder exposed over HTTP, for exercising a client implementation
// offline without a real CA (spec section 1's mock responder use case).
func newServeMockCmd(global *globalFlags) *cobra.Command {
	var flags struct {
		listen            string
		acceptUnprotected bool
		pollCount         int
		subject           string
		certFile          string
	}

	cmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Run a scripted mock CMP responder over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, cleanup, err := setupRuntime(global)
			if err != nil {
				return err
			}
			defer cleanup()

			s := cmpcontext.NewServerContext()
			s.Self = header.DirectoryNameOf(pkix.Name{CommonName: flags.subject})
			s.AcceptUnprotected = flags.acceptUnprotected
			s.GrantImplicitConfirm = true
			s.PollCount = flags.pollCount
			s.Log = logger

			if flags.certFile != "" {
				cert, err := readCertificate(flags.certFile)
				if err != nil {
					return err
				}
				s.CertOut = cert.Raw
			} else {
				s.CertOut = []byte{0x30, 0x00}
			}

			mux := http.NewServeMux()
			mux.Handle("/", transfer.Handler{Responder: func(req message.Message) (message.Message, error) {
				return server.Handle(s, allowAll{}, req)
			}})
			mux.Handle("/debug/", server.DebugAPI{Ctx: s})
			fmt.Println("serving mock responder on", flags.listen)
			return http.ListenAndServe(flags.listen, mux)
		},
	}
	cmd.Flags().StringVar(&flags.listen, "listen", "127.0.0.1:8080", "listen address")
	cmd.Flags().BoolVar(&flags.acceptUnprotected, "accept-unprotected", true, "accept unprotected requests")
	cmd.Flags().IntVar(&flags.pollCount, "poll-count", 0, "number of pollReq rounds to require before issuing")
	cmd.Flags().StringVar(&flags.subject, "subject", "CN=mock-ca", "responder subject DN")
	cmd.Flags().StringVar(&flags.certFile, "cert-out", "", "PEM certificate scripted as every response's CertOut")
	return cmd
}
