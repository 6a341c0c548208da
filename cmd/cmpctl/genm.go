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
	"github.com/anapaya/cmpengine/pkg/cmp/header"
)

// newGenmCmd implements 'cmpctl genm', sending a bare implicitConfirm
// ITAV and printing whatever comes back; a general-purpose probe for a
// responder's genm handling.
func newGenmCmd(global *globalFlags) *cobra.Command {
	var flags struct {
		subject  string
		endpoint string
	}

	cmd := &cobra.Command{
		Use:   "genm",
		Short: "Send a General Message and print the General Response ITAVs",
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

			c := newClientContext(endpoint, flags.subject, nil)
			c.Options.UnprotectedSend = true

			itavs, err := client.GENM(context.Background(), c, nil, []header.ITAV{header.ImplicitConfirmITAV()})
			if err != nil {
				return err
			}
			fmt.Printf("received %d ITAVs\n", len(itavs))
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.subject, "subject", "", "subject DN string")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "responder URL; overrides config")
	return cmd
}
