/*
Copyright The Tessbuild Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tessbuild/tessbuild/pkg/cli"
)

const rootDesc = `
Tessbuild fetches, caches, and stages the upstream sources of a
host-optimized OCR toolchain, and keeps installed trained-model files
current.
`

var settings = cli.New()

func newRootCmd(out io.Writer, args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tessbuild",
		Short:        "acquire and stage OCR toolchain sources and data",
		Long:         rootDesc,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if settings.Debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flags := cmd.PersistentFlags()
	settings.AddFlags(flags)
	flags.Parse(args)

	cmd.AddCommand(
		newSourceCmd(out),
		newTraineddataCmd(out),
		newVersionCmd(out),
	)

	return cmd
}
