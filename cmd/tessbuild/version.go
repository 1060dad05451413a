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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tessbuild/tessbuild/internal/version"
)

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the tessbuild version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version.Get()
			if v.GitCommit != "" {
				fmt.Fprintf(out, "%s+g%s %s\n", v.Version, v.GitCommit[:7], v.GoVersion)
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", v.Version, v.GoVersion)
			return nil
		},
	}
}
