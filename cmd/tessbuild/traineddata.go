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
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/tessbuild/tessbuild/pkg/getter"
	"github.com/tessbuild/tessbuild/pkg/traineddata"
)

const traineddataDesc = `
Install trained-model files and keep them current.

Each named asset is a language code (eng, deu) or, with --script, a
script code (Latin, Devanagari). A present local file is compared by
byte size against the upstream copy; a differing local file is renamed
aside with a timestamp suffix and replaced. Superseded copies are
never deleted.
`

type traineddataCmd struct {
	assets []string
	tier   string
	script bool

	out io.Writer
}

func newTraineddataCmd(out io.Writer) *cobra.Command {
	tc := &traineddataCmd{out: out}

	cmd := &cobra.Command{
		Use:   "traineddata",
		Short: "install and refresh trained-model files",
		Long:  traineddataDesc,
	}

	ensure := &cobra.Command{
		Use:   "ensure ASSET...",
		Short: "make current copies of the named assets present",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("this command needs at least one asset name")
			}
			tc.assets = args
			return tc.run()
		},
	}
	f := ensure.Flags()
	f.StringVar(&tc.tier, "tier", "best", "model quality tier: best, fast, or standard")
	f.BoolVar(&tc.script, "script", false, "treat the assets as script codes rather than language codes")

	cmd.AddCommand(ensure)
	return cmd
}

func (tc *traineddataCmd) run() error {
	tier, err := traineddata.ParseTier(tc.tier)
	if err != nil {
		return err
	}

	g, err := getter.NewHTTPGetter(getter.WithTimeout(settings.Timeout))
	if err != nil {
		return err
	}

	installer := &traineddata.Installer{
		Getter:  g,
		DataDir: settings.DataDir,
		Out:     tc.out,
	}

	for _, id := range tc.assets {
		if err := installer.Ensure(tier, id, tc.script); err != nil {
			return err
		}
	}
	return nil
}
