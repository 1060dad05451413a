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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tessbuild/tessbuild/pkg/cache"
	"github.com/tessbuild/tessbuild/pkg/getter"
	"github.com/tessbuild/tessbuild/pkg/resolver"
	"github.com/tessbuild/tessbuild/pkg/source"
)

const sourceDesc = `
Acquire upstream source archives for the OCR toolchain.

Without arguments both built-in projects are processed in build order:
the imaging library (leptonica) first, then the OCR engine (tesseract).
The requested version defaults to "latest", which is resolved against
the project's upstream tag listing.
`

type sourceCmd struct {
	projects []string
	version  string
	target   string
	vcs      bool

	out io.Writer
}

func newSourceCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "fetch and stage upstream source archives",
		Long:  sourceDesc,
	}
	cmd.AddCommand(newSourceFetchCmd(out), newSourceStageCmd(out))
	return cmd
}

func newSourceFetchCmd(out io.Writer) *cobra.Command {
	sc := &sourceCmd{out: out}

	cmd := &cobra.Command{
		Use:   "fetch [project...]",
		Short: "download source archives into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc.projects = args
			return sc.run(false)
		},
	}
	f := cmd.Flags()
	f.StringVar(&sc.version, "version", "", "pin a version instead of resolving \"latest\"")
	f.BoolVar(&sc.vcs, "vcs", false, "resolve \"latest\" from git tags instead of the HTTP tag listing")
	return cmd
}

func newSourceStageCmd(out io.Writer) *cobra.Command {
	sc := &sourceCmd{out: out}

	cmd := &cobra.Command{
		Use:   "stage [project...]",
		Short: "download and extract source archives into the staging area",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc.projects = args
			return sc.run(true)
		},
	}
	f := cmd.Flags()
	f.StringVar(&sc.version, "version", "", "pin a version instead of resolving \"latest\"")
	f.StringVar(&sc.target, "target", "src", "directory to stage sources under, one subdirectory per project")
	f.BoolVar(&sc.vcs, "vcs", false, "resolve \"latest\" from git tags instead of the HTTP tag listing")
	return cmd
}

func (sc *sourceCmd) run(stage bool) error {
	g, err := getter.NewHTTPGetter(getter.WithTimeout(settings.Timeout))
	if err != nil {
		return err
	}

	var res source.VersionResolver = resolver.NewTagResolver(g)
	if sc.vcs {
		res = &resolver.VCSResolver{Workdir: filepath.Join(settings.CacheDir, "vcs")}
	}

	stager := &source.Stager{
		Resolver: res,
		Cache:    &cache.Cache{Dir: settings.CacheDir, Getter: g},
		UseVCS:   sc.vcs,
		Out:      sc.out,
	}

	names := sc.projects
	if len(names) == 0 {
		names = source.Projects()
	}

	for _, name := range names {
		spec, err := source.Lookup(name)
		if err != nil {
			return err
		}
		if sc.version != "" {
			spec.Version = sc.version
		}

		if stage {
			_, err = stager.Stage(spec, filepath.Join(sc.target, spec.Name))
		} else {
			_, err = stager.Fetch(spec)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
