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

package source

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tessbuild/tessbuild/pkg/archive"
	"github.com/tessbuild/tessbuild/pkg/cache"
)

// VersionResolver turns a version request for a project into a concrete
// version, querying the given tag source when the request is the "latest"
// sentinel. Both resolver.TagResolver and resolver.VCSResolver satisfy it.
type VersionResolver interface {
	Resolve(project, tagSource, request string) (string, error)
}

// Stager acquires upstream source archives and unpacks them for the build.
//
// Each project proceeds strictly sequentially: resolve the version, acquire
// the archive into the cache, classify it, extract it. Any failure aborts
// the project immediately; nothing is retried.
type Stager struct {
	Resolver VersionResolver
	Cache    *cache.Cache
	// UseVCS selects the project's git remote as the tag source instead
	// of its HTTP tag listing.
	UseVCS bool
	// Out is the location to write progress messages.
	Out io.Writer
}

// StageResult reports where a staged project landed.
type StageResult struct {
	Name string
	// Version is the concrete resolved version.
	Version string
	// ArchivePath is the cached local archive.
	ArchivePath string
	// Dir is the directory the source was extracted into.
	Dir string
}

// Fetch resolves the project's version and acquires its archive into the
// cache without extracting it.
func (s *Stager) Fetch(spec Spec) (*StageResult, error) {
	tagSource := spec.TagsURL
	if s.UseVCS {
		tagSource = spec.GitRemote
	}

	version, err := s.Resolver.Resolve(spec.Name, tagSource, spec.Version)
	if err != nil {
		return nil, err
	}

	local, err := s.Cache.Acquire(spec.Name, spec.URLTemplate, version)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(s.Out, "Fetched %s %s to %s\n", spec.Name, version, local)
	return &StageResult{Name: spec.Name, Version: version, ArchivePath: local}, nil
}

// Stage fetches the project's archive and extracts it into targetDir,
// normalizing away a single wrapping top-level directory.
func (s *Stager) Stage(spec Spec, targetDir string) (*StageResult, error) {
	res, err := s.Fetch(spec)
	if err != nil {
		return nil, err
	}

	typ, err := archive.DetectType(res.ArchivePath)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"project": spec.Name,
		"type":    typ,
	}).Debug("classified source archive")

	if err := archive.Extract(res.ArchivePath, targetDir); err != nil {
		return nil, errors.Wrapf(err, "staging %s", spec.Name)
	}

	res.Dir = targetDir
	fmt.Fprintf(s.Out, "Staged %s %s in %s\n", spec.Name, res.Version, targetDir)
	return res, nil
}
