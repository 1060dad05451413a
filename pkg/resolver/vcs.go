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

package resolver

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// VCSResolver resolves the "latest" sentinel by cloning a version-control
// remote into a working directory and inspecting its tags. It covers tag
// sources that expose no HTTP listing endpoint.
//
// Unlike TagResolver it does not trust remote ordering: tags are filtered to
// valid semantic versions and the highest one wins.
type VCSResolver struct {
	// Workdir holds per-project clones between runs.
	Workdir string
	// Repo, when set, is used instead of cloning the remote.
	Repo vcs.Repo
}

// Resolve returns the concrete version for request, cloning or updating the
// project's repository as needed.
func (r *VCSResolver) Resolve(project, remote, request string) (string, error) {
	if request != Latest {
		return request, nil
	}

	repo := r.Repo
	if repo == nil {
		local := filepath.Join(r.Workdir, project)
		var err error
		repo, err = vcs.NewRepo(remote, local)
		if err != nil {
			return "", &ResolutionError{Project: project, URL: remote, Err: err}
		}
	}

	var err error
	if repo.CheckLocal() {
		err = repo.Update()
	} else {
		err = repo.Get()
	}
	if err != nil {
		return "", &ResolutionError{Project: project, URL: remote, Err: err}
	}

	refs, err := repo.Tags()
	if err != nil {
		return "", &ResolutionError{Project: project, URL: remote, Err: err}
	}
	logrus.WithField("project", project).Debugf("found refs: %s", refs)

	semvers := getSemVers(refs)
	if len(semvers) == 0 {
		return "", &ResolutionError{Project: project, URL: remote, Err: errors.New("no semver tags found")}
	}

	sort.Sort(semver.Collection(semvers))
	latest := semvers[len(semvers)-1]
	return strings.TrimPrefix(latest.Original(), "v"), nil
}

// getSemVers converts tags to semver.Version instances, filtering out
// references that do not parse.
func getSemVers(refs []string) []*semver.Version {
	var sv []*semver.Version
	for _, r := range refs {
		if v, err := semver.NewVersion(r); err == nil {
			sv = append(sv, v)
		}
	}
	return sv
}
