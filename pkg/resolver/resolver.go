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

// Package resolver turns symbolic version requests into concrete version
// strings by querying an upstream tag source.
package resolver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tessbuild/tessbuild/pkg/getter"
)

// Latest is the sentinel version request meaning "newest upstream tag".
const Latest = "latest"

// ResolutionError indicates that no concrete version could be determined
// for a project.
type ResolutionError struct {
	Project string
	URL     string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve version for %s from %s: %s", e.Project, e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// TagResolver resolves the "latest" sentinel against a remote tag-reference
// listing over HTTP. Results are not cached; each call re-queries.
type TagResolver struct {
	getter getter.Getter
}

// NewTagResolver creates a TagResolver backed by g.
func NewTagResolver(g getter.Getter) *TagResolver {
	return &TagResolver{getter: g}
}

// Resolve returns the concrete version for request.
//
// A literal version request is returned unchanged with no network call. The
// "latest" sentinel queries tagsURL, which must return a JSON array of tag
// references in ascending chronological order; the last entry wins. Any
// tag-name prefix ("refs/tags/", a leading "v") is stripped.
func (r *TagResolver) Resolve(project, tagsURL, request string) (string, error) {
	if request != Latest {
		return request, nil
	}

	body, err := r.getter.Get(tagsURL)
	if err != nil {
		return "", &ResolutionError{Project: project, URL: tagsURL, Err: err}
	}

	tags, err := parseTagListing(body.Bytes())
	if err != nil {
		return "", &ResolutionError{Project: project, URL: tagsURL, Err: err}
	}
	if len(tags) == 0 {
		return "", &ResolutionError{Project: project, URL: tagsURL, Err: errors.New("tag listing is empty")}
	}

	version := stripTagPrefix(tags[len(tags)-1])
	if version == "" {
		return "", &ResolutionError{Project: project, URL: tagsURL, Err: errors.Errorf("tag %q has no version", tags[len(tags)-1])}
	}

	logrus.WithFields(logrus.Fields{
		"project": project,
		"version": version,
	}).Debug("resolved latest version")
	return version, nil
}

// parseTagListing decodes a tag-reference listing. Elements may be plain
// reference strings or objects bearing a "ref" field (the GitHub git-refs
// API shape).
func parseTagListing(data []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "unparsable tag listing")
	}

	tags := make([]string, 0, len(raw))
	for _, elem := range raw {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			tags = append(tags, s)
			continue
		}
		var obj struct {
			Ref string `json:"ref"`
		}
		if err := json.Unmarshal(elem, &obj); err != nil || obj.Ref == "" {
			return nil, errors.Errorf("unparsable tag listing entry: %s", elem)
		}
		tags = append(tags, obj.Ref)
	}
	return tags, nil
}

// stripTagPrefix reduces a tag reference to its bare version token. A
// resolved version never begins with a tag-name prefix character.
func stripTagPrefix(ref string) string {
	version := ref
	if i := strings.LastIndex(version, "/"); i >= 0 {
		version = version[i+1:]
	}
	return strings.TrimPrefix(version, "v")
}
