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

package cache

import (
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/tessbuild/tessbuild/pkg/getter"
)

// FilenameInferenceError indicates that no usable local filename could be
// determined for a download URL.
type FilenameInferenceError struct {
	URL string
}

func (e *FilenameInferenceError) Error() string {
	return fmt.Sprintf("unable to infer a filename for %s", e.URL)
}

// RemoteFilename determines the filename under which the payload at href
// should be stored locally.
//
// A header-only request is issued first (following redirects); a server
// supplied attachment filename wins over the URL itself. Without one, the
// final URL path segment is used with any query string discarded. A URL path
// ending in a separator carries no discernible filename and fails.
func RemoteFilename(g getter.Getter, href string) (string, error) {
	headers, err := g.Head(href)
	if err != nil {
		return "", err
	}

	// Header lookup is case-insensitive. Some origins leave a carriage
	// return artifact on the value or the filename parameter; a value
	// that still fails to parse is treated as absent.
	if cd := strings.TrimSuffix(headers.Get("Content-Disposition"), "\r"); cd != "" {
		if disposition, params, err := mime.ParseMediaType(cd); err == nil {
			if strings.EqualFold(disposition, "attachment") {
				if name := strings.TrimSuffix(params["filename"], "\r"); name != "" {
					return name, nil
				}
			}
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", errors.Wrapf(err, "invalid download URL %s", href)
	}
	return urlFilename(u)
}

// urlFilename derives a filename from the final URL path segment, with any
// query string discarded. A path ending in a separator carries no
// discernible filename.
func urlFilename(u *url.URL) (string, error) {
	if strings.HasSuffix(u.Path, "/") || u.Path == "" {
		return "", &FilenameInferenceError{URL: u.String()}
	}
	return path.Base(u.Path), nil
}
