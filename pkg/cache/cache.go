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

// Package cache maps a (logical-artifact, resolved-version) pair to a local
// file path, avoiding redundant network transfer. The cache directory is a
// flat namespace keyed by download filename and persists across process
// invocations.
package cache

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tessbuild/tessbuild/internal/fileutil"
	"github.com/tessbuild/tessbuild/pkg/getter"
)

// VersionToken is the placeholder in a URL template that a resolved version
// is substituted for. A template may legitimately not contain it (a fully
// pinned URL).
const VersionToken = "{version}"

const lockTimeout = 30 * time.Second

// Cache acquires versioned artifacts into a flat directory.
type Cache struct {
	// Dir is the cache directory. It is created on first use.
	Dir string
	// Getter performs the downloads.
	Getter getter.Getter
}

// ExpandTemplate substitutes version for every occurrence of the version
// token in tmpl.
func ExpandTemplate(tmpl, version string) string {
	return strings.ReplaceAll(tmpl, VersionToken, version)
}

// Acquire resolves the download filename for the artifact and returns the
// absolute local path of a cached copy, downloading on a miss.
//
// An existing file under the resolved name is trusted as valid: the filename
// inside the cache directory is the sole cache key, and no integrity check
// is performed. The URL-derived filename is checked before any request is
// issued, so re-running with an unchanged cache directory performs zero
// network traffic and succeeds with the origin unreachable.
func (c *Cache) Acquire(name, urlTemplate, version string) (string, error) {
	href := ExpandTemplate(urlTemplate, version)

	u, err := url.Parse(href)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", errors.Errorf("artifact %s: substituted URL %q is not a well-formed absolute URL", name, href)
	}

	if base, err := urlFilename(u); err == nil {
		if local, ok := c.hit(name, base); ok {
			return local, nil
		}
	}

	// Miss under the URL-derived name: ask the origin, which may supply a
	// different attachment filename.
	filename, err := RemoteFilename(c.Getter, href)
	if err != nil {
		return "", errors.Wrapf(err, "artifact %s", name)
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create cache directory %s", c.Dir)
	}

	local, err := filepath.Abs(filepath.Join(c.Dir, filename))
	if err != nil {
		return "", err
	}

	if cached, ok := c.hit(name, filename); ok {
		return cached, nil
	}

	// Guard against a concurrent invocation downloading the same key.
	fileLock := flock.New(local + ".lock")
	lockCtx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := fileLock.TryLockContext(lockCtx, time.Second)
	if err != nil {
		return "", errors.Wrapf(err, "unable to lock cache entry %s", local)
	}
	if locked {
		defer fileLock.Unlock()
	}

	// Another invocation may have finished the download while we waited.
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	logrus.WithFields(logrus.Fields{
		"artifact": name,
		"url":      href,
	}).Debug("cache miss, downloading")

	data, err := c.Getter.Get(href)
	if err != nil {
		return "", errors.Wrapf(err, "artifact %s", name)
	}

	// A failed download must not occupy the canonical cache path, or a
	// subsequent run would mistake the partial file for a valid hit.
	if err := fileutil.AtomicWriteFile(local, data, 0644); err != nil {
		return "", errors.Wrapf(err, "artifact %s", name)
	}
	return local, nil
}

// hit reports whether a cached copy exists under filename.
func (c *Cache) hit(name, filename string) (string, bool) {
	local, err := filepath.Abs(filepath.Join(c.Dir, filename))
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(local); err != nil {
		return "", false
	}
	logrus.WithFields(logrus.Fields{
		"artifact": name,
		"path":     local,
	}).Debug("cache hit")
	return local, true
}
