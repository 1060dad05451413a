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

// Package traineddata keeps locally installed trained-model files current
// with their upstream copies.
//
// Staleness is decided by byte size alone: a local file whose size differs
// from the remote Content-Length is replaced. Two different remote payloads
// of identical length are indistinguishable from "fresh"; this is a
// documented limitation of the upstream source, which exposes no content
// hash.
package traineddata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tessbuild/tessbuild/internal/fileutil"
	"github.com/tessbuild/tessbuild/pkg/getter"
)

// Tier selects one of the three upstream model quality tiers.
type Tier string

const (
	// TierBest holds the most accurate (and slowest) models.
	TierBest Tier = "tessdata_best"
	// TierFast holds speed-optimized integer models.
	TierFast Tier = "tessdata_fast"
	// TierStandard holds the legacy combined models.
	TierStandard Tier = "tessdata"
)

// ParseTier maps a user-facing tier name to its upstream repository.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "best":
		return TierBest, nil
	case "fast":
		return TierFast, nil
	case "standard", "tessdata":
		return TierStandard, nil
	}
	return "", errors.Errorf("unknown tier %q (use best, fast, or standard)", s)
}

// DefaultBaseURL is the upstream host serving the trained-model
// repositories.
const DefaultBaseURL = "https://github.com/tesseract-ocr"

// staleMarker is appended, together with the operation timestamp, to a
// superseded local file's name. Superseded files are never deleted.
const staleMarker = ".stale."

const lockTimeout = 30 * time.Second

// RemoteMetadataError indicates the remote resource's reported size was
// missing or unparsable. The checker never silently assumes staleness or
// freshness on unparsable metadata.
type RemoteMetadataError struct {
	URL   string
	Value string
}

func (e *RemoteMetadataError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("remote %s reports no content length", e.URL)
	}
	return fmt.Sprintf("remote %s reports unparsable content length %q", e.URL, e.Value)
}

// Installer downloads trained-model files and keeps them current.
type Installer struct {
	// Getter performs the network requests.
	Getter getter.Getter
	// DataDir is where model files are installed.
	DataDir string
	// BaseURL overrides DefaultBaseURL; used in tests.
	BaseURL string
	// Now supplies the operation timestamp used to rename superseded
	// files. Defaults to time.Now.
	Now func() time.Time
	// Out is the location to write progress messages.
	Out io.Writer
}

// URL computes the expected download location for an asset. Script models
// live under an extra path segment of the tier repository.
func (i *Installer) URL(tier Tier, id string, script bool) string {
	base := i.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if script {
		return fmt.Sprintf("%s/%s/raw/main/script/%s.traineddata", base, tier, id)
	}
	return fmt.Sprintf("%s/%s/raw/main/%s.traineddata", base, tier, id)
}

// LocalPath computes where an asset is installed. Script models share the
// flat data directory namespace; tesseract finds them by file name.
func (i *Installer) LocalPath(id string) string {
	return filepath.Join(i.DataDir, id+".traineddata")
}

// Ensure makes a current copy of the asset present in the data directory.
//
// A missing local file is downloaded directly. An existing one is compared
// by byte size against the remote copy: on a match it is kept with no
// transfer, otherwise it is renamed aside with a timestamp suffix and a
// fresh copy is downloaded to the canonical path.
func (i *Installer) Ensure(tier Tier, id string, script bool) error {
	href := i.URL(tier, id, script)
	local := i.LocalPath(id)

	if err := os.MkdirAll(i.DataDir, 0755); err != nil {
		return errors.Wrapf(err, "unable to create data directory %s", i.DataDir)
	}

	fileLock := flock.New(local + ".lock")
	lockCtx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := fileLock.TryLockContext(lockCtx, time.Second)
	if err != nil {
		return errors.Wrapf(err, "unable to lock %s", local)
	}
	if locked {
		defer fileLock.Unlock()
	}

	fi, err := os.Stat(local)
	if os.IsNotExist(err) {
		fmt.Fprintf(i.Out, "Installing %s from %s\n", filepath.Base(local), href)
		return i.download(href, local)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to stat %s", local)
	}

	remoteSize, err := i.remoteSize(href)
	if err != nil {
		return err
	}

	if remoteSize == fi.Size() {
		logrus.WithFields(logrus.Fields{
			"asset": id,
			"size":  remoteSize,
		}).Debug("local copy is current")
		return nil
	}

	stale := local + staleMarker + i.now().Format("20060102T150405")
	fmt.Fprintf(i.Out, "Replacing %s (local %d bytes, remote %d bytes); keeping old copy as %s\n",
		filepath.Base(local), fi.Size(), remoteSize, filepath.Base(stale))
	if err := fileutil.Rename(local, stale); err != nil {
		return err
	}
	return i.download(href, local)
}

func (i *Installer) download(href, local string) error {
	data, err := i.Getter.Get(href)
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(local, data, 0644)
}

// remoteSize queries the remote resource's content length via a header-only
// request. The value must parse as a non-negative integer.
func (i *Installer) remoteSize(href string) (int64, error) {
	headers, err := i.Getter.Head(href)
	if err != nil {
		return 0, err
	}

	v := headers.Get("Content-Length")
	if v == "" {
		return 0, &RemoteMetadataError{URL: href}
	}
	size, err := strconv.ParseInt(v, 10, 64)
	if err != nil || size < 0 {
		return 0, &RemoteMetadataError{URL: href, Value: v}
	}
	return size, nil
}

func (i *Installer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}
