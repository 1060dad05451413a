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

// Package buildpath calculates the directories tessbuild stores its state
// in.
package buildpath

import (
	"os"
	"path/filepath"
)

const (
	// CacheHomeEnvVar is the environment variable used by tessbuild for
	// the archive cache directory. When no value is set a default is used.
	CacheHomeEnvVar = "TESSBUILD_CACHE_HOME"

	// DataHomeEnvVar is the environment variable used by tessbuild for
	// the installed-data directory. When no value is set a default is
	// used.
	DataHomeEnvVar = "TESSBUILD_DATA_HOME"
)

// lazypath is a lazy-loaded path buffer following the XDG base directory
// specification.
type lazypath string

func (l lazypath) path(appEnvVar, xdgEnvVar string, defaultFn func() string, elem ...string) string {
	// There is an order to checking for a path.
	// 1. See if a tessbuild specific environment variable has been set.
	// 2. Check if an XDG environment variable is set.
	// 3. Fall back to a default.
	base := os.Getenv(appEnvVar)
	if base != "" {
		return filepath.Join(base, filepath.Join(elem...))
	}
	base = os.Getenv(xdgEnvVar)
	if base == "" {
		base = defaultFn()
	}
	return filepath.Join(base, string(l), filepath.Join(elem...))
}

func (l lazypath) cachePath(elem ...string) string {
	return l.path(CacheHomeEnvVar, "XDG_CACHE_HOME", cacheHome, filepath.Join(elem...))
}

func (l lazypath) dataPath(elem ...string) string {
	return l.path(DataHomeEnvVar, "XDG_DATA_HOME", dataHome, filepath.Join(elem...))
}

func cacheHome() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return filepath.Join(homeDir(), ".cache")
}

func dataHome() string {
	return filepath.Join(homeDir(), ".local", "share")
}

func homeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}

var lp = lazypath("tessbuild")

// CachePath returns the path where tessbuild caches downloaded archives.
func CachePath(elem ...string) string { return lp.cachePath(elem...) }

// DataPath returns the path where tessbuild installs data assets.
func DataPath(elem ...string) string { return lp.dataPath(elem...) }
