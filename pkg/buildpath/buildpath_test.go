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

package buildpath

import (
	"path/filepath"
	"testing"
)

func TestCachePathPrefersAppEnvVar(t *testing.T) {
	t.Setenv(CacheHomeEnvVar, "/tmp/tb-cache")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	if got := CachePath("sources"); got != filepath.Join("/tmp/tb-cache", "sources") {
		t.Errorf("unexpected cache path: %s", got)
	}
}

func TestCachePathFallsBackToXDG(t *testing.T) {
	t.Setenv(CacheHomeEnvVar, "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	want := filepath.Join("/tmp/xdg-cache", "tessbuild", "sources")
	if got := CachePath("sources"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDataPath(t *testing.T) {
	t.Setenv(DataHomeEnvVar, "/tmp/tb-data")

	if got := DataPath("tessdata"); got != filepath.Join("/tmp/tb-data", "tessdata") {
		t.Errorf("unexpected data path: %s", got)
	}
}
