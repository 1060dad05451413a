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

package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestEnvSettingsFromEnvironment(t *testing.T) {
	t.Setenv("TESSBUILD_CACHE_DIR", "/tmp/custom-cache")
	t.Setenv("TESSBUILD_DATA_DIR", "/tmp/custom-data")
	t.Setenv("TESSBUILD_DEBUG", "1")
	t.Setenv("TESSBUILD_TIMEOUT", "30s")

	s := New()
	if s.CacheDir != "/tmp/custom-cache" {
		t.Errorf("unexpected cache dir: %s", s.CacheDir)
	}
	if s.DataDir != "/tmp/custom-data" {
		t.Errorf("unexpected data dir: %s", s.DataDir)
	}
	if !s.Debug {
		t.Error("expected debug mode on")
	}
	if s.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout: %s", s.Timeout)
	}
}

func TestEnvSettingsFlagsOverride(t *testing.T) {
	t.Setenv("TESSBUILD_CACHE_DIR", "/tmp/from-env")

	s := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	s.AddFlags(fs)

	if err := fs.Parse([]string{"--cache-dir", "/tmp/from-flag", "--debug"}); err != nil {
		t.Fatal(err)
	}

	if s.CacheDir != "/tmp/from-flag" {
		t.Errorf("flag should override env, got %s", s.CacheDir)
	}
	if !s.Debug {
		t.Error("expected debug flag to be set")
	}
}

func TestEnvSettingsDefaults(t *testing.T) {
	t.Setenv("TESSBUILD_CACHE_DIR", "")
	t.Setenv("TESSBUILD_TIMEOUT", "")

	s := New()
	// An explicitly empty env var still wins over the computed default;
	// the timeout falls back.
	if s.CacheDir != "" {
		t.Errorf("expected empty cache dir from explicit env, got %s", s.CacheDir)
	}
	if s.Timeout != 120*time.Second {
		t.Errorf("expected default timeout, got %s", s.Timeout)
	}
}
