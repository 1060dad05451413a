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
	"bytes"
	"strings"
	"testing"

	"github.com/tessbuild/tessbuild/internal/version"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd(&buf, []string{})
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), version.GetVersion()) {
		t.Errorf("expected version output to contain %q, got %q", version.GetVersion(), buf.String())
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{}, []string{})

	want := map[string]bool{"source": false, "traineddata": false, "version": false}
	for _, c := range cmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q subcommand to be registered", name)
		}
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{}, []string{"--cache-dir", "/tmp/c", "--debug"})

	if settings.CacheDir != "/tmp/c" {
		t.Errorf("expected cache dir flag to bind, got %s", settings.CacheDir)
	}
	if !settings.Debug {
		t.Error("expected debug flag to bind")
	}
	_ = cmd
}
