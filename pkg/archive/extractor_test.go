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

package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type tarEntry struct {
	name     string
	body     string // empty with trailing slash in name means directory
	linkname string // non-empty means symlink
}

// writeTarGz builds a gzip compressed tar archive on disk from the given
// entries, in order.
func writeTarGz(t *testing.T, path string, entries []tarEntry) {
	t.Helper()

	var tarbuf bytes.Buffer
	tw := tar.NewWriter(&tarbuf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name: e.name,
			Mode: 0644,
		}
		switch {
		case e.name[len(e.name)-1] == '/':
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
		case e.linkname != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.linkname
			hdr.Mode = 0777
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(tarbuf.Bytes()); err != nil {
		t.Fatal(err)
	}
	gz.Close()

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractStripsLeadingDirectory(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pkg-1.0.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "pkg-1.0/"},
		{name: "pkg-1.0/configure", body: "#!/bin/sh"},
		{name: "pkg-1.0/src/"},
		{name: "pkg-1.0/src/main.c", body: "int main(void) { return 0; }"},
	})

	target := filepath.Join(dir, "out")
	if err := Extract(archive, target); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(target, "pkg-1.0")); !os.IsNotExist(err) {
		t.Error("leading directory component was not stripped")
	}
	for _, p := range []string{"configure", "src/main.c"} {
		if _, err := os.Stat(filepath.Join(target, p)); err != nil {
			t.Errorf("expected %s to exist: %s", p, err)
		}
	}

	got, err := os.ReadFile(filepath.Join(target, "configure"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "#!/bin/sh" {
		t.Errorf("unexpected file content: %q", got)
	}
}

func TestExtractPreservesMultipleTopLevelEntries(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "multi.tgz")
	writeTarGz(t, archive, []tarEntry{
		{name: "a/"},
		{name: "a/one", body: "1"},
		{name: "b/"},
		{name: "b/two", body: "2"},
	})

	target := filepath.Join(dir, "out")
	if err := Extract(archive, target); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"a/one", "b/two"} {
		if _, err := os.Stat(filepath.Join(target, p)); err != nil {
			t.Errorf("expected %s to exist: %s", p, err)
		}
	}
}

func TestExtractNoDirectoryEntry(t *testing.T) {
	// Members share a prefix string, but no member is a directory entry, so
	// nothing is stripped.
	dir := t.TempDir()
	archive := filepath.Join(dir, "flat.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "data/eng.traineddata", body: "model"},
		{name: "data/osd.traineddata", body: "model"},
	})

	target := filepath.Join(dir, "out")
	if err := Extract(archive, target); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(target, "data", "eng.traineddata")); err != nil {
		t.Errorf("expected data/eng.traineddata to be preserved: %s", err)
	}
}

func TestExtractOnlyLeadingDirectoryEntry(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "hollow.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "pkg-1.0/"},
	})

	target := filepath.Join(dir, "out")
	// An archive consisting solely of the stripped leading directory entry
	// is legal; the empty result is a warning, not an error.
	if err := Extract(archive, target); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty target directory, found %d entries", len(entries))
	}
}

func TestExtractSymlinkWithinTree(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pkg.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "pkg-1.0/"},
		{name: "pkg-1.0/configure", body: "#!/bin/sh"},
		{name: "pkg-1.0/configure.sh", linkname: "configure"},
	})

	target := filepath.Join(dir, "out")
	if err := Extract(archive, target); err != nil {
		t.Fatal(err)
	}

	got, err := os.Readlink(filepath.Join(target, "configure.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "configure" {
		t.Errorf("unexpected symlink target: %q", got)
	}
}

func TestExtractRejectsEscapingSymlink(t *testing.T) {
	tests := []struct {
		name     string
		linkname string
	}{
		{"relative escape", "../../outside"},
		{"absolute target", "/etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			archive := filepath.Join(dir, "evil.tar.gz")
			writeTarGz(t, archive, []tarEntry{
				{name: "pkg-1.0/"},
				{name: "pkg-1.0/link", linkname: tt.linkname},
			})

			err := Extract(archive, filepath.Join(dir, "out"))
			var extraction *ExtractionError
			if !errors.As(err, &extraction) {
				t.Fatalf("expected ExtractionError for escaping symlink, got %v", err)
			}
		})
	}
}

func TestExtractZipUnsupported(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pkg.zip")
	if err := os.WriteFile(archive, []byte("PK"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Extract(archive, filepath.Join(dir, "out"))
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
}

func TestExtractUnknownType(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pkg.unknown")
	if err := os.WriteFile(archive, []byte("?"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Extract(archive, filepath.Join(dir, "out"))
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
}

func TestExtractMissingArchive(t *testing.T) {
	dir := t.TempDir()
	err := Extract(filepath.Join(dir, "absent.tar.gz"), filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
	// Missing file is a precondition failure, not a classification failure.
	var unknown *UnknownTypeError
	if errors.As(err, &unknown) {
		t.Fatal("missing archive must not be reported as an unknown type")
	}
}

func TestExtractCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "corrupt.tar.gz")
	if err := os.WriteFile(archive, []byte("this is not gzip"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Extract(archive, filepath.Join(dir, "out"))
	var extraction *ExtractionError
	if !errors.As(err, &extraction) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestCommonLeadingDir(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		want    string
		found   bool
	}{
		{"empty", nil, "", false},
		{"single dir", []string{"pkg-1.0/", "pkg-1.0/a", "pkg-1.0/b/c"}, "pkg-1.0/", true},
		{"two top level", []string{"a/", "a/one", "b/", "b/two"}, "", false},
		{"no dir entry", []string{"a/one", "a/two"}, "", false},
		{"regexp metacharacters", []string{"pkg+extra (1.0)/", "pkg+extra (1.0)/a"}, "pkg+extra (1.0)/", true},
		{"dir entry after files", []string{"pkg/a", "pkg/", "pkg/b"}, "pkg/", true},
	}
	for _, tt := range tests {
		got, found := commonLeadingDir(tt.members)
		if got != tt.want || found != tt.found {
			t.Errorf("%s: commonLeadingDir = (%q, %t), want (%q, %t)", tt.name, got, found, tt.want, tt.found)
		}
	}
}
