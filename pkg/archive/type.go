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
	"fmt"
	"strings"
)

// Type is the container format of an archive, classified purely from the
// file name. Content is never sniffed.
type Type int

const (
	// Tar is an uncompressed tar archive.
	Tar Type = iota
	// TarGz is a gzip compressed tar archive.
	TarGz
	// TarBz2 is a bzip2 compressed tar archive.
	TarBz2
	// TarXz is an xz compressed tar archive.
	TarXz
	// Zip is a zip archive. Recognized, but not extractable by this package.
	Zip
)

func (t Type) String() string {
	switch t {
	case Tar:
		return "tar"
	case TarGz:
		return "gzip-tar"
	case TarBz2:
		return "bzip2-tar"
	case TarXz:
		return "xz-tar"
	case Zip:
		return "zip"
	}
	return "unknown"
}

// suffixes maps file name suffixes to archive types. Order matters only for
// documentation; lookups scan all entries.
var suffixes = map[string]Type{
	".tar":     Tar,
	".tar.gz":  TarGz,
	".tgz":     TarGz,
	".tar.bz2": TarBz2,
	".tbz2":    TarBz2,
	".tar.xz":  TarXz,
	".txz":     TarXz,
	".zip":     Zip,
}

// UnknownTypeError indicates that a file name matched no known archive
// suffix.
type UnknownTypeError struct {
	Path string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown archive type for %s", e.Path)
}

// UnsupportedTypeError indicates a recognized archive type that the
// extractor cannot process.
type UnsupportedTypeError struct {
	Path string
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("extraction of %s archives is not supported: %s", e.Type, e.Path)
}

// DetectType classifies a file path's archive container format from its
// name. When more than one suffix matches, the longest one wins.
func DetectType(path string) (Type, error) {
	match := ""
	var typ Type
	for suffix, t := range suffixes {
		if strings.HasSuffix(path, suffix) && len(suffix) > len(match) {
			match = suffix
			typ = t
		}
	}
	if match == "" {
		return 0, &UnknownTypeError{Path: path}
	}
	return typ, nil
}
