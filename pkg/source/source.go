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

// Package source describes the upstream projects whose source archives the
// build consumes, and stages them into local directories.
package source

import (
	"github.com/pkg/errors"

	"github.com/tessbuild/tessbuild/pkg/resolver"
)

// Spec identifies a versioned downloadable unit of upstream source code.
type Spec struct {
	// Name is the logical project name.
	Name string
	// Version is the requested version, or the "latest" sentinel.
	Version string
	// TagsURL is the remote tag-reference listing for the project.
	TagsURL string
	// GitRemote is the project's git repository, for resolving versions
	// from VCS tags instead of the HTTP listing.
	GitRemote string
	// URLTemplate is the download URL with a version placeholder. Once the
	// placeholder is substituted the result must be a well-formed absolute
	// URL.
	URLTemplate string
}

// Leptonica is the imaging library the OCR engine builds against.
func Leptonica() Spec {
	return Spec{
		Name:        "leptonica",
		Version:     resolver.Latest,
		TagsURL:     "https://api.github.com/repos/DanBloomberg/leptonica/git/refs/tags",
		GitRemote:   "https://github.com/DanBloomberg/leptonica",
		URLTemplate: "https://github.com/DanBloomberg/leptonica/releases/download/{version}/leptonica-{version}.tar.gz",
	}
}

// Tesseract is the OCR engine.
func Tesseract() Spec {
	return Spec{
		Name:        "tesseract",
		Version:     resolver.Latest,
		TagsURL:     "https://api.github.com/repos/tesseract-ocr/tesseract/git/refs/tags",
		GitRemote:   "https://github.com/tesseract-ocr/tesseract",
		URLTemplate: "https://github.com/tesseract-ocr/tesseract/archive/refs/tags/{version}.tar.gz",
	}
}

// Lookup returns the built-in spec for a project name.
func Lookup(name string) (Spec, error) {
	switch name {
	case "leptonica":
		return Leptonica(), nil
	case "tesseract":
		return Tesseract(), nil
	}
	return Spec{}, errors.Errorf("unknown project %q", name)
}

// Projects lists the built-in project names in build order: the imaging
// library first, then the OCR engine that links against it.
func Projects() []string {
	return []string{"leptonica", "tesseract"}
}
