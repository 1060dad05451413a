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
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

// ExtractionError indicates the underlying extraction failed (corrupt
// archive, disk full, permission). No partial-extraction recovery is
// attempted; callers are responsible for any required cleanup of the target
// directory.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %s", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract extracts a tar-family archive into targetDir.
//
// When every member of the archive sits under a single wrapping top-level
// directory, that one path component is stripped from every member's
// destination path so the content lands directly under targetDir. Archives
// with more than one top-level entry are extracted verbatim.
func Extract(archivePath, targetDir string) error {
	if _, err := os.Stat(archivePath); err != nil {
		return errors.Wrapf(err, "no archive at %s", archivePath)
	}

	typ, err := DetectType(archivePath)
	if err != nil {
		return err
	}
	if typ == Zip {
		return &UnsupportedTypeError{Path: archivePath, Type: typ}
	}

	members, err := listMembers(archivePath, typ)
	if err != nil {
		return err
	}

	lead, found := commonLeadingDir(members)
	if found {
		logrus.WithFields(logrus.Fields{
			"archive": archivePath,
			"prefix":  lead,
		}).Debug("stripping common leading directory")
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return errors.Wrapf(err, "unable to create target directory %s", targetDir)
	}

	if err := extractMembers(archivePath, typ, targetDir, lead); err != nil {
		return err
	}

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return errors.Wrapf(err, "unable to list %s after extraction", targetDir)
	}
	if len(entries) == 0 && len(members) > 0 {
		// Legal for archives consisting solely of the stripped leading
		// directory entry.
		logrus.WithField("dir", targetDir).Warn("target directory is empty after extraction")
	}
	return nil
}

// commonLeadingDir reports the single directory under which every member of
// the archive sits, if there is one.
//
// The candidate is the first path component of the first directory entry.
// Every member must carry it as a literal prefix; the name is escaped before
// matching so that regexp metacharacters in a directory name cannot widen
// the test.
func commonLeadingDir(members []string) (string, bool) {
	if len(members) == 0 {
		return "", false
	}

	candidate := ""
	for _, m := range members {
		if strings.HasSuffix(m, "/") {
			candidate = m[:strings.Index(m, "/")+1]
			break
		}
	}
	if candidate == "" {
		return "", false
	}

	prefix := regexp.MustCompile("^" + regexp.QuoteMeta(candidate))
	for _, m := range members {
		if !prefix.MatchString(m) {
			return "", false
		}
	}
	return candidate, true
}

// listMembers returns the archive's table of contents. Directory entries
// keep their trailing path separator.
func listMembers(archivePath string, typ Type) ([]string, error) {
	r, err := openArchive(archivePath, typ)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var members []string
	for {
		header, err := r.tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ExtractionError{Path: archivePath, Err: err}
		}
		if header.Typeflag == tar.TypeXGlobalHeader || header.Typeflag == tar.TypeXHeader {
			continue
		}
		name := header.Name
		if header.Typeflag == tar.TypeDir && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		members = append(members, name)
	}
	return members, nil
}

func extractMembers(archivePath string, typ Type, targetDir, lead string) error {
	r, err := openArchive(archivePath, typ)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		header, err := r.tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &ExtractionError{Path: archivePath, Err: err}
		}
		if header.Typeflag == tar.TypeXGlobalHeader || header.Typeflag == tar.TypeXHeader {
			continue
		}

		name := strings.TrimPrefix(header.Name, lead)
		if name == "" {
			// The stripped leading directory entry itself.
			continue
		}

		path, err := securejoin.SecureJoin(targetDir, name)
		if err != nil {
			return &ExtractionError{Path: archivePath, Err: err}
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0755); err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
		case tar.TypeReg:
			if err := writeFile(path, r.tr, os.FileMode(header.Mode)); err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
		case tar.TypeSymlink:
			if err := checkLinkTarget(targetDir, path, header.Linkname); err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
			os.Remove(path)
			if err := os.Symlink(header.Linkname, path); err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
		case tar.TypeLink:
			target, err := securejoin.SecureJoin(targetDir, strings.TrimPrefix(header.Linkname, lead))
			if err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
			os.Remove(path)
			if err := os.Link(target, path); err != nil {
				return &ExtractionError{Path: archivePath, Err: err}
			}
		default:
			return &ExtractionError{Path: archivePath, Err: fmt.Errorf("unknown type: %b in %s", header.Typeflag, header.Name)}
		}
	}
	return nil
}

// checkLinkTarget rejects symlink targets that resolve outside targetDir.
// SecureJoin protects paths written through a link, but the link itself must
// not be created pointing out of the tree.
func checkLinkTarget(targetDir, linkPath, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("symlink %s targets absolute path %s", linkPath, linkname)
	}
	resolved := filepath.Join(filepath.Dir(linkPath), linkname)
	rel, err := filepath.Rel(targetDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("symlink %s escapes the target directory: %s", linkPath, linkname)
	}
	return nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	outFile, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return err
	}
	// Manually close since deferring in a loop may cause a resource leak.
	return outFile.Close()
}

// archiveReader couples a tar reader with the resources backing it.
type archiveReader struct {
	tr      *tar.Reader
	closers []io.Closer
}

func (r *archiveReader) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if cerr := r.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func openArchive(archivePath string, typ Type) (*archiveReader, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", archivePath)
	}

	r := &archiveReader{closers: []io.Closer{f}}
	switch typ {
	case Tar:
		r.tr = tar.NewReader(f)
	case TarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, &ExtractionError{Path: archivePath, Err: err}
		}
		r.closers = append(r.closers, gz)
		r.tr = tar.NewReader(gz)
	case TarBz2:
		r.tr = tar.NewReader(bzip2.NewReader(f))
	case TarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, &ExtractionError{Path: archivePath, Err: err}
		}
		r.tr = tar.NewReader(xzr)
	default:
		f.Close()
		return nil, &UnsupportedTypeError{Path: archivePath, Type: typ}
	}
	return r, nil
}
