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

package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FilesystemError reports a failed filesystem operation with enough context
// to diagnose it without internal instrumentation.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// AtomicWriteFile atomically (as atomic as os.Rename allows) writes a file to
// disk. The temporary file is created next to the destination so the final
// rename never crosses a filesystem boundary. On any failure the destination
// path is left untouched.
func AtomicWriteFile(filename string, reader io.Reader, mode os.FileMode) error {
	tempFile, err := os.CreateTemp(filepath.Split(filename))
	if err != nil {
		return &FilesystemError{Op: "create temp for", Path: filename, Err: err}
	}
	tempName := tempFile.Name()

	if _, err := io.Copy(tempFile, reader); err != nil {
		tempFile.Close() // return value is ignored as we are already on error path
		os.Remove(tempName)
		return &FilesystemError{Op: "write", Path: filename, Err: err}
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return &FilesystemError{Op: "close", Path: filename, Err: err}
	}

	if err := os.Chmod(tempName, mode); err != nil {
		os.Remove(tempName)
		return &FilesystemError{Op: "chmod", Path: filename, Err: err}
	}

	if err := os.Rename(tempName, filename); err != nil {
		os.Remove(tempName)
		return &FilesystemError{Op: "rename to", Path: filename, Err: err}
	}
	return nil
}

// Rename moves a file within the filesystem, wrapping failure in a
// FilesystemError.
func Rename(oldpath, newpath string) error {
	if err := os.Rename(oldpath, newpath); err != nil {
		return &FilesystemError{Op: "rename to", Path: newpath, Err: err}
	}
	return nil
}
