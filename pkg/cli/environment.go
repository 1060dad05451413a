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

/*Package cli describes the operating environment for the tessbuild CLI.

All paths and switches live in an explicit settings struct handed to each
component; nothing reads ambient global state after construction.
*/
package cli

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/tessbuild/tessbuild/pkg/buildpath"
)

// EnvSettings describes all of the environment settings.
type EnvSettings struct {
	// CacheDir is the directory downloaded source archives are cached in.
	CacheDir string
	// DataDir is the directory trained-model files are installed into.
	DataDir string
	// Debug indicates whether tessbuild is running in Debug mode.
	Debug bool
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// New builds settings from the process environment.
func New() *EnvSettings {
	env := &EnvSettings{
		CacheDir: envOr("TESSBUILD_CACHE_DIR", buildpath.CachePath("sources")),
		DataDir:  envOr("TESSBUILD_DATA_DIR", buildpath.DataPath("tessdata")),
		Timeout:  120 * time.Second,
	}
	env.Debug, _ = strconv.ParseBool(os.Getenv("TESSBUILD_DEBUG"))

	if v := os.Getenv("TESSBUILD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			env.Timeout = d
		}
	}
	return env
}

// AddFlags binds flags to the given flagset.
func (s *EnvSettings) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.CacheDir, "cache-dir", s.CacheDir, "directory to cache downloaded source archives in")
	fs.StringVar(&s.DataDir, "data-dir", s.DataDir, "directory to install trained-model files into")
	fs.BoolVar(&s.Debug, "debug", s.Debug, "enable verbose output")
	fs.DurationVar(&s.Timeout, "timeout", s.Timeout, "time to wait for each HTTP request")
}

func envOr(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}
