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

package getter

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// options are generic parameters to be provided to the getter during
// instantiation. Getters may or may not ignore these parameters as they are
// passed in.
type options struct {
	url       string
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
}

// Option allows specifying various settings configurable by the user for
// overriding the defaults used when performing requests with the Getter.
type Option func(*options)

// WithURL informs the getter the server name that will be used when fetching
// objects.
func WithURL(url string) Option {
	return func(opts *options) {
		opts.url = url
	}
}

// WithUserAgent sets the request's User-Agent header to use the provided
// agent name.
func WithUserAgent(userAgent string) Option {
	return func(opts *options) {
		opts.userAgent = userAgent
	}
}

// WithTimeout sets the timeout for requests
func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.timeout = timeout
	}
}

// WithTransport sets the http.RoundTripper to allow overwriting the
// HTTPGetter default.
func WithTransport(transport http.RoundTripper) Option {
	return func(opts *options) {
		opts.transport = transport
	}
}

// Getter is an interface to support GET and HEAD to the specified URL.
type Getter interface {
	// Get fetches the content at the url and returns the body.
	Get(url string, options ...Option) (*bytes.Buffer, error)
	// Head issues a header-only request to the url, following redirects,
	// and returns the response headers.
	Head(url string, options ...Option) (http.Header, error)
}

// NetworkError indicates a transport or HTTP failure on a request. It is
// fatal to the current run; no request is retried.
type NetworkError struct {
	URL    string
	Status string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request for %s failed: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s : %s", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

const (
	// DefaultHTTPTimeout references curl's default connection timeout. The
	// tessbuild commands are usually executed manually; considering the
	// acceptable waiting time, the entire request time is capped at 120s.
	DefaultHTTPTimeout = 120
)
