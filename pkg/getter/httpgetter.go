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
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tessbuild/tessbuild/internal/version"
)

// HTTPGetter is the default HTTP(/S) backend handler
type HTTPGetter struct {
	opts      options
	transport *http.Transport
	once      sync.Once
}

// NewHTTPGetter constructs a valid http/https client as a Getter
func NewHTTPGetter(opts ...Option) (*HTTPGetter, error) {
	var client HTTPGetter

	client.opts.timeout = time.Second * DefaultHTTPTimeout
	for _, opt := range opts {
		opt(&client.opts)
	}

	return &client, nil
}

// Get performs a GET and returns the body.
//
// Redirects are followed. A response with a non-2xx status code fails with a
// NetworkError, as does any transport-level failure.
func (g *HTTPGetter) Get(href string, opts ...Option) (*bytes.Buffer, error) {
	// Create a local copy of options to avoid data races when Get is called
	// concurrently.
	options := g.opts
	for _, opt := range opts {
		opt(&options)
	}

	resp, err := g.do(http.MethodGet, href, options)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		return nil, &NetworkError{URL: href, Err: err}
	}
	return buf, nil
}

// Head performs a header-only request and returns the response headers.
func (g *HTTPGetter) Head(href string, opts ...Option) (http.Header, error) {
	options := g.opts
	for _, opt := range opts {
		opt(&options)
	}

	resp, err := g.do(http.MethodHead, href, options)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp.Header, nil
}

func (g *HTTPGetter) do(method, href string, opts options) (*http.Response, error) {
	req, err := http.NewRequest(method, href, nil)
	if err != nil {
		return nil, &NetworkError{URL: href, Err: err}
	}

	// Set a tessbuild specific user agent so that an upstream server and its
	// metrics can separate tessbuild calls from other tools.
	req.Header.Set("User-Agent", version.GetUserAgent())
	if opts.userAgent != "" {
		req.Header.Set("User-Agent", opts.userAgent)
	}

	client := g.httpClient(opts)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: href, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &NetworkError{URL: href, Status: resp.Status}
	}
	return resp, nil
}

func (g *HTTPGetter) httpClient(opts options) *http.Client {
	if opts.transport != nil {
		return &http.Client{
			Transport: opts.transport,
			Timeout:   opts.timeout,
		}
	}

	// Use a shared transport for the default case.
	g.once.Do(func() {
		g.transport = &http.Transport{
			DisableCompression: true,
			Proxy:              http.ProxyFromEnvironment,
		}
	})

	return &http.Client{
		Transport: g.transport,
		Timeout:   opts.timeout,
	}
}
