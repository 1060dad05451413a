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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tessbuild/tessbuild/internal/version"
)

func TestHTTPGetter(t *testing.T) {
	g, err := NewHTTPGetter(WithURL("http://example.com"))
	if err != nil {
		t.Fatal(err)
	}

	if g.opts.timeout != time.Second*DefaultHTTPTimeout {
		t.Errorf("expected default timeout, got %s", g.opts.timeout)
	}

	timeout := time.Second * 5
	transport := &http.Transport{}

	g, err = NewHTTPGetter(
		WithUserAgent("Groot"),
		WithTimeout(timeout),
		WithTransport(transport),
	)
	if err != nil {
		t.Fatal(err)
	}

	if g.opts.userAgent != "Groot" {
		t.Errorf("Expected NewHTTPGetter to contain %q as the user agent, got %q", "Groot", g.opts.userAgent)
	}

	if g.opts.timeout != timeout {
		t.Errorf("Expected NewHTTPGetter to contain %s as Timeout flag, got %s", timeout, g.opts.timeout)
	}

	if g.opts.transport != transport {
		t.Errorf("Expected NewHTTPGetter to contain %p as Transport, got %p", transport, g.opts.transport)
	}
}

func TestHTTPGetterGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != version.GetUserAgent() {
			t.Errorf("Expected '%s', got '%s'", version.GetUserAgent(), r.UserAgent())
		}
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	g, err := NewHTTPGetter(WithURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	data, err := g.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	if data.String() != "payload" {
		t.Errorf("Expected response body 'payload', got '%s'", data.String())
	}
}

func TestHTTPGetterNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	g, err := NewHTTPGetter()
	if err != nil {
		t.Fatal(err)
	}

	_, err = g.Get(srv.URL + "/nope.tar.gz")
	if err == nil {
		t.Fatal("expected error on 404")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T", err)
	}
	if netErr.URL != srv.URL+"/nope.tar.gz" {
		t.Errorf("unexpected URL in error: %s", netErr.URL)
	}
}

func TestHTTPGetterHeadFollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD request, got %s", r.Method)
		}
		w.Header().Set("Content-Disposition", `attachment; filename="leptonica-1.84.1.tar.gz"`)
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	g, err := NewHTTPGetter()
	if err != nil {
		t.Fatal(err)
	}

	headers, err := g.Head(redirecting.URL)
	if err != nil {
		t.Fatal(err)
	}

	if got := headers.Get("Content-Disposition"); got != `attachment; filename="leptonica-1.84.1.tar.gz"` {
		t.Errorf("unexpected Content-Disposition after redirect: %q", got)
	}
}

func TestHTTPGetterTransportError(t *testing.T) {
	g, err := NewHTTPGetter(WithTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}

	// Unroutable per RFC 5737.
	_, err = g.Head("http://192.0.2.1/tags")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T", err)
	}
	if netErr.Unwrap() == nil {
		t.Error("expected wrapped transport error")
	}
}
