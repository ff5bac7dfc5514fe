// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package portal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/StalkR/hsts"
)

// the most redirects we follow for a single request
const maxRedirects = 10

// Here's a secure HTTP client that can be used to connect to the portal. It
// sets the given timeout, enables HTTP Strict Transport Security (HSTS), and
// refuses to follow redirects to plain HTTP.
func SecureHttpClient(timeout time.Duration) http.Client {
	client := http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.URL.Scheme == "http" {
				return &DowngradedRedirectError{
					Endpoint: fmt.Sprintf("%s%s", req.URL.Host, req.URL.Path),
				}
			}
			if len(via) >= maxRedirects {
				return fmt.Errorf("Stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	client.Transport = hsts.New(client.Transport) // enable HSTS
	return client
}

// Download fetches the bytes at the given URL and writes them to w, returning
// the number of bytes written. Non-success responses produce a
// RemoteServiceError. Nothing is retried.
func Download(ctx context.Context, client *http.Client, url string, w io.Writer) (int64, error) {
	slog.Debug(fmt.Sprintf("GET: %s", url))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, &RemoteServiceError{
			Url:     url,
			Message: err.Error(),
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, &RemoteServiceError{
			Url:     url,
			Message: err.Error(),
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &RemoteServiceError{
			Url:        url,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &RemoteServiceError{
			Url:     url,
			Message: fmt.Sprintf("reading response body: %s", err),
		}
	}
	return n, nil
}
