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
	"net/url"

	json "github.com/goccy/go-json"
)

// ActionResponse is the envelope wrapping every reply from the portal's
// action API.
type ActionResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *ActionError    `json:"error,omitempty"`
}

// ActionError describes a failed action.
type ActionError struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

func (e ActionError) String() string {
	if e.Type == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Type
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// the error type the portal reports for identifiers it can't resolve
const notFoundErrorType = "Not Found Error"

// CallAction performs a GET request on the given action endpoint with the
// given query parameters and returns the action's result. A transport
// failure, a non-success status, or an unsuccessful action produces a
// RemoteServiceError; an action failing with the portal's "Not Found Error"
// is always reported with status 404.
func CallAction(ctx context.Context, client *http.Client, endpoint string,
	values url.Values) (json.RawMessage, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &RemoteServiceError{
			Url:     endpoint,
			Message: err.Error(),
		}
	}
	u.RawQuery = values.Encode()
	slog.Debug(fmt.Sprintf("GET: %s", u.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, &RemoteServiceError{
			Url:     u.String(),
			Message: err.Error(),
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &RemoteServiceError{
			Url:     u.String(),
			Message: err.Error(),
		}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteServiceError{
			Url:        u.String(),
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("reading response body: %s", err),
		}
	}

	var envelope ActionResponse
	parseErr := json.Unmarshal(body, &envelope)
	success := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if parseErr == nil && envelope.Success && success {
		return envelope.Result, nil
	}

	remoteErr := &RemoteServiceError{
		Url:        u.String(),
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	switch {
	case parseErr == nil && envelope.Error != nil:
		remoteErr.Message = envelope.Error.String()
		if envelope.Error.Type == notFoundErrorType {
			remoteErr.StatusCode = http.StatusNotFound
		}
	case parseErr != nil && success:
		remoteErr.Message = fmt.Sprintf("malformed response: %s", parseErr)
	case parseErr == nil && success:
		remoteErr.Message = "action was not successful"
	}
	return nil, remoteErr
}
