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
	"fmt"
)

// This error type is returned when the catalog cannot resolve a package or
// resource ID.
type LookupError struct {
	// "package" or "resource"
	Kind string
	Id   string
	// the catalog's explanation, if it gave one
	Message string
}

func (e LookupError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Can't find %s '%s' in the catalog: %s", e.Kind, e.Id, e.Message)
	}
	return fmt.Sprintf("Can't find %s '%s' in the catalog", e.Kind, e.Id)
}

// This error type is returned for any non-success response from the portal,
// its query endpoint, or a resource's download URL.
type RemoteServiceError struct {
	Url        string
	StatusCode int
	Message    string
}

func (e RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		if e.Message != "" {
			return fmt.Sprintf("Request to %s failed (%d): %s", e.Url, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("Request to %s failed (%d)", e.Url, e.StatusCode)
	}
	return fmt.Sprintf("Request to %s failed: %s", e.Url, e.Message)
}

// This error type is returned when an archive can't be extracted, either
// because its bytes are corrupt or because its declared container kind isn't
// supported.
type ExtractionError struct {
	// name of the archive file
	Archive string
	// the declared container kind
	Kind    string
	Message string
	Err     error
}

func (e ExtractionError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Err)
		} else {
			msg = e.Err.Error()
		}
	}
	return fmt.Sprintf("Can't extract %s archive '%s': %s", e.Kind, e.Archive, msg)
}

func (e ExtractionError) Unwrap() error {
	return e.Err
}

// This error type is returned when a resource's format (or, inside an archive,
// a member's extension) has no decoder.
type UnsupportedFormatError struct {
	// the offending format label or extension
	Format string
	// the archive member with the offending extension (empty for top-level
	// resources)
	Member string
	// the portal's web site, where the resource can be retrieved by hand
	Website string
}

func (e UnsupportedFormatError) Error() string {
	format := e.Format
	if format == "" {
		format = "(blank)"
	}
	if e.Member != "" {
		return fmt.Sprintf("Archive member '%s' has format %s, which can't be retrieved by this client. Please visit %s.",
			e.Member, format, e.Website)
	}
	return fmt.Sprintf("Format %s can't be retrieved by this client. Please visit %s.",
		format, e.Website)
}

// This error type is returned when a file of a supported kind can't be
// decoded.
type DecodeError struct {
	File string
	Kind string
	Err  error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("Can't decode '%s' as %s: %s", e.File, e.Kind, e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// this error type is emitted if an endpoint redirects an HTTPS request to an
// HTTP endpoint (it's NUTS that this can happen!)
type DowngradedRedirectError struct {
	Endpoint string
}

func (e DowngradedRedirectError) Error() string {
	return fmt.Sprintf("The endpoint %s is attempting to downgrade an HTTPS request to HTTP",
		e.Endpoint)
}
