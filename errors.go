// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fmp

import "fmt"

// InvalidArgumentError indicates a malformed caller-supplied argument, such
// as an empty symbol, an unknown period, or a non-positive limit. It is
// detected before any network call.
type InvalidArgumentError struct {
	Name    string // the argument name: "resource", "symbol", "period", "limit"
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Name, e.Message)
}

// MissingCredentialError indicates that no API key is available for the
// request.
type MissingCredentialError struct{}

func (e *MissingCredentialError) Error() string {
	return "no FMP API key: inject a Client with fmp.UseClient before fetching"
}

// APIError indicates a non-200 HTTP response from the API. Message carries
// the body's "Error Message" field when present, and the serialized body
// otherwise.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FMP API error (status %d): %s", e.StatusCode, e.Message)
}

// EmptyResponseError indicates a 200 response with an empty payload, which
// usually means a misspelled resource path or parameter.
type EmptyResponseError struct {
	Path string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf(
		"empty response for '%s': check the spelling of the resource path and parameters",
		e.Path)
}
