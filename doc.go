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

// Package fmp implements a client for the Financial Modeling Prep REST API.
//
// Official documentation is at https://site.financialmodelingprep.com/developer/docs .
//
// A Query names an API resource path, optionally a stock symbol appended as
// an extra path segment, and a bag of query parameters. Fetching a query
// performs a single GET request and flattens the JSON response, either an
// array of objects or a single object, into a table.Table: column names are
// normalized to snake_case, year-like columns become integers, and date-like
// columns become dates or full timestamps.
//
// The API key is carried by a Client injected into the context with
// UseClient. Requests fail with *MissingCredentialError before any network
// activity when no key is available.
package fmp
