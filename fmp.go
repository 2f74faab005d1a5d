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

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://financialmodelingprep.com/api"

// DefaultVersion is the API version segment used unless overridden by
// Query.Version.
const DefaultVersion = "v3"

// userAgent identifies this client to the server on every request.
const userAgent = "stockparfait-fmp/1.0"

// validPeriods are the accepted values of the "period" parameter.
var validPeriods = []string{"annual", "quarter"}

// Client for querying the FMP API.
type Client struct {
	baseURL string // the base URL of the server
	apiKey  string // your very own secret key
}

// newClient creates a new client.
func newClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API key and injects it into the
// context.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiKey))
}

// Query is a builder for a single API request: a resource path, an optional
// symbol appended as an extra path segment, and a bag of query parameters.
// The API key is never part of the bag; it is injected from the Client at
// request time.
type Query struct {
	resource  string // slash-separated path segments, e.g. "income-statement"
	version   string // the API version segment, e.g. "v3"
	symbol    string
	hasSymbol bool
	params    map[string]interface{}
}

// NewQuery creates a new query for the given resource path.
func NewQuery(resource string) *Query {
	return &Query{
		resource: resource,
		version:  DefaultVersion,
		params:   make(map[string]interface{}),
	}
}

// Copy creates a deep copy of the query. It is primarily used in its builder
// methods.
func (q *Query) Copy() *Query {
	q2 := Query{
		resource:  q.resource,
		version:   q.version,
		symbol:    q.symbol,
		hasSymbol: q.hasSymbol,
		params:    make(map[string]interface{}, len(q.params)),
	}
	maps.Copy(q2.params, q.params)
	return &q2
}

// Symbol sets the ticker symbol, which is appended to the resource path as an
// additional segment. This and other builder methods always create a deep
// copy of the query, leaving the original intact.
func (q *Query) Symbol(symbol string) *Query {
	q2 := q.Copy()
	q2.symbol = symbol
	q2.hasSymbol = true
	return q2
}

// Param sets an arbitrary query parameter. Values serialize as their query
// string form; table.Date values serialize as YYYY-MM-DD.
func (q *Query) Param(key string, value interface{}) *Query {
	q2 := q.Copy()
	q2.params[key] = value
	return q2
}

// Period sets the reporting period parameter, "annual" or "quarter".
func (q *Query) Period(period string) *Query {
	return q.Param("period", period)
}

// Limit sets the maximum number of records to request.
func (q *Query) Limit(limit int) *Query {
	return q.Param("limit", limit)
}

// Version overrides the default API version segment, e.g. "v4".
func (q *Query) Version(version string) *Query {
	q2 := q.Copy()
	q2.version = version
	return q2
}

// Path returns the URL path to add to the base URL and version segment.
func (q *Query) Path() string {
	if q.hasSymbol {
		return q.resource + "/" + q.symbol
	}
	return q.resource
}

// Values returns the query values for the query, without the API key. Each
// call creates a new object, so the caller is free to modify it without
// affecting the query.
func (q *Query) Values() url.Values {
	v := make(url.Values)
	for key, value := range q.params {
		if key == "apikey" { // always injected from the Client instead
			continue
		}
		v[key] = []string{paramString(value)}
	}
	return v
}

func paramString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer: // includes table.Date and table.Time
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}

// validate checks the caller-supplied arguments before any network call.
// Only supplied arguments are checked; absence is always valid.
func (q *Query) validate() error {
	if q.resource == "" {
		return &InvalidArgumentError{Name: "resource", Message: "must be non-empty"}
	}
	if q.hasSymbol {
		if err := validateSymbol(q.symbol); err != nil {
			return err
		}
	}
	if limit, ok := q.params["limit"]; ok {
		if err := validateLimit(limit); err != nil {
			return err
		}
	}
	if period, ok := q.params["period"]; ok {
		if err := validatePeriod(period); err != nil {
			return err
		}
	}
	return nil
}

func validateSymbol(symbol string) error {
	if strings.TrimSpace(symbol) == "" {
		return &InvalidArgumentError{
			Name:    "symbol",
			Message: "must be a single non-empty ticker",
		}
	}
	return nil
}

func validatePeriod(period interface{}) error {
	s, ok := period.(string)
	if !ok || !slices.Contains(validPeriods, s) {
		return &InvalidArgumentError{
			Name: "period",
			Message: fmt.Sprintf("%v is not one of: %s",
				period, strings.Join(validPeriods, ", ")),
		}
	}
	return nil
}

func validateLimit(limit interface{}) error {
	invalid := &InvalidArgumentError{
		Name:    "limit",
		Message: fmt.Sprintf("%v must be a whole number >= 1", limit),
	}
	switch v := limit.(type) {
	case int:
		if v < 1 {
			return invalid
		}
	case int64:
		if v < 1 {
			return invalid
		}
	case float64:
		if v < 1.0 || math.IsInf(v, 0) || math.Trunc(v) != v {
			return invalid
		}
	default:
		return invalid
	}
	return nil
}

// perform executes the query using the Client from the context. It makes
// exactly one GET request and hands back the status code together with the
// JSON-decoded body; non-2xx statuses are not an error at this layer, so
// that error bodies can be inspected by validateResponse. The request is
// built by hand rather than through fetch.Get, which treats non-2xx statuses
// as errors and cannot set the User-Agent header. Bodies that fail to decode
// are kept as their raw text.
func (q *Query) perform(ctx context.Context) (int, interface{}, error) {
	client := GetClient(ctx)
	if client == nil || client.apiKey == "" {
		return 0, nil, &MissingCredentialError{}
	}
	uri := client.baseURL + "/" + q.version + "/" + q.Path()
	query := q.Values()
	query.Set("apikey", client.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return 0, nil, errors.Annotate(err, "failed to create request for '%s'", uri)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("User-Agent", userAgent)

	httpClient := fetch.GetClient(ctx)
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Annotate(err, "failed to fetch '%s'", uri)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Annotate(err, "failed to read response from '%s'", uri)
	}
	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		body = string(raw)
	}
	return resp.StatusCode, body, nil
}

// validateResponse classifies the transport result: non-200 statuses become
// *APIError, and 200 responses with an empty payload become
// *EmptyResponseError.
func validateResponse(statusCode int, body interface{}, path string) error {
	if statusCode != http.StatusOK {
		return &APIError{StatusCode: statusCode, Message: apiErrorMessage(body)}
	}
	switch v := body.(type) {
	case nil:
		return &EmptyResponseError{Path: path}
	case []interface{}:
		if len(v) == 0 {
			return &EmptyResponseError{Path: path}
		}
	case map[string]interface{}:
		if len(v) == 0 {
			return &EmptyResponseError{Path: path}
		}
	}
	return nil
}

func apiErrorMessage(body interface{}) string {
	if m, ok := body.(map[string]interface{}); ok {
		if msg, ok := m["Error Message"].(string); ok {
			return msg
		}
	}
	if s, ok := body.(string); ok {
		return s
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprintf("%v", body)
	}
	return string(b)
}

// records converts the response body into a uniform record sequence: an array
// of objects keeps its order, and a single object becomes one record.
func records(body interface{}) ([]map[string]interface{}, error) {
	switch v := body.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		recs := make([]map[string]interface{}, len(v))
		for i, el := range v {
			m, ok := el.(map[string]interface{})
			if !ok {
				return nil, errors.Reason(
					"element %d is not a JSON object: %v", i, el)
			}
			recs[i] = m
		}
		return recs, nil
	}
	return nil, errors.Reason("unexpected response shape: %T", body)
}

// Fetch validates the query, performs the request, and returns the response
// as a table with snake_case column names and coerced year and date columns.
// Any failure aborts the call with no partial result.
func (q *Query) Fetch(ctx context.Context) (*table.Table, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	statusCode, body, err := q.perform(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateResponse(statusCode, body, q.Path()); err != nil {
		return nil, err
	}
	recs, err := records(body)
	if err != nil {
		return nil, errors.Annotate(err, "failed to flatten response from '%s'", q.Path())
	}
	tbl := table.FromRecords(recs)
	tbl.NormalizeNames()
	tbl.CoerceTypes()
	logging.Debugf(ctx, "FMP: fetched %d rows from %s", len(tbl.Rows), q.Path())
	return tbl, nil
}
