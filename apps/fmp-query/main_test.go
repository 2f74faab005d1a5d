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

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_fmp_query")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		Convey("all flags", func() {
			flags, err := parseFlags([]string{
				"-resource", "income-statement", "-symbol", "ABCX.US",
				"-period", "annual", "-limit", "5", "-api-version", "v4",
				"-param", "from=2023-01-02", "-param", "to=2023-12-31",
				"-apikey", "k", "-csv", "-summary", "-log-level", "warning"})
			So(err, ShouldBeNil)
			So(flags.Resource, ShouldEqual, "income-statement")
			So(flags.Symbol, ShouldEqual, "ABCX.US")
			So(flags.Period, ShouldEqual, "annual")
			So(flags.Limit, ShouldEqual, 5)
			So(flags.APIVersion, ShouldEqual, "v4")
			So(flags.Params, ShouldResemble,
				paramsFlag{"from": "2023-01-02", "to": "2023-12-31"})
			So(flags.APIKey, ShouldEqual, "k")
			So(flags.CSV, ShouldBeTrue)
			So(flags.Summary, ShouldBeTrue)
			So(flags.LogLevel, ShouldEqual, logging.Warning)
		})

		Convey("resource is required", func() {
			_, err := parseFlags([]string{"-symbol", "ABCX.US"})
			So(err, ShouldNotBeNil)
		})

		Convey("malformed -param", func() {
			flags := Flags{Params: make(paramsFlag)}
			So(flags.Params.Set("from=2023-01-02"), ShouldBeNil)
			So(flags.Params.Set("novalue"), ShouldNotBeNil)
			So(flags.Params.Set("=5"), ShouldNotBeNil)
		})
	})

	Convey("resolveKey", t, func() {
		Convey("flag wins", func() {
			key, err := resolveKey(&Flags{APIKey: "flagkey"})
			So(err, ShouldBeNil)
			So(key, ShouldEqual, "flagkey")
		})

		Convey("config file", func() {
			configPath := filepath.Join(tmpdir, "config.toml")
			So(testutil.WriteFile(configPath, `key = "configkey"
`), ShouldBeNil)
			key, err := resolveKey(&Flags{ConfigPath: configPath})
			So(err, ShouldBeNil)
			So(key, ShouldEqual, "configkey")
		})

		Convey("missing everywhere", func() {
			_, err := resolveKey(&Flags{
				ConfigPath: filepath.Join(tmpdir, "nonexistent.toml")})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("run fetches and prints a table", t, func() {
		body := `[
			{"symbol": "ABCX.US", "name": "AlphaBeta Corporation", "price": 152.35},
			{"symbol": "GLOTECH.TO", "name": "Global Tech", "price": 88.1}
		]`
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
		defer server.Close()
		fmp.URL = server.URL + "/api"
		ctx := logging.Use(context.Background(),
			logging.DefaultGoLogger(logging.Info))
		ctx = fetch.UseClient(ctx, server.Client())

		Convey("CSV output", func() {
			flags, err := parseFlags([]string{
				"-resource", "quote", "-apikey", "testkey", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
name,price,symbol
AlphaBeta Corporation,152.35,ABCX.US
Global Tech,88.1,GLOTECH.TO
`)
		})

		Convey("summary output", func() {
			body = `[
				{"symbol": "ABCX.US", "price": 10},
				{"symbol": "GLOTECH.TO", "price": 20}
			]`
			flags, err := parseFlags([]string{
				"-resource", "quote", "-apikey", "testkey", "-csv", "-summary"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
column,count,mean,std,min,max
price,2,15,7.0710678118654755,10,20
`)
		})

		Convey("text output", func() {
			flags, err := parseFlags([]string{
				"-resource", "quote", "-apikey", "testkey"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
                 name |  price |     symbol
--------------------- | ------ | ----------
AlphaBeta Corporation | 152.35 |    ABCX.US
          Global Tech |   88.1 | GLOTECH.TO
`)
		})
	})
}
