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
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fmp"
	"github.com/stockparfait/fmp/table"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

// paramsFlag collects repeatable -param name=value arguments.
type paramsFlag map[string]string

var _ flag.Value = paramsFlag{}

func (p paramsFlag) String() string {
	pairs := make([]string, 0, len(p))
	for k, v := range p {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (p paramsFlag) Set(s string) error {
	k, v, found := strings.Cut(s, "=")
	if !found || k == "" {
		return errors.Reason("expected name=value, got '%s'", s)
	}
	p[k] = v
	return nil
}

type Flags struct {
	Resource   string // required
	Symbol     string
	Period     string
	Limit      int // 0 = not set
	APIVersion string
	Params     paramsFlag
	APIKey     string // overrides $FMP_API_KEY and the config file
	ConfigPath string // default: ~/.stockparfait/fmp/config.toml
	CSV        bool   // dump CSV format; default: text
	Summary    bool   // print numeric column summary instead of the data
	LogLevel   logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	flags := Flags{Params: make(paramsFlag)}
	fs := flag.NewFlagSet("fmp-query", flag.ExitOnError)
	fs.StringVar(&flags.Resource, "resource", "",
		"API resource path, e.g. income-statement (required)")
	fs.StringVar(&flags.Symbol, "symbol", "", "ticker symbol, e.g. AAPL")
	fs.StringVar(&flags.Period, "period", "", "reporting period: annual or quarter")
	fs.IntVar(&flags.Limit, "limit", 0, "max. number of records to request")
	fs.StringVar(&flags.APIVersion, "api-version", fmp.DefaultVersion,
		"API version path segment")
	fs.Var(flags.Params, "param", "extra query parameter as name=value; repeatable")
	fs.StringVar(&flags.APIKey, "apikey", "",
		"API key; overrides $FMP_API_KEY and the config file")
	fs.StringVar(&flags.ConfigPath, "config",
		filepath.Join(os.Getenv("HOME"), ".stockparfait", "fmp", "config.toml"),
		"path to the TOML config file with the API key")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.BoolVar(&flags.Summary, "summary", false,
		"print per-column numeric summary instead of the data")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Resource == "" {
		return nil, errors.Reason("missing required -resource argument")
	}
	return &flags, nil
}

// Config is the schema of the TOML config file.
type Config struct {
	Key string `toml:"key"` // user key for Financial Modeling Prep
}

func parseConfig(filePath string) (*Config, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	return &c, nil
}

// resolveKey finds the API key: the -apikey flag, then $FMP_API_KEY, then the
// config file.
func resolveKey(flags *Flags) (string, error) {
	if flags.APIKey != "" {
		return flags.APIKey, nil
	}
	if key := os.Getenv("FMP_API_KEY"); key != "" {
		return key, nil
	}
	if _, err := os.Stat(flags.ConfigPath); err != nil {
		sample := `key = "YourSecretFMPKey"
`
		return "", errors.Annotate(err,
			"no API key found.\nSet $FMP_API_KEY, pass -apikey, or create '%s' containing:\n%s",
			flags.ConfigPath, sample)
	}
	c, err := parseConfig(flags.ConfigPath)
	if err != nil {
		return "", errors.Annotate(err, "failed to parse config")
	}
	if c.Key == "" {
		return "", errors.Reason("config file '%s' has no 'key' entry", flags.ConfigPath)
	}
	return c.Key, nil
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	key, err := resolveKey(flags)
	if err != nil {
		return err
	}
	ctx = fmp.UseClient(ctx, key)

	q := fmp.NewQuery(flags.Resource).Version(flags.APIVersion)
	if flags.Symbol != "" {
		q = q.Symbol(flags.Symbol)
	}
	if flags.Period != "" {
		q = q.Period(flags.Period)
	}
	if flags.Limit != 0 {
		q = q.Limit(flags.Limit)
	}
	for k, v := range flags.Params {
		q = q.Param(k, v)
	}

	tbl, err := q.Fetch(ctx)
	if err != nil {
		return errors.Annotate(err, "failed to fetch '%s'", q.Path())
	}
	if flags.Summary {
		tbl = tbl.Summarize()
	}
	if flags.CSV {
		if err := tbl.WriteCSV(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
