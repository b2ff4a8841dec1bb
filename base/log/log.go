// Copyright 2026 movierec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log holds the process-wide zap logger. Logs go to stderr, and
// optionally to a rotated file, so stdout carries only the report.
package log

import (
	"net/url"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeLayout = "2006-01-02 15:04:05.999999"

var logger *zap.Logger

func init() {
	var err error
	if logger, err = zap.NewDevelopment(); err != nil {
		panic(err)
	}
}

func Logger() *zap.Logger {
	return logger
}

// CloseLogger keeps only fatal messages. Tests call it to stay quiet.
func CloseLogger() {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.FatalLevel)
	var err error
	if logger, err = cfg.Build(); err != nil {
		panic(err)
	}
}

// AddFlags registers the log file flags read by SetLogger.
func AddFlags(flagSet *pflag.FlagSet) {
	flagSet.String("log-path", "", "path of log file")
	flagSet.Int("log-max-size", 100, "maximum size in megabytes of the log file")
	flagSet.Int("log-max-age", 0, "maximum number of days to retain old log files")
	flagSet.Int("log-max-backups", 0, "maximum number of old log files to retain")
}

// SetLogger replaces the logger. Debug mode logs every level in console
// format; otherwise info and above are logged as JSON.
func SetLogger(flagSet *pflag.FlagSet, debug bool) {
	core := zapcore.NewCore(newEncoder(debug), zap.CombineWriteSyncers(writers(flagSet)...), level(debug))
	logger = zap.New(core)
}

func newEncoder(debug bool) zapcore.Encoder {
	if debug {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	return zapcore.NewJSONEncoder(cfg)
}

func level(debug bool) zapcore.LevelEnabler {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func writers(flagSet *pflag.FlagSet) []zapcore.WriteSyncer {
	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if !flagSet.Changed("log-path") {
		return syncers
	}
	path, _ := flagSet.GetString("log-path")
	maxSize, _ := flagSet.GetInt("log-max-size")
	maxAge, _ := flagSet.GetInt("log-max-age")
	maxBackups, _ := flagSet.GetInt("log-max-backups")
	return append(syncers, zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
	}))
}

const mysqlPrefix = "mysql://"

// RedactDBURL replaces user name and password in a data store URL with x's
// of the same length. URLs that cannot be parsed or carry no credentials,
// such as sqlite paths, are returned as is.
func RedactDBURL(rawURL string) string {
	if strings.HasPrefix(rawURL, mysqlPrefix) {
		cfg, err := mysql.ParseDSN(rawURL[len(mysqlPrefix):])
		if err != nil {
			return rawURL
		}
		cfg.User = mask(cfg.User)
		cfg.Passwd = mask(cfg.Passwd)
		return mysqlPrefix + cfg.FormatDSN()
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}
	password, _ := parsed.User.Password()
	parsed.User = url.UserPassword(mask(parsed.User.Username()), mask(password))
	return parsed.String()
}

func mask(s string) string {
	return strings.Repeat("x", len(s))
}
