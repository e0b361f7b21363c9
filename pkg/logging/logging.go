// Copyright 2022-2024 the nvmectl authors. All rights reserved.
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

// Package logging configures logrus with a console hook on stderr and an
// optional rotated log file. Command payloads go to stdout; diagnostics
// never mix with them.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var validLevels = []string{"debug", "info", "warn", "warning", "error", "fatal"}

// Config controls log destination and verbosity.
type Config struct {
	// Write to file? if not provided not writing to file
	Filename string `yaml:"filename,omitempty" mapstructure:"filename"`
	// Time to wait until old logs are purged. By default no logs are purged
	MaxAge time.Duration `yaml:"maxAge,omitempty" mapstructure:"maxAge"`
	// MaxSize is the maximum size of the file in MB
	MaxSize int `yaml:"maxSize,omitempty" mapstructure:"maxSize"`
	// Write caller file:line and package.function on log entries
	ReportCaller bool `yaml:"reportCaller,omitempty" mapstructure:"reportCaller"`
	// one of debug, info, warn, warning, error, fatal
	Level string `yaml:"level,omitempty" mapstructure:"level"`
}

// IsValid rejects unknown level names before any hook is installed.
func (c *Config) IsValid() error {
	for _, l := range validLevels {
		if c.Level == l {
			return nil
		}
	}
	return fmt.Errorf("invalid logging.level parameter provided. supported levels: %v, provided: %s", validLevels, c.Level)
}

func textFormatter() *logrus.TextFormatter {
	return &logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			_, filename := path.Split(f.File)
			return path.Base(f.Function), fmt.Sprintf("%s:%d", filename, f.Line)
		},
	}
}

func hookWriterMap(w io.Writer, level logrus.Level) lfshook.WriterMap {
	wm := lfshook.WriterMap{}
	for l := int(level); l > int(logrus.PanicLevel); l-- {
		wm[logrus.Level(l)] = w
	}
	return wm
}

// Setup routes all logrus output through hooks: stderr for the console and,
// when a filename is configured, a size/age-rotated file.
func Setup(cfg Config) error {
	level := logrus.InfoLevel
	if len(cfg.Level) > 0 {
		var err error
		level, err = logrus.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
	}

	logrus.SetOutput(io.Discard)
	logrus.SetLevel(level)
	logrus.SetReportCaller(cfg.ReportCaller)
	logrus.AddHook(lfshook.NewHook(hookWriterMap(os.Stderr, level), textFormatter()))

	if len(cfg.Filename) > 0 {
		writer := &lumberjack.Logger{
			Filename:  cfg.Filename,
			MaxSize:   cfg.MaxSize,
			MaxAge:    int(cfg.MaxAge / (24 * time.Hour)),
			Compress:  true,
			LocalTime: false,
		}
		logrus.AddHook(lfshook.NewHook(hookWriterMap(writer, level), textFormatter()))
	}
	return nil
}
