// Mgmt
// Copyright (C) 2013-2024+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

package lib

import (
	"fmt"
	"io"
	"time"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/util/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	// FormatText prints stores in the same form as they render in logs.
	FormatText = "text"

	// FormatYAML prints stores as yaml documents.
	FormatYAML = "yaml"
)

// Config is the configuration of a run. It can be read from a yaml file, and it
// is also embedded in the command line arguments, which take precedence.
type Config struct {
	// Demo is the name of the built-in demo to run.
	Demo string `arg:"positional" yaml:"demo" help:"name of the demo to run"`

	// Delays are the pacing delays, one per thread, as duration strings
	// such as 10ms. If empty, the defaults of the demo are used.
	Delays []string `arg:"--delays" yaml:"delays" help:"pacing delay for each thread, eg: 10ms"`

	// Store holds initial variable values. They are added to the initial
	// store of the demo, replacing any of the same name.
	Store map[string]int `arg:"--store" yaml:"store" help:"initial variables, eg: ctr=0"`

	// Runs is how many times to run the demo.
	Runs int `arg:"--runs" yaml:"runs" help:"number of times to run"`

	// Rate caps the steps per second of all threads together. Zero means
	// no cap.
	Rate float64 `arg:"--rate" yaml:"rate" help:"maximum steps per second over all threads, 0 for no limit"`

	// Format is the output format, either text or yaml.
	Format string `arg:"--format" yaml:"format" help:"output format: text or yaml"`

	// Listen is where to serve metrics. Metrics are off if it is empty.
	Listen string `arg:"--prometheus-listen" yaml:"prometheus-listen" help:"serve prometheus metrics on this address"`

	// Debug enables extra logging.
	Debug bool `arg:"-" yaml:"debug"`
}

// DefaultConfig returns the configuration used before anything is read.
func DefaultConfig() *Config {
	return &Config{
		Runs:   1,
		Format: FormatText,
	}
}

// ParseConfig reads a yaml configuration on top of the defaults, and validates
// the result. An empty document gives the defaults.
func ParseConfig(reader io.Reader) (*Config, error) {
	config := DefaultConfig() // populate this
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read config")
	}
	if err := yaml.UnmarshalStrict(b, config); err != nil {
		return nil, errwrap.Wrapf(err, "can't parse config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ReadConfig opens the file at path on the filesystem and parses it.
func ReadConfig(fs afero.Fs, path string) (*Config, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't open config")
	}
	defer f.Close()
	config, err := ParseConfig(f)
	if err != nil {
		return nil, errwrap.Wrapf(err, "bad config at `%s`", path)
	}
	return config, nil
}

// Validate checks the configuration. All of the errors are configuration
// errors.
func (obj *Config) Validate() error {
	if obj.Runs < 1 {
		return errwrap.Wrapf(interfaces.ErrConfiguration, "the number of runs must be at least one, got %d", obj.Runs)
	}
	if obj.Rate < 0 {
		return errwrap.Wrapf(interfaces.ErrConfiguration, "the rate must not be negative, got %v", obj.Rate)
	}
	if obj.Format != FormatText && obj.Format != FormatYAML {
		return errwrap.Wrapf(interfaces.ErrConfiguration, "unknown format `%s`", obj.Format)
	}
	if _, err := obj.ParseDelays(); err != nil {
		return err
	}
	for name := range obj.Store {
		if name == "" {
			return errwrap.Wrapf(interfaces.ErrConfiguration, "empty variable name in store")
		}
	}
	return nil
}

// ParseDelays turns the delay strings into durations. It returns nil if there
// are none.
func (obj *Config) ParseDelays() ([]time.Duration, error) {
	if len(obj.Delays) == 0 {
		return nil, nil
	}
	delays := []time.Duration{}
	for i, s := range obj.Delays {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrConfiguration, "delay %d: %s", i, err.Error())
		}
		if d < 0 {
			return nil, errwrap.Wrapf(interfaces.ErrConfiguration, "delay %d is negative: %s", i, s)
		}
		delays = append(delays, d)
	}
	return delays, nil
}

// Merge returns a copy of this config, with every field that is set in other
// replacing ours. Store entries are merged one by one.
func (obj *Config) Merge(other *Config) *Config {
	config := *obj // copy
	config.Store = interfaces.Store(obj.Store).Copy()
	if other == nil {
		return &config
	}
	if other.Demo != "" {
		config.Demo = other.Demo
	}
	if len(other.Delays) > 0 {
		config.Delays = append([]string{}, other.Delays...)
	}
	for name, value := range other.Store {
		config.Store[name] = value
	}
	if other.Runs != 0 {
		config.Runs = other.Runs
	}
	if other.Rate != 0 {
		config.Rate = other.Rate
	}
	if other.Format != "" {
		config.Format = other.Format
	}
	if other.Listen != "" {
		config.Listen = other.Listen
	}
	config.Debug = config.Debug || other.Debug
	return &config
}

// String returns the config as yaml.
func (obj *Config) String() string {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}
