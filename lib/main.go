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

// Package lib is the run logic behind the command line. It turns a config into
// demo runs and prints what happened.
package lib

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/purpleidea/proglang/lang/demos"
	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/lang/interpret"
	"github.com/purpleidea/proglang/prometheus"
	"github.com/purpleidea/proglang/util"
	"github.com/purpleidea/proglang/util/errwrap"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// Outcome is one distinct result of running a demo, and how often it happened.
type Outcome struct {
	Store interfaces.Store `yaml:"store,omitempty"`
	Kind  string           `yaml:"kind,omitempty"`  // error kind if it failed
	Error string           `yaml:"error,omitempty"` // error message if it failed
	Count int              `yaml:"count"`

	// Run is the id of the first run with this outcome. The log lines of
	// that run carry the same id.
	Run string `yaml:"run,omitempty"`
}

// key identifies outcomes which are the same.
func (obj *Outcome) key() string {
	if obj.Error != "" {
		return "error: " + obj.Error
	}
	return obj.Store.String()
}

// Main is the main struct for running demos.
type Main struct {
	Program string // the name of this program, usually set at compile time
	Version string // the version of this program, usually set at compile time

	// Config is the configuration of the run.
	Config *Config

	// Output is where results are printed. It defaults to stdout.
	Output io.Writer

	// Metrics is an optional metrics instance. If it is nil, and the config
	// asks to listen, one is created and served for the length of the run.
	Metrics *prometheus.Prometheus

	Debug bool
	Logf  func(format string, v ...interface{})

	demo    *demos.Demo
	program *interpret.ConcurrentProgram
	initial interfaces.Store
	serving bool
}

// Validate checks that the struct has what it needs before Init.
func (obj *Main) Validate() error {
	if obj.Program == "" || obj.Version == "" {
		return fmt.Errorf("you must set the Program and Version strings")
	}
	if obj.Config == nil {
		return fmt.Errorf("you must set the Config")
	}
	if obj.Config.Demo == "" {
		return errwrap.Wrapf(interfaces.ErrConfiguration, "no demo was chosen")
	}
	return obj.Config.Validate()
}

// Init looks up the demo and builds its program. It also starts the metrics
// server if one was requested. Call Close when done.
func (obj *Main) Init() error {
	if obj.Output == nil {
		obj.Output = os.Stdout
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}

	demo, err := demos.Lookup(obj.Config.Demo)
	if err != nil {
		return errwrap.Wrapf(interfaces.ErrConfiguration, "%s", err.Error())
	}
	obj.demo = demo

	delays, err := obj.Config.ParseDelays()
	if err != nil {
		return err
	}
	obj.program, err = demo.Program(delays) // nil delays use the defaults
	if err != nil {
		return errwrap.Wrapf(err, "can't build demo `%s`", demo.Name)
	}

	obj.initial = demo.Initial.Copy()
	for name, value := range obj.Config.Store {
		obj.initial[name] = value
	}

	if obj.Metrics == nil && obj.Config.Listen != "" {
		obj.Metrics = &prometheus.Prometheus{
			Listen: obj.Config.Listen,
		}
		if err := obj.Metrics.Init(); err != nil {
			return errwrap.Wrapf(err, "can't initialize metrics")
		}
		if err := obj.Metrics.Start(); err != nil {
			return errwrap.Wrapf(err, "can't start metrics")
		}
		obj.serving = true
		obj.Logf("serving metrics on %s", obj.Config.Listen)
	}

	obj.program.Rate = obj.Config.Rate
	obj.program.Metrics = obj.Metrics
	obj.program.Debug = obj.Debug || obj.Config.Debug
	obj.program.Logf = func(format string, v ...interface{}) {
		obj.Logf("demo(%s): "+format, append([]interface{}{demo.Name}, v...)...)
	}
	return nil
}

// Run runs the demo as many times as configured. A single run prints the final
// store, and returns the error if the run failed. Many runs print a histogram
// of the outcomes instead, failures included, and only fail if the context is
// cancelled before they are done.
func (obj *Main) Run(ctx context.Context) error {
	if obj.program == nil {
		return fmt.Errorf("the Main struct was not initialized")
	}

	if obj.Config.Runs == 1 {
		store, err := obj.program.ExecuteContext(ctx, obj.initial)
		if err != nil {
			return err
		}
		return obj.printStore(store)
	}

	outcomes, err := obj.Race(ctx)
	if err != nil {
		return err
	}
	return obj.printOutcomes(outcomes)
}

// Race runs the demo the configured number of times, and returns the distinct
// outcomes, most frequent first.
func (obj *Main) Race(ctx context.Context) ([]*Outcome, error) {
	if obj.program == nil {
		return nil, fmt.Errorf("the Main struct was not initialized")
	}
	seen := make(map[string]*Outcome)
	for i := 0; i < obj.Config.Runs; i++ {
		select {
		case <-ctx.Done():
			return nil, errwrap.Wrapf(ctx.Err(), "stopped after %d runs", i)
		default:
		}

		id := uuid.New().String()
		outcome := &Outcome{Run: id}
		store, err := obj.program.ExecuteRun(ctx, id, obj.initial)
		if err != nil && ctx.Err() != nil {
			return nil, errwrap.Wrapf(err, "stopped during run %d", i)
		}
		if err != nil {
			outcome.Kind = interfaces.ErrorKind(err)
			outcome.Error = err.Error()
		} else {
			outcome.Store = store
		}
		key := outcome.key()
		if o, exists := seen[key]; exists {
			o.Count++
			continue
		}
		outcome.Count = 1
		seen[key] = outcome
		if obj.Debug {
			obj.Logf("run %d (%s): new outcome: %s", i, id, key)
		}
	}

	byCount := make(map[int][]*Outcome)
	for _, o := range seen {
		byCount[o.Count] = append(byCount[o.Count], o)
	}
	counts := util.SortedIntKeys(byCount)
	result := []*Outcome{}
	for i := len(counts) - 1; i >= 0; i-- { // most frequent first
		list := byCount[counts[i]]
		sort.Slice(list, func(a, b int) bool { return list[a].key() < list[b].key() })
		result = append(result, list...)
	}
	return result, nil
}

// Demo returns the demo that Init looked up.
func (obj *Main) Demo() *demos.Demo {
	return obj.demo
}

// String renders the demo that will run, with the delays and initial store it
// will run with.
func (obj *Main) String() string {
	if obj.program == nil {
		return ""
	}
	s := fmt.Sprintf("%s: %s\n", obj.demo.Name, obj.demo.Description)
	s += fmt.Sprintf("initial: %s\n", obj.initial)
	return s + obj.program.String()
}

// Close shuts down anything that Init started.
func (obj *Main) Close() error {
	if !obj.serving {
		return nil
	}
	obj.serving = false
	return obj.Metrics.Stop()
}

func (obj *Main) printStore(store interfaces.Store) error {
	if obj.Config.Format == FormatYAML {
		b, err := yaml.Marshal(map[string]int(store))
		if err != nil {
			return errwrap.Wrapf(err, "can't marshal store")
		}
		_, err = obj.Output.Write(b)
		return err
	}
	_, err := fmt.Fprintf(obj.Output, "%s\n", store)
	return err
}

func (obj *Main) printOutcomes(outcomes []*Outcome) error {
	if obj.Config.Format == FormatYAML {
		b, err := yaml.Marshal(outcomes)
		if err != nil {
			return errwrap.Wrapf(err, "can't marshal outcomes")
		}
		_, err = obj.Output.Write(b)
		return err
	}
	for _, o := range outcomes {
		if _, err := fmt.Fprintf(obj.Output, "%6d %s\n", o.Count, o.key()); err != nil {
			return err
		}
	}
	return nil
}
