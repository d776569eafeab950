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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/prometheus"
	"github.com/purpleidea/proglang/util"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

func newMain(t *testing.T, config *Config) (*Main, *bytes.Buffer) {
	output := &bytes.Buffer{}
	main := &Main{
		Program: "proglang",
		Version: "0.0.1-test",
		Config:  config,
		Output:  output,
		Logf: func(format string, v ...interface{}) {
			t.Logf("main: "+format, v...)
		},
	}
	return main, output
}

func TestMainRun0(t *testing.T) {
	type test struct {
		name   string
		config *Config
		exp    string
	}
	testCases := []test{
		{
			name:   "text",
			config: &Config{Demo: "counter", Runs: 1, Format: FormatText},
			exp:    "{ctr: 2}\n",
		},
		{
			name:   "yaml",
			config: &Config{Demo: "counter", Runs: 1, Format: FormatYAML},
			exp:    "ctr: 2\n",
		},
		{
			name:   "store override",
			config: &Config{Demo: "counter", Runs: 1, Format: FormatText, Store: map[string]int{"ctr": 10}},
			exp:    "{ctr: 12}\n",
		},
		{
			name:   "deterministic histogram",
			config: &Config{Demo: "counter", Runs: 3, Format: FormatText, Delays: []string{"0s", "0s"}},
			exp:    "     3 {ctr: 2}\n",
		},
	}

	for index, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			main, output := newMain(t, tc.config)
			if err := main.Validate(); err != nil {
				t.Errorf("test #%d: validate failed with: %+v", index, err)
				return
			}
			if err := main.Init(); err != nil {
				t.Errorf("test #%d: init failed with: %+v", index, err)
				return
			}
			defer main.Close()
			if err := main.Run(context.Background()); err != nil {
				t.Errorf("test #%d: run failed with: %+v", index, err)
				return
			}
			if s := output.String(); s != tc.exp {
				t.Errorf("test #%d: unexpected output:\n%s\nexpected:\n%s", index, s, tc.exp)
			}
		})
	}
}

func TestMainFailureHistogram0(t *testing.T) {
	main, output := newMain(t, &Config{Demo: "undefined", Runs: 2, Format: FormatYAML})
	if err := main.Init(); err != nil {
		t.Errorf("init failed with: %+v", err)
		return
	}
	if err := main.Run(context.Background()); err != nil {
		t.Errorf("run failed with: %+v", err)
		return
	}
	outcomes := []*Outcome{}
	if err := yaml.Unmarshal(output.Bytes(), &outcomes); err != nil {
		t.Errorf("output is not yaml: %+v", err)
		return
	}
	if len(outcomes) != 1 {
		t.Errorf("expected one outcome, got:\n%s", output.String())
		return
	}
	if o := outcomes[0]; o.Kind != "undefined_variable" || o.Count != 2 || !strings.Contains(o.Error, "thread 0: ") {
		t.Errorf("unexpected outcome: %+v", o)
	}
	if _, err := uuid.Parse(outcomes[0].Run); err != nil {
		t.Errorf("the outcome has no valid run id: %s", outcomes[0].Run)
	}
}

func TestMainFailure0(t *testing.T) {
	main, output := newMain(t, &Config{Demo: "divzero", Runs: 1, Format: FormatText})
	if err := main.Init(); err != nil {
		t.Errorf("init failed with: %+v", err)
		return
	}
	err := main.Run(context.Background())
	if !errors.Is(err, interfaces.ErrDivisionByZero) {
		t.Errorf("expected division by zero, got: %v", err)
	}
	if output.Len() != 0 {
		t.Errorf("expected no output, got: %s", output.String())
	}
}

func TestMainValidate0(t *testing.T) {
	main, _ := newMain(t, &Config{Runs: 1, Format: FormatText})
	if err := main.Validate(); !errors.Is(err, interfaces.ErrConfiguration) {
		t.Errorf("expected a configuration error without a demo, got: %v", err)
	}

	main, _ = newMain(t, &Config{Demo: "nope", Runs: 1, Format: FormatText})
	if err := main.Init(); !errors.Is(err, interfaces.ErrConfiguration) {
		t.Errorf("expected a configuration error for an unknown demo, got: %v", err)
	}

	main, _ = newMain(t, &Config{Demo: "counter", Runs: 1, Format: FormatText, Delays: []string{"1ms"}})
	if err := main.Init(); !errors.Is(err, interfaces.ErrConfiguration) {
		t.Errorf("expected a configuration error for too few delays, got: %v", err)
	}

	main, _ = newMain(t, nil)
	if err := main.Validate(); err == nil {
		t.Errorf("expected an error without a config")
	}

	main = &Main{Config: DefaultConfig()}
	if err := main.Run(context.Background()); err == nil {
		t.Errorf("expected an error without Init")
	}
}

func TestMainRace0(t *testing.T) {
	main, _ := newMain(t, &Config{Demo: "race", Runs: 5, Format: FormatText})
	if err := main.Init(); err != nil {
		t.Errorf("init failed with: %+v", err)
		return
	}
	outcomes, err := main.Race(context.Background())
	if err != nil {
		t.Errorf("race failed with: %+v", err)
		return
	}
	total := 0
	ids := []string{}
	for i, o := range outcomes {
		total += o.Count
		if _, err := uuid.Parse(o.Run); err != nil {
			t.Errorf("the outcome has no valid run id: %s", o.Run)
		}
		if util.StrInList(o.Run, ids) {
			t.Errorf("two outcomes share the run id: %s", o.Run)
		}
		ids = append(ids, o.Run)
		if o.Error != "" {
			t.Errorf("unexpected failure: %s", o.Error)
		}
		if ctr := o.Store["ctr"]; ctr != 1 && ctr != 2 {
			t.Errorf("impossible outcome: %s", o.Store)
		}
		if i > 0 && outcomes[i-1].Count < o.Count {
			t.Errorf("outcomes are not sorted by count")
		}
	}
	if total != 5 {
		t.Errorf("expected 5 runs, got %d", total)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := main.Race(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected a cancelled error, got: %v", err)
	}
}

func TestMainMetrics0(t *testing.T) {
	prom := &prometheus.Prometheus{}
	if err := prom.Init(); err != nil {
		t.Errorf("metrics init failed with: %+v", err)
		return
	}
	main, _ := newMain(t, &Config{Demo: "counter", Runs: 2, Format: FormatText})
	main.Metrics = prom
	if err := main.Init(); err != nil {
		t.Errorf("init failed with: %+v", err)
		return
	}
	if err := main.Run(context.Background()); err != nil {
		t.Errorf("run failed with: %+v", err)
		return
	}
	if err := main.Close(); err != nil {
		t.Errorf("close failed with: %+v", err)
	}

	families, err := prom.Registry.Gather()
	if err != nil {
		t.Errorf("gather failed with: %+v", err)
		return
	}
	found := false
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), "proglang_steps_total") {
			continue
		}
		found = true
		total := 0.0
		for _, m := range family.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		if total != 4 { // two runs of two single step threads
			t.Errorf("expected 4 steps, got %v", total)
		}
	}
	if !found {
		t.Errorf("no step metrics were found")
	}
}
