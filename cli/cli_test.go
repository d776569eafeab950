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

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	cliUtil "github.com/purpleidea/proglang/cli/util"
	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/lib"
	"github.com/purpleidea/proglang/util"

	"github.com/spf13/afero"
)

func TestCLI0(t *testing.T) {
	type test struct { // an individual test
		name     string
		args     []string
		fail     bool
		exp      string // exact output, if set
		contains []string
	}
	testCases := []test{
		{
			name: "version",
			args: []string{"--version"},
			exp:  "0.0.1-test\n",
		},
		{
			name: "license",
			args: []string{"--license"},
			exp:  "GPLv3\n",
		},
		{
			name:     "no subcommand",
			args:     []string{},
			contains: []string{"Usage:", "race"},
		},
		{
			name:     "list",
			args:     []string{"list"},
			contains: []string{"counter", "race", "divzero"},
		},
		{
			name:     "list show",
			args:     []string{"list", "--show"},
			contains: []string{"thread 1 (delay 2ms):\nctr = ctr + 1\n"},
		},
		{
			name: "run",
			args: []string{"run", "counter"},
			exp:  "{ctr: 2}\n",
		},
		{
			name: "run yaml",
			args: []string{"run", "counter", "--format", "yaml"},
			exp:  "ctr: 2\n",
		},
		{
			name: "run store",
			args: []string{"run", "counter", "--store", "ctr=5"},
			exp:  "{ctr: 7}\n",
		},
		{
			name: "run delays",
			args: []string{"run", "sum", "--delays", "0s", "0s"},
			exp:  "{a: 55, b: 5050, i: 11, j: 101}\n",
		},
		{
			name:     "run show",
			args:     []string{"run", "counter", "--show"},
			contains: []string{"counter: ", "initial: {ctr: 0}\n", "thread 0 (delay 1ms):\n", "{ctr: 2}\n"},
		},
		{
			name:     "race",
			args:     []string{"race", "divzero", "--runs", "3"},
			contains: []string{"     3 error: thread 0: "},
		},
		{
			name: "run failure",
			args: []string{"run", "negfact"},
			fail: true,
		},
		{
			name: "run without demo",
			args: []string{"run"},
			fail: true,
		},
		{
			name: "unknown demo",
			args: []string{"run", "nope"},
			fail: true,
		},
		{
			name: "bad format",
			args: []string{"run", "counter", "--format", "xml"},
			fail: true,
		},
		{
			name: "demo swallowed by list",
			args: []string{"run", "--delays", "1ms", "2ms", "counter"},
			fail: true,
		},
		{
			name: "bad flag",
			args: []string{"run", "counter", "--nope"},
			fail: true,
		},
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			data := &cliUtil.Data{
				Program: "proglang",
				Version: "0.0.1-test",
				Copying: "GPLv3\n",
				Tagline: "a tiny concurrent interpreter",
				Flags: cliUtil.Flags{
					Logf: func(format string, v ...interface{}) {
						t.Logf("cli: "+format, v...)
					},
				},
				Args: append([]string{"proglang"}, tc.args...),
			}
			output := &bytes.Buffer{}
			err := cli(context.Background(), data, output)
			if tc.fail {
				if err == nil {
					t.Errorf("test #%d: expected an error, got output:\n%s", index, output.String())
				}
				return
			}
			if err != nil {
				t.Errorf("test #%d: cli failed with: %+v", index, err)
				return
			}
			s := output.String()
			if tc.exp != "" && s != tc.exp {
				t.Errorf("test #%d: unexpected output:\n%s\nexpected:\n%s", index, s, tc.exp)
			}
			for _, x := range tc.contains {
				if !strings.Contains(s, x) {
					t.Errorf("test #%d: output is missing %q:\n%s", index, x, s)
				}
			}
		})
	}
}

func TestCLISanity0(t *testing.T) {
	if err := CLI(context.Background(), nil); err == nil {
		t.Errorf("expected an error without data")
	}
	if err := CLI(context.Background(), &cliUtil.Data{Program: "proglang"}); err == nil {
		t.Errorf("expected an error without a version")
	}
	if err := CLI(context.Background(), &cliUtil.Data{Program: "proglang", Version: "1"}); err == nil {
		t.Errorf("expected an error without the license")
	}
}

func TestLoadConfig0(t *testing.T) {
	fs := afero.NewMemMapFs()
	yaml := "demo: race\nruns: 5\nstore:\n  ctr: 3\n"
	if err := afero.WriteFile(fs, "/proglang.yaml", []byte(yaml), 0644); err != nil {
		t.Errorf("can't write config: %+v", err)
		return
	}

	flags := &lib.Config{Runs: 7, Store: map[string]int{"tmp": 1}}
	config, err := loadConfig(fs, "/proglang.yaml", flags)
	if err != nil {
		t.Errorf("load failed with: %+v", err)
		return
	}
	if config.Demo != "race" || config.Runs != 7 || config.Format != lib.FormatText {
		t.Errorf("unexpected config: %s", config)
	}
	if config.Store["ctr"] != 3 || config.Store["tmp"] != 1 {
		t.Errorf("unexpected store: %v", config.Store)
	}

	config, err = loadConfig(fs, "", &lib.Config{Demo: "counter"})
	if err != nil {
		t.Errorf("load failed with: %+v", err)
		return
	}
	if config.Runs != 1 || config.Demo != "counter" {
		t.Errorf("expected the defaults: %s", config)
	}

	if _, err := loadConfig(fs, "/missing.yaml", flags); err == nil {
		t.Errorf("expected an error for a missing file")
	}

	if err := afero.WriteFile(fs, "/bad.yaml", []byte("runs: 0\n"), 0644); err != nil {
		t.Errorf("can't write config: %+v", err)
		return
	}
	if _, err := loadConfig(fs, "/bad.yaml", flags); !errors.Is(err, interfaces.ErrConfiguration) {
		t.Errorf("expected a configuration error, got: %v", err)
	}
}
