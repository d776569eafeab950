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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cliUtil "github.com/purpleidea/proglang/cli/util"
	"github.com/purpleidea/proglang/lang/demos"
	"github.com/purpleidea/proglang/lib"
	"github.com/purpleidea/proglang/util"
	"github.com/purpleidea/proglang/util/errwrap"

	"github.com/spf13/afero"
)

// RunArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `run` subcommand.
type RunArgs struct {
	lib.Config // embedded config (can't be a pointer) https://github.com/alexflint/go-arg/issues/240

	ConfigPath string `arg:"--config" help:"read a yaml config file first, flags override it"`

	Show bool `arg:"--show" help:"print the program before running it"`
}

// Run executes the `run` subcommand. It runs the demo once, unless a number of
// runs was asked for.
func (obj *RunArgs) Run(ctx context.Context, data *cliUtil.Data, stdout io.Writer) (bool, error) {
	config, err := loadConfig(afero.NewOsFs(), obj.ConfigPath, &obj.Config)
	if err != nil {
		return false, err
	}
	return runMain(ctx, data, config, obj.Show, stdout)
}

// loadConfig reads the config file if there is one, and puts the flags on top.
func loadConfig(fs afero.Fs, path string, flags *lib.Config) (*lib.Config, error) {
	// XXX: workaround https://github.com/alexflint/go-arg/issues/239
	if l := len(flags.Delays); flags.Demo == "" && l > 0 {
		if util.StrInList(flags.Delays[l-1], demos.Names()) { // last element
			return nil, cliUtil.CliParseError(cliUtil.MissingEquals) // consistent errors
		}
	}

	config := lib.DefaultConfig()
	if path != "" {
		p, err := util.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		if config, err = lib.ReadConfig(fs, p); err != nil {
			return nil, err
		}
	}
	return config.Merge(flags), nil
}

// runMain builds the main struct from the config, and runs it until it is done
// or until we are interrupted.
func runMain(ctx context.Context, data *cliUtil.Data, config *lib.Config, show bool, stdout io.Writer) (bool, error) {
	main := &lib.Main{}
	main.Config = config
	main.Output = stdout

	main.Program, main.Version = data.Program, data.Version
	main.Debug, main.Logf = data.Flags.Debug || config.Debug, data.Flags.Logf // no prefix
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf("main: "+format, v...)
	}

	cliUtil.Hello(main.Program, main.Version, data.Flags) // say hello!
	defer Logf("goodbye!")

	if err := main.Validate(); err != nil {
		return false, err
	}

	if err := main.Init(); err != nil {
		return false, err
	}

	if show {
		fmt.Fprintf(stdout, "%s", main)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// install the exit signal handler
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	exit := make(chan struct{})
	defer close(exit)
	wg.Add(1)
	go func() {
		defer wg.Done()
		signals := make(chan os.Signal, 1+1) // 1 * ^C + 1 * SIGTERM
		signal.Notify(signals, os.Interrupt) // catch ^C
		signal.Notify(signals, syscall.SIGTERM)
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			Logf("interrupted by %v", sig)
			cancel()
		case <-exit:
		}
	}()

	reterr := main.Run(ctx)
	if reterr != nil {
		// log the error message returned
		if data.Flags.Debug {
			Logf("%+v", reterr)
		}
	}

	if err := main.Close(); err != nil {
		if data.Flags.Debug {
			Logf("Close: %+v", err)
		}
		reterr = errwrap.Append(reterr, err)
	}

	if reterr != nil {
		return false, reterr
	}
	return true, nil
}
