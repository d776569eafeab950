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

// Package interpret contains the drivers which run programs: a sequential one,
// and a concurrent one that runs several program threads against one shared
// store.
package interpret

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/lang/vm"
	"github.com/purpleidea/proglang/prometheus"
	"github.com/purpleidea/proglang/util"
	"github.com/purpleidea/proglang/util/errwrap"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ConcurrentProgram runs a list of statement chains, one goroutine each, against
// a single shared store. Every step of every thread runs under one mutex, so
// steps never overlap, but the statements of one thread can interleave with
// those of the others in any order. The pacing delays bias that order. Build it
// with NewConcurrentProgram, or fill in the fields and run Init.
type ConcurrentProgram struct {
	// Threads is the list of statement chains, one per program thread.
	Threads []interfaces.Stmt

	// Delays is the pacing delay of each thread. It must be as long as
	// Threads.
	Delays []time.Duration

	// Rate caps the total number of steps per second, over all of the
	// threads together. Zero means no cap.
	Rate float64

	// Metrics is optional and counts the steps that run.
	Metrics *prometheus.Prometheus

	// Debug represents if we're running in debug mode or not.
	Debug bool

	// Logf is a logger which should be used.
	Logf func(format string, v ...interface{})

	programs []*vm.Program
}

// NewConcurrentProgram builds and initializes a concurrent program. It fails
// with ErrConfiguration if the two lists differ in length, before anything is
// compiled or run.
func NewConcurrentProgram(threads []interfaces.Stmt, delays []time.Duration) (*ConcurrentProgram, error) {
	obj := &ConcurrentProgram{
		Threads: threads,
		Delays:  delays,
	}
	if err := obj.Init(); err != nil {
		return nil, err
	}
	return obj, nil
}

// Init validates the configuration and compiles every thread. It must be called
// once before Execute.
func (obj *ConcurrentProgram) Init() error {
	if len(obj.Threads) != len(obj.Delays) {
		return errwrap.Wrapf(interfaces.ErrConfiguration, "got %d threads and %d delays", len(obj.Threads), len(obj.Delays))
	}
	if obj.Rate < 0 {
		return errwrap.Wrapf(interfaces.ErrConfiguration, "the rate is negative")
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}

	programs := []*vm.Program{}
	for i, stmt := range obj.Threads {
		if obj.Delays[i] < 0 {
			return errwrap.Wrapf(interfaces.ErrConfiguration, "thread %d has a negative delay", i)
		}
		prog, err := vm.Compile(stmt)
		if err != nil {
			return &ThreadError{Thread: i, Err: err}
		}
		programs = append(programs, prog)
	}
	obj.programs = programs
	return nil
}

// Execute runs all the threads concurrently against a copy of the initial store
// and waits for all of them to finish. It returns a copy of the final store. If
// a thread fails, the others are stopped before their next step, and the error
// is returned as a *ThreadError which keeps the original error. If more than
// one thread fails, all of the errors are returned together. On error there is
// no store. A thread that never finishes blocks this forever.
func (obj *ConcurrentProgram) Execute(initial interfaces.Store) (interfaces.Store, error) {
	return obj.ExecuteContext(context.Background(), initial)
}

// ExecuteContext is like Execute, except that cancelling the context stops all
// of the threads before their next step, and returns the context error.
func (obj *ConcurrentProgram) ExecuteContext(ctx context.Context, initial interfaces.Store) (interfaces.Store, error) {
	return obj.ExecuteRun(ctx, uuid.New().String(), initial)
}

// ExecuteRun is like ExecuteContext, and the id names this run in the logs, so
// that a caller can match an outcome with the log lines that produced it.
func (obj *ConcurrentProgram) ExecuteRun(ctx context.Context, id string, initial interfaces.Store) (interfaces.Store, error) {
	if obj.programs == nil {
		return nil, fmt.Errorf("the program was not initialized")
	}
	logf := func(format string, v ...interface{}) {
		obj.Logf("execute(%s): "+format, append([]interface{}{id}, v...)...)
	}

	store := initial.Copy()
	mutex := &sync.Mutex{}
	exit := util.NewEasyExit()
	var limiter *rate.Limiter
	if obj.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(obj.Rate), 1)
	}

	executors := []*Executor{}
	for i, prog := range obj.programs {
		thread := i
		executors = append(executors, &Executor{
			Thread:  thread,
			Program: prog,
			Delay:   obj.Delays[i],
			Limiter: limiter,
			Store:   store,
			Mutex:   mutex,
			Exit:    exit,
			Metrics: obj.Metrics,
			Debug:   obj.Debug,
			Logf: func(format string, v ...interface{}) {
				logf(fmt.Sprintf("executor(%d): ", thread)+format, v...)
			},
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			exit.Done(errwrap.Wrapf(ctx.Err(), "execution was cancelled"))
		case <-exit.Signal():
		}
	}()

	logf("starting %d threads", len(executors))
	wg := &sync.WaitGroup{}
	for _, executor := range executors {
		wg.Add(1)
		go func(executor *Executor) {
			defer wg.Done()
			if err := executor.Run(); err != nil {
				exit.Done(&ThreadError{Thread: executor.Thread, Err: err})
			}
		}(executor)
	}
	wg.Wait()
	exit.Done(nil) // everyone is finished

	if err := exit.Error(); err != nil {
		logf("failed: %v", err)
		return nil, err
	}

	mutex.Lock() // nobody else is left, but be consistent
	defer mutex.Unlock()
	logf("finished with: %s", store)
	return store.Copy(), nil
}

// String renders every thread, one after the other, each headed by its index
// and pacing delay.
func (obj *ConcurrentProgram) String() string {
	s := ""
	for i, stmt := range obj.Threads {
		delay := time.Duration(0)
		if i < len(obj.Delays) {
			delay = obj.Delays[i]
		}
		s += fmt.Sprintf("thread %d (delay %s):\n", i, delay)
		if stmt != nil {
			s += stmt.String()
		}
	}
	return s
}
