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

package interpret

import (
	"fmt"
	"sync"
	"time"

	"github.com/purpleidea/proglang/lang/interfaces"
	"github.com/purpleidea/proglang/lang/vm"
	"github.com/purpleidea/proglang/prometheus"
	"github.com/purpleidea/proglang/util"

	"golang.org/x/time/rate"
)

// Executor runs one program thread to completion against a shared store. Each
// step waits for the pacing delay, and then runs with the mutex held, so that no
// two steps from any threads sharing the mutex ever overlap. Nothing is held
// between two steps, so other threads can run in between. An executor is used
// for exactly one run.
type Executor struct {
	// Thread is the index of this program thread, used in logs and errors.
	Thread int

	// Program is the compiled statement chain to run.
	Program *vm.Program

	// Delay is how long to wait before each step. It biases the order in
	// which threads interleave, but it guarantees nothing.
	Delay time.Duration

	// Limiter is an optional rate limit on steps. It may be shared with
	// other executors, which caps the total rate of all of them. Its wait
	// is added to the pacing delay.
	Limiter *rate.Limiter

	// Store is the shared store. It must only be touched with Mutex held.
	Store interfaces.Store

	// Mutex guards the store. It is shared by all the executors of a run.
	Mutex *sync.Mutex

	// Exit is an optional signal which stops the executor before its next
	// step, usually because another thread failed.
	Exit *util.EasyExit

	// Metrics is optional and counts the steps that run. It must have been
	// initialized if it is set.
	Metrics *prometheus.Prometheus

	// Debug represents if we're running in debug mode or not.
	Debug bool

	// Logf is a logger which should be used.
	Logf func(format string, v ...interface{})
}

// Validate checks that the executor has what it needs to run.
func (obj *Executor) Validate() error {
	if obj.Program == nil {
		return fmt.Errorf("the Program is nil")
	}
	if obj.Store == nil {
		return fmt.Errorf("the Store is nil")
	}
	if obj.Mutex == nil {
		return fmt.Errorf("the Mutex is nil")
	}
	if obj.Delay < 0 {
		return fmt.Errorf("the Delay is negative")
	}
	return nil
}

// Run steps the program until it is done, or until a step fails, or until the
// exit signal closes. A signalled stop is not an error. Any panic while running
// is returned as an error. The error is not wrapped with the thread index, the
// caller does that.
func (obj *Executor) Run() (reterr error) {
	if err := obj.Validate(); err != nil {
		return err
	}
	logf := obj.Logf
	if logf == nil {
		logf = func(format string, v ...interface{}) {}
	}
	var exit <-chan struct{} // nil blocks forever
	if obj.Exit != nil {
		exit = obj.Exit.Signal()
	}

	defer func() {
		if r := recover(); r != nil {
			reterr = fmt.Errorf("panic: %v", r)
		}
	}()
	if err := obj.Metrics.ThreadStarted(); err != nil {
		logf("metrics: %v", err)
	}
	defer func() {
		if err := obj.Metrics.ThreadFinished(); err != nil {
			logf("metrics: %v", err)
		}
	}()

	cont := obj.Program.Entry()
	steps := 0
	for !cont.Done() {
		if !obj.pace(exit) {
			logf("stopped after %d steps", steps)
			return nil
		}

		kind := obj.Program.Kind(cont)
		next, err := obj.step(cont)
		if err != nil {
			if e := obj.Metrics.UpdateFailureTotal(interfaces.ErrorKind(err)); e != nil {
				logf("metrics: %v", e)
			}
			logf("failed after %d steps: %v", steps, err)
			return err
		}
		if err := obj.Metrics.UpdateStepTotal(obj.Thread, kind.String()); err != nil {
			logf("metrics: %v", err)
		}
		if obj.Debug {
			logf("step %d: %s", steps, kind)
		}
		cont = next
		steps++
	}

	logf("done after %d steps", steps)
	return nil
}

// pace waits for the delay, and for the limiter if there is one. It returns
// false if the exit signal came first, or had already come.
func (obj *Executor) pace(exit <-chan struct{}) bool {
	wait := obj.Delay
	var reservation *rate.Reservation
	if obj.Limiter != nil {
		reservation = obj.Limiter.Reserve()
		wait += reservation.Delay()
	}

	if wait <= 0 {
		select {
		case <-exit:
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-exit:
		if reservation != nil {
			reservation.Cancel()
		}
		return false
	}
	// both may be ready at once, the exit wins
	select {
	case <-exit:
		return false
	default:
		return true
	}
}

// step runs one step with the mutex held.
func (obj *Executor) step(cont vm.Continuation) (vm.Continuation, error) {
	obj.Mutex.Lock()
	defer obj.Mutex.Unlock()
	return obj.Program.Step(cont, obj.Store)
}
