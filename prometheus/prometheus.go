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

// Package prometheus provides functions that are useful to control and manage
// the built-in prometheus instance which counts the work of the interpreters.
package prometheus

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/purpleidea/proglang/util/errwrap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrometheusListen is the default listen address for the metrics
// endpoint.
const DefaultPrometheusListen = "127.0.0.1:9233"

// ErrNotInitialized is returned when a metric is updated before Init.
const ErrNotInitialized = Error("the metrics were not initialized")

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

// Prometheus is the struct that contains information about the prometheus
// instance. Run Init() on it.
type Prometheus struct {
	Listen string // the listen specification for the net/http server

	// Registry is where the metrics get registered. If it is nil, Init
	// creates a fresh one, so that many instances can coexist.
	Registry *prometheus.Registry

	stepsTotal     *prometheus.CounterVec // total of steps that have run
	failuresTotal  *prometheus.CounterVec // total of failed steps by kind
	threadsRunning prometheus.Gauge       // number of executors running

	server *http.Server
}

// Init creates and registers the metrics.
func (obj *Prometheus) Init() error {
	if len(obj.Listen) == 0 {
		obj.Listen = DefaultPrometheusListen
	}
	if obj.Registry == nil {
		obj.Registry = prometheus.NewRegistry()
	}

	obj.stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proglang_steps_total",
			Help: "Number of statement steps that have run.",
		},
		// Labels for this metric.
		// thread: index of the program thread
		// kind: statement kind: assign, if, while
		[]string{"thread", "kind"},
	)
	if err := obj.Registry.Register(obj.stepsTotal); err != nil {
		return errwrap.Wrapf(err, "can't register steps metric")
	}

	obj.failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proglang_failures_total",
			Help: "Number of steps that failed, by error kind.",
		},
		[]string{"kind"},
	)
	if err := obj.Registry.Register(obj.failuresTotal); err != nil {
		return errwrap.Wrapf(err, "can't register failures metric")
	}

	obj.threadsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "proglang_threads_running",
			Help: "Number of program threads currently running.",
		},
	)
	if err := obj.Registry.Register(obj.threadsRunning); err != nil {
		return errwrap.Wrapf(err, "can't register threads metric")
	}

	return nil
}

// Start runs a http server in a go routine, that responds to /metrics as
// prometheus would expect.
func (obj *Prometheus) Start() error {
	listener, err := net.Listen("tcp", obj.Listen)
	if err != nil {
		return errwrap.Wrapf(err, "can't listen on %s", obj.Listen)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obj.Registry, promhttp.HandlerOpts{}))
	obj.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go obj.server.Serve(listener) // returns ErrServerClosed on Stop
	return nil
}

// Stop the http server.
func (obj *Prometheus) Stop() error {
	if obj.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return obj.server.Shutdown(ctx)
}

// UpdateStepTotal counts one step of the given kind on a thread. It is a no-op
// on a nil instance, so that metrics can stay optional.
func (obj *Prometheus) UpdateStepTotal(thread int, kind string) error {
	if obj == nil {
		return nil
	}
	if obj.stepsTotal == nil {
		return ErrNotInitialized
	}
	labels := prometheus.Labels{"thread": strconv.Itoa(thread), "kind": kind}
	metric := obj.stepsTotal.With(labels)
	metric.Inc()
	return nil
}

// UpdateFailureTotal counts one failed step with the given error kind.
func (obj *Prometheus) UpdateFailureTotal(kind string) error {
	if obj == nil {
		return nil
	}
	if obj.failuresTotal == nil {
		return ErrNotInitialized
	}
	obj.failuresTotal.With(prometheus.Labels{"kind": kind}).Inc()
	return nil
}

// ThreadStarted is called when an executor starts running.
func (obj *Prometheus) ThreadStarted() error {
	if obj == nil {
		return nil
	}
	if obj.threadsRunning == nil {
		return ErrNotInitialized
	}
	obj.threadsRunning.Inc()
	return nil
}

// ThreadFinished is called when an executor stops running, for any reason.
func (obj *Prometheus) ThreadFinished() error {
	if obj == nil {
		return nil
	}
	if obj.threadsRunning == nil {
		return ErrNotInitialized
	}
	obj.threadsRunning.Dec()
	return nil
}
