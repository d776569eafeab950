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

package prometheus

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

// gather returns the metric families of the registry by name.
func gather(t *testing.T, prom *Prometheus) map[string]*dto.MetricFamily {
	metrics, err := prom.Registry.Gather()
	if err != nil {
		t.Errorf("error while gathering metrics: %s", err)
		return nil
	}
	result := make(map[string]*dto.MetricFamily)
	for _, metric := range metrics {
		result[metric.GetName()] = metric
	}
	return result
}

// TestInitMetrics tests that we count steps and failures with the right
// labels, and that two instances don't collide.
func TestInitMetrics(t *testing.T) {
	var prom Prometheus
	if err := prom.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	var other Prometheus
	if err := other.Init(); err != nil {
		t.Errorf("second init failed: %+v", err)
		return
	}

	prom.UpdateStepTotal(0, "assign")
	prom.UpdateStepTotal(0, "assign")
	prom.UpdateStepTotal(1, "while")
	prom.UpdateFailureTotal("division_by_zero")
	prom.ThreadStarted()
	prom.ThreadStarted()
	prom.ThreadFinished()

	families := gather(t, &prom)

	// expectedMetrics is a map: keys are metrics name and values are the
	// expected count of label combinations with that name.
	expectedMetrics := map[string]int{
		"proglang_steps_total":     2,
		"proglang_failures_total":  1,
		"proglang_threads_running": 1,
	}
	for name, count := range expectedMetrics {
		family, exists := families[name]
		if !exists {
			t.Errorf("missing metric: %s", name)
			continue
		}
		if value := len(family.GetMetric()); value != count {
			t.Errorf("with: %s, expected %d metrics, got %d metrics", name, count, value)
		}
	}

	total := 0.0
	for _, m := range families["proglang_steps_total"].GetMetric() {
		total += m.GetCounter().GetValue()
	}
	if total != 3 {
		t.Errorf("expected 3 steps, got %v", total)
	}
	if v := families["proglang_threads_running"].GetMetric()[0].GetGauge().GetValue(); v != 1 {
		t.Errorf("expected 1 running thread, got %v", v)
	}

	if len(gather(t, &other)["proglang_steps_total"].GetMetric()) != 0 {
		t.Errorf("the second instance should have counted nothing")
	}
}

func TestDisabledMetrics(t *testing.T) {
	var prom *Prometheus // metrics are off
	if err := prom.UpdateStepTotal(0, "assign"); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if err := prom.UpdateFailureTotal("unknown"); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if err := prom.ThreadStarted(); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	if err := prom.ThreadFinished(); err != nil {
		t.Errorf("unexpected error: %+v", err)
	}

	uninitialized := &Prometheus{}
	if err := uninitialized.UpdateStepTotal(0, "assign"); err != ErrNotInitialized {
		t.Errorf("expected a not initialized error, got: %v", err)
	}
	if err := uninitialized.UpdateFailureTotal("unknown"); err != ErrNotInitialized {
		t.Errorf("expected a not initialized error, got: %v", err)
	}
	if err := uninitialized.ThreadStarted(); err != ErrNotInitialized {
		t.Errorf("expected a not initialized error, got: %v", err)
	}
	if err := uninitialized.ThreadFinished(); err != ErrNotInitialized {
		t.Errorf("expected a not initialized error, got: %v", err)
	}
}
