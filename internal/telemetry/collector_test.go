package telemetry_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/oyaguma3/go-supplicant/internal/telemetry"
	"github.com/oyaguma3/go-supplicant/supplicant"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := telemetry.NewCollector(reg)

	if c.State == nil {
		t.Error("State is nil")
	}
	if c.FramesAccepted == nil {
		t.Error("FramesAccepted is nil")
	}
	if c.FramesDropped == nil {
		t.Error("FramesDropped is nil")
	}
	if c.PMKDerivations == nil {
		t.Error("PMKDerivations is nil")
	}
	if c.PMKDerivationSeconds == nil {
		t.Error("PMKDerivationSeconds is nil")
	}

	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

func TestFrameCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := telemetry.NewCollector(reg)

	c.FrameAccepted("aa:bb:cc:dd:ee:ff")
	c.FrameAccepted("aa:bb:cc:dd:ee:ff")
	if got := counterValue(t, c.FramesAccepted, "aa:bb:cc:dd:ee:ff"); got != 2 {
		t.Errorf("FramesAccepted = %v, want 2", got)
	}

	c.FrameDropped("aa:bb:cc:dd:ee:ff", "replay")
	if got := counterValue(t, c.FramesDropped, "aa:bb:cc:dd:ee:ff", "replay"); got != 1 {
		t.Errorf("FramesDropped(replay) = %v, want 1", got)
	}
}

func TestStateChangedSetsExactlyOneGaugeToOne(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := telemetry.NewCollector(reg)

	c.StateChanged("aa:bb:cc:dd:ee:ff", supplicant.StateMsg3)

	if got := gaugeValue(t, c.State, "aa:bb:cc:dd:ee:ff", "MSG3"); got != 1 {
		t.Errorf("State(MSG3) = %v, want 1", got)
	}
	if got := gaugeValue(t, c.State, "aa:bb:cc:dd:ee:ff", "MSG1"); got != 0 {
		t.Errorf("State(MSG1) = %v, want 0", got)
	}

	c.StateChanged("aa:bb:cc:dd:ee:ff", supplicant.StateRun)

	if got := gaugeValue(t, c.State, "aa:bb:cc:dd:ee:ff", "RUN"); got != 1 {
		t.Errorf("State(RUN) = %v, want 1", got)
	}
	if got := gaugeValue(t, c.State, "aa:bb:cc:dd:ee:ff", "MSG3"); got != 0 {
		t.Errorf("State(MSG3) = %v, want 0 after transition to RUN", got)
	}
}

func TestObservePMKDerivation(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := telemetry.NewCollector(reg)

	c.ObservePMKDerivation(0.12)
	c.ObservePMKDerivation(0.30)

	m := &dto.Metric{}
	if err := c.PMKDerivations.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 2 {
		t.Errorf("PMKDerivations = %v, want 2", got)
	}
}

func gaugeValue(t *testing.T, vec *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	gauge, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}
	m := &dto.Metric{}
	if err := gauge.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}
	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
