package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/ahmedNJ467/koormatics-dispatch/core/metrics"
)

func TestInfluxSink_RecordCommit(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	rec := coremetrics.CommitRecord{
		TripID:    "t1",
		Outcome:   "committed",
		Resources: 3,
		Latency:   25 * time.Millisecond,
		Time:      now,
	}

	if err := sink.RecordCommit([]coremetrics.CommitRecord{rec}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("assignment_commit").
		AddTag("trip_id", "t1").
		AddTag("outcome", "committed").
		AddTag("component", "dispatch_manager").
		AddField("resources", 3).
		AddField("latency_ms", 25.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}

func TestPromSink_RecordCommit(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, nil)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	rec := coremetrics.CommitRecord{TripID: "t1", Outcome: "committed", Latency: time.Millisecond, Time: time.Now()}
	if err := sink.RecordCommit([]coremetrics.CommitRecord{rec}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if cr, ok := sink.(coremetrics.ConflictRecorder); ok {
		if err := cr.RecordConflictScan(coremetrics.ConflictScanRecord{Trips: 2, Time: time.Now()}); err != nil {
			t.Fatalf("scan error: %v", err)
		}
	} else {
		t.Fatalf("prom sink should record conflict scans")
	}
}
