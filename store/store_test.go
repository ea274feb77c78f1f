package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayoisaiah/grove/internal/timeutil"
)

func testClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "grove_test.db"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func TestSecondInstanceIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grove_test.db")

	first, err := NewClient(path)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = first.Close()
	})

	_, err = NewClient(path)
	if !errors.Is(err, errGroveRunning) {
		t.Fatalf("expected the running-instance error, got %v", err)
	}
}

func TestTimerStateRoundTrip(t *testing.T) {
	c := testClient(t)

	got, err := c.GetTimerState()
	if err != nil {
		t.Fatal(err)
	}

	if got != nil {
		t.Fatalf("expected no record in a fresh store, got %q", got)
	}

	want := []byte(`{"status":"running"}`)

	if err := c.SaveTimerState(want); err != nil {
		t.Fatal(err)
	}

	got, err = c.GetTimerState()
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != string(want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSaveTimerStateOverwrites(t *testing.T) {
	c := testClient(t)

	if err := c.SaveTimerState([]byte("first")); err != nil {
		t.Fatal(err)
	}

	if err := c.SaveTimerState([]byte("second")); err != nil {
		t.Fatal(err)
	}

	got, err := c.GetTimerState()
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "second" {
		t.Errorf("expected latest record to win, got %q", got)
	}
}

func TestDeleteTimerState(t *testing.T) {
	c := testClient(t)

	if err := c.SaveTimerState([]byte("record")); err != nil {
		t.Fatal(err)
	}

	if err := c.DeleteTimerState(); err != nil {
		t.Fatal(err)
	}

	got, err := c.GetTimerState()
	if err != nil {
		t.Fatal(err)
	}

	if got != nil {
		t.Errorf("expected record to be gone, got %q", got)
	}
}

func TestAppendSession(t *testing.T) {
	c := testClient(t)

	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	err := c.AppendSession(timeutil.ToKey(start), []byte(`{"name":"focus"}`))
	if err != nil {
		t.Fatal(err)
	}

	// appending under a later key must not disturb the first entry
	err = c.AppendSession(
		timeutil.ToKey(start.Add(30*time.Minute)),
		[]byte(`{"name":"focus"}`),
	)
	if err != nil {
		t.Fatal(err)
	}
}
