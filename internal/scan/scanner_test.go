package scan

import (
	"context"
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager(time.Millisecond)
}

func TestSessionLifecycle(t *testing.T) {
	m := newTestManager()
	snap := m.Start(1)
	if snap.State != StateStarting {
		t.Fatalf("state after start = %s", snap.State)
	}

	snap, err := m.Attach(snap.ID)
	if err != nil || snap.State != StateScanning {
		t.Fatalf("attach: %v state=%s", err, snap.State)
	}

	res, err := m.Decode(context.Background(), snap.ID, "S-10025")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Text != "S-10025" {
		t.Fatalf("decode text = %q", res.Text)
	}

	got, err := m.Get(snap.ID)
	if err != nil || got.State != StateScanned || !got.Scanned {
		t.Fatalf("after decode: %v %+v", err, got)
	}

	got, err = m.Stop(snap.ID)
	if err != nil || got.State != StateIdle || got.Scanned {
		t.Fatalf("after stop: %v %+v", err, got)
	}
}

func TestDecodeBeforeAttachRejected(t *testing.T) {
	m := newTestManager()
	snap := m.Start(1)
	if _, err := m.Decode(context.Background(), snap.ID, "S-1"); err != ErrBadTransition {
		t.Fatalf("expected ErrBadTransition, got %v", err)
	}
}

func TestSecondDecodeIgnored(t *testing.T) {
	m := newTestManager()
	snap := m.Start(1)
	if _, err := m.Attach(snap.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Decode(context.Background(), snap.ID, "S-1"); err != nil {
		t.Fatalf("first decode: %v", err)
	}
	// A second decode callback within the same camera session must not
	// produce a second downstream lookup.
	if _, err := m.Decode(context.Background(), snap.ID, "S-2"); err != ErrAlreadyScanned {
		t.Fatalf("second decode err = %v, want ErrAlreadyScanned", err)
	}
}

func TestStaleTokenDiscarded(t *testing.T) {
	m := newTestManager()
	snap := m.Start(1)
	if _, err := m.Attach(snap.ID); err != nil {
		t.Fatal(err)
	}
	// Navigation away from the scanner advances the counter; the decode
	// still carries the token captured at start and must be discarded.
	m.Navigate(1)
	if _, err := m.Decode(context.Background(), snap.ID, "S-1"); err != ErrStale {
		t.Fatalf("decode err = %v, want ErrStale", err)
	}
}

func TestNavigateScopedPerStaff(t *testing.T) {
	m := newTestManager()
	mine := m.Start(1)
	if _, err := m.Attach(mine.ID); err != nil {
		t.Fatal(err)
	}
	theirs := m.Start(2)
	if _, err := m.Attach(theirs.ID); err != nil {
		t.Fatal(err)
	}

	// A colleague leaving their scanner page must not invalidate a session
	// armed by someone else.
	m.Navigate(2)
	if _, err := m.Decode(context.Background(), mine.ID, "S-1"); err != nil {
		t.Fatalf("decode after another user's navigate: %v", err)
	}
	// Their own armed session is stale, as before.
	if _, err := m.Decode(context.Background(), theirs.ID, "S-2"); err != ErrStale {
		t.Fatalf("own decode err = %v, want ErrStale", err)
	}
}

func TestStopDuringSettleDiscards(t *testing.T) {
	m := NewManager(50 * time.Millisecond)
	snap := m.Start(1)
	if _, err := m.Attach(snap.ID); err != nil {
		t.Fatal(err)
	}

	errc := make(chan error, 1)
	go func() {
		_, err := m.Decode(context.Background(), snap.ID, "S-1")
		errc <- err
	}()
	time.Sleep(10 * time.Millisecond)
	if _, err := m.Stop(snap.ID); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != ErrStale {
		t.Fatalf("decode err = %v, want ErrStale", err)
	}
}

func TestRestartAfterStopAllowsNewDecode(t *testing.T) {
	m := newTestManager()
	snap := m.Start(1)
	if _, err := m.Attach(snap.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Decode(context.Background(), snap.ID, "S-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Stop(snap.ID); err != nil {
		t.Fatal(err)
	}

	// A fresh camera start begins a new session with a clean latch.
	next := m.Start(1)
	if next.ID == snap.ID {
		t.Fatal("expected a new session id")
	}
	if _, err := m.Attach(next.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Decode(context.Background(), next.ID, "S-2"); err != nil {
		t.Fatalf("decode in new session: %v", err)
	}
}

func TestFailOnlyFromStarting(t *testing.T) {
	m := newTestManager()
	snap := m.Start(1)
	got, err := m.Fail(snap.ID, ErrPermissionDenied)
	if err != nil || got.State != StateError {
		t.Fatalf("fail: %v %+v", err, got)
	}
	if got.Reason != "camera permission denied" {
		t.Fatalf("reason = %q", got.Reason)
	}

	other := m.Start(1)
	if _, err := m.Attach(other.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Fail(other.ID, ErrNoDevice); err != ErrBadTransition {
		t.Fatalf("fail from scanning err = %v, want ErrBadTransition", err)
	}
}

func TestErrorCategoryReasons(t *testing.T) {
	cases := map[ErrorCategory]string{
		ErrPermissionDenied: "camera permission denied",
		ErrNoDevice:         "no camera device found",
		ErrDeviceBusy:       "camera is in use by another application",
		ErrOther:            "camera failed to start",
		ErrorCategory("x"):  "camera failed to start",
	}
	for cat, want := range cases {
		if got := cat.Reason(); got != want {
			t.Errorf("Reason(%s) = %q, want %q", cat, got, want)
		}
	}
}

func TestUnknownSession(t *testing.T) {
	m := newTestManager()
	if _, err := m.Get("nope"); err != ErrNotFound {
		t.Fatalf("get err = %v", err)
	}
	if _, err := m.Decode(context.Background(), "nope", "S-1"); err != ErrNotFound {
		t.Fatalf("decode err = %v", err)
	}
}
