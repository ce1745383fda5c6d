package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/pavelanni/scanner/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func recordTestScan(t *testing.T, s *Store, name, primary, secondary string, at time.Time) string {
	t.Helper()
	id, err := s.RecordScan(model.ScanRecord{
		DisplayName: name,
		Primary:     primary,
		Secondary:   secondary,
		Scores:      map[string]int{primary: 7, secondary: 4},
		Answers:     8,
		CompletedAt: at,
	})
	if err != nil {
		t.Fatalf("recordTestScan: %v", err)
	}
	return id
}

func TestScanLifecycle(t *testing.T) {
	s := newTestStore(t)

	// Empty DB.
	count, err := s.ScanCount()
	if err != nil {
		t.Fatalf("ScanCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 scans, got %d", count)
	}

	base := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	first := recordTestScan(t, s, "Alex", "visionary", "explorer", base)
	second := recordTestScan(t, s, "", "caregiver", "harmonizer", base.Add(time.Minute))

	if first == "" || first == second {
		t.Fatalf("expected distinct generated ids, got %q and %q", first, second)
	}

	got, err := s.GetScan(first)
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if got.DisplayName != "Alex" || got.Primary != "visionary" || got.Secondary != "explorer" {
		t.Errorf("unexpected scan: %+v", got)
	}
	if got.Scores["visionary"] != 7 || got.Answers != 8 {
		t.Errorf("scores/answers not round-tripped: %+v", got)
	}
	if !got.CompletedAt.Equal(base) {
		t.Errorf("expected completed_at %v, got %v", base, got.CompletedAt)
	}

	// Not found.
	if _, err := s.GetScan("nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}

	// Newest first, with and without a limit.
	list, err := s.ListScans(0)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(list) != 2 || list[0].ID != second || list[1].ID != first {
		t.Errorf("expected [second first], got %v", list)
	}
	list, _ = s.ListScans(1)
	if len(list) != 1 || list[0].ID != second {
		t.Errorf("expected only the newest scan, got %v", list)
	}

	n, err := s.DeleteScans()
	if err != nil {
		t.Fatalf("DeleteScans: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	count, _ = s.ScanCount()
	if count != 0 {
		t.Errorf("expected 0 scans after delete, got %d", count)
	}
}

func TestRecordScanDefaults(t *testing.T) {
	s := newTestStore(t)

	before := time.Now().Add(-time.Second)
	id, err := s.RecordScan(model.ScanRecord{
		Primary:   "explorer",
		Secondary: "strategist",
		Scores:    map[string]int{"explorer": 5},
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	got, err := s.GetScan(id)
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if got.CompletedAt.Before(before) {
		t.Errorf("expected completed_at to default to now, got %v", got.CompletedAt)
	}
}

func TestArchetypeTally(t *testing.T) {
	s := newTestStore(t)

	tally, err := s.ArchetypeTally()
	if err != nil {
		t.Fatalf("ArchetypeTally: %v", err)
	}
	if len(tally) != 0 {
		t.Errorf("expected empty tally, got %v", tally)
	}

	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	recordTestScan(t, s, "a", "visionary", "caregiver", at)
	recordTestScan(t, s, "b", "visionary", "explorer", at)
	recordTestScan(t, s, "c", "strategist", "visionary", at)

	tally, _ = s.ArchetypeTally()
	if tally["visionary"] != 2 || tally["strategist"] != 1 || len(tally) != 2 {
		t.Errorf("unexpected tally: %v", tally)
	}
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)

	// Seeding needs a password.
	if _, err := s.SeedAdmin(""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}

	created, err := s.SeedAdmin("s3cret")
	if err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	if !created {
		t.Fatal("expected admin to be created")
	}
	// Second call is a no-op.
	created, err = s.SeedAdmin("other")
	if err != nil || created {
		t.Fatalf("expected no-op, got created=%v err=%v", created, err)
	}

	admin, err := s.Authenticate("admin", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if admin == nil || admin.Role != model.UserRoleAdmin || !admin.Active {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if u, _ := s.Authenticate("admin", "wrong"); u != nil {
		t.Error("expected wrong password to fail")
	}
	if u, _ := s.Authenticate("ghost", "s3cret"); u != nil {
		t.Error("expected unknown user to fail")
	}

	opID, err := s.CreateOperator("booth1", "Booth One", "pw", model.UserRoleOperator)
	if err != nil {
		t.Fatalf("CreateOperator: %v", err)
	}
	if _, err := s.CreateOperator("booth1", "Dup", "pw", model.UserRoleOperator); err == nil {
		t.Error("expected duplicate username to fail")
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[1].Username != "booth1" {
		t.Errorf("unexpected users: %+v", users)
	}

	if err := s.ToggleUserActive(opID); err != nil {
		t.Fatalf("ToggleUserActive: %v", err)
	}
	op, _ := s.GetUserByID(opID)
	if op == nil || op.Active {
		t.Fatalf("expected operator to be inactive, got %+v", op)
	}
	if u, _ := s.Authenticate("booth1", "pw"); u != nil {
		t.Error("inactive user must not authenticate")
	}

	if u, err := s.GetUserByID(999); u != nil || err != nil {
		t.Errorf("expected nil, nil for missing user, got %v, %v", u, err)
	}
	count, _ := s.UserCount()
	if count != 2 {
		t.Errorf("expected 2 users, got %d", count)
	}
}

func TestAuthSessions(t *testing.T) {
	s := newTestStore(t)
	uid, err := s.CreateOperator("booth1", "Booth One", "pw", model.UserRoleOperator)
	if err != nil {
		t.Fatalf("CreateOperator: %v", err)
	}

	token, err := s.CreateAuthSession(uid)
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(token))
	}

	sess, err := s.GetAuthSession(token)
	if err != nil {
		t.Fatalf("GetAuthSession: %v", err)
	}
	if sess == nil || sess.UserID != uid {
		t.Fatalf("unexpected session: %+v", sess)
	}

	if sess, _ := s.GetAuthSession("missing"); sess != nil {
		t.Error("expected nil for unknown token")
	}

	if err := s.DeleteUserSessions(uid); err != nil {
		t.Fatalf("DeleteUserSessions: %v", err)
	}
	if sess, _ := s.GetAuthSession(token); sess != nil {
		t.Error("expected session to be gone")
	}

	// A login close to expiry is renewed on use.
	soon := time.Now().UTC().Add(time.Hour)
	if _, err := s.db.Exec(
		`INSERT INTO auth_sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		"renew", uid, soon.Add(-11*time.Hour), soon,
	); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	sess, err = s.GetAuthSession("renew")
	if err != nil || sess == nil {
		t.Fatalf("GetAuthSession(renew) = %+v, %v", sess, err)
	}
	if time.Until(sess.ExpiresAt) < 11*time.Hour {
		t.Errorf("session not renewed, expires at %v", sess.ExpiresAt)
	}

	// Expired tokens are cleaned up.
	past := time.Now().UTC().Add(-time.Hour)
	if _, err := s.db.Exec(
		`INSERT INTO auth_sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		"old", uid, past.Add(-time.Hour), past,
	); err != nil {
		t.Fatalf("insert expired session: %v", err)
	}
	n, err := s.CleanupExpiredSessions()
	if err != nil {
		t.Fatalf("CleanupExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired session removed, got %d", n)
	}
}

func TestEventInfo(t *testing.T) {
	s := newTestStore(t)

	info, err := s.GetEventInfo()
	if err != nil {
		t.Fatalf("GetEventInfo: %v", err)
	}
	if info != (model.EventInfo{}) {
		t.Errorf("expected empty info, got %+v", info)
	}

	if err := s.SetEventInfo(model.EventInfo{Event: "DevFest", Venue: "Hall B", Date: "2026-10-19"}); err != nil {
		t.Fatalf("SetEventInfo: %v", err)
	}
	// Empty fields keep stored values.
	if err := s.SetEventInfo(model.EventInfo{Venue: "Hall C"}); err != nil {
		t.Fatalf("SetEventInfo update: %v", err)
	}
	info, _ = s.GetEventInfo()
	want := model.EventInfo{Event: "DevFest", Venue: "Hall C", Date: "2026-10-19"}
	if info != want {
		t.Errorf("expected %+v, got %+v", want, info)
	}
}

func TestSwapBankHash(t *testing.T) {
	s := newTestStore(t)

	prev, err := s.SwapBankHash("abc123")
	if err != nil {
		t.Fatalf("SwapBankHash: %v", err)
	}
	if prev != "" {
		t.Errorf("expected empty previous hash, got %q", prev)
	}
	prev, _ = s.SwapBankHash("abc123")
	if prev != "abc123" {
		t.Errorf("expected abc123, got %q", prev)
	}
	prev, _ = s.SwapBankHash("def456")
	if prev != "abc123" {
		t.Errorf("expected abc123 before update, got %q", prev)
	}
	got, _ := s.GetMetadata(metaBankHash)
	if got != "def456" {
		t.Errorf("expected def456 stored, got %q", got)
	}
}

func TestExportScans(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetEventInfo(model.EventInfo{Event: "DevFest", Date: "2026-10-19"}); err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	recordTestScan(t, s, "Alex", "visionary", "explorer", at)
	recordTestScan(t, s, "Sam", "legacy", "caregiver", at.Add(time.Minute))

	exp, err := s.ExportScans(model.EventInfo{Venue: "Hall A"})
	if err != nil {
		t.Fatalf("ExportScans: %v", err)
	}
	if exp.Event != "DevFest" || exp.Venue != "Hall A" || exp.Date != "2026-10-19" {
		t.Errorf("unexpected event fields: %+v", exp)
	}
	if exp.NumScans != 2 || len(exp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", exp.NumScans)
	}
	if exp.Tally["visionary"] != 1 || exp.Tally["legacy"] != 1 {
		t.Errorf("unexpected tally: %v", exp.Tally)
	}
	// Newest first; unknown keys keep their key as title.
	if exp.Results[0].Primary != (model.TypeSummary{Key: "legacy", Title: "legacy"}) {
		t.Errorf("unexpected primary: %+v", exp.Results[0].Primary)
	}
	if exp.Results[1].Primary.Title != "The Visionary" {
		t.Errorf("expected The Visionary, got %q", exp.Results[1].Primary.Title)
	}
	if exp.ExportedAt.IsZero() {
		t.Error("expected exported_at to be set")
	}
}
