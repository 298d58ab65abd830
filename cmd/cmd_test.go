package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/woolywalk/internal/auth"
	"github.com/sadopc/woolywalk/internal/session"
)

var activeDay = time.Date(2025, time.October, 8, 12, 0, 0, 0, time.UTC)

// setupTestEnv points every path at a temp dir and pins the clock.
func setupTestEnv(t *testing.T, now time.Time) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("WOOLYWALK_CONFIG", "")
	t.Setenv("WOOLYWALK_DB_PATH", "")
	t.Setenv("WOOLYWALK_TIMEZONE", "UTC")

	old := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() {
		nowFunc = old
		closeLogging()
	})
	return dir
}

func resetFlags() {
	cfgFile = ""
	standingsUser, standingsPassword = "", ""
	logUser, logPassword = "", ""
	exportFormat = "json"
	hashPasswordInput = ""
	configForce = false
	versionShort = false
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

// ============================================================
// version
// ============================================================

func TestVersionCommand(t *testing.T) {
	setupTestEnv(t, activeDay)

	out := mustExecute(t, "version")
	if !strings.Contains(out, "woolywalk "+Version) {
		t.Fatalf("got %q", out)
	}
	out = mustExecute(t, "version", "--short")
	if strings.TrimSpace(out) != Version {
		t.Fatalf("got %q, want %q", out, Version)
	}
}

// ============================================================
// log / standings
// ============================================================

func TestLogThenStandings(t *testing.T) {
	setupTestEnv(t, activeDay)

	out := mustExecute(t, "log", "2025-10-06", "12000", "-u", "andre", "-p", "Password1")
	if !strings.Contains(out, "Logged 12,000 steps for Mon, Oct 6 (andre)") {
		t.Fatalf("got %q", out)
	}

	out = mustExecute(t, "standings")
	if !strings.Contains(out, "Active battle") {
		t.Errorf("standings missing phase: %q", out)
	}
	if !strings.Contains(out, "12,000") || !strings.Contains(out, "Andre") {
		t.Errorf("standings missing andre's total: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("nothing should be hidden during the active phase: %q", out)
	}
}

func TestLogAcceptsToday(t *testing.T) {
	setupTestEnv(t, activeDay)

	out := mustExecute(t, "log", "today", "7000 steps", "-u", "JO_WOOLSTON", "-p", "Password1")
	if !strings.Contains(out, "Logged 7,000 steps for Wed, Oct 8 (jo_woolston)") {
		t.Fatalf("got %q", out)
	}
}

func TestLogWrongPassword(t *testing.T) {
	setupTestEnv(t, activeDay)

	_, err := execute(t, "log", "today", "1000", "-u", "andre", "-p", "nope")
	if err == nil || err.Error() != "Incorrect password. Give it another go." {
		t.Fatalf("err = %v", err)
	}
}

func TestLogUnknownUser(t *testing.T) {
	setupTestEnv(t, activeDay)

	_, err := execute(t, "log", "today", "1000", "-u", "stranger", "-p", "Password1")
	if err == nil || err.Error() != "Unknown username. Try again." {
		t.Fatalf("err = %v", err)
	}
}

func TestLogOutsideChallenge(t *testing.T) {
	setupTestEnv(t, activeDay)

	_, err := execute(t, "log", "2026-01-01", "1000", "-u", "andre", "-p", "Password1")
	if !errors.Is(err, session.ErrUnknownDay) {
		t.Fatalf("err = %v, want ErrUnknownDay", err)
	}
}

func TestLogBadDate(t *testing.T) {
	setupTestEnv(t, activeDay)

	if _, err := execute(t, "log", "06/10/2025", "1000", "-u", "andre", "-p", "Password1"); err == nil {
		t.Fatal("expected an error for a non-ISO date")
	}
}

func TestStandingsStealthHidesTotals(t *testing.T) {
	stealth := time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)
	setupTestEnv(t, stealth)

	out := mustExecute(t, "standings")
	if got := strings.Count(out, "— hidden —"); got != 8 {
		t.Fatalf("hidden totals = %d, want 8\n%s", got, out)
	}

	out = mustExecute(t, "standings", "-u", "andre", "-p", "Password1")
	if got := strings.Count(out, "— hidden —"); got != 7 {
		t.Fatalf("hidden totals as andre = %d, want 7\n%s", got, out)
	}
	if !strings.Contains(out, "(you)") || !strings.Contains(out, "Ranked") {
		t.Fatalf("viewer details missing\n%s", out)
	}
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2025, time.October, 8, 23, 30, 0, 0, time.UTC)
	tests := []struct {
		arg  string
		want string
	}{
		{"today", "2025-10-08"},
		{"Yesterday", "2025-10-07"},
		{"2025-12-21", "2025-12-21"},
	}
	for _, tt := range tests {
		got, err := resolveDate(tt.arg, now)
		if err != nil {
			t.Fatalf("resolveDate(%q): %v", tt.arg, err)
		}
		if got != tt.want {
			t.Errorf("resolveDate(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
	if _, err := resolveDate("soon", now); err == nil {
		t.Error("expected error for an unknown date word")
	}
}

// ============================================================
// export / import
// ============================================================

func TestExportImportRoundTrip(t *testing.T) {
	dir := setupTestEnv(t, activeDay)
	backup := filepath.Join(dir, "backup.json")

	mustExecute(t, "log", "2025-10-06", "5000", "-u", "andre", "-p", "Password1")
	mustExecute(t, "export", backup)
	mustExecute(t, "log", "2025-10-06", "0", "-u", "andre", "-p", "Password1")

	out := mustExecute(t, "import", backup)
	if !strings.Contains(out, "Imported progress for 8 walkers") {
		t.Fatalf("got %q", out)
	}

	out = mustExecute(t, "standings")
	if !strings.Contains(out, "5,000") {
		t.Fatalf("imported steps missing from standings\n%s", out)
	}
}

func TestExportDefaultsAndCSV(t *testing.T) {
	dir := setupTestEnv(t, activeDay)

	mustExecute(t, "export")
	if _, err := os.Stat(filepath.Join(dir, "wooly-walking-progress.json")); err != nil {
		t.Fatalf("default backup not written: %v", err)
	}

	csvPath := filepath.Join(dir, "steps.csv")
	mustExecute(t, "export", "--format", "csv", csvPath)
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "date,username,name,steps\n") {
		t.Fatalf("unexpected CSV header: %q", string(data[:40]))
	}
}

func TestExportUnknownFormat(t *testing.T) {
	setupTestEnv(t, activeDay)
	if _, err := execute(t, "export", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestImportInvalidBackup(t *testing.T) {
	dir := setupTestEnv(t, activeDay)
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"meta":{}}`), 0o644)

	if _, err := execute(t, "import", bad); err == nil {
		t.Fatal("expected error for a backup without participants")
	}
}

// ============================================================
// hash-password / config
// ============================================================

func TestHashPasswordFlag(t *testing.T) {
	setupTestEnv(t, activeDay)

	out := mustExecute(t, "hash-password", "--password", "walk-more")
	h, err := auth.ParseArgon2Hash(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("output is not a valid hash: %v", err)
	}
	if !h.Check("walk-more") || h.Check("Password1") {
		t.Fatal("hash does not match the given password")
	}
}

func TestHashPasswordConfigured(t *testing.T) {
	dir := setupTestEnv(t, activeDay)

	hash := strings.TrimSpace(mustExecute(t, "hash-password", "--password", "walk-more"))
	cfgPath := filepath.Join(dir, "custom.toml")
	os.WriteFile(cfgPath, []byte("[auth]\npassword_hash = \""+hash+"\"\n"), 0o644)

	if _, err := execute(t, "--config", cfgPath, "log", "today", "100", "-u", "andre", "-p", "Password1"); err == nil {
		t.Fatal("shared default password should be rejected once a hash is configured")
	}
	mustExecute(t, "--config", cfgPath, "log", "today", "100", "-u", "andre", "-p", "walk-more")
}

func TestConfigInit(t *testing.T) {
	dir := setupTestEnv(t, activeDay)
	want := filepath.Join(dir, "config", "woolywalk", "config.toml")

	out := mustExecute(t, "config", "init")
	if !strings.Contains(out, want) {
		t.Fatalf("got %q", out)
	}
	if _, err := execute(t, "config", "init"); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}
	mustExecute(t, "config", "init", "--force")
}

func TestConfigPath(t *testing.T) {
	dir := setupTestEnv(t, activeDay)

	out := mustExecute(t, "config", "path")
	if !strings.Contains(out, filepath.Join(dir, "data", "woolywalk", "woolywalk.db")) {
		t.Fatalf("database path missing: %q", out)
	}
	if !strings.Contains(out, filepath.Join(dir, "state", "woolywalk", "woolywalk.log")) {
		t.Fatalf("log path missing: %q", out)
	}
	if !strings.Contains(out, "saved     never") {
		t.Fatalf("expected nothing saved yet: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "woolywalk", "woolywalk.db")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("config path should not create the database, stat err = %v", err)
	}
}

func TestConfigPathShowsLastSave(t *testing.T) {
	setupTestEnv(t, activeDay)

	mustExecute(t, "log", "today", "4000", "-u", "andre", "-p", "Password1")
	out := mustExecute(t, "config", "path")
	if !regexp.MustCompile(`saved     \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \(`).MatchString(out) {
		t.Fatalf("expected a save time: %q", out)
	}
}

func TestConfigInitForceReplacesBrokenConfig(t *testing.T) {
	dir := setupTestEnv(t, activeDay)
	path := filepath.Join(dir, "config", "woolywalk", "config.toml")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("[challenge\nstart = "), 0o644)

	if _, err := execute(t, "standings"); err == nil {
		t.Fatal("a broken config should fail normal commands")
	}
	if _, err := execute(t, "config", "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("init without --force: err = %v", err)
	}
	mustExecute(t, "config", "init", "--force")
	mustExecute(t, "standings")
}
