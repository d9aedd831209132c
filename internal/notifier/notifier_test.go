package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/ticktock/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func withTrayProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	dir := withConfigDir(t)

	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	got, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != trayDir {
		t.Errorf("expected %s, got %s", trayDir, got)
	}

	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	custom := "/custom/ticktock/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	got, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != custom {
		t.Errorf("expected %s, got %s", custom, got)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile error = %v, want ErrTrayNotRunning", err)
	}

	withTrayProcess(t, "ticktock-tray")
	bad := []struct {
		name    string
		content string
		want    string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfile, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateTrayProcess(lockfile)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(int) (ps.Process, error) { return nil, nil }
	if _, _, err := findAndValidateTrayProcess(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("stale pid error = %v, want ErrTrayNotRunning", err)
	}

	withTrayProcess(t, "other-app")
	if _, _, err := findAndValidateTrayProcess(lockfile); err == nil {
		t.Error("expected error for wrong executable")
	}

	withTrayProcess(t, "ticktock-tray")
	port, secret, err := findAndValidateTrayProcess(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %q secret %q", port, secret)
	}
}

func trayServer(t *testing.T, fails int32) (*httptest.Server, *int32, chan WebhookPayload) {
	t.Helper()
	var calls int32
	received := make(chan WebhookPayload, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if r.Header.Get("X-Ticktock-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if n <= fails {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &calls, received
}

func serverPort(server *httptest.Server) string {
	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1]
}

func writeLockfile(t *testing.T, configDir, port, secret string) {
	t.Helper()
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("%s|%d|%s", port, os.Getpid(), secret)
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNotify(t *testing.T) {
	dir := withConfigDir(t)
	withTrayProcess(t, "ticktock-tray")
	server, _, received := trayServer(t, 0)
	writeLockfile(t, dir, serverPort(server), "test-secret")

	if err := New().Notify(context.Background(), "Timer Complete", "Tea has finished!"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	got := <-received
	if got.Title != "Timer Complete" || got.Text != "Tea has finished!" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("payload = %+v", got)
	}
}

func TestNotify_RetriesTransientFailures(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	dir := withConfigDir(t)
	withTrayProcess(t, "ticktock-tray")
	server, calls, _ := trayServer(t, constants.NotifyMaxRetries-1)
	writeLockfile(t, dir, serverPort(server), "test-secret")

	if err := New().Notify(context.Background(), "t", "x"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got := atomic.LoadInt32(calls); got != constants.NotifyMaxRetries {
		t.Errorf("calls = %d, want %d", got, constants.NotifyMaxRetries)
	}
}

func TestNotify_GivesUp(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	dir := withConfigDir(t)
	withTrayProcess(t, "ticktock-tray")
	server, _, _ := trayServer(t, 0)
	writeLockfile(t, dir, serverPort(server), "wrong-secret")

	err := New().Notify(context.Background(), "t", "x")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("Notify() error = %v, want 401 failure", err)
	}
}

func TestNotify_NoTray(t *testing.T) {
	withConfigDir(t)
	if err := New().Notify(context.Background(), "t", "x"); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("Notify() error = %v, want ErrTrayNotRunning", err)
	}
}
