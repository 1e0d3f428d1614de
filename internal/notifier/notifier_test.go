package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func trayProcess(pid int) (ps.Process, error) {
	return &mockProcess{pid: pid, executable: "dailyquest-tray"}, nil
}

func newTestNotifier(t *testing.T, find func(int) (ps.Process, error)) (*Notifier, string) {
	t.Helper()
	configDir := t.TempDir()
	n := New()
	n.configDir = func() (string, error) { return configDir, nil }
	n.findProcess = find
	return n, filepath.Join(configDir, constants.TrayAppIdentifier)
}

func writeLockfile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTrayDir(t *testing.T) {
	n, trayDir := newTestNotifier(t, trayProcess)

	dir, err := n.TrayDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != trayDir {
		t.Errorf("TrayDir() = %s, want %s", dir, trayDir)
	}

	if err := os.MkdirAll(trayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := filepath.Join(t.TempDir(), "locks")
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := n.TrayDir(); dir != custom {
		t.Errorf("TrayDir() = %s, want %s", dir, custom)
	}

	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := n.TrayDir(); dir != trayDir {
		t.Errorf("malformed settings should fall back to %s, got %s", trayDir, dir)
	}
}

func TestTrayDirConfigError(t *testing.T) {
	n := New()
	n.configDir = func() (string, error) { return "", errors.New("no home") }
	if _, err := n.TrayDir(); err == nil {
		t.Error("expected an error")
	}
}

func TestParseLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    lockfile
		wantErr string
	}{
		{"valid", "8080|12345|s3cret\n", lockfile{Port: 8080, PID: 12345, Secret: "s3cret"}, ""},
		{"two parts", "8080|12345", lockfile{}, "malformed"},
		{"garbage", "invalid", lockfile{}, "malformed"},
		{"empty secret", "8080|12345|", lockfile{}, "secret"},
		{"empty port", "|12345|s3cret", lockfile{}, "port"},
		{"port out of range", "99999|12345|s3cret", lockfile{}, "range"},
		{"bad pid", "8080|abc|s3cret", lockfile{}, "process ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLockfile(tt.content)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want one mentioning %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name    string
		find    func(int) (ps.Process, error)
		wantErr bool
	}{
		{"running", trayProcess, false},
		{"not in process table", func(int) (ps.Process, error) { return nil, nil }, true},
		{"lookup error", func(int) (ps.Process, error) { return nil, errors.New("denied") }, true},
		{"other executable", func(pid int) (ps.Process, error) {
			return &mockProcess{pid: pid, executable: "other-app"}, nil
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, dir := newTestNotifier(t, tt.find)
			writeLockfile(t, dir, "8080|42|s3cret")
			lock, err := n.locate(filepath.Join(dir, constants.NotifierLockfileName))
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if lock.Port != 8080 || lock.Secret != "s3cret" {
				t.Errorf("unexpected lockfile %+v", lock)
			}
		})
	}
}

func TestLocateMissingLockfile(t *testing.T) {
	n, dir := newTestNotifier(t, trayProcess)
	_, err := n.locate(filepath.Join(dir, constants.NotifierLockfileName))
	if !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning, got %v", err)
	}
}

// trayServer fakes the tray webhook and forwards accepted payloads.
func trayServer(t *testing.T, received chan<- WebhookPayload) (*httptest.Server, int) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(constants.TraySecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if received != nil {
			received <- payload
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return server, port
}

func TestSend(t *testing.T) {
	_, port := trayServer(t, nil)
	n := New()
	ctx := context.Background()

	tests := []struct {
		name    string
		secret  string
		text    string
		wantErr bool
	}{
		{"success", "test-secret", "hello", false},
		{"wrong secret", "wrong-secret", "hello", true},
		{"server error", "test-secret", "fail", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := n.send(ctx, lockfile{Port: port, PID: 1, Secret: tt.secret}, WebhookPayload{Text: tt.text})
			if (err != nil) != tt.wantErr {
				t.Errorf("send() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCelebrateReachesTray(t *testing.T) {
	received := make(chan WebhookPayload, 1)
	_, port := trayServer(t, received)

	n, dir := newTestNotifier(t, trayProcess)
	writeLockfile(t, dir, fmt.Sprintf("%d|42|test-secret", port))

	quests := models.Collection{
		{ID: "1", Text: "Read", Type: models.QuestBoolean, Completed: true},
		{ID: "2", Text: "Walk", Type: models.QuestBoolean, Completed: true},
	}
	n.Celebrate(quests)

	select {
	case payload := <-received:
		if payload.Text != "All Quests Complete! 2/2 done today." {
			t.Errorf("unexpected text %q", payload.Text)
		}
		if payload.DurationMs != constants.NotificationDurationMs {
			t.Errorf("duration = %d", payload.DurationMs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("celebration never reached the tray")
	}
}

func TestNotifyWithoutTray(t *testing.T) {
	n, _ := newTestNotifier(t, trayProcess)
	if err := n.Notify(context.Background(), "hi"); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning, got %v", err)
	}
}
