// Package notifier forwards the all-quests-complete celebration to the
// dailyquest tray app. The tray app advertises itself through a lockfile of
// the form "port|pid|secret"; the pid is checked against the process table
// before anything is sent.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/logger"
	"github.com/julianstephens/dailyquest/internal/models"
)

// ErrTrayNotRunning means no live tray app was found.
var ErrTrayNotRunning = errors.New("dailyquest-tray is not running")

type Notifier struct {
	client      *http.Client
	configDir   func() (string, error)
	findProcess func(int) (ps.Process, error)
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type lockfile struct {
	Port   int
	PID    int
	Secret string
}

func New() *Notifier {
	return &Notifier{
		client:      &http.Client{Timeout: constants.NotificationTimeout},
		configDir:   os.UserConfigDir,
		findProcess: ps.FindProcess,
	}
}

// Celebrate sends the completion message in the background. Failures are
// logged at debug level since the tray app is optional.
func (n *Notifier) Celebrate(c models.Collection) {
	text := CelebrationText(c)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.NotificationTimeout)
		defer cancel()
		if err := n.Notify(ctx, text); err != nil {
			logger.Debug("Tray celebration not delivered", "error", err)
		}
	}()
}

// CelebrationText is the message shown when every quest is done.
func CelebrationText(c models.Collection) string {
	return fmt.Sprintf("All Quests Complete! %d/%d done today.", c.CompletedCount(), len(c))
}

// Notify posts text to the running tray app.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := n.TrayDir()
	if err != nil {
		return err
	}
	lock, err := n.locate(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.send(ctx, lock, WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs})
}

// TrayDir is where the tray app keeps its lockfile. A lockfile_dir entry in
// the tray's settings.json overrides the default.
func (n *Notifier) TrayDir() (string, error) {
	configDir, err := n.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var settings struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &settings); err == nil && settings.Settings.LockfileDir != "" {
		return settings.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

func parseLockfile(content string) (lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return lockfile{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lockfile{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}
	return lockfile{Port: port, PID: pid, Secret: secret}, nil
}

func (n *Notifier) locate(path string) (lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return lockfile{}, ErrTrayNotRunning
	}
	lock, err := parseLockfile(string(content))
	if err != nil {
		return lockfile{}, err
	}

	process, err := n.findProcess(lock.PID)
	if err != nil || process == nil {
		return lockfile{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return lockfile{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.PID, constants.TrayExecutablePrefix, process.Executable())
	}
	return lock, nil
}

func (n *Notifier) send(ctx context.Context, lock lockfile, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
