package e2e

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	TEST_SERVER_TIMEOUT = 30 * time.Second
	TEST_PASSWORD       = "e2e-secret"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("HABITUAL_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "habitual")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Fatalf("CLI binary not found at %s. Please build it first.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "HABITUAL_") && !strings.HasPrefix(e, "GAS_URL=") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv, fmt.Sprintf("HOME=%s", tempDir))
	cleanEnv = append(cleanEnv, fmt.Sprintf("HABITUAL_PASSWORD=%s", TEST_PASSWORD))

	addr := freeAddr(t)
	configPath := filepath.Join(tempDir, "habitual", "config.yaml")
	cfgArgs := []string{"--config", configPath}

	// 2. Configure the client
	t.Log("Writing config...")
	runCmd(t, cliPath, cleanEnv, append(cfgArgs, "config", "set", "api_url", "http://"+addr+"/")...)
	runCmd(t, cliPath, cleanEnv, append(cfgArgs, "config", "set", "cache_path", filepath.Join(tempDir, "habitual", "cache.json"))...)

	// 3. Start the devserver (Background)
	t.Log("Starting devserver...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverCmd := exec.CommandContext(ctx, cliPath, append(cfgArgs, "devserver", "--addr", addr)...)
	serverCmd.Env = cleanEnv
	stdoutPipe, err := serverCmd.StdoutPipe()
	if err != nil {
		t.Fatalf("Failed to get stdout pipe: %v", err)
	}
	var stderrBuf bytes.Buffer
	serverCmd.Stderr = &stderrBuf

	if err := serverCmd.Start(); err != nil {
		t.Fatalf("Failed to start devserver: %v", err)
	}
	defer func() {
		cancel()
		if err := serverCmd.Wait(); err != nil {
			t.Logf("Devserver exited with error: %v", err)
		}
		if t.Failed() {
			t.Logf("Devserver Stderr: %s", stderrBuf.String())
		}
	}()

	readyCh := make(chan bool)
	go func() {
		scanner := bufio.NewScanner(stdoutPipe)
		for scanner.Scan() {
			if strings.Contains(scanner.Text(), "listening on") {
				readyCh <- true
				break
			}
		}
		// keep draining so the server never blocks on a full pipe
		for scanner.Scan() {
		}
	}()
	select {
	case <-readyCh:
	case <-time.After(TEST_SERVER_TIMEOUT):
		t.Fatalf("Timed out waiting for the devserver")
	}
	waitForPort(t, addr, TEST_SERVER_TIMEOUT)

	// 4. Sign up
	out := runCmd(t, cliPath, cleanEnv, append(cfgArgs, "signup", "e2e-user")...)
	if !strings.Contains(out, "Signed up as e2e-user") {
		t.Fatalf("Unexpected signup output: %s", out)
	}

	whoami := exec.Command(cliPath, append(cfgArgs, "whoami")...)
	whoami.Env = cleanEnv
	if out, err := whoami.CombinedOutput(); err != nil {
		t.Skipf("Session was not persisted (no OS keyring?): %s", out)
	}

	// 5. Create and track a habit
	t.Log("Creating habit...")
	runCmd(t, cliPath, cleanEnv, append(cfgArgs, "habit", "add", "Stretch", "--emoji", "🧘", "--daily", "2", "--weekly", "5")...)
	runCmd(t, cliPath, cleanEnv, append(cfgArgs, "track", "Stretch")...)

	out = runCmd(t, cliPath, cleanEnv, append(cfgArgs, "habit", "list")...)
	if !strings.Contains(out, "Stretch") || !strings.Contains(out, "1/2 today") {
		t.Errorf("Unexpected habit list: %s", out)
	}

	out = runCmd(t, cliPath, cleanEnv, append(cfgArgs, "day")...)
	if !strings.Contains(out, "done 1 times") {
		t.Errorf("Unexpected day output: %s", out)
	}

	// 6. Delete and log out
	runCmd(t, cliPath, cleanEnv, append(cfgArgs, "habit", "delete", "Stretch", "--yes")...)
	out = runCmd(t, cliPath, cleanEnv, append(cfgArgs, "habit", "list")...)
	if strings.Contains(out, "Stretch") {
		t.Errorf("Deleted habit still listed: %s", out)
	}
	runCmd(t, cliPath, cleanEnv, append(cfgArgs, "logout")...)
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
}

func waitForPort(t *testing.T, addr string, timeout time.Duration) {
	start := time.Now()
	for {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			return
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for %s", addr)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
