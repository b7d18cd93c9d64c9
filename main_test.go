//go:build unix

package main

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const childEnv = "DASHSERVE_TEST_RUN_MAIN"

// TestMainProcess はテストバイナリを子プロセスとして起動したときに main を実行する
func TestMainProcess(t *testing.T) {
	if os.Getenv(childEnv) != "1" {
		t.Skip("子プロセスとしてのみ実行する")
	}
	main()
}

// startMain は main を子プロセスで起動する
func startMain(t *testing.T, port int) (*exec.Cmd, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>hi</h1>"), 0o644))

	cmd := exec.Command(os.Args[0], "-test.run=^TestMainProcess$")
	cmd.Env = append(os.Environ(),
		childEnv+"=1",
		"SERVER_HOST=127.0.0.1",
		fmt.Sprintf("PORT=%d", port),
		"DASHSERVE_ROOT="+root,
		"DASHSERVE_NO_BROWSER=true",
		"DASHSERVE_CONFIG=",
		"GIN_MODE=test",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Start())

	return cmd, &stdout, &stderr
}

// waitExit は子プロセスの終了を待ち、終了コードを返す
func waitExit(t *testing.T, cmd *exec.Cmd) int {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		require.NoError(t, err)
		return 0
	case <-time.After(10 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("プロセスが終了しませんでした")
		return -1
	}
}

// TestExitOnInterrupt はSIGINTで終了コード0になり、終了メッセージを出すことをテストする
func TestExitOnInterrupt(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cmd, stdout, stderr := startMain(t, port)

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/index.html", port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond)

	require.NoError(t, cmd.Process.Signal(syscall.SIGINT))

	code := waitExit(t, cmd)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "サーバーを停止しました")
}

// TestExitOnPortInUse は使用中のポートで起動すると終了コード1になることをテストする
func TestExitOnPortInUse(t *testing.T) {
	holder, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer holder.Close()

	addr := holder.Addr().String()
	cmd, stdout, stderr := startMain(t, holder.Addr().(*net.TCPAddr).Port)

	code := waitExit(t, cmd)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "サーバーの起動に失敗しました")
	assert.Contains(t, stderr.String(), addr)
	assert.NotContains(t, stdout.String(), "サーバーを停止しました")
}
