package app

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/dbshift/app/config"
	actx "go.hackfix.me/dbshift/app/context"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

const configPath = "/config.json"

type testApp struct {
	*App
	fs             vfs.FileSystem
	stdout, stderr *safeBuffer
	env            *mockEnv
	exitCode       int
}

func newTestApp(ctx context.Context) (*testApp, error) {
	var (
		stdout, stderr = newSafeBuffer(), newSafeBuffer()
		env            = &mockEnv{env: map[string]string{}}
		fs             = memoryfs.New()
	)

	tapp := &testApp{fs: fs, stdout: stdout, stderr: stderr, env: env, exitCode: -1}
	opts := []Option{
		WithTimeNow(timeNowFn),
		WithEnv(env),
		WithContext(ctx),
		WithFDs(stdout, stderr),
		WithFS(fs),
		WithExit(func(code int) { tapp.exitCode = code }),
		WithLogger(false),
	}
	app, err := New("dbshift", configPath, opts...)
	if err != nil {
		return nil, err
	}
	tapp.App = app

	return tapp, nil
}

// Run resets the outputs and runs the app with the given arguments.
func (ta *testApp) Run(args ...string) error {
	ta.stdout.Reset()
	ta.stderr.Reset()

	return ta.App.Run(args)
}

func (ta *testApp) writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	require.NoError(t, ta.fs.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, vfs.WriteFile(ta.fs, dir+"/"+name, []byte(body), 0o644))
	}
}

func (ta *testApp) saveConfig(t *testing.T, set func(*config.Config)) {
	t.Helper()

	cfg := config.NewConfig(ta.fs, configPath)
	set(cfg)
	require.NoError(t, cfg.Save())
}

type mockEnv struct {
	mx  sync.RWMutex
	env map[string]string
}

var _ actx.Environment = (*mockEnv)(nil)

func (me *mockEnv) Get(key string) string {
	me.mx.RLock()
	defer me.mx.RUnlock()
	return me.env[key]
}

// safeBuffer is a thread-safe buffer.
type safeBuffer struct {
	mx  sync.RWMutex
	buf *bytes.Buffer
}

func newSafeBuffer() *safeBuffer {
	return &safeBuffer{buf: &bytes.Buffer{}}
}

func (b *safeBuffer) Write(p []byte) (n int, err error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mx.RLock()
	defer b.mx.RUnlock()
	return b.buf.String()
}

func (b *safeBuffer) Reset() {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.buf.Reset()
}
