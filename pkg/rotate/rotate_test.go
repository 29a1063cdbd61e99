package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for rollover tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 10, 30, 0, 0, time.UTC)
}

func TestNew_CreatesCurrentPeriodFile(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock(day(1))

	w, err := New(Config{
		Filename: filepath.Join(dir, "app-%DATE%.log"),
		Now:      clock.Now,
	})
	require.NoError(t, err)
	defer w.Close()

	expected := filepath.Join(dir, "app-2024-03-01.log")
	assert.Equal(t, expected, w.Filename())
	_, err = os.Stat(expected)
	assert.NoError(t, err)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		errPart  string
	}{
		{name: "empty filename", filename: "", errPart: "filename is required"},
		{name: "missing placeholder", filename: "app.log", errPart: "%DATE%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(Config{Filename: tt.filename})
			require.Error(t, err)
			assert.Nil(t, w)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestNew_UnusableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w, err := New(Config{Filename: filepath.Join(blocker, "logs", "app-%DATE%.log")})
	require.Error(t, err)
	assert.Nil(t, w)
}

func TestWrite_RollsOverOnNewPeriod(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock(day(1))

	w, err := New(Config{
		Filename: filepath.Join(dir, "app-%DATE%.log"),
		Now:      clock.Now,
	})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("first day\n"))
	require.NoError(t, err)

	clock.Set(day(2))
	_, err = w.Write([]byte("second day\n"))
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "app-2024-03-01.log"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "app-2024-03-02.log"))
	require.NoError(t, err)

	assert.Equal(t, "first day\n", string(first))
	assert.Equal(t, "second day\n", string(second))
	assert.Equal(t, filepath.Join(dir, "app-2024-03-02.log"), w.Filename())
}

func TestWrite_HourlyLayout(t *testing.T) {
	dir := t.TempDir()
	start := day(1)
	clock := newFakeClock(start)

	w, err := New(Config{
		Filename:   filepath.Join(dir, "%DATE%.log"),
		DateLayout: "2006-01-02-15",
		Now:        clock.Now,
	})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("a\n"))
	require.NoError(t, err)
	clock.Set(start.Add(30 * time.Minute))
	_, err = w.Write([]byte("b\n"))
	require.NoError(t, err)
	clock.Set(start.Add(time.Hour))
	_, err = w.Write([]byte("c\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "2024-03-01-10.log"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "2024-03-01-11.log"))
	require.NoError(t, err)
	assert.Equal(t, "c\n", string(content))
}

func TestWrite_PrunesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock(day(1))

	w, err := New(Config{
		Filename: filepath.Join(dir, "app-%DATE%.log"),
		MaxAge:   48 * time.Hour,
		Now:      clock.Now,
	})
	require.NoError(t, err)
	defer w.Close()

	for d := 1; d <= 5; d++ {
		clock.Set(day(d))
		_, err := w.Write([]byte(fmt.Sprintf("day %d\n", d)))
		require.NoError(t, err)
	}

	// unrelated files in the directory are left alone
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("keep"), 0o644))
	clock.Set(day(6))
	_, err = w.Write([]byte("day 6\n"))
	require.NoError(t, err)

	// stamps are midnight, so 48h keeps the current and previous day
	for d := 1; d <= 4; d++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("app-2024-03-0%d.log", d)))
		assert.True(t, os.IsNotExist(err), "day %d should have been pruned", d)
	}
	for d := 5; d <= 6; d++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("app-2024-03-0%d.log", d)))
		assert.NoError(t, err, "day %d should be kept", d)
	}
	_, err = os.Stat(filepath.Join(dir, "other.txt"))
	assert.NoError(t, err)
}

func TestWrite_NoRetentionKeepsEverything(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock(day(1))

	w, err := New(Config{
		Filename: filepath.Join(dir, "app-%DATE%.log"),
		Now:      clock.Now,
	})
	require.NoError(t, err)
	defer w.Close()

	for d := 1; d <= 4; d++ {
		clock.Set(day(d))
		_, err := w.Write([]byte("x\n"))
		require.NoError(t, err)
	}

	files, err := w.Files()
	require.NoError(t, err)
	assert.Len(t, files, 4)
	assert.True(t, strings.HasSuffix(files[0], "app-2024-03-01.log"))
	assert.True(t, strings.HasSuffix(files[3], "app-2024-03-04.log"))
}

func TestRotate_KeepsBackupInSamePeriod(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock(day(1))

	w, err := New(Config{
		Filename: filepath.Join(dir, "app-%DATE%.log"),
		Now:      clock.Now,
	})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("before rotate\n"))
	require.NoError(t, err)
	require.NoError(t, w.Rotate())
	_, err = w.Write([]byte("after rotate\n"))
	require.NoError(t, err)

	files, err := w.Files()
	require.NoError(t, err)
	assert.Len(t, files, 2)

	content, err := os.ReadFile(w.Filename())
	require.NoError(t, err)
	assert.Equal(t, "after rotate\n", string(content))
}

func TestClose_ReopensOnWrite(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock(day(1))

	w, err := New(Config{
		Filename: filepath.Join(dir, "app-%DATE%.log"),
		Now:      clock.Now,
	})
	require.NoError(t, err)

	_, err = w.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	content, err := os.ReadFile(filepath.Join(dir, "app-2024-03-01.log"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(content))
}

func TestWrite_Concurrent(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Filename: filepath.Join(dir, "app-%DATE%.log")})
	require.NoError(t, err)
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = w.Write([]byte(fmt.Sprintf("goroutine %d line %d\n", n, j)))
			}
		}(i)
	}
	wg.Wait()

	content, err := os.ReadFile(w.Filename())
	require.NoError(t, err)
	assert.Equal(t, 500, strings.Count(string(content), "\n"))
}
