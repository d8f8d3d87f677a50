package migrations

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []string
}

func (l *recordingLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, msg)
}

type stubMigrator struct {
	upErr error
}

func (m *stubMigrator) Up() error             { return m.upErr }
func (m *stubMigrator) Close() (error, error) { return nil, nil }

type blockingMigrator struct {
	release   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

func (m *blockingMigrator) Up() error {
	<-m.release
	return nil
}

func (m *blockingMigrator) Close() (error, error) {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		close(m.release)
	})
	return nil, nil
}

type captured struct {
	sourceURL  string
	driverName string
	cfg        Config
}

// stubFactories swaps the package factories for the duration of the test.
func stubFactories(t *testing.T, m migrator, initErr error) *captured {
	t.Helper()

	origDriver, origMigrator := driverFactory, migratorFactory
	t.Cleanup(func() {
		driverFactory, migratorFactory = origDriver, origMigrator
	})

	got := &captured{}
	driverFactory = func(_ *sql.DB, cfg Config) (database.Driver, error) {
		got.cfg = cfg
		return nil, nil
	}
	migratorFactory = func(sourceURL, driverName string, _ database.Driver) (migrator, error) {
		got.sourceURL = sourceURL
		got.driverName = driverName
		return m, initErr
	}
	return got
}

func TestUp_NilDB(t *testing.T) {
	assert.Error(t, Up(context.Background(), nil, Config{}))
}

func TestUp_CancelledContextSkipsMigrator(t *testing.T) {
	got := stubFactories(t, &stubMigrator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got.sourceURL)
}

func TestUp_DeadlineClosesMigrator(t *testing.T) {
	block := &blockingMigrator{release: make(chan struct{})}
	stubFactories(t, block, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, block.closed.Load())
}

func TestUp_NoChangeIsSuccess(t *testing.T) {
	stubFactories(t, &stubMigrator{upErr: migrate.ErrNoChange}, nil)
	logger := &recordingLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))
	assert.Contains(t, logger.infos, "No migrations to apply")
}

func TestUp_AppliedIsLogged(t *testing.T) {
	stubFactories(t, &stubMigrator{}, nil)
	logger := &recordingLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))
	assert.Contains(t, logger.infos, "Migrations applied successfully")
}

func TestUp_FailureIsWrapped(t *testing.T) {
	stubFactories(t, &stubMigrator{upErr: errors.New("syntax error at or near")}, nil)
	logger := &recordingLogger{}

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger})
	assert.ErrorContains(t, err, "migrations: up")
	assert.Contains(t, logger.errs, "Migrations failed")
}

func TestUp_InitErrorIsWrapped(t *testing.T) {
	stubFactories(t, nil, errors.New("boom"))

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
	assert.ErrorContains(t, err, "migrations: init")
}

func TestUp_DefaultsAndDriverSelection(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		want   string
	}{
		{name: "default", driver: "", want: DriverPostgres},
		{name: "sqlite alias", driver: "SQLite", want: DriverSQLite},
		{name: "sqlite3", driver: "sqlite3", want: DriverSQLite},
		{name: "postgres", driver: "postgres", want: DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stubFactories(t, &stubMigrator{upErr: migrate.ErrNoChange}, nil)

			require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Driver: tt.driver}))
			assert.Equal(t, tt.want, got.driverName)
			assert.Equal(t, tt.want, got.cfg.Driver)
			assert.Equal(t, "schema_migrations", got.cfg.MigrationsTable)
		})
	}
}

func TestSourceURL_EscapesSpecialCharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my migrations dir")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	raw, err := SourceURL(dir)
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, "file", parsed.Scheme)
	assert.Equal(t, filepath.ToSlash(abs), parsed.Path)
}
