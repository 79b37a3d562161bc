package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

var (
	alice = model.User{Code: 1, Name: "Alice", Email: "a@x.com", Password: "pw"}
	bob   = model.User{Code: 2, Name: "Bob", Email: "b@x.com", Password: "secret"}
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 15, 4, 5, 0, time.Local)
}

// mockLocker is an in-memory single token lock for testing
type mockLocker struct {
	mu       sync.Mutex
	held     bool
	acquired int
	released int
}

func (m *mockLocker) Acquire(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held {
		return apperrors.ErrStoreBusy
	}
	m.held = true
	m.acquired++
	return nil
}

func (m *mockLocker) Release(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.held = false
	m.released++
	return nil
}

func (m *mockLocker) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.held = false
	return nil
}

type csvFixture struct {
	dir       string
	tasksPath string
	logsPath  string
	users     *repository.CSVUserRepository
	tasks     *repository.CSVTaskRepository
	logs      *repository.CSVLogRepository
}

func setupCSV(t *testing.T, tasksContent string) *csvFixture {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
		return path
	}

	usersPath := write("users.csv", "Code,Name,Email,Password\n1,Alice,a@x.com,pw\n2,Bob,b@x.com,secret\n")
	f := &csvFixture{
		dir:       dir,
		tasksPath: write("tasks.csv", "Code,Name,Status,Rep_User_Code\n"+tasksContent),
		logsPath:  write("logs.csv", "Task_Code,Change_User_Code,Status,Change_Date\n"),
	}
	f.users = repository.NewCSVUserRepository(usersPath)
	f.tasks = repository.NewCSVTaskRepository(f.tasksPath, f.users)
	f.logs = repository.NewCSVLogRepository(f.logsPath)
	return f
}

func (f *csvFixture) service(opts ...Option) *TaskService {
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewTaskService(f.tasks, f.logs, f.users, opts...)
}

func dataRows(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return lines[1:]
}

func TestUserService_Login(t *testing.T) {
	f := setupCSV(t, "")
	service := NewUserService(f.users)
	ctx := context.Background()

	user, err := service.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if *user != alice {
		t.Errorf("expected %+v, got %+v", alice, *user)
	}

	cases := [][2]string{
		{"a@x.com", "secret"},
		{"b@x.com", "pw"},
		{"nobody@x.com", "pw"},
		{"", ""},
		{"A@X.COM", "pw"},
	}
	for _, c := range cases {
		if _, err := service.Login(ctx, c[0], c[1]); !errors.Is(err, apperrors.ErrLoginFailed) {
			t.Errorf("Login(%q, %q): expected ErrLoginFailed, got %v", c[0], c[1], err)
		}
	}
}

func TestTaskService_SaveAndChangeStatusEndToEnd(t *testing.T) {
	f := setupCSV(t, "")
	service := f.service()
	ctx := context.Background()

	if _, err := service.Save(ctx, 10, "Demo", 1, alice); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := dataRows(t, f.tasksPath); len(got) != 1 || got[0] != "10,Demo,0,1" {
		t.Fatalf("task rows after save = %q", got)
	}
	if got := dataRows(t, f.logsPath); len(got) != 1 || got[0] != "10,1,0,2026-10-19" {
		t.Fatalf("log rows after save = %q", got)
	}

	if _, err := service.ChangeStatus(ctx, 10, constants.StatusInProgress, alice); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if got := dataRows(t, f.tasksPath); len(got) != 1 || got[0] != "10,Demo,1,1" {
		t.Fatalf("task rows after change = %q", got)
	}
	logs := dataRows(t, f.logsPath)
	if len(logs) != 2 || logs[1] != "10,1,1,2026-10-19" {
		t.Fatalf("log rows after change = %q", logs)
	}

	if _, err := service.Save(ctx, 11, "Skip", 1, alice); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := service.ChangeStatus(ctx, 11, constants.StatusDone, alice); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected skip ahead to be rejected, got %v", err)
	}
}

func TestTaskService_ChangeStatusOnlyOneStepForward(t *testing.T) {
	for from := constants.StatusNotStarted; from <= constants.StatusDone; from++ {
		for to := constants.TaskStatus(-1); to <= 3; to++ {
			f := setupCSV(t, "7,Grid,"+strconv.Itoa(int(from))+",2\n")
			service := f.service()

			_, err := service.ChangeStatus(context.Background(), 7, to, bob)
			allowed := to == from+1 && from <= constants.StatusInProgress
			if allowed && err != nil {
				t.Errorf("%d -> %d: unexpected error %v", from, to, err)
			}
			if !allowed && !errors.Is(err, apperrors.ErrInvalidTransition) {
				t.Errorf("%d -> %d: expected ErrInvalidTransition, got %v", from, to, err)
			}

			wantLogs := 0
			if allowed {
				wantLogs = 1
			}
			if got := len(dataRows(t, f.logsPath)); got != wantLogs {
				t.Errorf("%d -> %d: expected %d log rows, got %d", from, to, wantLogs, got)
			}
		}
	}
}

func TestTaskService_ChangeStatusUnknownTask(t *testing.T) {
	f := setupCSV(t, "1,Orphan,0,99\n")
	service := f.service()

	for _, code := range []int{1, 2} {
		if _, err := service.ChangeStatus(context.Background(), code, constants.StatusInProgress, alice); !errors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("code %d: expected ErrTaskNotFound, got %v", code, err)
		}
	}
}

func TestTaskService_SaveWithUnknownAssigneeWritesNothing(t *testing.T) {
	f := setupCSV(t, "")
	service := f.service()

	_, err := service.Save(context.Background(), 10, "Demo", 99, alice)
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if got := dataRows(t, f.tasksPath); len(got) != 0 {
		t.Errorf("task rows written: %q", got)
	}
	if got := dataRows(t, f.logsPath); len(got) != 0 {
		t.Errorf("log rows written: %q", got)
	}
}

func TestTaskService_SaveRejectsDuplicateCode(t *testing.T) {
	f := setupCSV(t, "10,Existing,0,99\n")
	service := f.service()

	if _, err := service.Save(context.Background(), 10, "Again", 1, alice); !errors.Is(err, apperrors.ErrTaskCodeTaken) {
		t.Fatalf("expected ErrTaskCodeTaken, got %v", err)
	}
	if got := dataRows(t, f.tasksPath); len(got) != 1 {
		t.Errorf("task rows = %q", got)
	}
}

func TestTaskService_ShowAll(t *testing.T) {
	f := setupCSV(t, "1,Mine,0,1\n2,Orphan,1,99\n3,Theirs,1,2\n4,Finished,2,2\n5,Odd,9,1\n")
	service := f.service()

	listings, err := service.ShowAll(context.Background(), alice)
	if err != nil {
		t.Fatalf("ShowAll: %v", err)
	}

	want := []model.TaskListing{
		{Index: 1, Code: 1, Name: "Mine", Assignee: "You are assigned", StatusLabel: "Not started"},
		{Index: 2, Code: 3, Name: "Theirs", Assignee: "Bob", StatusLabel: "In progress"},
		{Index: 3, Code: 4, Name: "Finished", Assignee: "Bob", StatusLabel: "Done"},
		{Index: 4, Code: 5, Name: "Odd", Assignee: "You are assigned", StatusLabel: "Unknown"},
	}
	if len(listings) != len(want) {
		t.Fatalf("expected %d listings, got %+v", len(want), listings)
	}
	for i := range want {
		if listings[i] != want[i] {
			t.Errorf("listing %d = %+v, want %+v", i, listings[i], want[i])
		}
	}

	records, err := service.Integrity(context.Background())
	if err != nil {
		t.Fatalf("Integrity: %v", err)
	}
	if len(records) != 5 || records[1].Resolution != model.DanglingAssignee {
		t.Fatalf("unexpected integrity report: %+v", records)
	}
}

func TestTaskService_Delete(t *testing.T) {
	f := setupCSV(t, "")
	service := f.service()
	ctx := context.Background()

	_, _ = service.Save(ctx, 1, "Keep", 2, alice)
	_, _ = service.Save(ctx, 2, "Drop", 2, alice)
	_, _ = service.ChangeStatus(ctx, 2, constants.StatusInProgress, bob)

	if err := service.Delete(ctx, 2); !errors.Is(err, apperrors.ErrTaskNotCompleted) {
		t.Fatalf("expected ErrTaskNotCompleted, got %v", err)
	}
	if err := service.Delete(ctx, 3); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	_, _ = service.ChangeStatus(ctx, 2, constants.StatusDone, bob)
	if err := service.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := dataRows(t, f.tasksPath); len(got) != 1 || got[0] != "1,Keep,0,2" {
		t.Errorf("task rows = %q", got)
	}
	if got := dataRows(t, f.logsPath); len(got) != 1 || got[0] != "1,1,0,2026-10-19" {
		t.Errorf("log rows = %q", got)
	}
}

func TestTaskService_History(t *testing.T) {
	f := setupCSV(t, "")
	service := f.service()
	ctx := context.Background()

	_, _ = service.Save(ctx, 5, "Track", 1, alice)
	_, _ = service.ChangeStatus(ctx, 5, constants.StatusInProgress, bob)

	history, err := service.History(ctx, 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].ChangeUserCode != 1 || history[1].ChangeUserCode != 2 || history[1].Status != constants.StatusInProgress {
		t.Fatalf("unexpected history: %+v", history)
	}

	if _, err := service.History(ctx, 6); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_MutationsHoldTheLock(t *testing.T) {
	f := setupCSV(t, "")
	locker := &mockLocker{}
	service := f.service(WithLocker(locker))
	ctx := context.Background()

	if _, err := service.Save(ctx, 1, "Locked", 1, alice); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := service.ChangeStatus(ctx, 1, constants.StatusDone, alice); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if locker.acquired != 2 || locker.released != 2 {
		t.Fatalf("acquired %d, released %d; want 2 and 2", locker.acquired, locker.released)
	}

	_ = locker.Acquire(ctx)
	if _, err := service.Save(ctx, 2, "Blocked", 1, alice); !errors.Is(err, apperrors.ErrStoreBusy) {
		t.Fatalf("expected ErrStoreBusy, got %v", err)
	}
	if got := dataRows(t, f.tasksPath); len(got) != 1 {
		t.Fatalf("task rows = %q", got)
	}
}

func TestTaskService_ConcurrentChangeStatusMovesEachTaskOnce(t *testing.T) {
	const tasks, callsPerTask = 30, 3

	var rows strings.Builder
	for code := 1; code <= tasks; code++ {
		rows.WriteString(strconv.Itoa(code) + ",Task" + strconv.Itoa(code) + ",0,1\n")
	}
	f := setupCSV(t, rows.String())
	service := f.service()
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for code := 1; code <= tasks; code++ {
		for i := 0; i < callsPerTask; i++ {
			wg.Add(1)
			go func(code int) {
				defer wg.Done()
				_, err := service.ChangeStatus(ctx, code, constants.StatusInProgress, alice)
				switch {
				case err == nil:
					mu.Lock()
					succeeded++
					mu.Unlock()
				case !errors.Is(err, apperrors.ErrInvalidTransition):
					t.Errorf("ChangeStatus(%d): %v", code, err)
				}
			}(code)
		}
	}
	wg.Wait()

	if succeeded != tasks {
		t.Errorf("successful changes = %d, want %d", succeeded, tasks)
	}
	if got := dataRows(t, f.logsPath); len(got) != tasks {
		t.Errorf("log rows = %d, want %d", len(got), tasks)
	}
	for _, row := range dataRows(t, f.tasksPath) {
		if fields := strings.Split(row, ","); fields[2] != "1" {
			t.Errorf("task row %q is not in progress", row)
		}
	}
}

// releaseRecorder remembers the context the lock was released with.
type releaseRecorder struct {
	releaseErr error
	released   bool
}

func (r *releaseRecorder) Acquire(ctx context.Context) error { return nil }

func (r *releaseRecorder) Release(ctx context.Context) error {
	r.released = true
	r.releaseErr = ctx.Err()
	return nil
}

func (r *releaseRecorder) Initialize(ctx context.Context) error { return nil }

func TestTaskService_LockReleasedWhenCallerGivesUp(t *testing.T) {
	f := setupCSV(t, "1,Pending,0,1\n")
	locker := &releaseRecorder{}
	service := f.service(WithLocker(locker))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := service.ChangeStatus(ctx, 1, constants.StatusInProgress, alice); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !locker.released {
		t.Fatal("lock was not released")
	}
	if locker.releaseErr != nil {
		t.Fatalf("lock released with a dead context: %v", locker.releaseErr)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func TestTaskService_GormBackend(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewGormUserRepository(db)
	ctx := context.Background()
	for _, u := range []model.User{alice, bob} {
		if err := users.Save(ctx, u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	logs := repository.NewGormLogRepository(db)
	service := NewTaskService(repository.NewGormTaskRepository(db), logs, users, WithClock(fixedClock))

	if _, err := service.Save(ctx, 10, "Demo", 1, alice); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := service.ChangeStatus(ctx, 10, constants.StatusInProgress, alice); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if _, err := service.ChangeStatus(ctx, 10, constants.StatusInProgress, alice); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected repeat transition to be rejected, got %v", err)
	}

	listings, err := service.ShowAll(ctx, bob)
	if err != nil || len(listings) != 1 || listings[0].Assignee != "Alice" || listings[0].StatusLabel != "In progress" {
		t.Fatalf("ShowAll = %+v, %v", listings, err)
	}

	entries, err := logs.FindAll(ctx)
	if err != nil || len(entries) != 2 {
		t.Fatalf("logs = %+v, %v", entries, err)
	}
	if entries[1].ChangeDateString() != "2026-10-19" || entries[1].Status != constants.StatusInProgress {
		t.Fatalf("unexpected second log entry: %+v", entries[1])
	}
}
