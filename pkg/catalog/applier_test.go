package catalog

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yurykabanov/logrotated/pkg/logrotate"
)

// region fileManagerMock
type fileManagerMock struct {
	mock.Mock
}

func (m *fileManagerMock) Ensure(path string, content []byte, mode os.FileMode) (bool, error) {
	args := m.Called(path, content, mode)
	return args.Bool(0), args.Error(1)
}

func (m *fileManagerMock) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *fileManagerMock) ListManaged(dir string) ([]string, error) {
	args := m.Called(dir)
	return args.Get(0).([]string), args.Error(1)
}

// endregion

// region packageManagerMock
type packageManagerMock struct {
	mock.Mock
}

func (m *packageManagerMock) Ensure(ctx context.Context, p PackageResource) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// endregion

// region journalRepositoryMock
type journalRepositoryMock struct {
	mock.Mock
}

func (m *journalRepositoryMock) Create(ctx context.Context, entry JournalEntry) (JournalEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(JournalEntry), args.Error(1)
}

func (m *journalRepositoryMock) entries() []JournalEntry {
	var result []JournalEntry
	for _, call := range m.Calls {
		result = append(result, call.Arguments.Get(1).(JournalEntry))
	}
	return result
}

// endregion

// region recorderStub
type recorderStub struct {
	resources map[ResourceStatus]int
	runs      []Report
}

func newRecorderStub() *recorderStub {
	return &recorderStub{resources: map[ResourceStatus]int{}}
}

func (r *recorderStub) ObserveResource(resourceType string, status ResourceStatus) {
	r.resources[status]++
}

func (r *recorderStub) ObserveRun(report Report, duration time.Duration) {
	r.runs = append(r.runs, report)
}

// endregion

func testCatalog(t *testing.T) *Catalog {
	c, _ := NewBuilder(discardLogger(), "/etc/logrotate.d", 0).Build(context.Background(), []NamedParams{
		{Name: "nginx", Params: logrotate.Params{Logs: "/var/log/nginx/access.log"}},
		{Name: "app", Params: logrotate.Params{Logs: "/var/log/app.log", Compress: "delayed"}},
		{Name: "broken"},
	})
	require.NotNil(t, c)

	return c
}

func newTestApplier(files *fileManagerMock, packages *packageManagerMock, journal *journalRepositoryMock, recorder *recorderStub, purge bool) *Applier {
	a := NewApplier(discardLogger(), files, packages, journal, recorder, purge)
	a.nextRunId = func() string { return "run-1" }

	return a
}

// region Test: Apply
func TestApplier_Apply(t *testing.T) {
	files := &fileManagerMock{}
	packages := &packageManagerMock{}
	journal := &journalRepositoryMock{}
	recorder := newRecorderStub()

	c := testCatalog(t)

	packages.On("Ensure", mock.Anything, System()).Return(nil)
	files.On("Ensure", "/etc/logrotate.d/nginx", []byte(c.Files[0].Content), DefaultFileMode).Return(true, nil)
	files.On("Ensure", "/etc/logrotate.d/app", []byte(c.Files[1].Content), DefaultFileMode).Return(false, nil)
	journal.On("Create", mock.Anything, mock.AnythingOfType("JournalEntry")).Return(JournalEntry{}, nil)

	report, err := newTestApplier(files, packages, journal, recorder, false).Apply(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, Report{RunId: "run-1", Changed: 1, Unchanged: 2, Invalid: 1}, report)

	files.AssertExpectations(t)
	packages.AssertExpectations(t)
	files.AssertNotCalled(t, "ListManaged", mock.Anything)

	entries := journal.entries()
	require.Len(t, entries, 4)

	assert.Equal(t, "package", entries[0].ResourceType)
	assert.Equal(t, "logrotate", entries[0].ResourceName)

	assert.Equal(t, "nginx", entries[1].ResourceName)
	assert.Equal(t, StatusChanged, entries[1].Status)
	assert.Equal(t, checksum(c.Files[0].Content), entries[1].Checksum)
	assert.Len(t, entries[1].Checksum, 64)

	assert.Equal(t, StatusUnchanged, entries[2].Status)

	assert.Equal(t, "broken", entries[3].ResourceName)
	assert.Equal(t, StatusInvalid, entries[3].Status)
	assert.Equal(t, "/etc/logrotate.d/broken", entries[3].Path)
	assert.Equal(t, "Must pass logs to rule `broken`", entries[3].Error)

	for _, e := range entries {
		assert.Equal(t, "run-1", e.RunId)
		assert.False(t, e.AppliedAt.IsZero())
	}

	assert.Equal(t, 1, recorder.resources[StatusChanged])
	assert.Equal(t, []Report{report}, recorder.runs)
}

func TestApplier_Apply_FailuresDoNotStopOthers(t *testing.T) {
	files := &fileManagerMock{}
	packages := &packageManagerMock{}
	journal := &journalRepositoryMock{}
	recorder := newRecorderStub()

	c := testCatalog(t)

	packages.On("Ensure", mock.Anything, System()).Return(errors.New("no package manager"))
	files.On("Ensure", "/etc/logrotate.d/nginx", mock.Anything, mock.Anything).Return(false, errors.New("read-only file system"))
	files.On("Ensure", "/etc/logrotate.d/app", mock.Anything, mock.Anything).Return(true, nil)
	journal.On("Create", mock.Anything, mock.Anything).Return(JournalEntry{}, errors.New("database is locked"))

	report, err := newTestApplier(files, packages, journal, recorder, false).Apply(context.Background(), c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to ensure package[logrotate]: no package manager")
	assert.Contains(t, err.Error(), "Unable to write file[/etc/logrotate.d/nginx]: read-only file system")
	assert.Equal(t, Report{RunId: "run-1", Changed: 1, Failed: 2, Invalid: 1}, report)

	files.AssertExpectations(t)
}

func TestApplier_Apply_Purge(t *testing.T) {
	files := &fileManagerMock{}
	packages := &packageManagerMock{}
	journal := &journalRepositoryMock{}
	recorder := newRecorderStub()

	c := testCatalog(t)

	packages.On("Ensure", mock.Anything, mock.Anything).Return(nil)
	files.On("Ensure", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	files.On("ListManaged", "/etc/logrotate.d").Return([]string{
		"/etc/logrotate.d/nginx",
		"/etc/logrotate.d/broken",
		"/etc/logrotate.d/old",
		"/etc/logrotate.d/older",
	}, nil)
	files.On("Remove", "/etc/logrotate.d/old").Return(nil)
	files.On("Remove", "/etc/logrotate.d/older").Return(errors.New("permission denied"))
	journal.On("Create", mock.Anything, mock.Anything).Return(JournalEntry{}, nil)

	report, err := newTestApplier(files, packages, journal, recorder, true).Apply(context.Background(), c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to remove file[/etc/logrotate.d/older]")
	assert.Equal(t, Report{RunId: "run-1", Unchanged: 3, Removed: 1, Failed: 1, Invalid: 1}, report)

	files.AssertExpectations(t)
	files.AssertNotCalled(t, "Remove", "/etc/logrotate.d/nginx")
	files.AssertNotCalled(t, "Remove", "/etc/logrotate.d/broken")

	entries := journal.entries()
	removed := entries[len(entries)-2]
	assert.Equal(t, "old", removed.ResourceName)
	assert.Equal(t, StatusRemoved, removed.Status)
}

// endregion
