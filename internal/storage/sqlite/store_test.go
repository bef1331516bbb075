package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskeve/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "taskeve.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndVerifyUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "pw123", created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())

	verified, err := store.VerifyUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, verified.ID)

	_, err = store.VerifyUser(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.VerifyUser(ctx, "nobody", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The original account still authenticates with its original password.
	verified, err := store.VerifyUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, verified.ID)
}

func TestGetUserByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)

	got, err := store.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = store.GetUserByID(ctx, created.ID+1000)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateTaskDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)

	task, err := store.CreateTask(ctx, alice.ID, "Buy milk", "two liters", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, task.OwnerID)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.False(t, task.Completed)
	assert.False(t, task.CreatedAt.IsZero())

	_, err = store.CreateTask(ctx, alice.ID, "   ", "", "")
	assert.Error(t, err)
}

func TestOwnerScoping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, "bob", "pw456")
	require.NoError(t, err)

	task, err := store.CreateTask(ctx, alice.ID, "Buy milk", "", "2025-01-01")
	require.NoError(t, err)

	tasks, err := store.ListTasks(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = store.GetTask(ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	got, err := store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
}

func TestListTasksOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)

	june, err := store.CreateTask(ctx, alice.ID, "June task", "", "2025-06-01")
	require.NoError(t, err)
	may, err := store.CreateTask(ctx, alice.ID, "May task", "", "2025-05-01")
	require.NoError(t, err)
	undated, err := store.CreateTask(ctx, alice.ID, "Someday", "", "")
	require.NoError(t, err)

	tasks, err := store.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, may.ID, tasks[0].ID)
	assert.Equal(t, june.ID, tasks[1].ID)
	assert.Equal(t, undated.ID, tasks[2].ID)
}

func TestListTasksOrderStableForEqualDueDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)

	first, err := store.CreateTask(ctx, alice.ID, "first", "", "2025-05-01")
	require.NoError(t, err)
	second, err := store.CreateTask(ctx, alice.ID, "second", "", "2025-05-01")
	require.NoError(t, err)

	// Same due date and likely the same created_at second; the id
	// tiebreaker keeps the newest insert first.
	tasks, err := store.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestToggleTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	task, err := store.CreateTask(ctx, alice.ID, "Buy milk", "", "")
	require.NoError(t, err)

	require.NoError(t, store.ToggleTask(ctx, task.ID, alice.ID))
	got, err := store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.Completed)

	// Toggling twice restores the original state.
	require.NoError(t, store.ToggleTask(ctx, task.ID, alice.ID))
	got, err = store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.False(t, got.Completed)
}

func TestToggleTaskWrongOwnerIsNoop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, "bob", "pw456")
	require.NoError(t, err)
	task, err := store.CreateTask(ctx, alice.ID, "Buy milk", "", "")
	require.NoError(t, err)

	require.NoError(t, store.ToggleTask(ctx, task.ID, bob.ID))

	got, err := store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.False(t, got.Completed)
}

func TestUpdateTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	task, err := store.CreateTask(ctx, alice.ID, "Buy milk", "", "")
	require.NoError(t, err)

	err = store.UpdateTask(ctx, task.ID, alice.ID, "Buy oat milk", "from the corner shop", "2025-02-01", models.StatusCompleted)
	require.NoError(t, err)

	got, err := store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "from the corner shop", got.Description)
	assert.Equal(t, "2025-02-01", got.DueDate)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.Completed)

	// Anything other than Completed normalizes to Pending and the flag follows.
	err = store.UpdateTask(ctx, task.ID, alice.ID, "Buy oat milk", "", "", "In Progress")
	require.NoError(t, err)
	got, err = store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.False(t, got.Completed)
}

func TestUpdateTaskWrongOwnerIsNoop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, "bob", "pw456")
	require.NoError(t, err)
	task, err := store.CreateTask(ctx, alice.ID, "Buy milk", "", "")
	require.NoError(t, err)

	err = store.UpdateTask(ctx, task.ID, bob.ID, "hijacked", "", "", models.StatusCompleted)
	require.NoError(t, err)

	got, err := store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.False(t, got.Completed)
}

func TestDeleteTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, "alice", "pw123")
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, "bob", "pw456")
	require.NoError(t, err)
	task, err := store.CreateTask(ctx, alice.ID, "Buy milk", "", "")
	require.NoError(t, err)

	// Wrong owner deletes nothing and reports no error.
	require.NoError(t, store.DeleteTask(ctx, task.ID, bob.ID))
	_, err = store.GetTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteTask(ctx, task.ID, alice.ID))
	_, err = store.GetTask(ctx, task.ID, alice.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// Idempotent: deleting again is still fine.
	require.NoError(t, store.DeleteTask(ctx, task.ID, alice.ID))
}
