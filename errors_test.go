package corobridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmissionError_TransparentMessage(t *testing.T) {
	boom := errors.New("boom")
	err := newSubmissionError(boom, "sub-1", "task-1")

	require.Equal(t, "boom", err.Error(), "tagging must not alter the message seen at the await point")
	require.ErrorIs(t, err, boom)

	var sme SubmissionMetaError
	require.ErrorAs(t, err, &sme)
	id, ok := sme.SubmissionID()
	require.True(t, ok)
	require.Equal(t, "sub-1", id)
	taskID, ok := sme.TaskID()
	require.True(t, ok)
	require.Equal(t, "task-1", taskID)
}

func TestSubmissionError_VerboseFormat(t *testing.T) {
	err := newSubmissionError(errors.New("boom"), "sub-1", "task-1")
	require.Equal(t, "boom", fmt.Sprintf("%s", err))
	require.Equal(t, `"boom"`, fmt.Sprintf("%q", err))
	require.Equal(t, "submission(id=sub-1,task=task-1): boom", fmt.Sprintf("%+v", err))
}

func TestSubmissionError_NilPassesThrough(t *testing.T) {
	require.NoError(t, newSubmissionError(nil, "sub-1", "task-1"))
	require.NoError(t, newRootTaskError(nil, "task-1"))
}

func TestRootTaskError_WrapsAndIdentifies(t *testing.T) {
	boom := errors.New("boom")
	err := newRootTaskError(boom, "task-9")

	require.ErrorIs(t, err, boom)
	var rte *RootTaskError
	require.ErrorAs(t, err, &rte)
	require.Equal(t, "task-9", rte.TaskID())
	require.Contains(t, err.Error(), Namespace)
	require.Contains(t, err.Error(), "boom")
}

func TestExtractHelpers(t *testing.T) {
	boom := errors.New("boom")

	_, ok := ExtractSubmissionID(boom)
	require.False(t, ok, "an untagged error carries no submission id")
	_, ok = ExtractTaskID(boom)
	require.False(t, ok)

	tagged := newSubmissionError(boom, "sub-7", "task-7")
	id, ok := ExtractSubmissionID(tagged)
	require.True(t, ok)
	require.Equal(t, "sub-7", id)
	taskID, ok := ExtractTaskID(tagged)
	require.True(t, ok)
	require.Equal(t, "task-7", taskID)

	// Extraction must see through further wrapping.
	wrapped := fmt.Errorf("context: %w", tagged)
	id, ok = ExtractSubmissionID(wrapped)
	require.True(t, ok)
	require.Equal(t, "sub-7", id)

	root := newRootTaskError(boom, "task-8")
	taskID, ok = ExtractTaskID(root)
	require.True(t, ok)
	require.Equal(t, "task-8", taskID)
}
