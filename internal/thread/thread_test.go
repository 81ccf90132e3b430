package thread_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/thread"
)

func TestNormalizeSubject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Project Update", "project update"},
		{"Re: Project Update", "project update"},
		{"RE: re: Fwd: Project Update", "project update"},
		{"Fw:   Project   Update ", "project update"},
		{"Regarding the project", "regarding the project"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, thread.NormalizeSubject(tc.in), "subject: %q", tc.in)
	}
}

func at(h int) time.Time {
	return time.Date(2024, 1, 10, h, 0, 0, 0, time.UTC)
}

func TestGroup(t *testing.T) {
	msgs := []model.Message{
		{ID: "1", Subject: "Project Update", Date: at(9), Read: true},
		{ID: "2", Subject: "Re: Project Update", Date: at(11)},
		{ID: "3", Subject: "Invoice #1234", Date: at(10), Read: true},
	}

	convs := thread.Group(msgs)
	require.Len(t, convs, 2)

	// Conversation with the 11:00 reply sorts first.
	assert.Equal(t, "Project Update", convs[0].Subject)
	require.Len(t, convs[0].Messages, 2)
	assert.Equal(t, "1", convs[0].Messages[0].ID, "oldest first within conversation")
	assert.Equal(t, "2", convs[0].Latest().ID)
	assert.True(t, convs[0].Unread())

	assert.Equal(t, "Invoice #1234", convs[1].Subject)
	assert.False(t, convs[1].Unread())
}

func TestGroupEmptySubjects(t *testing.T) {
	msgs := []model.Message{
		{ID: "a", Subject: "", Date: at(9)},
		{ID: "b", Subject: "Re:", Date: at(10)},
	}

	convs := thread.Group(msgs)
	assert.Len(t, convs, 2, "subjectless messages never merge")
}
