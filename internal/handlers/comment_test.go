package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/dto"
)

func TestCommentHandler_ThreadRoundTrip(t *testing.T) {
	f := setupTaskTestFixture(t)
	task := f.createTask(t, map[string]interface{}{"title": "Cutover"})

	w := f.env.do(t, http.MethodPost, taskURL(task.ID, "/comments"), map[string]interface{}{
		"text": "root",
	}, f.adminCookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var root dto.CommentDTO
	decodeJSON(t, w, &root)

	w = f.env.do(t, http.MethodPost, taskURL(task.ID, "/comments"), map[string]interface{}{
		"text":      "reply",
		"parent_id": root.ID,
	}, f.devCookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var reply dto.CommentDTO
	decodeJSON(t, w, &reply)

	w = f.env.do(t, http.MethodPost, taskURL(task.ID, "/comments"), map[string]interface{}{
		"text":      "nested",
		"parent_id": reply.ID,
	}, f.adminCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.env.do(t, http.MethodGet, taskURL(task.ID, "/comments"), nil, f.devCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Comments []dto.CommentDTO `json:"comments"`
	}
	decodeJSON(t, w, &response)
	require.Len(t, response.Comments, 1)
	require.Equal(t, "root", response.Comments[0].Text)
	require.Len(t, response.Comments[0].Replies, 1)
	require.Equal(t, "reply", response.Comments[0].Replies[0].Text)
	require.Len(t, response.Comments[0].Replies[0].Replies, 1)
	require.Equal(t, "nested", response.Comments[0].Replies[0].Replies[0].Text)
}

func TestCommentHandler_CrossTaskParentRejected(t *testing.T) {
	f := setupTaskTestFixture(t)
	taskA := f.createTask(t, map[string]interface{}{"title": "A"})
	taskB := f.createTask(t, map[string]interface{}{"title": "B"})

	w := f.env.do(t, http.MethodPost, taskURL(taskA.ID, "/comments"), map[string]interface{}{
		"text": "on A",
	}, f.adminCookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var parent dto.CommentDTO
	decodeJSON(t, w, &parent)

	w = f.env.do(t, http.MethodPost, taskURL(taskB.ID, "/comments"), map[string]interface{}{
		"text":      "wrong thread",
		"parent_id": parent.ID,
	}, f.adminCookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentHandler_AuthorOnlyMutation(t *testing.T) {
	f := setupTaskTestFixture(t)
	task := f.createTask(t, map[string]interface{}{"title": "Cutover"})

	w := f.env.do(t, http.MethodPost, taskURL(task.ID, "/comments"), map[string]interface{}{
		"text": "mine",
	}, f.devCookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var comment dto.CommentDTO
	decodeJSON(t, w, &comment)

	w = f.env.do(t, http.MethodPatch, "/api/comments/"+itoa(comment.ID), map[string]interface{}{
		"text": "hijacked",
	}, f.adminCookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.env.do(t, http.MethodDelete, "/api/comments/"+itoa(comment.ID), nil, f.devCookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskFileHandler_SizeCapOverHTTP(t *testing.T) {
	f := setupTaskTestFixture(t)
	task := f.createTask(t, map[string]interface{}{"title": "Cutover"})

	w := f.env.do(t, http.MethodPost, taskURL(task.ID, "/files"), map[string]interface{}{
		"file_name": "dump.bin",
		"size":      5*1024*1024 + 1,
	}, f.devCookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.env.do(t, http.MethodPost, taskURL(task.ID, "/files"), map[string]interface{}{
		"file_name": "runbook.pdf",
		"size":      1024,
	}, f.devCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var file dto.TaskFileDTO
	decodeJSON(t, w, &file)

	// Only the uploader may delete.
	w = f.env.do(t, http.MethodDelete, "/api/files/"+itoa(file.ID), nil, f.adminCookies)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = f.env.do(t, http.MethodDelete, "/api/files/"+itoa(file.ID), nil, f.devCookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTimeEntryHandler_DuplicateDateConflicts(t *testing.T) {
	f := setupTaskTestFixture(t)
	task := f.createTask(t, map[string]interface{}{"title": "Cutover"})

	payload := map[string]interface{}{
		"date":    "2026-08-20",
		"minutes": 90,
		"note":    "pairing",
	}
	w := f.env.do(t, http.MethodPost, taskURL(task.ID, "/time-entries"), payload, f.devCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.env.do(t, http.MethodPost, taskURL(task.ID, "/time-entries"), payload, f.devCookies)
	require.Equal(t, http.StatusConflict, w.Code)

	w = f.env.do(t, http.MethodGet, taskURL(task.ID, "/time-entries"), nil, f.adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		TimeEntries []dto.TimeEntryDTO `json:"time_entries"`
	}
	decodeJSON(t, w, &response)
	require.Len(t, response.TimeEntries, 1)
	require.Equal(t, "2026-08-20", response.TimeEntries[0].Date)
}

func TestNotificationHandler_MarkReadIsOwnerScoped(t *testing.T) {
	f := setupTaskTestFixture(t)

	f.createTask(t, map[string]interface{}{
		"title":       "Cutover",
		"assignee_id": f.devID,
		"due_date":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})

	w := f.env.do(t, http.MethodGet, "/api/notifications", nil, f.devCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Notifications []dto.NotificationDTO `json:"notifications"`
	}
	decodeJSON(t, w, &response)
	require.Len(t, response.Notifications, 1)
	id := response.Notifications[0].ID

	// Someone else's notification is invisible.
	w = f.env.do(t, http.MethodPost, "/api/notifications/"+itoa(id)+"/read", nil, f.adminCookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = f.env.do(t, http.MethodPost, "/api/notifications/"+itoa(id)+"/read", nil, f.devCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var marked dto.NotificationDTO
	decodeJSON(t, w, &marked)
	require.True(t, marked.IsRead)

	// Marking again is a no-op.
	w = f.env.do(t, http.MethodPost, "/api/notifications/"+itoa(id)+"/read", nil, f.devCookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestActivityHandler_ProjectFeed(t *testing.T) {
	f := setupTaskTestFixture(t)
	task := f.createTask(t, map[string]interface{}{"title": "Cutover"})

	w := f.env.do(t, http.MethodPatch, taskURL(task.ID, ""), map[string]interface{}{
		"status": "done",
	}, f.adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.env.do(t, http.MethodGet, "/api/activity?project_id="+itoa(f.project.ID), nil, f.devCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Activity []dto.ActivityDTO `json:"activity"`
	}
	decodeJSON(t, w, &response)
	// Project creation, task creation and the update, newest first.
	require.Len(t, response.Activity, 3)
	require.Equal(t, "updated", string(response.Activity[0].Action))

	// Outsiders cannot read a project's feed.
	outsiderCookies := f.env.registerAndLogin(t, "outsider@example.com")
	w = f.env.do(t, http.MethodGet, "/api/activity?project_id="+itoa(f.project.ID), nil, outsiderCookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}
