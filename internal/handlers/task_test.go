package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskbox/taskbox-api/internal/constants"
	"github.com/taskbox/taskbox-api/internal/database"
	"github.com/taskbox/taskbox-api/internal/dto"
	"github.com/taskbox/taskbox-api/internal/middleware"
	"github.com/taskbox/taskbox-api/internal/models"
	"github.com/taskbox/taskbox-api/internal/repository"
	"github.com/taskbox/taskbox-api/internal/services"
	"github.com/taskbox/taskbox-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite exercises the task endpoints through the full
// router, session middleware included.
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	tokens *token.Manager
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Task{})
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	taskService := services.NewTaskService(taskRepo)
	handler := NewTaskHandler(taskService)
	suite.tokens = token.NewManager(testSecret)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	tasks := suite.router.Group("/api/tasks")
	tasks.Use(middleware.RequireAuth(suite.tokens))
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.GET("/:id", handler.GetTask)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.PATCH("/:id/toggle", handler.ToggleTask)
		tasks.DELETE("/:id", handler.DeleteTask)
	}
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(userID uint64, title string, mutate ...func(*models.Task)) *models.Task {
	task := &models.Task{
		UserID:   userID,
		Title:    title,
		Status:   models.TaskStatusPending,
		Priority: models.TaskPriorityMedium,
	}
	for _, m := range mutate {
		m(task)
	}
	if task.Status == models.TaskStatusCompleted {
		task.Completed = true
	}
	suite.db.Create(task)
	return task
}

// request performs an authenticated request as userID.
func (suite *TaskHandlerTestSuite) request(method, url string, body any, userID uint64) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	raw, err := suite.tokens.Issue(userID)
	suite.Require().NoError(err)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: raw})

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) models.Task {
	var response dto.TaskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().True(response.Success)
	return response.Task
}

func (suite *TaskHandlerTestSuite) decodeTaskList(w *httptest.ResponseRecorder) []models.Task {
	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().True(response.Success)
	return response.Tasks
}

func taskTitles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AppliesDefaults() {
	user := suite.createTestUser("alice")

	w := suite.request("POST", "/api/tasks", map[string]any{"title": "Write report"}, user.ID)

	suite.Require().Equal(http.StatusCreated, w.Code)
	task := suite.decodeTask(w)
	assert.Equal(suite.T(), "Write report", task.Title)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, task.Priority)
	assert.False(suite.T(), task.Completed)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_CompletedStatusSetsFlag() {
	user := suite.createTestUser("alice")

	w := suite.request("POST", "/api/tasks", map[string]any{
		"title":  "Already done",
		"status": "completed",
	}, user.ID)

	suite.Require().Equal(http.StatusCreated, w.Code)
	task := suite.decodeTask(w)
	assert.Equal(suite.T(), models.TaskStatusCompleted, task.Status)
	assert.True(suite.T(), task.Completed)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_TitleBoundaries() {
	user := suite.createTestUser("alice")

	cases := []struct {
		length int
		want   int
	}{
		{0, http.StatusBadRequest},
		{1, http.StatusCreated},
		{100, http.StatusCreated},
		{101, http.StatusBadRequest},
	}

	for _, tc := range cases {
		w := suite.request("POST", "/api/tasks", map[string]any{
			"title": strings.Repeat("x", tc.length),
		}, user.ID)
		assert.Equal(suite.T(), tc.want, w.Code, "title length %d", tc.length)
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RejectsInvalidInput() {
	user := suite.createTestUser("alice")

	cases := []map[string]any{
		{"title": "t", "status": "done"},
		{"title": "t", "priority": "urgent"},
		{"title": "t", "dueDate": "next tuesday"},
	}

	for _, payload := range cases {
		w := suite.request("POST", "/api/tasks", payload, user.ID)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, "payload %v", payload)
	}
}

func (suite *TaskHandlerTestSuite) TestDueDateRoundTrip() {
	user := suite.createTestUser("alice")
	instant := "2025-01-01T00:00:00Z"

	w := suite.request("POST", "/api/tasks", map[string]any{
		"title":   "dated",
		"dueDate": instant,
	}, user.ID)
	suite.Require().Equal(http.StatusCreated, w.Code)
	created := suite.decodeTask(w)

	w = suite.request("GET", fmt.Sprintf("/api/tasks/%d", created.ID), nil, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	fetched := suite.decodeTask(w)

	want, err := time.Parse(time.RFC3339, instant)
	suite.Require().NoError(err)
	suite.Require().NotNil(fetched.DueDate)
	assert.True(suite.T(), fetched.DueDate.Equal(want), "got %v, want %v", fetched.DueDate, want)
}

func (suite *TaskHandlerTestSuite) TestListTasks_FilterComposition() {
	user := suite.createTestUser("alice")
	suite.createTestTask(user.ID, "Foo shipped", func(t *models.Task) { t.Status = models.TaskStatusCompleted })
	suite.createTestTask(user.ID, "foo pending")
	suite.createTestTask(user.ID, "Bar shipped", func(t *models.Task) { t.Status = models.TaskStatusCompleted })
	suite.createTestTask(user.ID, "described", func(t *models.Task) {
		t.Status = models.TaskStatusCompleted
		t.Description = "contains FOO somewhere"
	})

	w := suite.request("GET", "/api/tasks?status=completed&search=foo", nil, user.ID)

	suite.Require().Equal(http.StatusOK, w.Code)
	tasks := suite.decodeTaskList(w)
	assert.ElementsMatch(suite.T(), []string{"Foo shipped", "described"}, taskTitles(tasks))
}

func (suite *TaskHandlerTestSuite) TestListTasks_SortByPriority() {
	user := suite.createTestUser("alice")
	suite.createTestTask(user.ID, "low", func(t *models.Task) { t.Priority = models.TaskPriorityLow })
	suite.createTestTask(user.ID, "high", func(t *models.Task) { t.Priority = models.TaskPriorityHigh })
	suite.createTestTask(user.ID, "medium", func(t *models.Task) { t.Priority = models.TaskPriorityMedium })

	// Default order is desc.
	w := suite.request("GET", "/api/tasks?sortBy=priority", nil, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), []string{"high", "medium", "low"}, taskTitles(suite.decodeTaskList(w)))

	w = suite.request("GET", "/api/tasks?sortBy=priority&order=asc", nil, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), []string{"low", "medium", "high"}, taskTitles(suite.decodeTaskList(w)))
}

func (suite *TaskHandlerTestSuite) TestListTasks_SortStabilityForEqualKeys() {
	user := suite.createTestUser("alice")
	// Same priority, created in a known order.
	first := suite.createTestTask(user.ID, "first")
	second := suite.createTestTask(user.ID, "second")
	third := suite.createTestTask(user.ID, "third")
	suite.Require().Less(first.ID, second.ID)
	suite.Require().Less(second.ID, third.ID)

	for _, order := range []string{"asc", "desc"} {
		w := suite.request("GET", "/api/tasks?sortBy=priority&order="+order, nil, user.ID)
		suite.Require().Equal(http.StatusOK, w.Code)
		assert.Equal(suite.T(), []string{"first", "second", "third"},
			taskTitles(suite.decodeTaskList(w)), "order=%s", order)
	}
}

func (suite *TaskHandlerTestSuite) TestListTasks_RejectsUnknownQueryValues() {
	user := suite.createTestUser("alice")

	for _, qs := range []string{
		"status=done",
		"priority=urgent",
		"sortBy=owner",
		"order=descending",
	} {
		w := suite.request("GET", "/api/tasks?"+qs, nil, user.ID)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, "query %s", qs)
	}
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthenticated() {
	req := httptest.NewRequest("GET", "/api/tasks", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestOwnershipIsolation() {
	owner := suite.createTestUser("owner")
	intruder := suite.createTestUser("intruder")
	task := suite.createTestTask(owner.ID, "private")

	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	// Every access through the intruder's session reads as nonexistent.
	assert.Equal(suite.T(), http.StatusNotFound, suite.request("GET", path, nil, intruder.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request("PUT", path, map[string]any{"title": "stolen"}, intruder.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request("PATCH", path+"/toggle", nil, intruder.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request("DELETE", path, nil, intruder.ID).Code)

	w := suite.request("GET", "/api/tasks", nil, intruder.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Empty(suite.T(), suite.decodeTaskList(w))

	// The owner still sees the task untouched.
	w = suite.request("GET", path, nil, owner.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "private", suite.decodeTask(w).Title)
}

func (suite *TaskHandlerTestSuite) TestToggle_CollapsesInProgressToPending() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask(user.ID, "wip", func(t *models.Task) { t.Status = models.TaskStatusInProgress })

	path := fmt.Sprintf("/api/tasks/%d/toggle", task.ID)

	w := suite.request("PATCH", path, nil, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	toggled := suite.decodeTask(w)
	assert.True(suite.T(), toggled.Completed)
	assert.Equal(suite.T(), models.TaskStatusCompleted, toggled.Status)

	// Toggling back does not restore in-progress.
	w = suite.request("PATCH", path, nil, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	restored := suite.decodeTask(w)
	assert.False(suite.T(), restored.Completed)
	assert.Equal(suite.T(), models.TaskStatusPending, restored.Status)
}

func (suite *TaskHandlerTestSuite) TestToggle_TwiceFromPendingIsANoOp() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask(user.ID, "todo")

	path := fmt.Sprintf("/api/tasks/%d/toggle", task.ID)
	suite.request("PATCH", path, nil, user.ID)
	w := suite.request("PATCH", path, nil, user.ID)

	suite.Require().Equal(http.StatusOK, w.Code)
	final := suite.decodeTask(w)
	assert.False(suite.T(), final.Completed)
	assert.Equal(suite.T(), models.TaskStatusPending, final.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialUpdate() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask(user.ID, "original", func(t *models.Task) {
		t.Description = "keep me"
		t.Priority = models.TaskPriorityHigh
	})

	w := suite.request("PUT", fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"title": "renamed",
	}, user.ID)

	suite.Require().Equal(http.StatusOK, w.Code)
	updated := suite.decodeTask(w)
	assert.Equal(suite.T(), "renamed", updated.Title)
	assert.Equal(suite.T(), "keep me", updated.Description)
	assert.Equal(suite.T(), models.TaskPriorityHigh, updated.Priority)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_StatusDrivesCompletedFlag() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask(user.ID, "task")

	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.request("PUT", path, map[string]any{"status": "completed"}, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.True(suite.T(), suite.decodeTask(w).Completed)

	w = suite.request("PUT", path, map[string]any{"status": "in-progress"}, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := suite.decodeTask(w)
	assert.False(suite.T(), updated.Completed)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_RejectsEmptyAndOverlongTitle() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask(user.ID, "task")

	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.request("PUT", path, map[string]any{"title": ""}, user.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.request("PUT", path, map[string]any{"title": strings.Repeat("x", 101)}, user.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NonNumericIDReadsAsNotFound() {
	user := suite.createTestUser("alice")

	w := suite.request("GET", "/api/tasks/not-a-number", nil, user.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask(user.ID, "doomed")

	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.request("DELETE", path, nil, user.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response.Success)

	assert.Equal(suite.T(), http.StatusNotFound, suite.request("GET", path, nil, user.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request("DELETE", path, nil, user.ID).Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
