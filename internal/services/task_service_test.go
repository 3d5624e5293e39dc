package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/repository"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	student *models.User
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.SubTask{},
	)
	suite.Require().NoError(err)

	suite.service = NewTaskService(repository.NewTaskRepository(suite.db))

	suite.student = &models.User{
		Username:     "student1",
		PasswordHash: "hashedpassword",
		Role:         models.RoleStudent,
	}
	suite.Require().NoError(suite.db.Create(suite.student).Error)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) dueDate() *time.Time {
	due := time.Now().Add(14 * 24 * time.Hour)
	return &due
}

func (suite *TaskServiceTestSuite) createTask(titles ...string) *models.Task {
	task, err := suite.service.CreateTask(CreateTaskInput{
		StudentID:     suite.student.ID,
		Title:         "Literature Review",
		DueDate:       suite.dueDate(),
		SubtaskTitles: titles,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) reloadTask(taskID uint64) *models.Task {
	var task models.Task
	suite.Require().NoError(suite.db.Preload("SubTasks").First(&task, taskID).Error)
	return &task
}

func (suite *TaskServiceTestSuite) TestCreateTask_WithSubtasks() {
	task := suite.createTask("Find sources", "Write summary", "Review draft")

	stored := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), models.TaskStatusPending, stored.Status)
	assert.Len(suite.T(), stored.SubTasks, 3)
	for _, st := range stored.SubTasks {
		assert.Equal(suite.T(), models.SubTaskStatusPending, st.Status)
	}
}

func (suite *TaskServiceTestSuite) TestCreateTask_TitleRequired() {
	_, err := suite.service.CreateTask(CreateTaskInput{
		StudentID: suite.student.ID,
		Title:     "   ",
		DueDate:   suite.dueDate(),
	})
	assert.ErrorIs(suite.T(), err, ErrTaskTitleRequired)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DueDateRequired() {
	_, err := suite.service.CreateTask(CreateTaskInput{
		StudentID: suite.student.ID,
		Title:     "Literature Review",
	})
	assert.ErrorIs(suite.T(), err, ErrTaskDueDateRequired)
}

func (suite *TaskServiceTestSuite) TestCreateTask_BlankSubtaskRejectedAtomically() {
	_, err := suite.service.CreateTask(CreateTaskInput{
		StudentID:     suite.student.ID,
		Title:         "Literature Review",
		DueDate:       suite.dueDate(),
		SubtaskTitles: []string{"Find sources", "  "},
	})
	assert.ErrorIs(suite.T(), err, ErrSubtaskTitleRequired)

	// Nothing was persisted
	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TaskServiceTestSuite) TestSetTaskStatus_OverrideIgnoresSubtasks() {
	task := suite.createTask("Find sources", "Write summary")

	updated, err := suite.service.SetTaskStatus(task.ID, suite.student.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusCompleted, updated.Status)

	// Subtasks stay pending; the override never touches them
	stored := suite.reloadTask(task.ID)
	for _, st := range stored.SubTasks {
		assert.Equal(suite.T(), models.SubTaskStatusPending, st.Status)
	}
}

func (suite *TaskServiceTestSuite) TestSetTaskStatus_InvalidStatus() {
	task := suite.createTask()

	_, err := suite.service.SetTaskStatus(task.ID, suite.student.ID, models.TaskStatus("archived"))
	assert.ErrorIs(suite.T(), err, ErrInvalidTaskStatus)
}

func (suite *TaskServiceTestSuite) TestGetTask_OtherStudentSeesNotFound() {
	task := suite.createTask()

	other := &models.User{Username: "student2", PasswordHash: "x", Role: models.RoleStudent}
	suite.Require().NoError(suite.db.Create(other).Error)

	_, err := suite.service.GetTask(task.ID, other.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestAddSubtask_CompletedParentRejected() {
	task := suite.createTask()
	_, err := suite.service.SetTaskStatus(task.ID, suite.student.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)

	_, err = suite.service.AddSubtask(task.ID, suite.student.ID, "Late addition")
	assert.ErrorIs(suite.T(), err, ErrTaskCompleted)
}

func (suite *TaskServiceTestSuite) TestSetSubtaskStatus_CascadesWhenLastCompletes() {
	task := suite.createTask("Find sources", "Write summary")
	stored := suite.reloadTask(task.ID)

	_, parentStatus, err := suite.service.SetSubtaskStatus(stored.SubTasks[0].ID, suite.student.ID, models.SubTaskStatusCompleted)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusPending, parentStatus)

	_, parentStatus, err = suite.service.SetSubtaskStatus(stored.SubTasks[1].ID, suite.student.ID, models.SubTaskStatusCompleted)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusCompleted, parentStatus)

	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.reloadTask(task.ID).Status)
}

func (suite *TaskServiceTestSuite) TestSetSubtaskStatus_CompletedParentRejected() {
	task := suite.createTask("Find sources", "Write summary")
	stored := suite.reloadTask(task.ID)

	for _, st := range stored.SubTasks {
		_, _, err := suite.service.SetSubtaskStatus(st.ID, suite.student.ID, models.SubTaskStatusCompleted)
		suite.Require().NoError(err)
	}

	// Parent cascaded to completed; reverting a subtask now conflicts
	_, _, err := suite.service.SetSubtaskStatus(stored.SubTasks[0].ID, suite.student.ID, models.SubTaskStatusPending)
	assert.ErrorIs(suite.T(), err, ErrTaskCompleted)

	// And the parent never reverted
	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.reloadTask(task.ID).Status)
}

func (suite *TaskServiceTestSuite) TestSetSubtaskStatus_NoCascadeWhileSiblingsPending() {
	task := suite.createTask("Find sources", "Write summary", "Review draft")
	stored := suite.reloadTask(task.ID)

	_, parentStatus, err := suite.service.SetSubtaskStatus(stored.SubTasks[0].ID, suite.student.ID, models.SubTaskStatusCompleted)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusPending, parentStatus)
	assert.Equal(suite.T(), models.TaskStatusPending, suite.reloadTask(task.ID).Status)
}

func (suite *TaskServiceTestSuite) TestSetSubtaskStatus_InvalidStatus() {
	task := suite.createTask("Find sources")
	stored := suite.reloadTask(task.ID)

	_, _, err := suite.service.SetSubtaskStatus(stored.SubTasks[0].ID, suite.student.ID, models.SubTaskStatus("done"))
	assert.ErrorIs(suite.T(), err, ErrInvalidSubtaskStatus)
}

func (suite *TaskServiceTestSuite) TestDeleteSubtask_CascadesWhenRemainderCompleted() {
	task := suite.createTask("Find sources", "Write summary")
	stored := suite.reloadTask(task.ID)

	_, _, err := suite.service.SetSubtaskStatus(stored.SubTasks[0].ID, suite.student.ID, models.SubTaskStatusCompleted)
	suite.Require().NoError(err)

	// Deleting the pending subtask leaves only completed ones
	parentStatus, err := suite.service.DeleteSubtask(stored.SubTasks[1].ID, suite.student.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusCompleted, parentStatus)
	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.reloadTask(task.ID).Status)
}

func (suite *TaskServiceTestSuite) TestDeleteSubtask_LastSubtaskLeavesParentUnchanged() {
	task := suite.createTask("Find sources")
	stored := suite.reloadTask(task.ID)

	parentStatus, err := suite.service.DeleteSubtask(stored.SubTasks[0].ID, suite.student.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusPending, parentStatus)
	assert.Equal(suite.T(), models.TaskStatusPending, suite.reloadTask(task.ID).Status)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_RemovesSubtasks() {
	task := suite.createTask("Find sources", "Write summary")

	err := suite.service.DeleteTask(task.ID, suite.student.ID)
	suite.Require().NoError(err)

	var tasks, subtasks int64
	suite.db.Model(&models.Task{}).Count(&tasks)
	suite.db.Model(&models.SubTask{}).Count(&subtasks)
	assert.Equal(suite.T(), int64(0), tasks)
	assert.Equal(suite.T(), int64(0), subtasks)
}

func (suite *TaskServiceTestSuite) TestProgress_AcrossTasks() {
	// One completed task and one with half its subtasks done: 2/3 units
	task := suite.createTask()
	_, err := suite.service.SetTaskStatus(task.ID, suite.student.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)

	second := suite.createTask("Find sources", "Write summary")
	stored := suite.reloadTask(second.ID)
	_, _, err = suite.service.SetSubtaskStatus(stored.SubTasks[0].ID, suite.student.ID, models.SubTaskStatusCompleted)
	suite.Require().NoError(err)

	progress, err := suite.service.Progress(suite.student.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 67, progress)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
