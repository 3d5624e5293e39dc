package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BlazingTwister/finalflow/internal/config"
	"github.com/BlazingTwister/finalflow/internal/constants"
	"github.com/BlazingTwister/finalflow/internal/database"
	"github.com/BlazingTwister/finalflow/internal/dto"
	"github.com/BlazingTwister/finalflow/internal/models"
	"github.com/BlazingTwister/finalflow/internal/repository"
	"github.com/BlazingTwister/finalflow/internal/services"
	"github.com/BlazingTwister/finalflow/internal/storage"
)

// SlotHandlerTestSuite defines the test suite for SlotHandler
type SlotHandlerTestSuite struct {
	suite.Suite
	db                *gorm.DB
	slotService       *services.SlotService
	submissionService *services.SubmissionService
	handler           *SlotHandler
	submissionHandler *SubmissionHandler
	lecturer          *models.User
	student           *models.User
}

// SetupTest runs before each test
func (suite *SlotHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.SubmissionSlot{},
		&models.SlotAssignment{},
		&models.StudentSubmission{},
		&models.SubmissionFile{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	store, err := storage.NewLocalStorage(suite.T().TempDir())
	suite.Require().NoError(err)

	slotRepo := repository.NewSlotRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	submissionRepo := repository.NewSubmissionRepository(suite.db)

	suite.slotService = services.NewSlotService(slotRepo, userRepo)
	suite.submissionService = services.NewSubmissionService(submissionRepo, slotRepo, store, config.ResubmissionAllow)
	suite.handler = NewSlotHandler(suite.slotService, suite.submissionService)
	suite.submissionHandler = NewSubmissionHandler(suite.submissionService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.lecturer = &models.User{
		Username:     "lecturer1",
		PasswordHash: "hashedpassword",
		Role:         models.RoleLecturer,
	}
	suite.Require().NoError(suite.db.Create(suite.lecturer).Error)

	suite.student = &models.User{
		Username:     "student1",
		PasswordHash: "hashedpassword",
		Role:         models.RoleStudent,
		SupervisorID: &suite.lecturer.ID,
	}
	suite.Require().NoError(suite.db.Create(suite.student).Error)
}

// TearDownTest runs after each test
func (suite *SlotHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *SlotHandlerTestSuite) createSlot() *models.SubmissionSlot {
	slot, err := suite.slotService.CreateSlot(services.CreateSlotInput{
		LecturerID: suite.lecturer.ID,
		Name:       "Chapter 1 Draft",
		DueDate:    time.Now().Add(48 * time.Hour),
	})
	suite.Require().NoError(err)
	return slot
}

func (suite *SlotHandlerTestSuite) assignStudent(slotID uint64) {
	_, err := suite.slotService.Assign(services.AssignInput{
		SlotID:     slotID,
		LecturerID: suite.lecturer.ID,
		StudentIDs: []uint64{suite.student.ID},
	})
	suite.Require().NoError(err)
}

func (suite *SlotHandlerTestSuite) submit(slotID uint64) *models.StudentSubmission {
	submission, err := suite.submissionService.Submit(suite.student.ID, slotID, []services.FileUpload{
		{
			Name:        "draft.pdf",
			Size:        11,
			ContentType: "application/pdf",
			Content:     bytes.NewReader([]byte("chapter one")),
		},
	})
	suite.Require().NoError(err)
	return submission
}

func (suite *SlotHandlerTestSuite) authContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *SlotHandlerTestSuite) TestCreateSlot_Success() {
	body, _ := json.Marshal(map[string]any{
		"name":     "Chapter 1 Draft",
		"due_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})

	c, w := suite.authContext("POST", "/api/slots", body, suite.lecturer.ID)
	suite.handler.CreateSlot(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.SlotDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.SlotStatusOpen, response.Status)
}

func (suite *SlotHandlerTestSuite) TestCreateSlot_PastDueDate() {
	body, _ := json.Marshal(map[string]any{
		"name":     "Chapter 1 Draft",
		"due_date": time.Now().Add(-time.Hour).Format(time.RFC3339),
	})

	c, w := suite.authContext("POST", "/api/slots", body, suite.lecturer.ID)
	suite.handler.CreateSlot(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *SlotHandlerTestSuite) TestGetSlot_StatusMatrix() {
	slot := suite.createSlot()
	suite.assignStudent(slot.ID)
	suite.submit(slot.ID)

	// Second supervisee without an assignment appears unassigned
	other := &models.User{
		Username:     "student2",
		PasswordHash: "x",
		Role:         models.RoleStudent,
		SupervisorID: &suite.lecturer.ID,
	}
	suite.Require().NoError(suite.db.Create(other).Error)

	c, w := suite.authContext("GET", "/api/slots/1", nil, suite.lecturer.ID)
	setIDParam(c, slot.ID)
	suite.handler.GetSlot(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.SlotDetailResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.SubmissionStatuses, 2)

	byStudent := make(map[uint64]dto.StudentSubmissionStatus)
	for _, status := range response.SubmissionStatuses {
		byStudent[status.StudentID] = status
	}

	assert.True(suite.T(), byStudent[suite.student.ID].IsAssigned)
	assert.True(suite.T(), byStudent[suite.student.ID].HasSubmitted)
	assert.False(suite.T(), byStudent[other.ID].IsAssigned)
	assert.False(suite.T(), byStudent[other.ID].HasSubmitted)
}

func (suite *SlotHandlerTestSuite) TestAssignStudents_ReturnsLinkedIDs() {
	slot := suite.createSlot()

	body, _ := json.Marshal(map[string]any{
		"student_ids": []uint64{suite.student.ID},
	})

	c, w := suite.authContext("POST", "/api/slots/1/assign", body, suite.lecturer.ID)
	setIDParam(c, slot.ID)
	suite.handler.AssignStudents(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]uint64
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), []uint64{suite.student.ID}, response["assigned_student_ids"])
}

func (suite *SlotHandlerTestSuite) TestAssignStudents_ClosedSlotConflict() {
	slot := suite.createSlot()
	_, err := suite.slotService.CloseSlot(slot.ID, suite.lecturer.ID)
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]any{
		"student_ids": []uint64{suite.student.ID},
	})

	c, w := suite.authContext("POST", "/api/slots/1/assign", body, suite.lecturer.ID)
	setIDParam(c, slot.ID)
	suite.handler.AssignStudents(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *SlotHandlerTestSuite) TestListMySlots_IncludesOwnSubmission() {
	slot := suite.createSlot()
	suite.assignStudent(slot.ID)
	suite.submit(slot.ID)

	c, w := suite.authContext("GET", "/api/my-slots", nil, suite.student.ID)
	suite.handler.ListMySlots(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]dto.StudentSlotView
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response["slots"], 1)

	view := response["slots"][0]
	assert.Equal(suite.T(), slot.ID, view.ID)
	assert.Equal(suite.T(), suite.lecturer.Username, view.LecturerName)
	assert.True(suite.T(), view.HasSubmitted)
	suite.Require().NotNil(view.MySubmission)
}

func (suite *SlotHandlerTestSuite) TestSubmitEndpoint_MultipartUpload() {
	slot := suite.createSlot()
	suite.assignStudent(slot.ID)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "draft.pdf")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("chapter one"))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/my-slots/"+strconv.FormatUint(slot.ID, 10)+"/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, suite.student.ID)
	setIDParam(c, slot.ID)

	suite.submissionHandler.Submit(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.SubmissionDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.AcknowledgementPending, response.AcknowledgementStatus)
	suite.Require().Len(response.Files, 1)
	assert.Equal(suite.T(), "draft.pdf", response.Files[0].FileName)
}

func TestSlotHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}
