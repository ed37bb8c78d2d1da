package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"user-directory-service/internal/adapter/db/gormdb"
	ginhandler "user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"
	ginrouter "user-directory-service/internal/adapter/gin/router"
	"user-directory-service/internal/usecase/user"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// UserAPIIntegrationTestSuite exercises the HTTP API end to end: real
// router, real handler, real usecase and repository, in-memory SQLite.
type UserAPIIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
}

func (suite *UserAPIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

// SetupTest builds a fresh stack per test so state never leaks between them.
func (suite *UserAPIIntegrationTestSuite) SetupTest() {
	logger := zaptest.NewLogger(suite.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	// A pooled second connection would see its own empty memory database
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(gormdb.Migrate(db))

	repo := gormdb.NewUserRepo(db, logger)
	uc := user.New(repo, logger)
	handler := ginhandler.NewUserHandler(uc, logger)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = []string{"http://localhost:5500", "http://127.0.0.1:5500"}

	suite.db = db
	suite.router = ginrouter.SetupRouter(handler, nil, corsConfig, "test", logger)
}

func (suite *UserAPIIntegrationTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	_ = sqlDB.Close()
}

// makeRequest serves one request through the full middleware chain.
func (suite *UserAPIIntegrationTestSuite) makeRequest(method, endpoint string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, endpoint, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// createUser adds a user through the API and returns the assigned ID.
func (suite *UserAPIIntegrationTestSuite) createUser(name, email, mobile string) int64 {
	w := suite.makeRequest("POST", "/users/", map[string]interface{}{
		"name":          name,
		"email":         email,
		"mobile_number": mobile,
	})
	suite.Require().Equal(http.StatusOK, w.Code, "create user body: %s", w.Body.String())

	var resp struct {
		Message string `json:"message"`
		User    struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Equal("User added successfully", resp.Message)
	suite.Require().Positive(resp.User.ID)
	return resp.User.ID
}

func (suite *UserAPIIntegrationTestSuite) TestIndexGreeting() {
	w := suite.makeRequest("GET", "/", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `"Hello, Magan!"`, w.Body.String())
}

func (suite *UserAPIIntegrationTestSuite) TestHealthEndpoint() {
	w := suite.makeRequest("GET", "/health", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "healthy", response["status"])
}

func (suite *UserAPIIntegrationTestSuite) TestCreateAndGetUser() {
	id := suite.createUser("John Doe", "john@example.com", "1234567890")

	w := suite.makeRequest("GET", fmt.Sprintf("/users/%d", id), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), float64(id), response["id"])
	assert.Equal(suite.T(), "John Doe", response["name"])
	assert.Equal(suite.T(), "john@example.com", response["email"])
	assert.Equal(suite.T(), "1234567890", response["mobile_number"])
}

func (suite *UserAPIIntegrationTestSuite) TestCreateUserDuplicateEmail() {
	suite.createUser("John Doe", "john@example.com", "1234567890")

	w := suite.makeRequest("POST", "/users/", map[string]interface{}{
		"name":          "Other John",
		"email":         "john@example.com",
		"mobile_number": "0000000000",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "conflict", response["error"])
	assert.Equal(suite.T(), "User with this email or mobile number already exists", response["message"])
}

func (suite *UserAPIIntegrationTestSuite) TestCreateUserDuplicateMobileNumber() {
	suite.createUser("John Doe", "john@example.com", "1234567890")

	w := suite.makeRequest("POST", "/users/", map[string]interface{}{
		"name":          "Jane Doe",
		"email":         "jane@example.com",
		"mobile_number": "1234567890",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "conflict", response["error"])
	assert.Equal(suite.T(), "User with this email or mobile number already exists", response["message"])
}

func (suite *UserAPIIntegrationTestSuite) TestCreateUserMissingField() {
	w := suite.makeRequest("POST", "/users/", map[string]interface{}{
		"name":  "John Doe",
		"email": "john@example.com",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *UserAPIIntegrationTestSuite) TestGetUserNotFound() {
	w := suite.makeRequest("GET", "/users/999", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "not_found", response["error"])
	assert.Equal(suite.T(), "User not found", response["message"])
}

func (suite *UserAPIIntegrationTestSuite) TestGetUserInvalidID() {
	w := suite.makeRequest("GET", "/users/abc", nil)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "invalid_id", response["error"])
}

// An ID of zero parses fine but matches no row, so it's a plain miss.
func (suite *UserAPIIntegrationTestSuite) TestGetUserZeroID() {
	w := suite.makeRequest("GET", "/users/0", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserAPIIntegrationTestSuite) TestUpdateUser() {
	id := suite.createUser("John Doe", "john@example.com", "1234567890")

	w := suite.makeRequest("PUT", fmt.Sprintf("/users/%d", id), map[string]interface{}{
		"name":          "John Updated",
		"email":         "john.updated@example.com",
		"mobile_number": "1112223333",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "User updated successfully", response["message"])

	updated, ok := response["user"].(map[string]interface{})
	suite.Require().True(ok)
	assert.Equal(suite.T(), float64(id), updated["id"])
	assert.Equal(suite.T(), "John Updated", updated["name"])

	// The changes stick
	w = suite.makeRequest("GET", fmt.Sprintf("/users/%d", id), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "john.updated@example.com", response["email"])
	assert.Equal(suite.T(), "1112223333", response["mobile_number"])
}

// Re-submitting a user's own email and mobile number must not conflict.
func (suite *UserAPIIntegrationTestSuite) TestUpdateUserKeepsOwnUniqueValues() {
	id := suite.createUser("John Doe", "john@example.com", "1234567890")

	w := suite.makeRequest("PUT", fmt.Sprintf("/users/%d", id), map[string]interface{}{
		"name":          "John Renamed",
		"email":         "john@example.com",
		"mobile_number": "1234567890",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *UserAPIIntegrationTestSuite) TestUpdateUserNotFound() {
	w := suite.makeRequest("PUT", "/users/999", map[string]interface{}{
		"name":          "Nobody",
		"email":         "nobody@example.com",
		"mobile_number": "9999999999",
	})

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "not_found", response["error"])
	assert.Equal(suite.T(), "User not found", response["message"])
}

func (suite *UserAPIIntegrationTestSuite) TestDeleteUserWorkflow() {
	id := suite.createUser("John Doe", "john@example.com", "1234567890")

	w := suite.makeRequest("DELETE", fmt.Sprintf("/users/%d", id), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "User deleted successfully", response["message"])

	// The record is gone
	w = suite.makeRequest("GET", fmt.Sprintf("/users/%d", id), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// Deleting again reports not found
	w = suite.makeRequest("DELETE", fmt.Sprintf("/users/%d", id), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserAPIIntegrationTestSuite) TestListUsers() {
	suite.createUser("Alice", "alice@example.com", "1111111111")
	suite.createUser("Bob", "bob@example.com", "2222222222")
	suite.createUser("Carol", "carol@example.com", "3333333333")

	w := suite.makeRequest("GET", "/users/", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var users []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &users))
	suite.Require().Len(users, 3)

	// Order-independent comparison
	emails := make(map[string]bool, len(users))
	for _, u := range users {
		emails[u["email"].(string)] = true
	}
	assert.True(suite.T(), emails["alice@example.com"])
	assert.True(suite.T(), emails["bob@example.com"])
	assert.True(suite.T(), emails["carol@example.com"])
}

func (suite *UserAPIIntegrationTestSuite) TestListUsersEmpty() {
	w := suite.makeRequest("GET", "/users/", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `[]`, w.Body.String())
}

// Updating into another user's email is not pre-checked, so the unique
// index rejects it and the API reports an internal error.
func (suite *UserAPIIntegrationTestSuite) TestUpdateUserDuplicateEmailFailsInStorage() {
	suite.createUser("John Doe", "john@example.com", "1234567890")
	id := suite.createUser("Jane Doe", "jane@example.com", "0987654321")

	w := suite.makeRequest("PUT", fmt.Sprintf("/users/%d", id), map[string]interface{}{
		"name":          "Jane Doe",
		"email":         "john@example.com",
		"mobile_number": "0987654321",
	})

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

func (suite *UserAPIIntegrationTestSuite) TestCORSAllowedOrigin() {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:5500")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "http://localhost:5500", w.Header().Get("Access-Control-Allow-Origin"))
}

func (suite *UserAPIIntegrationTestSuite) TestCORSDisallowedPreflight() {
	req := httptest.NewRequest("OPTIONS", "/users/", nil)
	req.Header.Set("Origin", "https://evil.com")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCompleteCRUDWorkflow walks one record through its whole life.
func (suite *UserAPIIntegrationTestSuite) TestCompleteCRUDWorkflow() {
	// 1. Create user
	id := suite.createUser("Workflow User", "workflow@example.com", "5556667777")

	// 2. Get user
	w := suite.makeRequest("GET", fmt.Sprintf("/users/%d", id), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	// 3. Update user
	w = suite.makeRequest("PUT", fmt.Sprintf("/users/%d", id), map[string]interface{}{
		"name":          "Updated User",
		"email":         "updated@example.com",
		"mobile_number": "5556667777",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	// 4. List shows exactly one record
	w = suite.makeRequest("GET", "/users/", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var users []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &users))
	suite.Require().Len(users, 1)
	assert.Equal(suite.T(), "updated@example.com", users[0]["email"])

	// 5. Delete user
	w = suite.makeRequest("DELETE", fmt.Sprintf("/users/%d", id), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	// 6. List is empty again
	w = suite.makeRequest("GET", "/users/", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `[]`, w.Body.String())
}

// Run the test suite
func TestUserAPIIntegrationSuite(t *testing.T) {
	suite.Run(t, new(UserAPIIntegrationTestSuite))
}
