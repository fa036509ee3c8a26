package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"learnhub/config"
	"learnhub/integrations/cache"
	"learnhub/integrations/events"
	"learnhub/integrations/video"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/repository/memory"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeVideo struct {
	gotLocation, gotRange string
	unknownLength         bool
}

func (f *fakeVideo) Fetch(_ context.Context, location, rangeHeader string) (*video.Chunk, error) {
	f.gotLocation, f.gotRange = location, rangeHeader
	length := int64(4)
	if f.unknownLength {
		length = -1
	}
	return &video.Chunk{
		Body:          io.NopCloser(strings.NewReader("abcd")),
		ContentRange:  "bytes 0-3/10",
		ContentLength: length,
		ContentType:   "video/mp4",
	}, nil
}

type testApp struct {
	app   *fiber.App
	repos Repos
	video *fakeVideo
}

func memoryRepos() Repos {
	progress := memory.NewLectureProgress()
	return Repos{
		Users:           memory.NewUsers(),
		Categories:      memory.NewCategories(),
		Courses:         memory.NewCourses(),
		Sections:        memory.NewSections(),
		Lectures:        memory.NewLectures().LinkProgress(progress),
		Enrollments:     memory.NewEnrollments(),
		LectureProgress: progress,
		Favorites:       memory.NewFavorites(),
		Quizzes:         memory.NewQuizzes(),
		Forum:           memory.NewForum(),
		Comments:        memory.NewComments(),
		Reviews:         memory.NewReviews(),
		Payments:        memory.NewPayments(),
		Pricing:         memory.NewPricing(),
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4, FrontendURL: "http://front.test"}

	log := logger.Nop()
	fv := &fakeVideo{}
	in := &Integrations{
		Events:  events.Noop{},
		Deduper: cache.NewMemoryDeduper(),
		Video:   fv,
		Mailer:  utils.NewMailer("", "no-reply@test", log),
	}
	repos := memoryRepos()
	services := NewServices(config.AppConfig, repos, in, log)
	return &testApp{app: NewApp(services, in, log, AppOptions{}), repos: repos, video: fv}
}

func token(t *testing.T, id uint, role string) string {
	t.Helper()
	tok, err := middleware.GenerateJWT(id, "tester", role, "tester@example.com")
	require.NoError(t, err)
	return "Bearer " + tok
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	var body envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func jsonRequest(method, target, body, auth string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	return req
}

func TestCategoryCreateEnvelope(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, jsonRequest(http.MethodPost, "/api/category", `{"name":"Web Development"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Success)

	resp, body = a.do(t, jsonRequest(http.MethodPost, "/api/category", `{"name":"Web Development"}`, token(t, 1, models.RoleStudent)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, body.Success)

	resp, body = a.do(t, jsonRequest(http.MethodPost, "/api/category", `{"name":"Web Development"}`, token(t, 1, models.RoleAdmin)))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, body.Success)

	var cat models.Category
	require.NoError(t, json.Unmarshal(body.Data, &cat))
	assert.Equal(t, "web-development", cat.Slug)
	assert.Equal(t, 1, cat.Level)
	require.NotNil(t, cat.RootID)
	assert.Equal(t, cat.ID, *cat.RootID)
	assert.Nil(t, cat.ParentID)
	assert.True(t, cat.IsActive)

	// duplicate slug surfaces as a service error with its mapped status
	resp, body = a.do(t, jsonRequest(http.MethodPost, "/api/category", `{"name":"web development"}`, token(t, 1, models.RoleAdmin)))
	assert.GreaterOrEqual(t, resp.StatusCode, 400)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
}

func TestValidationFailureIs422(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, jsonRequest(http.MethodPost, "/api/category", `{"name":""}`, token(t, 1, models.RoleAdmin)))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Validation failed!", body.Message)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(body.Data, &fields))
	assert.Contains(t, fields, "name")
}

func TestUnknownRouteKeepsEnvelope(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, body.Success)
}

func TestLectureStream(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	course := &models.Course{Title: "Go", CategoryID: 1, TeacherID: 1}
	require.NoError(t, a.repos.Courses.Create(ctx, course))
	section := &models.Section{CourseID: course.ID, Title: "Intro"}
	require.NoError(t, a.repos.Sections.Create(ctx, section))
	lecture := &models.Lecture{CourseID: course.ID, SectionID: section.ID, Title: "Hello", Video: "https://cdn.test/hello.mp4"}
	require.NoError(t, a.repos.Lectures.Create(ctx, lecture))
	silent := &models.Lecture{CourseID: course.ID, SectionID: section.ID, Title: "No video"}
	require.NoError(t, a.repos.Lectures.Create(ctx, silent))

	streamURL := func(id uint) string { return "/api/lecture/" + utoa(id) + "/stream" }

	t.Run("missing range", func(t *testing.T) {
		resp, body := a.do(t, httptest.NewRequest(http.MethodGet, streamURL(lecture.ID), nil))
		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode)
		assert.False(t, body.Success)
	})

	t.Run("partial content", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, streamURL(lecture.ID), nil)
		req.Header.Set(fiber.HeaderRange, "bytes=0-3")
		resp, err := a.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
		assert.Equal(t, "bytes 0-3/10", resp.Header.Get(fiber.HeaderContentRange))
		assert.Equal(t, "bytes", resp.Header.Get(fiber.HeaderAcceptRanges))
		assert.Equal(t, "video/mp4", resp.Header.Get(fiber.HeaderContentType))
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "abcd", string(raw))
		assert.Equal(t, "https://cdn.test/hello.mp4", a.video.gotLocation)
		assert.Equal(t, "bytes=0-3", a.video.gotRange)
	})

	t.Run("upstream without length", func(t *testing.T) {
		a.video.unknownLength = true
		defer func() { a.video.unknownLength = false }()

		req := httptest.NewRequest(http.MethodGet, streamURL(lecture.ID), nil)
		req.Header.Set(fiber.HeaderRange, "bytes=0-3")
		resp, err := a.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
		assert.NotEqual(t, "0", resp.Header.Get(fiber.HeaderContentLength))
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "abcd", string(raw))
	})

	t.Run("unknown lecture", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, streamURL(999), nil)
		req.Header.Set(fiber.HeaderRange, "bytes=0-3")
		resp, _ := a.do(t, req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("lecture without video", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, streamURL(silent.ID), nil)
		req.Header.Set(fiber.HeaderRange, "bytes=0-3")
		resp, _ := a.do(t, req)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestPaymentReturnRedirects(t *testing.T) {
	a := newTestApp(t)

	resp, err := a.app.Test(httptest.NewRequest(http.MethodGet, "/api/payment-course/payment-return?vnp_ResponseCode=24&vnp_TxnRef=COURSE_ORDER_1_1_1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://front.test/payment-failed", resp.Header.Get(fiber.HeaderLocation))
}

func TestStudentCannotActForSomeoneElse(t *testing.T) {
	a := newTestApp(t)

	body := `{"user_id":7,"lecture_id":1,"watched_seconds":10,"percentage":50}`
	resp, env := a.do(t, jsonRequest(http.MethodPost, "/api/lecture-progress/update", body, token(t, 3, models.RoleStudent)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestSignUpAndSignIn(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.do(t, jsonRequest(http.MethodPost, "/api/user/sign-up",
		`{"name":"Ann","email":"ann@example.com","password":"secret123"}`, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := a.do(t, jsonRequest(http.MethodPost, "/api/user/sign-in",
		`{"email":"ann@example.com","password":"secret123"}`, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &session))
	assert.NotEmpty(t, session.Token)

	resp, _ = a.do(t, jsonRequest(http.MethodPost, "/api/user/sign-in",
		`{"email":"ann@example.com","password":"wrong-pass"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func utoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
