package router_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fileservice/internal/config"
	"fileservice/internal/handler"
	"fileservice/internal/port"
	"fileservice/internal/router"
	"fileservice/internal/service"
	"fileservice/mocks"
)

var urlPattern = regexp.MustCompile(`^https://test-bucket\.s3\.us-east-1\.amazonaws\.com/uploads/[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}_report\.pdf$`)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Provider:      config.ProviderS3,
			AccessKey:     "AKIDEXAMPLE",
			SecretKey:     "secret",
			Region:        "us-east-1",
			Bucket:        "test-bucket",
			MaxFileSizeMB: 10,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newEngine(t *testing.T, storage *mocks.MockObjectStorage) *gin.Engine {
	t.Helper()
	return newEngineWithConfig(t, storage, testConfig())
}

func newEngineWithConfig(t *testing.T, storage *mocks.MockObjectStorage, cfg *config.Config) *gin.Engine {
	t.Helper()
	log, _ := test.NewNullLogger()
	svc := service.NewUploadService(storage, &cfg.Storage, log)
	return router.Setup(cfg, log, handler.NewFileHandler(svc, log), handler.NewHealthHandler(storage, cfg.Storage.Bucket))
}

func uploadRequest(t *testing.T, path string, content []byte) *http.Request {
	t.Helper()
	return namedUploadRequest(t, path, "report.pdf", content)
}

func namedUploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = part.Write(content)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestRouter_Upload(t *testing.T) {
	for _, path := range []string{"/files/upload", "/api/files/upload"} {
		t.Run(path, func(t *testing.T) {
			storage := new(mocks.MockObjectStorage)
			storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
				Return(&port.UploadOutput{}, nil)
			r := newEngine(t, storage)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, uploadRequest(t, path, []byte("%PDF-1.4")))

			assert.Equal(t, http.StatusOK, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Regexp(t, urlPattern, resp["url"])
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_Upload_AccessDenied(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, errors.New("access denied"))
	r := newEngine(t, storage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/files/upload", []byte("%PDF-1.4")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access denied", resp["error"])
}

func TestRouter_Upload_EmptyFilename(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasSuffix(in.Key, "_")
	})).Return(&port.UploadOutput{}, nil)
	r := newEngine(t, storage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, namedUploadRequest(t, "/files/upload", "", []byte("no file chosen")))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^https://test-bucket\.s3\.us-east-1\.amazonaws\.com/uploads/[0-9a-f-]{36}_$`, resp["url"])
	storage.AssertNumberOfCalls(t, "Upload", 1)
}

func TestRouter_Upload_FilenameWithDirectories(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	r := newEngine(t, storage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, namedUploadRequest(t, "/files/upload", "dir/sub/a.txt", []byte("hello")))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasSuffix(resp["url"], "_dir/sub/a.txt"), resp["url"])
}

func TestRouter_Upload_RequestBodyCapped(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	cfg := testConfig()
	cfg.Storage.MaxFileSizeMB = 1
	r := newEngineWithConfig(t, storage, cfg)

	// A large field ahead of the file must not be read past the cap.
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("note", strings.Repeat("x", 3<<20)))
	part, err := writer.CreateFormFile("file", "small.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("hello"))
	require.NoError(t, writer.Close())
	req, _ := http.NewRequest(http.MethodPost, "/files/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestRouter_Upload_OversizedFile(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	cfg := testConfig()
	cfg.Storage.MaxFileSizeMB = 1
	r := newEngineWithConfig(t, storage, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/files/upload", bytes.Repeat([]byte{'a'}, 1<<20+1)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestRouter_Upload_MissingFileKeepsServing(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	r := newEngine(t, storage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/files/upload", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/files/upload", []byte("%PDF-1.4")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Upload_RepeatedRequestsGetNewURLs(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	r := newEngine(t, storage)

	urls := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "/files/upload", []byte("same bytes")))
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		urls[resp["url"]] = struct{}{}
	}

	assert.Len(t, urls, 3)
}

func TestRouter_Upload_Concurrent(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	r := newEngine(t, storage)

	const n = 50
	reqs := make([]*http.Request, n)
	for i := range reqs {
		reqs[i] = uploadRequest(t, "/files/upload", bytes.Repeat([]byte{byte(i)}, i+1))
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		urls  = make(map[string]struct{}, n)
		codes []int
	)
	for _, req := range reqs {
		wg.Add(1)
		go func(req *http.Request) {
			defer wg.Done()
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var resp map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			mu.Lock()
			defer mu.Unlock()
			codes = append(codes, w.Code)
			urls[resp["url"]] = struct{}{}
		}(req)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.Len(t, urls, n)
	storage.AssertNumberOfCalls(t, "Upload", n)
}

func TestRouter_Health(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Ping", mock.Anything, "test-bucket").Return(nil)
	r := newEngine(t, storage)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r := newEngine(t, new(mocks.MockObjectStorage))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/files/upload")
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newEngine(t, new(mocks.MockObjectStorage))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/files/upload", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
