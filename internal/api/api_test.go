package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ojas-Arora/SoundAware/internal/assistant"
	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/detection"
	"github.com/Ojas-Arora/SoundAware/internal/inference"
	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
	"github.com/Ojas-Arora/SoundAware/internal/notification"
	"github.com/Ojas-Arora/SoundAware/internal/pipeline"
)

func testController(t *testing.T) (*Controller, *detection.Sink) {
	t.Helper()
	t.Setenv(conf.DebugHostEnv, "")

	settings := &conf.Settings{}
	settings.Model.Sensitivity = 0.7
	settings.Model.SampleRate = 16000
	settings.Capture.MaxFileSize = 50 * 1024 * 1024
	settings.Capture.AllowedTypes = []string{".mp3", ".wav", ".m4a", ".aac", ".flac"}
	settings.Backend.URL = "http://backend:5000"
	settings.Backend.Timeout = 5
	settings.Backend.RetryDelayMs = 1
	settings.Webserver.Port = "8080"

	client := inference.NewClient(settings)
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	notifier := notification.NewStore("")
	sink := detection.NewSink(nil, notifier)
	p := pipeline.New(settings, client, sink)
	asst := assistant.New(settings, func() assistant.Stats {
		return assistant.Stats{TotalDetections: len(sink.History())}
	})

	return New(settings, p, sink, notifier, asst, nil), sink
}

func doRequest(c *Controller, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func seedDetection(sink *detection.Sink, label string, confidence float64) {
	clip := myaudio.NewDataClip([]byte("payload"), "audio/wav", 3*time.Second)
	sink.Commit(context.Background(), &inference.Result{
		Label: label, Confidence: confidence, Source: "backend",
	}, clip)
}

func TestHealth(t *testing.T) {
	c, _ := testController(t)

	rec := doRequest(c, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestListDetections(t *testing.T) {
	c, sink := testController(t)
	seedDetection(sink, "Doorbell", 0.92)
	seedDetection(sink, "Dog Bark", 0.65)

	rec := doRequest(c, httptest.NewRequest(http.MethodGet, "/api/v1/detections", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Detections []map[string]any `json:"detections"`
		Total      int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Total)
	assert.Equal(t, "Dog Bark", body.Detections[0]["soundType"], "most recent first")
}

func TestListDetections_Limit(t *testing.T) {
	c, sink := testController(t)
	seedDetection(sink, "Doorbell", 0.92)
	seedDetection(sink, "Dog Bark", 0.65)

	rec := doRequest(c, httptest.NewRequest(http.MethodGet, "/api/v1/detections?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)

	rec = doRequest(c, httptest.NewRequest(http.MethodGet, "/api/v1/detections?limit=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearDetections(t *testing.T) {
	c, sink := testController(t)
	seedDetection(sink, "Doorbell", 0.92)

	rec := doRequest(c, httptest.NewRequest(http.MethodDelete, "/api/v1/detections", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, sink.History())
}

func TestExportDetections(t *testing.T) {
	c, sink := testController(t)
	seedDetection(sink, "Doorbell", 0.92)

	rec := doRequest(c, httptest.NewRequest(http.MethodGet, "/api/v1/detections/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Doorbell")
}

func TestNotificationFlow(t *testing.T) {
	c, sink := testController(t)
	seedDetection(sink, "Doorbell", 0.92)

	rec := doRequest(c, httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []notification.Notification `json:"notifications"`
		Unread        int                         `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, 1, body.Unread)
	assert.Equal(t, notification.TypeSuccess, body.Notifications[0].Type)

	rec = doRequest(c, httptest.NewRequest(http.MethodPatch,
		"/api/v1/notifications/"+body.Notifications[0].ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(c, httptest.NewRequest(http.MethodPatch,
		"/api/v1/notifications/no-such-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(c, httptest.NewRequest(http.MethodDelete, "/api/v1/notifications", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func makeUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestAnalyze_FallsBackToMock(t *testing.T) {
	c, sink := testController(t)

	body, contentType := makeUpload(t, "clip.wav", []byte("not really wav bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(c, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var det map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &det))
	assert.True(t, inference.IsKnownSound(det["soundType"].(string)))
	assert.Len(t, sink.History(), 1)
}

func TestAnalyze_UnsupportedFormat(t *testing.T) {
	c, _ := testController(t)

	body, contentType := makeUpload(t, "clip.ogg", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(c, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAnalyze_MissingFile(t *testing.T) {
	c, _ := testController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
	rec := doRequest(c, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskAssistant(t *testing.T) {
	c, _ := testController(t)

	payload := `{"question": "what sounds can you detect?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := doRequest(c, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var reply assistant.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, assistant.TopicDetectableSound, reply.Topic)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/assistant", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = doRequest(c, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
