package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeImageStore implements domain.ImageStore for handler tests.
type fakeImageStore struct {
	uploadErr       error
	uploadURL       string
	lastSize        int64
	lastContentType string
	lastBody        []byte
}

func (f *fakeImageStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	f.lastSize = size
	f.lastContentType = contentType
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.lastBody = body
	return f.uploadURL, f.uploadErr
}

// multipartBody builds a multipart form with a single "file" part.
func multipartBody(t *testing.T, contentType string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestImageController_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &fakeImageStore{uploadURL: "https://cdn.example.com/images/abc.png"}
		c := NewImageController(testLogger, store)

		data := []byte("fake png bytes")
		body, contentType := multipartBody(t, "image/png", data)
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		c.Upload(rr, authed(req, "owner-1"))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "image/png", store.lastContentType)
		assert.Equal(t, data, store.lastBody)

		envelope := decodeEnvelope(t, rr.Body)
		require.Nil(t, envelope.Error)
		payload, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example.com/images/abc.png", payload["url"])
	})

	t.Run("unsupported content type", func(t *testing.T) {
		uploadErr := fmt.Errorf("unsupported content type %q: %w", "application/pdf", domain.ErrInvalidInput)
		c := NewImageController(testLogger, &fakeImageStore{uploadErr: uploadErr})

		body, contentType := multipartBody(t, "application/pdf", []byte("%PDF-1.7"))
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		c.Upload(rr, authed(req, "owner-1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "unsupported image type", envelope.Error.Message)
	})

	t.Run("missing file part", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("note", "no file here"))
		require.NoError(t, w.Close())

		c := NewImageController(testLogger, &fakeImageStore{})
		req := httptest.NewRequest(http.MethodPost, "/images", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rr := httptest.NewRecorder()
		c.Upload(rr, authed(req, "owner-1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		c := NewImageController(testLogger, &fakeImageStore{})
		req := httptest.NewRequest(http.MethodPost, "/images", bytes.NewReader([]byte("raw bytes")))
		req.Header.Set("Content-Type", "application/octet-stream")
		rr := httptest.NewRecorder()
		c.Upload(rr, authed(req, "owner-1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		c := NewImageController(testLogger, &fakeImageStore{uploadErr: errors.New("s3: timeout")})

		body, contentType := multipartBody(t, "image/png", []byte("fake png bytes"))
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		c.Upload(rr, authed(req, "owner-1"))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeInternalError, envelope.Error.Code)
	})
}
