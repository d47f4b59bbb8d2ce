package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signParams(params, secret string) string {
	sum := sha1.Sum([]byte(params + secret))
	return hex.EncodeToString(sum[:])
}

func TestCloudinaryUpload(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		buf := make([]byte, 64)
		n, _ := f.Read(buf)
		gotFile = buf[:n]

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"secure_url":"https://res.cloudinary.test/raw/upload/v1/courses/files/file_1.pdf","public_id":"courses/files/file_1"}`)
	}))
	defer srv.Close()

	client := NewCloudinaryClient("testcloud", "key123", "secret456", WithBaseURL(srv.URL))

	url, err := client.Upload(context.Background(), []byte("pdf-bytes"), CourseFileFolder, "file_1.pdf", KindRaw)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.test/raw/upload/v1/courses/files/file_1.pdf", url)

	assert.Equal(t, "/v1_1/testcloud/raw/upload", gotPath)
	assert.Equal(t, "key123", gotForm["api_key"])
	assert.Equal(t, CourseFileFolder, gotForm["folder"])
	assert.Equal(t, "file_1.pdf", gotForm["public_id"])
	assert.Equal(t, []byte("pdf-bytes"), gotFile)

	wantSig := signParams(
		fmt.Sprintf("folder=%s&public_id=%s&timestamp=%s", CourseFileFolder, "file_1.pdf", gotForm["timestamp"]),
		"secret456",
	)
	assert.Equal(t, wantSig, gotForm["signature"])
}

func TestCloudinaryUpload_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid signature"}}`)
	}))
	defer srv.Close()

	client := NewCloudinaryClient("testcloud", "key123", "badsecret", WithBaseURL(srv.URL))

	_, err := client.Upload(context.Background(), []byte("x"), CourseImageFolder, "img_1", KindImage)
	require.Error(t, err)

	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusBadRequest, upErr.StatusCode)
	assert.Contains(t, upErr.Detail, "Invalid signature")
}

func TestCloudinaryDestroy(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k, v := range r.PostForm {
			gotForm[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"ok"}`)
	}))
	defer srv.Close()

	client := NewCloudinaryClient("testcloud", "key123", "secret456", WithBaseURL(srv.URL))

	err := client.Destroy(context.Background(), "courses/images/img_77", KindImage)
	require.NoError(t, err)

	assert.Equal(t, "/v1_1/testcloud/image/destroy", gotPath)
	assert.Equal(t, "courses/images/img_77", gotForm["public_id"])

	wantSig := signParams(
		fmt.Sprintf("public_id=%s&timestamp=%s", "courses/images/img_77", gotForm["timestamp"]),
		"secret456",
	)
	assert.Equal(t, wantSig, gotForm["signature"])
}

func TestCloudinaryDestroy_NotFoundIsGone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"not found"}`)
	}))
	defer srv.Close()

	client := NewCloudinaryClient("testcloud", "key123", "secret456", WithBaseURL(srv.URL))

	assert.NoError(t, client.Destroy(context.Background(), "courses/files/file_gone", KindRaw))
}

func TestCloudinaryDestroy_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Invalid API key"}}`)
	}))
	defer srv.Close()

	client := NewCloudinaryClient("testcloud", "wrong", "secret456", WithBaseURL(srv.URL))

	err := client.Destroy(context.Background(), "courses/files/file_x", KindRaw)
	assert.Error(t, err)
}
