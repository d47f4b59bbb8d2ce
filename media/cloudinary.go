package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// CloudinaryClient talks to the Cloudinary upload API over plain HTTP using
// signed requests. One client is built at startup and shared by all requests.
type CloudinaryClient struct {
	http      *resty.Client
	cloudName string
	apiKey    string
	apiSecret string

	// now is swappable so tests get stable signatures
	now func() time.Time
}

type cloudinaryOpts struct {
	baseURL string
}

// CloudinaryOption customizes the client at construction time.
type CloudinaryOption func(*cloudinaryOpts)

// WithBaseURL points the client at a different API host, used in tests.
func WithBaseURL(url string) CloudinaryOption {
	return func(o *cloudinaryOpts) { o.baseURL = url }
}

// NewCloudinaryClient builds the media gateway for the given cloud.
func NewCloudinaryClient(cloudName, apiKey, apiSecret string, opts ...CloudinaryOption) *CloudinaryClient {
	o := cloudinaryOpts{baseURL: "https://api.cloudinary.com"}
	for _, opt := range opts {
		opt(&o)
	}
	client := resty.New().
		SetBaseURL(o.baseURL).
		SetTimeout(60 * time.Second)
	return &CloudinaryClient{
		http:      client,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

type destroyResponse struct {
	Result string `json:"result"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload streams buf to the service under folder/name and returns the public
// retrieval URL. There is no local retry.
func (c *CloudinaryClient) Upload(ctx context.Context, buf []byte, folder, name string, kind Kind) (string, error) {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	signature := c.sign(fmt.Sprintf("folder=%s&public_id=%s&timestamp=%s", folder, name, ts))

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(buf)).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"timestamp": ts,
			"public_id": name,
			"folder":    folder,
			"signature": signature,
		}).
		Post(fmt.Sprintf("/v1_1/%s/%s/upload", c.cloudName, kind))
	if err != nil {
		return "", &UploadError{StatusCode: 0, Detail: err.Error()}
	}

	var body uploadResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", &UploadError{StatusCode: resp.StatusCode(), Detail: "unparseable upload response"}
	}
	if resp.IsError() || body.SecureURL == "" {
		detail := body.Error.Message
		if detail == "" {
			detail = resp.Status()
		}
		return "", &UploadError{StatusCode: resp.StatusCode(), Detail: detail}
	}
	return body.SecureURL, nil
}

// Destroy removes the object identified by its folder-qualified public id.
func (c *CloudinaryClient) Destroy(ctx context.Context, publicID string, kind Kind) error {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	signature := c.sign(fmt.Sprintf("public_id=%s&timestamp=%s", publicID, ts))

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"timestamp": ts,
			"public_id": publicID,
			"signature": signature,
		}).
		Post(fmt.Sprintf("/v1_1/%s/%s/destroy", c.cloudName, kind))
	if err != nil {
		return err
	}

	var body destroyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return fmt.Errorf("unparseable destroy response (status %d)", resp.StatusCode())
	}
	if resp.IsError() {
		return fmt.Errorf("media destroy failed (status %d): %s", resp.StatusCode(), body.Error.Message)
	}
	// "not found" still counts as gone
	if body.Result != "ok" && body.Result != "not found" {
		return fmt.Errorf("media destroy rejected: %s", body.Result)
	}
	return nil
}

// sign produces the request signature Cloudinary expects: SHA-1 over the
// alphabetically ordered parameter string with the API secret appended.
func (c *CloudinaryClient) sign(params string) string {
	sum := sha1.Sum([]byte(params + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
