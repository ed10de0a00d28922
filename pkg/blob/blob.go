package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/remerata/bookcloud/pkg/circuitbreaker"
)

type Config struct {
	UploadURL    string `yaml:"uploadURL" envconfig:"BLOB_UPLOAD_URL"`
	UploadPreset string `yaml:"uploadPreset" envconfig:"BLOB_UPLOAD_PRESET"`
}

// Client uploads images to an external unsigned-upload endpoint and
// returns the stable URL the upload service assigns.
type Client struct {
	cfg    Config
	client *http.Client
	cb     circuitbreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Minute,
		},
		cb: circuitbreaker.New(20, 30*time.Second, 0.5, 3),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", errors.Wrap(err, "copy file")
	}
	if err := mw.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
		return "", errors.Wrap(err, "write preset")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL, &body)
	if err != nil {
		return "", errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var upload uploadResponse
	err = c.cb.Call(func() error {
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("blob upload status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&upload)
	})
	if err != nil {
		return "", err
	}
	if upload.SecureURL == "" {
		return "", errors.New("blob upload: empty secure_url")
	}
	return upload.SecureURL, nil
}
