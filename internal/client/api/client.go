// Package api is the REST client for the climblog server. It maps HTTP
// statuses back onto the shared error taxonomy so the CLI can react to
// authentication, permission and validation failures uniformly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ttakano/climblog/internal/common"
)

// Credentials is a username/password pair sent as HTTP Basic auth.
// Nil credentials mean an anonymous request.
type Credentials struct {
	Username string
	Password string
}

type Mountain struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Prefecture string `json:"prefecture"`
	Elevation  int    `json:"elevation"`
}

type Record struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Mountain  int64     `json:"mountain"`
	ClimbDate string    `json:"climb_date"`
	Comment   string    `json:"comment"`
	PhotoURL  string    `json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Staff    bool   `json:"staff"`
}

// MountainPatch carries only the fields the caller wants to change.
type MountainPatch struct {
	Name       *string `json:"name,omitempty"`
	Prefecture *string `json:"prefecture,omitempty"`
	Elevation  *int    `json:"elevation,omitempty"`
}

type RecordPatch struct {
	Mountain  *int64  `json:"mountain,omitempty"`
	ClimbDate *string `json:"climb_date,omitempty"`
	Comment   *string `json:"comment,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do runs one request and decodes a successful JSON response into out
// (when out is non-nil). Failures come back as the shared sentinels;
// a 400 is unpacked into the full per-field ValidationError.
func (c *Client) do(ctx context.Context, method, path string, creds *Credentials, body, out any) error {

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusBadRequest:
		ve := common.NewValidationError()
		var fields map[string][]string
		if err := json.NewDecoder(resp.Body).Decode(&fields); err == nil {
			ve.Fields = fields
		}
		return ve
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthenticated
	case resp.StatusCode == http.StatusForbidden:
		return common.ErrorForbidden
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("%w: unexpected status %d", common.ErrorInternal, resp.StatusCode)
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil, nil)
}

func (c *Client) ListMountains(ctx context.Context, nameFilter string) ([]Mountain, error) {
	path := "/api/mountains"
	if nameFilter != "" {
		path += "?q=" + url.QueryEscape(nameFilter)
	}
	var out []Mountain
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMountain(ctx context.Context, id int64) (*Mountain, error) {
	var out Mountain
	if err := c.do(ctx, http.MethodGet, "/api/mountains/"+formatID(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMountain(ctx context.Context, creds *Credentials, name, prefecture string, elevation int) (*Mountain, error) {
	var out Mountain
	body := MountainPatch{Name: &name, Prefecture: &prefecture, Elevation: &elevation}
	if err := c.do(ctx, http.MethodPost, "/api/mountains", creds, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMountain(ctx context.Context, creds *Credentials, id int64, patch MountainPatch) (*Mountain, error) {
	var out Mountain
	if err := c.do(ctx, http.MethodPatch, "/api/mountains/"+formatID(id), creds, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMountain(ctx context.Context, creds *Credentials, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/mountains/"+formatID(id), creds, nil, nil)
}

func (c *Client) ListRecords(ctx context.Context, mountainID int64) ([]Record, error) {
	path := "/api/records"
	if mountainID != 0 {
		path += "?mountain=" + formatID(mountainID)
	}
	var out []Record
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRecord(ctx context.Context, id int64) (*Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodGet, "/api/records/"+formatID(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRecord(ctx context.Context, creds *Credentials, mountainID int64, climbDate, comment string) (*Record, error) {
	var out Record
	body := RecordPatch{Mountain: &mountainID, ClimbDate: &climbDate, Comment: &comment}
	if err := c.do(ctx, http.MethodPost, "/api/records", creds, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRecord(ctx context.Context, creds *Credentials, id int64, patch RecordPatch) (*Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodPatch, "/api/records/"+formatID(id), creds, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, creds *Credentials, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/records/"+formatID(id), creds, nil, nil)
}

// AttachPhoto reserves a photo slot on a record and returns the presigned
// URL to upload the blob to.
func (c *Client) AttachPhoto(ctx context.Context, creds *Credentials, id int64) (string, error) {
	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/records/"+formatID(id)+"/photo", creds, nil, &out); err != nil {
		return "", err
	}
	return out.UploadURL, nil
}

func (c *Client) ListUsers(ctx context.Context, creds *Credentials) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/api/users", creds, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var out User
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
