package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/helmcode/casediag/pkg/auth"
	"github.com/helmcode/casediag/pkg/model"
)

// LoginResult is the Auth Service answer to a login
type LoginResult struct {
	AccessToken            string `json:"access_token"`
	PasswordChangeRequired bool   `json:"password_change_required"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthService issues access tokens
type AuthService struct {
	c *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{c: c}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	if err := s.c.postJSON(ctx, auth.Credential{}, "/login", credentials{username, password}, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}
	return &result, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	var resp messageResponse
	if err := s.c.postJSON(ctx, auth.Credential{}, "/register", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, cred auth.Credential, newPassword string) (string, error) {
	var resp messageResponse
	body := map[string]string{"new_password": newPassword}
	if err := s.c.postJSON(ctx, cred, "/change_password", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CaseService stores cases, their analysis and comments
type CaseService struct {
	c *Client
}

func NewCaseService(c *Client) *CaseService {
	return &CaseService{c: c}
}

// ListCases returns the caller's own cases
func (s *CaseService) ListCases(ctx context.Context, cred auth.Credential) ([]model.Case, error) {
	var cases []model.Case
	if err := s.c.getJSON(ctx, cred, "/cases", &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// ListAllCases returns every case; admin only
func (s *CaseService) ListAllCases(ctx context.Context, cred auth.Credential) ([]model.Case, error) {
	var cases []model.Case
	if err := s.c.getJSON(ctx, cred, "/admin/cases", &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *CaseService) GetCase(ctx context.Context, cred auth.Credential, id int) (*model.Case, error) {
	var c model.Case
	if err := s.c.getJSON(ctx, cred, fmt.Sprintf("/cases/%d", id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCase opens a case and returns its id
func (s *CaseService) CreateCase(ctx context.Context, cred auth.Credential, description, platform string) (int, error) {
	var resp struct {
		CaseID int `json:"case_id"`
	}
	body := map[string]string{"description": description, "platform": platform}
	if err := s.c.postJSON(ctx, cred, "/cases", body, &resp); err != nil {
		return 0, err
	}
	return resp.CaseID, nil
}

func (s *CaseService) ListComments(ctx context.Context, cred auth.Credential, id int) ([]model.Comment, error) {
	comments := []model.Comment{}
	if err := s.c.getJSON(ctx, cred, fmt.Sprintf("/cases/%d/comments", id), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CaseService) AddComment(ctx context.Context, cred auth.Credential, id int, text string) (string, error) {
	var resp messageResponse
	body := map[string]string{"comment": text}
	if err := s.c.postJSON(ctx, cred, fmt.Sprintf("/cases/%d/comments", id), body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DiagnosticService accepts result uploads and hands out capture scripts
type DiagnosticService struct {
	c *Client
}

func NewDiagnosticService(c *Client) *DiagnosticService {
	return &DiagnosticService{c: c}
}

// Upload sends a results file as the multipart field "file". The service
// analyzes it before answering, so a success means the case was updated.
func (s *DiagnosticService) Upload(ctx context.Context, cred auth.Credential, id int, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	data, err := s.c.send(ctx, cred, http.MethodPost, fmt.Sprintf("/upload/%d", id), writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return "", err
	}
	var resp messageResponse
	if err := decode(data, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DownloadScript returns the capture script generated for a case
func (s *DiagnosticService) DownloadScript(ctx context.Context, cred auth.Credential, id int) ([]byte, error) {
	return s.c.send(ctx, cred, http.MethodGet, fmt.Sprintf("/download_script/%d", id), "", nil)
}

// ScriptFilename is the name the service suggests for a case script
func ScriptFilename(id int) string {
	return fmt.Sprintf("diagnostic_script_%d.sh", id)
}
