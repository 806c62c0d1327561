package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/client/models"
	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/netx"
)

const avatarFormField = "avatar"

type httpReply struct {
	StatusCode int    `json:"statusCode"`
	Success    string `json:"success"`
	Error      string `json:"error"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// UploadAvatar replaces the avatar of the logged in account. The edit
// endpoint rewrites every profile field, so p must hold the current profile.
func (s *GRPCClient) UploadAvatar(ctx context.Context, p models.Profile, filename string, body io.Reader) (string, error) {
	token := s.token()
	if token == "" {
		return "", ErrNotLoggedIn
	}

	fields := map[string]string{
		"username":    p.Username,
		"email":       p.Email,
		"accountType": strconv.Itoa(p.AccountType),
		"firstName":   p.FirstName,
		"lastName":    p.LastName,
		"description": p.Description,
		"phoneNumber": p.PhoneNumber,
		"website":     p.Website,
	}
	url := strings.TrimRight(s.httpURL, "/") + "/users/me"

	resp, err := netx.SendMultipart(ctx, nil, http.MethodPut, url, token, fields,
		&netx.FilePart{Field: avatarFormField, Filename: filename, Body: body})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var reply httpReply
	if err := json.Unmarshal(resp.Body, &reply); err != nil {
		return "", fmt.Errorf("unexpected response %d: %w", resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: %s", ErrUnauthorized, reply.Message)
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("server error: %s", reply.Message)
	case resp.StatusCode >= http.StatusBadRequest:
		return "", common.NewValidationError(reply.Field, reply.Message)
	}
	return reply.Message, nil
}
