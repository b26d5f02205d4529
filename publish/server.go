package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const serverTimeout = 10 * time.Second

// Authorizer decides whether an access request opens the door.
type Authorizer interface {
	Authorize(ctx context.Context, req AccessRequest) (bool, error)
}

// Server asks the lock server: it posts the request to /locks/<id>/access and
// treats 200 as granted and any other status as denied.
type Server struct {
	baseURL string
	lockID  int64
	client  *http.Client
}

func NewServer(baseURL string, lockID int64) *Server {
	return &Server{
		baseURL: strings.TrimRight(baseURL, "/"),
		lockID:  lockID,
		client:  &http.Client{Timeout: serverTimeout},
	}
}

func (s *Server) AccessURL() string {
	return fmt.Sprintf("%s/locks/%d/access", s.baseURL, s.lockID)
}

func (s *Server) Authorize(ctx context.Context, req AccessRequest) (bool, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return false, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.AccessURL(), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("access request to lock %d: %w", s.lockID, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
