// Package gog shells out to the gog CLI for directory and drive metadata
// lookups. Each call is a single bounded subprocess; any failure is
// reported as an error for the caller to degrade on, never to abort a run.
package gog

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// FileMeta is the drive metadata used for attachment classification.
type FileMeta struct {
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	WebViewLink string `json:"webViewLink"`
}

// runFunc executes a command and returns its stdout. Tests substitute it.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

type Client struct {
	binary     string
	peopleWait time.Duration
	driveWait  time.Duration
	run        runFunc
}

func NewClient(binary string, peopleTimeout, driveTimeout time.Duration) *Client {
	return &Client{
		binary:     binary,
		peopleWait: peopleTimeout,
		driveWait:  driveTimeout,
		run:        runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// LookupPerson queries the external directory by email or free text and
// returns the best match's display name, or "" when there is none.
func (c *Client) LookupPerson(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.peopleWait)
	defer cancel()

	out, err := c.run(ctx, c.binary, "people", "search", "--json", query)
	if err != nil {
		return "", fmt.Errorf("people search: %w", err)
	}
	if strings.TrimSpace(string(out)) == "" {
		return "", nil
	}

	var resp struct {
		People []struct {
			Name string `json:"name"`
		} `json:"people"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", fmt.Errorf("people search response: %w", err)
	}
	if len(resp.People) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.People[0].Name), nil
}

// LookupFile fetches drive metadata for an attachment's file ID. A nil
// result with nil error means the service returned nothing usable.
func (c *Client) LookupFile(ctx context.Context, fileID string) (*FileMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, c.driveWait)
	defer cancel()

	out, err := c.run(ctx, c.binary, "drive", "get", fileID, "--json", "--results-only")
	if err != nil {
		return nil, fmt.Errorf("drive get: %w", err)
	}
	if strings.TrimSpace(string(out)) == "" {
		return nil, nil
	}

	var resp struct {
		File *FileMeta `json:"file"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("drive get response: %w", err)
	}
	return resp.File, nil
}
