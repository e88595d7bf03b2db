// Package rpc exposes the history query engine as tools over a stdio
// JSON-RPC loop, so an orchestrating bot can ask point questions about an
// issue thread without linking this module directly.
package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hulquest/ansibullbot/internal/config"
	"github.com/hulquest/ansibullbot/internal/github"
	"github.com/hulquest/ansibullbot/internal/history"
)

// JSONRPCRequest represents a standard JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server holds the state for the query server.
type Server struct {
	cfg    *config.AppConfig
	client github.Client
	out    io.Writer
}

// NewServer creates a query server bound to one repository.
func NewServer(cfg *config.AppConfig, client github.Client) *Server {
	return &Server{cfg: cfg, client: client, out: os.Stdout}
}

// Serve starts the JSON-RPC loop over Stdio.
func (s *Server) Serve() error {
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "ansibullbot-history",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}

	out, _ := json.Marshal(resp)
	fmt.Fprintf(s.out, "%s\n", out)
}

// buildHistory constructs the cached history wrapper for one issue number.
// With includePull set, the pull request's commits and reviews are merged in
// as late-arriving sources.
func (s *Server) buildHistory(number int, includePull bool) (*history.Wrapper, error) {
	issue, err := github.FetchIssue(s.client, s.cfg.Repo, number)
	if err != nil {
		return nil, err
	}
	wrapper, err := history.New(issue, history.Options{
		UseCache:     true,
		CacheDir:     s.cfg.CacheDir,
		ExcludeUsers: s.cfg.ExcludeUsers,
	})
	if err != nil {
		return nil, err
	}

	if includePull {
		commits, err := issue.Commits()
		if err != nil {
			return nil, err
		}
		wrapper.History().MergeCommits(commits)

		reviews, err := issue.Reviews()
		if err != nil {
			return nil, err
		}
		if err := wrapper.History().MergeReviews(reviews); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
