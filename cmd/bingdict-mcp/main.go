package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// translateResponse mirrors the bingdict translate API response.
type translateResponse struct {
	Success    bool   `json:"success"`
	Query      string `json:"query"`
	Found      bool   `json:"found"`
	Paraphrase *struct {
		Pronunciations []string `json:"pronunciations"`
		Genders        []string `json:"genders"`
	} `json:"paraphrase"`
	Text  string `json:"text"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("BINGDICT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("BINGDICT_API_KEY")

	s := server.NewMCPServer(
		"bingdict",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	translateTool := mcp.NewTool("translate_word",
		mcp.WithDescription("Look up an English or Chinese word or phrase in Bing Dictionary and return its pronunciations and senses."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The word or phrase to look up"),
		),
	)
	s.AddTool(translateTool, handleTranslate(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiGet sends a GET request to the bingdict API and returns the response body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func handleTranslate(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		body, err := apiGet(ctx, client, apiURL, apiKey, "/api/v1/translate?q="+url.QueryEscape(query))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp translateResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success {
			errMsg := "lookup failed"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}
		if !resp.Found {
			return mcp.NewToolResultText(fmt.Sprintf("No dictionary entry for %q.", resp.Query)), nil
		}
		return mcp.NewToolResultText(resp.Text), nil
	}
}
