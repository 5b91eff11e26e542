package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shopmatch-labs/shopmatch-cli/internal/capture"
)

// MatchInput is the input schema for the match_products tool.
type MatchInput struct {
	Query string `json:"query" jsonschema:"natural language product query, e.g. 'white sneakers under 100'"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 10)"`
}

// MatchOutput is the output schema for the match_products tool.
type MatchOutput struct {
	Matches             []MatchEntry `json:"matches"`
	Reasoning           string       `json:"reasoning"`
	RetrievedChunkCount int          `json:"retrieved_chunk_count"`
}

// MatchEntry represents a single matched product.
type MatchEntry struct {
	ProductID  string  `json:"product_id"`
	Title      string  `json:"title"`
	Brand      string  `json:"brand,omitempty"`
	Price      string  `json:"price,omitempty"`
	LinkURL    string  `json:"link_url,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

// IndexInput is the input schema for the index_capture tool.
type IndexInput struct {
	Path string `json:"path" jsonschema:"path to a capture file or directory of capture files"`
}

// IndexOutput is the output schema for the index_capture tool.
type IndexOutput struct {
	ProductCount int `json:"product_count"`
	ChunkCount   int `json:"chunk_count"`
}

// ScoreInput is the input schema for the score_product tool.
type ScoreInput struct {
	Query       string `json:"query" jsonschema:"natural language product query"`
	ProductText string `json:"product_text" jsonschema:"the product's text to score against the query"`
}

// ScoreOutput is the output schema for the score_product tool.
type ScoreOutput struct {
	Score float64 `json:"score"`
}

// ClearOutput is the output schema for the clear_index tool.
type ClearOutput struct {
	Cleared bool `json:"cleared"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "match_products",
		Description: "Match indexed products against a natural language query",
	}, s.handleMatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_capture",
		Description: "Index a capture file or directory of captured products",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "score_product",
		Description: "Score a single product text against a query with the deterministic rule-based scorer",
	}, s.handleScore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_index",
		Description: "Remove all indexed products",
	}, s.handleClear)
}

// handleMatch handles the match_products tool invocation.
func (s *Server) handleMatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MatchInput,
) (*mcp.CallToolResult, MatchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	result, err := s.ports.Match.Match(ctx, input.Query)
	if err != nil {
		return nil, MatchOutput{}, err
	}

	matches := result.Matches
	if len(matches) > limit {
		matches = matches[:limit]
	}

	output := MatchOutput{
		Matches:             make([]MatchEntry, len(matches)),
		Reasoning:           result.Reasoning,
		RetrievedChunkCount: result.RetrievedChunkCount,
	}
	for i := range matches {
		output.Matches[i] = MatchEntry{
			ProductID:  matches[i].ProductID,
			Title:      matches[i].Title,
			Brand:      matches[i].Brand,
			Price:      matches[i].Price,
			LinkURL:    matches[i].LinkURL,
			Confidence: matches[i].Confidence,
			Reason:     matches[i].Reason,
		}
	}

	return nil, output, nil
}

// handleIndex handles the index_capture tool invocation.
func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	products, err := capture.ReadDir(input.Path)
	if err != nil {
		// A plain file is as valid as a directory.
		products, err = capture.ReadFile(input.Path)
		if err != nil {
			return nil, IndexOutput{}, err
		}
	}

	stats, err := s.ports.Index.IndexProducts(ctx, products)
	if err != nil {
		return nil, IndexOutput{}, err
	}

	return nil, IndexOutput{
		ProductCount: stats.ProductCount,
		ChunkCount:   stats.ChunkCount,
	}, nil
}

// handleScore handles the score_product tool invocation.
func (s *Server) handleScore(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ScoreInput,
) (*mcp.CallToolResult, ScoreOutput, error) {
	score := s.ports.Score.Score(input.ProductText, input.Query)
	return nil, ScoreOutput{Score: score}, nil
}

// handleClear handles the clear_index tool invocation.
func (s *Server) handleClear(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ClearOutput, error) {
	if err := s.ports.Index.Clear(ctx); err != nil {
		return nil, ClearOutput{}, err
	}
	return nil, ClearOutput{Cleared: true}, nil
}
