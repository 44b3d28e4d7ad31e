package ollama

import (
	"context"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

// ListModels queries the inference server's tag catalog. Callers treat any
// error as "no models available right now" and degrade; this method only
// reports, it never papers over the failure.
func (c *Client) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	var response struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.getJSON(ctx, "/api/tags", &response, "list models"); err != nil {
		return nil, err
	}

	out := make([]domain.ModelInfo, 0, len(response.Models))
	for _, model := range response.Models {
		out = append(out, domain.ModelInfo{Name: model.Name})
	}
	return out, nil
}
