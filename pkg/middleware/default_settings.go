package middleware

import (
	"context"

	"github.com/digitallysavvy/go-ai/pkg/types"
)

// DefaultSettingsMiddleware returns an AdapterMiddleware that applies
// defaults to every request an adapter sees; any field the caller's
// request already sets takes precedence over defaults. Grounded on the
// teacher's DefaultSettingsMiddleware/mergeGenerateOptions, re-targeted
// from provider.GenerateOptions onto types.CanonicalRequest.
func DefaultSettingsMiddleware(defaults types.CanonicalRequest) *AdapterMiddleware {
	return &AdapterMiddleware{
		TransformRequest: func(ctx context.Context, req types.CanonicalRequest) (types.CanonicalRequest, error) {
			return mergeCanonicalRequest(defaults, req), nil
		},
	}
}

// mergeCanonicalRequest merges defaults into req, with req's own fields
// taking precedence wherever it sets one.
func mergeCanonicalRequest(defaults, req types.CanonicalRequest) types.CanonicalRequest {
	result := req

	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.ProviderHint == "" {
		result.ProviderHint = defaults.ProviderHint
	}
	if result.System == "" {
		result.System = defaults.System
	}
	if result.MaxTokens == nil {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.Temperature == nil {
		result.Temperature = defaults.Temperature
	}
	if result.TopP == nil {
		result.TopP = defaults.TopP
	}
	if result.Stop == nil {
		result.Stop = defaults.Stop
	}
	if result.ReasoningEffort == "" {
		result.ReasoningEffort = defaults.ReasoningEffort
	}
	if result.ResponseFormat == nil {
		result.ResponseFormat = defaults.ResponseFormat
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Tools == nil {
		result.Tools = defaults.Tools
	}
	if result.ToolChoice.Type == "" {
		result.ToolChoice = defaults.ToolChoice
	}

	if defaults.ProviderOptions != nil {
		merged := make(map[string]map[string]interface{}, len(defaults.ProviderOptions))
		for k, v := range defaults.ProviderOptions {
			merged[k] = v
		}
		for k, v := range req.ProviderOptions {
			merged[k] = v
		}
		result.ProviderOptions = merged
	}

	return result
}
