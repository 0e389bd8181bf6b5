// Package middleware wraps a provideradapter.Adapter with cross-cutting
// behavior that the LLM Request Layer and Session Loop shouldn't need to
// know about: default request parameters, reasoning extraction, JSON
// cleanup, and simulated streaming for adapters whose streaming path
// doesn't carry everything the non-streaming path does.
//
// Grounded on the teacher's pkg/middleware package, re-targeted from its
// provider.LanguageModel (GenerateOptions/GenerateResult/TextStream) onto
// this runtime's provideradapter.Adapter (CanonicalRequest/
// CanonicalResponse/provideradapter.Stream):
//
//	adapter := middleware.Wrap(baseAdapter, []*middleware.AdapterMiddleware{
//		middleware.DefaultSettingsMiddleware(types.CanonicalRequest{
//			Temperature: floatPtr(0.7),
//		}),
//	})
package middleware
