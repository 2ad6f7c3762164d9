// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API for generating script packages.
//
// This package is an infrastructure adapter: it translates the provider-neutral
// prompt and schema from the generation package into a structured-output
// GenerateContent request, and maps the reply (or its failure) back onto the
// generation error taxonomy.
//
// The API client is created lazily on the first call. A missing API key is
// therefore not a startup error; it surfaces as generation.ErrMissingCredential
// when a script is requested, before any network traffic.
package gemini
