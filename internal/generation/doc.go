// Package generation defines the boundary between the wizard and the hosted
// LLM that writes the script packages. It owns the Generator interface, the
// error taxonomy every provider maps its failures onto, the structured-output
// schema sent with each request, and the decoder that checks a model reply
// against that schema.
//
// Provider adapters (Gemini, OpenAI) live under internal/platform and depend
// on this package; nothing here talks to the network.
package generation
