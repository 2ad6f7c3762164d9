// Package openaicompat implements generation.Generator on top of the OpenAI
// chat completions API, or any server that speaks it (llm.openai_base_url).
// The script schema is sent as a json_schema response format.
package openaicompat
