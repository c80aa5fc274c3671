// Package openai implements the ai interfaces against OpenAI-compatible
// services: embeddings via langchaingo, token counting via tiktoken.
// Relation extraction is delegated to the rule-based extractor in ai/rules,
// which needs no external service.
package openai
