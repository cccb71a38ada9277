// Package models lists the OpenAI chat models the openai translator
// backend can use with the configured API key.
package models
