// Package translation fills in English and Russian translations of
// headwords and meanings.
//
// Three backends implement the Translator interface: HTTPClient posts the
// request to a translator web service, OpenAIClient and GeminiClient ask a
// chat model for the same JSON answer. Cache keeps answers for the
// duration of a batch run.
package translation
