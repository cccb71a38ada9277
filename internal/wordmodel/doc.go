// Package wordmodel defines the source independent representation of a
// dictionary lookup. Both the Danish (DDO) and the Spanish (SpanishDict)
// pipelines produce a WordModel; the Anki export consumes it.
package wordmodel
