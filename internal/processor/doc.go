// Package processor contains the core business logic for turning Danish
// and Spanish dictionary entries into flashcards. It orchestrates the
// lookup, the meaning selection, media downloads and Anki file
// generation, and serves as the main coordinator between all other
// components.
package processor
