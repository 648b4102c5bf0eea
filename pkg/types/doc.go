// Package types defines the flashcard entity records (Card, Tag, Deck), their
// kind-tagged identifiers, storage configuration, and the error taxonomy
// shared by the in-memory store, the persistence codec and the CLI.
package types
