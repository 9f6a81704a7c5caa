package model

import (
	"fmt"
	"strings"
)

// BookKey scopes a transaction log to one user's named book (profile).
type BookKey struct {
	UserID string `json:"user_id" db:"user_id"`
	Book   string `json:"book" db:"book"`
}

func (k BookKey) String() string {
	return k.UserID + "/" + k.Book
}

func (k BookKey) Valid() bool {
	return k.UserID != "" && k.Book != "" && !strings.Contains(k.UserID, "/")
}

func ParseBookKey(s string) (BookKey, error) {
	user, book, ok := strings.Cut(s, "/")
	if !ok {
		return BookKey{}, fmt.Errorf("invalid book key %q", s)
	}
	k := BookKey{UserID: user, Book: book}
	if !k.Valid() {
		return BookKey{}, fmt.Errorf("invalid book key %q", s)
	}
	return k, nil
}
