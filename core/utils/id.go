package utils

import (
	"fmt"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short URL-safe identifier.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// EventSlug builds a shareable slug from an event name, with a short random
// suffix so two events with the same name stay distinct.
func EventSlug(name string) string {
	return fmt.Sprintf("%s-%s", slug.Make(name), GenerateID())
}
