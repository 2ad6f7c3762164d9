// Package domain contains the core entities of the script generator: the
// supported languages, topics and their preset categories, and the structured
// script package produced by one generation call. It is independent of the
// model provider and of the HTTP delivery mechanism.
package domain
