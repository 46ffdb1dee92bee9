package social

import (
	"strings"

	"golang.org/x/oauth2"
)

// Token wraps the raw oauth2 token with the scopes the provider actually
// granted, which may differ from the scopes requested.
type Token struct {
	*oauth2.Token
	GrantedScopes []string
}

func newToken(tok *oauth2.Token) *Token {
	scope, _ := tok.Extra("scope").(string)
	return &Token{Token: tok, GrantedScopes: splitScopes(scope)}
}

// splitScopes parses the scope field of a token response. The spec says
// space-delimited; GitHub joins with commas in practice, so both are
// accepted.
func splitScopes(scope string) []string {
	fields := strings.FieldsFunc(scope, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
