// Package credential defines the persisted OAuth2 credential and the closed set of
// error kinds shared by the credential stores and the auth session.
package credential

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Credential is the single persisted unit of trust for a local installation.
// Zero-valued metadata fields are omitted from the serialized record.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	Scope        string    `json:"scope,omitempty"`
}

// Empty reports whether the credential carries neither an access nor a refresh token.
func (c Credential) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Token converts the credential to an oauth2.Token.
func (c Credential) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
	if c.Scope != "" {
		tok = tok.WithExtra(map[string]any{"scope": c.Scope})
	}
	return tok
}

// FromToken builds a Credential from a token issued by the authorization server.
func FromToken(tok *oauth2.Token) Credential {
	if tok == nil {
		return Credential{}
	}

	c := Credential{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	switch scope := tok.Extra("scope").(type) {
	case string:
		c.Scope = scope
	case []any:
		parts := make([]string, 0, len(scope))
		for _, s := range scope {
			if str, ok := s.(string); ok {
				parts = append(parts, str)
			}
		}
		c.Scope = strings.Join(parts, " ")
	}
	return c
}
