// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package drive

import (
	"context"
	"net/http"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
)

// DefaultScopes are requested when NewGoogleClient is called without
// scopes. Read access is enough to list, download and export.
var DefaultScopes = []string{gdrive.DriveReadonlyScope}

// NewGoogleClient returns an HTTP client authorized as the service
// account whose JSON key is stored at path. The path may name any
// file supported by github.com/grailbio/base/file.
func NewGoogleClient(ctx context.Context, path string, scopes ...string) (*http.Client, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	key, err := file.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.E("drive: reading service account key", path, err)
	}
	conf, err := google.JWTConfigFromJSON(key, scopes...)
	if err != nil {
		return nil, errors.E(errors.Invalid, "drive: parsing service account key", path, err)
	}
	return conf.Client(ctx), nil
}

// Dial opens a session on the drive called name, authenticating with
// the service account key at credentials.
func Dial(ctx context.Context, credentials, name string) (*Session, error) {
	client, err := NewGoogleClient(ctx, credentials)
	if err != nil {
		return nil, err
	}
	store, err := NewGoogleStore(ctx, client)
	if err != nil {
		return nil, err
	}
	return Open(ctx, store, name)
}
