package models

import "errors"

var (
	ErrInternal               = errors.New("internal server error")
	ErrMethodNotAllowed       = errors.New("method not allowed")
	ErrNotAuthorized          = errors.New("not authorized")
	ErrInvalidParams          = errors.New("invalid params")
	ErrAlreadyExists          = errors.New("already exists")
	ErrCollectionNotFound     = errors.New("collection not found")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrVersionNotFound        = errors.New("document version not found")
	ErrUnknownPermissionLevel = errors.New("unknown permission level")
)
