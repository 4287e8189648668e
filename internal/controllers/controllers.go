package controllers

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrGetLogs      = errors.New("failed to get game logs")
	ErrGetLog       = errors.New("failed to get game log")
	ErrSaveLog      = errors.New("failed to save game log")
	ErrUpdateReview = errors.New("failed to update review")
	ErrDeleteLog    = errors.New("failed to delete game log")
	ErrTimer        = errors.New("failed to toggle timer")
	ErrPlaytime     = errors.New("failed to update playtime")
	ErrDiscover     = errors.New("failed to query game catalog")
	ErrGetTheme     = errors.New("failed to get theme")
	ErrSaveTheme    = errors.New("failed to save theme")
	ErrUploadPhoto  = errors.New("failed to upload photo")
	ErrEncoding     = errors.New("failed to encode")
	ErrStreaming    = errors.New("streaming unsupported")
)
