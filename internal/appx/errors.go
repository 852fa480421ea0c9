package appx

import "errors"

var (
	ErrNotFound         = errors.New("appx: file not found")
	ErrInvalidContainer = errors.New("appx: not a valid package container")
	ErrPartNotFound     = errors.New("appx: part not found")
	ErrNoMainPackage    = errors.New("appx: bundle has no application package")
	ErrInvalidXML       = errors.New("appx: malformed xml")
)
