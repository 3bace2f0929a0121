package model

import "time"

// StoredFile represents an uploaded or generated file held in the blob store.
// Name is the caller-supplied display name; Path is the storage key and is unique per file.
type StoredFile struct {
	ID          string    `json:"id"`
	Name        string    `json:"filename"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Format is a conversion target tag such as "docx" or "pdf".
type Format string

// ConversionResult is a converted file ready to be returned to the caller.
// Stub is true when the output is a renamed copy of the input rather than a real conversion.
type ConversionResult struct {
	File         StoredFile
	Format       Format
	MediaType    string
	DownloadName string
	Content      []byte
	Stub         bool
}

// FormatInfo describes one conversion target.
type FormatInfo struct {
	Format    Format `json:"format"`
	Extension string `json:"extension"`
	MediaType string `json:"media_type"`
	Input     string `json:"input"`
	Stub      bool   `json:"stub"`
}
