package models

import (
	"net/http"
	"time"
)

// ResponseModel Base response structure that can be reused
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// EntryData wraps a single result in the "entry" field of a response
type EntryData struct {
	Entry interface{} `json:"entry"`
}

// ResponseCurrentTime returns the current time in Unix milliseconds
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}

// NewResponse creates a response envelope with the given code, data and text
func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     2,
	}
}

// NewEntryResponse creates an OK response holding a single entry
func NewEntryResponse(entry interface{}) ResponseModel {
	return NewResponse(http.StatusOK, EntryData{Entry: entry}, "OK")
}
