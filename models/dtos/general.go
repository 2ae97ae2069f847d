package dtos

import "time"

// -- generalized error response models

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}

type GeneralError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}
