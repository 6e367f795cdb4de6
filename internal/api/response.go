package api

import (
	"errors"
	"net/http"

	"foliotrack/pkg/foliotrack"
)

// Response represents a successful API response with unified format.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// writeSuccess writes a successful response with data.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

// writeSuccessWithMessage writes a successful response with data and message.
func writeSuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// writeErrorResponse classifies an error and writes the matching status.
// Performance sentinels take priority: a missing ledger is 404 and an
// unusable price series or unreachable provider is 502.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var providerErr *foliotrack.PriceProviderError
	var structured *foliotrack.Error
	switch {
	case errors.Is(err, foliotrack.ErrNoData):
		httpStatus = http.StatusNotFound
		response.ErrorCode = string(foliotrack.ErrCodeNotFound)
	case errors.Is(err, foliotrack.ErrEmptySeries), errors.As(err, &providerErr):
		httpStatus = http.StatusBadGateway
	case errors.As(err, &structured):
		httpStatus = mapErrorCodeToHTTPStatus(structured.Code)
		response.ErrorCode = string(structured.Code)
	}
	response.Code = httpStatus

	writeJSON(w, httpStatus, response)
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code foliotrack.ErrorCode) int {
	switch code {
	case foliotrack.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case foliotrack.ErrCodeNotFound:
		return http.StatusNotFound
	case foliotrack.ErrCodeDuplicate:
		return http.StatusConflict
	case foliotrack.ErrCodeDatabase, foliotrack.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
