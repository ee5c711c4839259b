// ABOUTME: Actionable JSON-RPC errors for the resume service
// ABOUTME: Each error carries an explanation, likely causes and suggested actions

package errors

import (
	"encoding/json"
	"fmt"

	"github.com/harper/resumedeck/internal/jsonrpc"
	"github.com/harper/resumedeck/internal/logger"
)

// ErrorData is the structured payload attached to every JSON-RPC error.
type ErrorData struct {
	ErrorType        string                 `json:"error_type"`
	Explanation      string                 `json:"explanation"`
	PossibleCauses   []string               `json:"possible_causes,omitempty"`
	SuggestedActions []string               `json:"suggested_actions,omitempty"`
	RelevantState    map[string]interface{} `json:"relevant_state,omitempty"`
	Recoverable      bool                   `json:"recoverable"`
	Details          string                 `json:"details,omitempty"`
}

func build(code int, message string, data ErrorData) *jsonrpc.Error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		logger.Warn("failed to marshal error data: %v", err)
		dataBytes = []byte("{}")
	}
	return &jsonrpc.Error{Code: code, Message: message, Data: dataBytes}
}

// Decode extracts the structured payload of an error produced by this package.
func Decode(rpcErr *jsonrpc.Error) (ErrorData, bool) {
	var data ErrorData
	if rpcErr == nil || len(rpcErr.Data) == 0 {
		return data, false
	}
	if err := json.Unmarshal(rpcErr.Data, &data); err != nil {
		return data, false
	}
	return data, data.ErrorType != ""
}

func NewResumeNotFoundError(resumeID, userID string) *jsonrpc.Error {
	return build(jsonrpc.NotFound,
		fmt.Sprintf("Resume '%s' does not exist for this user.", resumeID),
		ErrorData{
			ErrorType:   "resume_not_found",
			Explanation: "The resume id does not match any resume owned by the requesting user.",
			PossibleCauses: []string{
				"The resume was deleted from another client",
				"The resume belongs to a different user",
				"The client list is stale",
			},
			SuggestedActions: []string{
				"Refresh the resume list with resumes/list",
			},
			RelevantState: map[string]interface{}{
				"resume_id": resumeID,
				"user_id":   userID,
			},
			Recoverable: true,
		})
}

func NewUserNotFoundError(userID string) *jsonrpc.Error {
	return build(jsonrpc.Unauthenticated,
		fmt.Sprintf("User '%s' is not known to the resume service.", userID),
		ErrorData{
			ErrorType:   "user_not_found",
			Explanation: "Requests must name a user created through users/signIn.",
			SuggestedActions: []string{
				"Sign in again with users/signIn",
			},
			RelevantState: map[string]interface{}{"user_id": userID},
			Recoverable:   true,
		})
}

func NewUnsupportedFileError(fileName, details string) *jsonrpc.Error {
	return build(jsonrpc.Unsupported,
		fmt.Sprintf("File '%s' was rejected: %s", fileName, details),
		ErrorData{
			ErrorType:   "unsupported_file",
			Explanation: "Only PDF, DOC, DOCX and ODT documents within the size limit are accepted.",
			PossibleCauses: []string{
				"The file extension is not .pdf, .doc, .docx or .odt",
				"The document is corrupt or password protected",
				"The file exceeds the upload size limit",
			},
			SuggestedActions: []string{
				"Export the resume as PDF and upload again",
			},
			RelevantState: map[string]interface{}{"file_name": fileName},
			Recoverable:   true,
			Details:       details,
		})
}

func NewInvalidParamsError(paramName string, expectedType string, receivedValue string) *jsonrpc.Error {
	return build(jsonrpc.InvalidParams,
		fmt.Sprintf("The parameter '%s' has the wrong type or is missing. Expected %s, got: %s", paramName, expectedType, receivedValue),
		ErrorData{
			ErrorType:   "invalid_params",
			Explanation: "The request params do not match the method's schema.",
			SuggestedActions: []string{
				fmt.Sprintf("Send '%s' as %s", paramName, expectedType),
			},
			RelevantState: map[string]interface{}{
				"param":    paramName,
				"expected": expectedType,
				"received": receivedValue,
			},
			Recoverable: true,
		})
}

func NewParseError(details string) *jsonrpc.Error {
	return build(jsonrpc.ParseError,
		"The request body is not valid JSON.",
		ErrorData{
			ErrorType:   "parse_error",
			Explanation: "The message could not be decoded as a JSON-RPC 2.0 request.",
			SuggestedActions: []string{
				"Validate the JSON before sending",
			},
			Recoverable: true,
			Details:     details,
		})
}

func NewInvalidRequestError(details string) *jsonrpc.Error {
	return build(jsonrpc.InvalidRequest,
		"The request is not a valid JSON-RPC 2.0 request.",
		ErrorData{
			ErrorType:   "invalid_request",
			Explanation: "Requests need jsonrpc=\"2.0\", a method and an id.",
			Recoverable: true,
			Details:     details,
		})
}

func NewMethodNotFoundError(methodName string) *jsonrpc.Error {
	return build(jsonrpc.MethodNotFound,
		fmt.Sprintf("The method '%s' is not supported by the resume service.", methodName),
		ErrorData{
			ErrorType:   "method_not_found",
			Explanation: "Supported methods: resumes/list, resumes/setPrimary, resumes/delete, resumes/upload, users/signIn, users/get.",
			RelevantState: map[string]interface{}{
				"method": methodName,
			},
			Recoverable: false,
		})
}

func NewInternalError(details string) *jsonrpc.Error {
	return build(jsonrpc.InternalError,
		"The resume service failed while handling the request.",
		ErrorData{
			ErrorType:   "internal_error",
			Explanation: "A storage or database operation failed on the server.",
			PossibleCauses: []string{
				"The database file is locked or unwritable",
				"The object store is unreachable",
			},
			SuggestedActions: []string{
				"Retry the operation",
				"Check the server logs",
			},
			Recoverable: true,
			Details:     details,
		})
}
