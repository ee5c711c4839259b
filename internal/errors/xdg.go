// ABOUTME: XDG path errors with actionable messaging
// ABOUTME: Used when the data or file-store directories cannot be created

package errors

import (
	"fmt"

	"github.com/harper/resumedeck/internal/jsonrpc"
)

type XDGPathError struct {
	Variable      string
	AttemptedPath string
	UnderlyingErr error
}

func NewXDGPathError(variable, path string, err error) *XDGPathError {
	return &XDGPathError{
		Variable:      variable,
		AttemptedPath: path,
		UnderlyingErr: err,
	}
}

func (e *XDGPathError) Error() string {
	return fmt.Sprintf("cannot create %s directory at %s: %v", e.Variable, e.AttemptedPath, e.UnderlyingErr)
}

func (e *XDGPathError) Unwrap() error {
	return e.UnderlyingErr
}

func (e *XDGPathError) ToJSONRPCError() *jsonrpc.Error {
	return build(jsonrpc.ServerError, e.Error(), ErrorData{
		ErrorType:   "xdg_path_error",
		Explanation: "Could not create the directories resumedeck stores its database and files in.",
		PossibleCauses: []string{
			"Insufficient permissions in parent directory",
			"Disk is full",
			"Path already exists as a file (not directory)",
		},
		SuggestedActions: []string{
			fmt.Sprintf("Check permissions: ls -ld %s", e.AttemptedPath),
			fmt.Sprintf("Manually create directory: mkdir -p %s", e.AttemptedPath),
		},
		RelevantState: map[string]interface{}{
			"variable":       e.Variable,
			"attempted_path": e.AttemptedPath,
			"error":          e.UnderlyingErr.Error(),
		},
		Recoverable: true,
	})
}
