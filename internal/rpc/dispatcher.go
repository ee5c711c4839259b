// ABOUTME: JSON-RPC dispatcher for the resume service
// ABOUTME: Decodes params, calls the resume manager and maps domain errors to RPC errors

package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/harper/resumedeck/internal/db"
	"github.com/harper/resumedeck/internal/documents"
	"github.com/harper/resumedeck/internal/errors"
	"github.com/harper/resumedeck/internal/jsonrpc"
	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/protocol"
	"github.com/harper/resumedeck/internal/resumes"
)

// Service is the business API the dispatcher exposes; *resumes.Manager implements it.
type Service interface {
	List(ctx context.Context, userID string) ([]resumes.Resume, error)
	SetPrimary(ctx context.Context, resumeID, userID string) error
	Delete(ctx context.Context, resumeID, userID string) error
	Upload(ctx context.Context, req resumes.UploadRequest) (resumes.Resume, error)
	SignIn(ctx context.Context, email, displayName, avatarURL string) (db.User, error)
	GetUser(ctx context.Context, userID string) (db.User, error)
}

var log = logger.Named("rpc")

type Dispatcher struct {
	svc Service
}

func NewDispatcher(svc Service) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// HandleMessage decodes a raw message and dispatches it.
// It returns nil for notifications, which get no response.
func (d *Dispatcher) HandleMessage(ctx context.Context, data []byte) *jsonrpc.Response {
	var req jsonrpc.Request
	if err := json.Unmarshal(data, &req); err != nil {
		resp := jsonrpc.NewErrorResponse(nil, errors.NewParseError(err.Error()))
		return &resp
	}
	if req.ID == nil {
		if req.Method != "" {
			d.Handle(ctx, req)
		}
		return nil
	}
	resp := d.Handle(ctx, req)
	return &resp
}

func (d *Dispatcher) Handle(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	if req.JSONRPC != jsonrpc.Version || req.Method == "" {
		return jsonrpc.NewErrorResponse(req.ID, errors.NewInvalidRequestError(
			fmt.Sprintf("jsonrpc=%q method=%q", req.JSONRPC, req.Method)))
	}

	result, rpcErr := d.dispatch(ctx, req)
	if rpcErr != nil {
		log.Debug("%s failed: %s", req.Method, rpcErr.Message)
		return jsonrpc.NewErrorResponse(req.ID, rpcErr)
	}
	return jsonrpc.NewResult(req.ID, result)
}

func decode(raw json.RawMessage, v interface{}, param, expected string) *jsonrpc.Error {
	if len(raw) == 0 {
		return errors.NewInvalidParamsError(param, expected, "missing params")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.NewInvalidParamsError(param, expected, err.Error())
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case protocol.MethodListResumes:
		var p protocol.ListResumesParams
		if rpcErr := decode(req.Params, &p, "userId", "string"); rpcErr != nil {
			return nil, rpcErr
		}
		list, err := d.svc.List(ctx, p.UserID)
		if err != nil {
			return nil, mapError(err, "", p.UserID, "")
		}
		out := protocol.ListResumesResult{Resumes: make([]protocol.Resume, 0, len(list))}
		for _, r := range list {
			out.Resumes = append(out.Resumes, toWire(r))
		}
		return out, nil

	case protocol.MethodSetPrimary:
		var p protocol.ResumeParams
		if rpcErr := decode(req.Params, &p, "resumeId and userId", "strings"); rpcErr != nil {
			return nil, rpcErr
		}
		if err := d.svc.SetPrimary(ctx, p.ResumeID, p.UserID); err != nil {
			return nil, mapError(err, p.ResumeID, p.UserID, "")
		}
		return protocol.SuccessResult{Success: true}, nil

	case protocol.MethodDeleteResume:
		var p protocol.ResumeParams
		if rpcErr := decode(req.Params, &p, "resumeId and userId", "strings"); rpcErr != nil {
			return nil, rpcErr
		}
		if err := d.svc.Delete(ctx, p.ResumeID, p.UserID); err != nil {
			return nil, mapError(err, p.ResumeID, p.UserID, "")
		}
		return protocol.SuccessResult{Success: true}, nil

	case protocol.MethodUpload:
		var p protocol.UploadParams
		if rpcErr := decode(req.Params, &p, "contentBase64", "base64 string"); rpcErr != nil {
			return nil, rpcErr
		}
		data, err := base64.StdEncoding.DecodeString(p.ContentBase64)
		if err != nil {
			return nil, errors.NewInvalidParamsError("contentBase64", "base64 string", err.Error())
		}
		r, err := d.svc.Upload(ctx, resumes.UploadRequest{
			UserID:         p.UserID,
			FileName:       p.FileName,
			JobDescription: p.JobDescription,
			Data:           data,
		})
		if err != nil {
			return nil, mapError(err, "", p.UserID, p.FileName)
		}
		return protocol.UploadResult{Resume: toWire(r)}, nil

	case protocol.MethodSignIn:
		var p protocol.SignInParams
		if rpcErr := decode(req.Params, &p, "email", "string"); rpcErr != nil {
			return nil, rpcErr
		}
		u, err := d.svc.SignIn(ctx, p.Email, p.DisplayName, p.AvatarURL)
		if err != nil {
			return nil, mapError(err, "", "", "")
		}
		return protocol.UserResult{User: userToWire(u)}, nil

	case protocol.MethodGetUser:
		var p protocol.GetUserParams
		if rpcErr := decode(req.Params, &p, "userId", "string"); rpcErr != nil {
			return nil, rpcErr
		}
		u, err := d.svc.GetUser(ctx, p.UserID)
		if err != nil {
			return nil, mapError(err, "", p.UserID, "")
		}
		return protocol.UserResult{User: userToWire(u)}, nil

	default:
		return nil, errors.NewMethodNotFoundError(req.Method)
	}
}

func mapError(err error, resumeID, userID, fileName string) *jsonrpc.Error {
	switch {
	case stderrors.Is(err, resumes.ErrNotFound):
		return errors.NewResumeNotFoundError(resumeID, userID)
	case stderrors.Is(err, resumes.ErrUserNotFound):
		return errors.NewUserNotFoundError(userID)
	case stderrors.Is(err, resumes.ErrInvalidArgument):
		return errors.NewInvalidParamsError("params", "non-empty values", err.Error())
	case stderrors.Is(err, documents.ErrUnsupportedType),
		stderrors.Is(err, documents.ErrInvalidContent),
		stderrors.Is(err, documents.ErrTooLarge),
		stderrors.Is(err, documents.ErrEmpty):
		return errors.NewUnsupportedFileError(fileName, err.Error())
	default:
		log.Error("internal error: %v", err)
		return errors.NewInternalError(err.Error())
	}
}

func toWire(r resumes.Resume) protocol.Resume {
	return protocol.Resume{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		FileURL:   r.FileURL,
		IsPrimary: r.IsPrimary,
	}
}

func userToWire(u db.User) protocol.User {
	return protocol.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}
