// ABOUTME: Wire protocol shared by the resume server and the terminal client
// ABOUTME: Method names plus JSON params and results for each JSON-RPC call

package protocol

import "time"

const (
	MethodListResumes  = "resumes/list"
	MethodSetPrimary   = "resumes/setPrimary"
	MethodDeleteResume = "resumes/delete"
	MethodUpload       = "resumes/upload"
	MethodSignIn       = "users/signIn"
	MethodGetUser      = "users/get"
)

// Methods lists every method the server answers.
var Methods = []string{
	MethodListResumes,
	MethodSetPrimary,
	MethodDeleteResume,
	MethodUpload,
	MethodSignIn,
	MethodGetUser,
}

type Resume struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	FileURL   string    `json:"fileUrl"`
	IsPrimary bool      `json:"isPrimary"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type ListResumesParams struct {
	UserID string `json:"userId"`
}

type ListResumesResult struct {
	Resumes []Resume `json:"resumes"`
}

// ResumeParams addresses one resume of one user (setPrimary, delete).
type ResumeParams struct {
	ResumeID string `json:"resumeId"`
	UserID   string `json:"userId"`
}

type SuccessResult struct {
	Success bool `json:"success"`
}

type UploadParams struct {
	UserID         string `json:"userId"`
	FileName       string `json:"fileName"`
	JobDescription string `json:"jobDescription"`
	ContentBase64  string `json:"contentBase64"`
}

type UploadResult struct {
	Resume Resume `json:"resume"`
}

type SignInParams struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type GetUserParams struct {
	UserID string `json:"userId"`
}

type UserResult struct {
	User User `json:"user"`
}
