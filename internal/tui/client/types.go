// ABOUTME: Client-side resume and user records plus the collaborator interfaces
// ABOUTME: The sidebar depends only on these interfaces, never on the transport

package client

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Resume struct {
	ID        string
	Title     string
	CreatedAt time.Time
	FileURL   string
	IsPrimary bool
}

// User is the signed-in identity. Every field except ID may be empty.
type User struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

// AvatarGlyph stands in for an avatar image the terminal cannot draw.
const AvatarGlyph = "◉"

// Name returns the display name, or "User".
func (u *User) Name() string {
	if u == nil || strings.TrimSpace(u.DisplayName) == "" {
		return "User"
	}
	return strings.TrimSpace(u.DisplayName)
}

// Badge is the profile badge: avatar, then the name's initial, then the
// email's initial, then "U".
func (u *User) Badge() string {
	if u == nil {
		return "U"
	}
	if u.AvatarURL != "" {
		return AvatarGlyph
	}
	for _, s := range []string{u.DisplayName, u.Email} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(r))
	}
	return "U"
}

// ResumeService is the resume data collaborator. A nil error means success.
type ResumeService interface {
	ListResumes(ctx context.Context, userID string) ([]Resume, error)
	SetPrimary(ctx context.Context, resumeID, userID string) error
	DeleteResume(ctx context.Context, resumeID, userID string) error
}

type Uploader interface {
	UploadResume(ctx context.Context, userID, fileName string, data []byte, jobDescription string) (Resume, error)
}

// Directory resolves users on the server.
type Directory interface {
	SignIn(ctx context.Context, email, displayName, avatarURL string) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
}

// Auth is the authentication context.
type Auth interface {
	CurrentUser() *User
	SignOut(ctx context.Context) error
}

// Confirmer gates destructive actions behind a user decision about target.
type Confirmer interface {
	Confirm(ctx context.Context, prompt, target string) bool
}

type ConfirmFunc func(ctx context.Context, prompt, target string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt, target string) bool {
	return f(ctx, prompt, target)
}

// Opener hands a URL to the system (browser, PDF viewer).
type Opener interface {
	Open(url string) error
}
