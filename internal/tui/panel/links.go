// ABOUTME: Primary navigation links shown in the sidebar
// ABOUTME: A link is active only when the current path matches exactly

package panel

type Link struct {
	Label  string
	Path   string
	Icon   string
	Active bool
}

var navLinks = []Link{
	{Label: "Home", Path: "/dashboard", Icon: "⌂"},
	{Label: "Resume Optimizer", Path: "/resume/optimize", Icon: "✎"},
	{Label: "Interview Prep", Path: "/interview-prep", Icon: "?"},
	{Label: "Cover Letter", Path: "/cover-letter", Icon: "✉"},
	{Label: "Community", Path: "/community", Icon: "☺"},
}

// HomePath is where the client starts.
const HomePath = "/dashboard"

// Links returns the nav links with Active set for current.
func Links(current string) []Link {
	out := make([]Link, len(navLinks))
	for i, l := range navLinks {
		l.Active = l.Path == current
		out[i] = l
	}
	return out
}
