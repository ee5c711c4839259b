// ABOUTME: Upload form modal collecting a resume file path and a job description
// ABOUTME: Wraps bubbles textinput and textarea and emits UploadSubmitMsg when ready
package components

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/resumedeck/internal/documents"
	"github.com/harper/resumedeck/internal/tui/theme"
)

const jobDescriptionPlaceholder = "Paste job description here..."

// UploadSubmitMsg is emitted when the form is submitted.
type UploadSubmitMsg struct {
	File           string
	JobDescription string
}

// UploadCancelMsg is emitted when the form is dismissed.
type UploadCancelMsg struct{}

type uploadField int

const (
	fieldFile uploadField = iota
	fieldJobDescription
)

type UploadForm struct {
	width   int
	height  int
	theme   theme.Theme
	visible bool

	file       textinput.Model
	jobDesc    textarea.Model
	focus      uploadField
	submitting bool
	err        string
}

func NewUploadForm(width, height int, th theme.Theme) *UploadForm {
	ti := textinput.New()
	ti.Placeholder = "path/to/resume.pdf"
	ti.Prompt = "› "
	ti.CharLimit = 1024

	ta := textarea.New()
	ta.Placeholder = jobDescriptionPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	f := &UploadForm{width: width, height: height, theme: th, file: ti, jobDesc: ta}
	f.SetSize(width, height)
	return f
}

func (f *UploadForm) SetSize(width, height int) {
	f.width = width
	f.height = height
	inner := f.modalWidth() - 6
	if inner < 10 {
		inner = 10
	}
	f.file.Width = inner - 2
	f.jobDesc.SetWidth(inner)
	f.jobDesc.SetHeight(6)
}

func (f *UploadForm) modalWidth() int {
	w := 64
	if w > f.width-4 {
		w = f.width - 4
	}
	return w
}

// Open shows an empty form with the file field focused.
func (f *UploadForm) Open() tea.Cmd {
	f.visible = true
	f.submitting = false
	f.err = ""
	f.file.Reset()
	f.jobDesc.Reset()
	f.focus = fieldFile
	f.jobDesc.Blur()
	return f.file.Focus()
}

func (f *UploadForm) Close() {
	f.visible = false
	f.file.Blur()
	f.jobDesc.Blur()
}

func (f *UploadForm) IsVisible() bool {
	return f.visible
}

func (f *UploadForm) File() string {
	return strings.TrimSpace(f.file.Value())
}

func (f *UploadForm) JobDescription() string {
	return f.jobDesc.Value()
}

// SetFile and SetJobDescription fill the fields directly.
func (f *UploadForm) SetFile(path string) {
	f.file.SetValue(path)
}

func (f *UploadForm) SetJobDescription(text string) {
	f.jobDesc.SetValue(text)
}

// CanSubmit requires a file, a non-blank job description and no submission
// in flight.
func (f *UploadForm) CanSubmit() bool {
	return !f.submitting && f.File() != "" && strings.TrimSpace(f.JobDescription()) != ""
}

func (f *UploadForm) Submitting() bool {
	return f.submitting
}

// Done ends the in-flight submission. A non-nil error keeps the form open.
func (f *UploadForm) Done(err error) {
	f.submitting = false
	if err != nil {
		f.err = err.Error()
		return
	}
	f.Close()
}

func (f *UploadForm) validateFile() error {
	path := f.File()
	if !documents.Accepted(path) {
		return fmt.Errorf("unsupported file type %q (accepted: %s)",
			filepath.Ext(path), strings.Join(documents.Extensions(), ", "))
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func (f *UploadForm) submit() tea.Cmd {
	if !f.CanSubmit() {
		return nil
	}
	if err := f.validateFile(); err != nil {
		f.err = err.Error()
		return nil
	}
	f.err = ""
	f.submitting = true
	msg := UploadSubmitMsg{File: f.File(), JobDescription: f.JobDescription()}
	return func() tea.Msg { return msg }
}

func (f *UploadForm) toggleFocus() tea.Cmd {
	if f.focus == fieldFile {
		f.focus = fieldJobDescription
		f.file.Blur()
		return f.jobDesc.Focus()
	}
	f.focus = fieldFile
	f.jobDesc.Blur()
	return f.file.Focus()
}

func (f *UploadForm) Update(msg tea.Msg) tea.Cmd {
	if !f.visible {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if f.submitting {
		return nil
	}

	switch key.String() {
	case "esc":
		f.Close()
		return func() tea.Msg { return UploadCancelMsg{} }
	case "tab", "shift+tab":
		return f.toggleFocus()
	case "ctrl+s":
		return f.submit()
	case "enter":
		if f.focus == fieldFile {
			return f.toggleFocus()
		}
	}

	var cmd tea.Cmd
	if f.focus == fieldFile {
		f.file, cmd = f.file.Update(msg)
	} else {
		f.jobDesc, cmd = f.jobDesc.Update(msg)
	}
	return cmd
}

func (f *UploadForm) View() string {
	if !f.visible {
		return ""
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(f.theme.Primary)

	var b strings.Builder
	b.WriteString(label.Render("Upload Resume"))
	b.WriteString("\n")
	b.WriteString(f.file.View())
	b.WriteString("\n")
	b.WriteString(f.theme.DimStyle().Render("accepted: " + strings.Join(documents.Extensions(), ", ")))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Job Description"))
	b.WriteString("\n")
	b.WriteString(f.jobDesc.View())
	b.WriteString("\n\n")

	button := "[ Score Resume ]"
	switch {
	case f.submitting:
		button = f.theme.WarningStyle().Render("[ Scoring... ]")
	case f.CanSubmit():
		button = f.theme.SuccessStyle().Render(button)
	default:
		button = f.theme.DimStyle().Render(button)
	}
	b.WriteString(button)
	b.WriteString(f.theme.DimStyle().Render("  ctrl+s submit · tab switch · esc cancel"))

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(f.theme.ErrorStyle().Render(f.err))
	}

	modal := f.theme.ModalStyle().Width(f.modalWidth()).Render(b.String())
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, modal)
}
