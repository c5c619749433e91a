// Package tui renders a FormController as an interactive terminal form.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Reset  key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down", "enter"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// statusMsg carries a status transition observed on the form
type statusMsg types.SubmitStatus

// submitDoneMsg is the result of Submit
type submitDoneMsg struct {
	status types.SubmitStatus
	err    error
}

// Model is the bubbletea model of one form. Image fields take either
// comma-separated URLs or "@path,path" to stage local files.
type Model struct {
	ctx      context.Context
	form     *usecase.FormController
	statusCh <-chan types.SubmitStatus
	readFile func(string) ([]byte, error)

	fields []config.FieldDefinition
	inputs []textinput.Model
	focus  int

	status  types.SubmitStatus
	message string
	keys    keyMap

	cancelled bool
	quitting  bool
}

type ModelOption func(*Model)

// WithFileReader replaces os.ReadFile for staged image paths
func WithFileReader(fn func(string) ([]byte, error)) ModelOption {
	return func(m *Model) {
		m.readFile = fn
	}
}

// NewModel builds the form view. statusCh delivers transitions reported by
// the form's observer; it may be nil.
func NewModel(ctx context.Context, form *usecase.FormController, statusCh <-chan types.SubmitStatus, opts ...ModelOption) *Model {
	m := &Model{
		ctx:      ctx,
		form:     form,
		statusCh: statusCh,
		readFile: os.ReadFile,
		fields:   form.Schema().Fields,
		status:   form.Status(),
		keys:     defaultKeyMap(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 1024
		in.Placeholder = placeholder(f)
		if f.ID == "password" {
			in.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = in
	}
	m.syncInputs()
	m.inputs[0].Focus()
	return m
}

// Cancelled reports whether the user left with Cancel
func (m *Model) Cancelled() bool { return m.cancelled }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForStatus())
}

func (m *Model) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	return func() tea.Msg {
		status, ok := <-m.statusCh
		if !ok {
			return nil
		}
		return statusMsg(status)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = types.SubmitStatus(msg)
		// the auto-reset after a success lands here
		if m.status == types.SubmitStatusIdle {
			m.syncInputs()
		}
		return m, m.waitForStatus()

	case submitDoneMsg:
		m.status = msg.status
		m.message = ""
		if msg.err != nil {
			m.message = msg.err.Error()
		}
		if n := m.form.Notice(); n != nil {
			m.message = n.Message
		}
		if msg.status == types.SubmitStatusSucceeded {
			m.syncInputs()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Cancel):
			if err := m.form.Cancel(); err != nil {
				m.message = err.Error()
				return m, nil
			}
			m.cancelled = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			m.applyAll()
			return m, m.submit()

		case key.Matches(msg, m.keys.Reset):
			if err := m.form.Reset(); err != nil {
				m.message = err.Error()
				return m, nil
			}
			m.message = ""
			m.status = m.form.Status()
			m.syncInputs()
			return m, nil

		case key.Matches(msg, m.keys.Next):
			m.move(1)
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.move(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	ctx, form := m.ctx, m.form
	return func() tea.Msg {
		status, err := form.Submit(ctx)
		return submitDoneMsg{status: status, err: err}
	}
}

// move applies the focused input and focuses the next one
func (m *Model) move(delta int) {
	m.apply(m.focus)
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *Model) applyAll() {
	for i := range m.fields {
		m.apply(i)
	}
}

// apply writes input i into the form
func (m *Model) apply(i int) {
	f := m.fields[i]
	value := strings.TrimSpace(m.inputs[i].Value())

	if f.Type != types.FieldTypeImage {
		if value == m.form.Record().String(f.ID) {
			return
		}
		if err := m.form.Set(f.ID, value); err != nil {
			m.message = err.Error()
		}
		m.status = m.form.Status()
		return
	}

	if paths, ok := strings.CutPrefix(value, "@"); ok {
		inputs, err := m.loadFiles(paths)
		if err != nil {
			m.message = err.Error()
			return
		}
		if _, err := m.form.StageFiles(f.ID, inputs); err != nil {
			m.message = err.Error()
			return
		}
		m.inputs[i].SetValue("")
		m.status = m.form.Status()
		return
	}

	ref := m.form.Images()[f.ID]
	if value == "" {
		// staged files stay until they are replaced by URLs or cleared with "-"
		if ref.Kind() == types.ImageRefRemote {
			m.report(m.form.ClearImage(f.ID))
		}
		return
	}
	if value == "-" {
		m.report(m.form.ClearImage(f.ID))
		m.inputs[i].SetValue("")
		return
	}
	urls := splitList(value)
	if ref.Kind() == types.ImageRefRemote && strings.Join(ref.URLs(), ",") == strings.Join(urls, ",") {
		return
	}
	m.report(m.form.SetRemoteImage(f.ID, urls...))
}

func (m *Model) report(err error) {
	if err != nil {
		m.message = err.Error()
	}
	m.status = m.form.Status()
}

func (m *Model) loadFiles(paths string) ([]model.FileInput, error) {
	var inputs []model.FileInput
	for _, p := range splitList(paths) {
		data, err := m.readFile(p)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read file", goerr.V("path", p))
		}
		inputs = append(inputs, model.FileInput{Name: filepath.Base(p), Data: data})
	}
	return inputs, nil
}

// syncInputs copies the form's values into the inputs
func (m *Model) syncInputs() {
	record := m.form.Record()
	images := m.form.Images()
	for i, f := range m.fields {
		if f.Type == types.FieldTypeImage {
			ref := images[f.ID]
			if ref.Kind() == types.ImageRefRemote {
				m.inputs[i].SetValue(strings.Join(ref.URLs(), ", "))
			} else {
				m.inputs[i].SetValue("")
			}
			continue
		}
		m.inputs[i].SetValue(record.String(f.ID))
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	schema := m.form.Schema()
	title := fmt.Sprintf("%s %s", modeTitle(m.form.Mode()), schema.Title)
	if id := m.form.RecordID(); id != "" {
		title += " (" + id + ")"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	errs := m.form.Errors()
	files := m.form.Files()
	for i, f := range m.fields {
		label := f.Label
		if f.Required || (f.RequiredOnCreate && m.form.Mode() == types.FormModeCreate) {
			label += " *"
		}
		style := labelStyle
		if i == m.focus {
			style = focusStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")

		for _, sf := range files {
			if sf.Field() == f.ID {
				b.WriteString(fileStyle.Render(fmt.Sprintf("staged: %s (%s)", sf.Name(), sf.MimeType())))
				b.WriteString("\n")
			}
		}
		if msg := errs.Get(f.ID); msg != "" {
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString(statusStyle.Render("status: " + m.status.String()))
	b.WriteString("\n")
	if m.message != "" {
		style := failureStyle
		if m.status == types.SubmitStatusSucceeded {
			style = successStyle
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(helpLine(m.keys)))
	b.WriteString("\n")
	return b.String()
}

func helpLine(k keyMap) string {
	bindings := []key.Binding{k.Next, k.Prev, k.Submit, k.Reset, k.Cancel, k.Quit}
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, " · ")
}

func placeholder(f config.FieldDefinition) string {
	switch f.Type {
	case types.FieldTypeDate:
		return "YYYY-MM-DD"
	case types.FieldTypeTime:
		return "HH:MM"
	case types.FieldTypeEnum:
		return strings.Join(f.Options, " | ")
	case types.FieldTypeImage:
		return "https://... or @./file.png"
	case types.FieldTypePrice:
		return "0.00"
	}
	return ""
}

func modeTitle(mode types.FormMode) string {
	if mode == types.FormModeEdit {
		return "Edit"
	}
	return "Add"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Run opens a form for resource (edit mode when id is set) and drives it
// until the user leaves. The form is disposed on return.
func Run(ctx context.Context, uc *usecase.UseCases, resource types.Resource, id string, opts ...tea.ProgramOption) error {
	statusCh := make(chan types.SubmitStatus, 16)
	observer := usecase.WithObserver(func(s types.SubmitStatus) {
		select {
		case statusCh <- s:
		default:
		}
	})

	var (
		form *usecase.FormController
		err  error
	)
	if id == "" {
		form, err = uc.NewForm(resource, observer)
	} else {
		form, err = uc.OpenForm(ctx, resource, id, observer)
	}
	if err != nil {
		return err
	}
	defer form.Dispose()

	if _, err := tea.NewProgram(NewModel(ctx, form, statusCh), opts...).Run(); err != nil {
		return goerr.Wrap(err, "form UI failed", goerr.V(model.ResourceKey, resource))
	}
	return nil
}
