package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StoryPanel is the workspace surface: a greeting row, the story text and
// save/load actions, plus a read-only line showing the last command result.
type StoryPanel struct {
	container   *fyne.Container
	NameEntry   *widget.Entry
	GreetButton *widget.Button
	StoryEntry  *widget.Entry
	SaveButton  *widget.Button
	LoadButton  *widget.Button
	resultLabel *widget.Label

	greetHandler func(string)
	saveHandler  func(string)
	loadHandler  func()
}

func NewStoryPanel() *StoryPanel {
	p := &StoryPanel{}

	p.NameEntry = widget.NewEntry()
	p.NameEntry.SetPlaceHolder("Your name")
	p.NameEntry.OnSubmitted = func(string) { p.onGreet() }
	p.GreetButton = widget.NewButton("Greet", p.onGreet)

	p.StoryEntry = widget.NewMultiLineEntry()
	p.StoryEntry.SetPlaceHolder("Once upon a time...")
	p.StoryEntry.Wrapping = fyne.TextWrapWord

	p.SaveButton = widget.NewButton("Save", p.onSave)
	p.SaveButton.Importance = widget.HighImportance
	p.LoadButton = widget.NewButton("Load", p.onLoad)

	p.resultLabel = widget.NewLabel("")
	p.resultLabel.Wrapping = fyne.TextWrapWord

	greetRow := container.NewBorder(nil, nil, nil, p.GreetButton, p.NameEntry)
	actions := container.NewHBox(p.SaveButton, p.LoadButton)

	p.container = container.NewBorder(
		container.NewVBox(greetRow, widget.NewSeparator()),
		container.NewVBox(actions, p.resultLabel),
		nil, nil,
		p.StoryEntry,
	)
	return p
}

func (p *StoryPanel) GetContainer() *fyne.Container {
	return p.container
}

func (p *StoryPanel) SetGreetHandler(handler func(string)) { p.greetHandler = handler }
func (p *StoryPanel) SetSaveHandler(handler func(string))  { p.saveHandler = handler }
func (p *StoryPanel) SetLoadHandler(handler func())        { p.loadHandler = handler }

func (p *StoryPanel) SetResult(text string) {
	p.resultLabel.SetText(text)
}

func (p *StoryPanel) Story() string {
	return p.StoryEntry.Text
}

func (p *StoryPanel) SetStory(text string) {
	p.StoryEntry.SetText(text)
}

func (p *StoryPanel) Result() string {
	return p.resultLabel.Text
}

func (p *StoryPanel) onGreet() {
	if p.greetHandler != nil {
		p.greetHandler(p.NameEntry.Text)
	}
}

func (p *StoryPanel) onSave() {
	if p.saveHandler != nil {
		p.saveHandler(p.StoryEntry.Text)
	}
}

func (p *StoryPanel) onLoad() {
	if p.loadHandler != nil {
		p.loadHandler()
	}
}
