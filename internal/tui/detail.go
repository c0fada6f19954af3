package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mpbits/internal/format"
	"github.com/agbru/mpbits/internal/orchestration"
)

type detailTab int

const (
	tabOutput detailTab = iota
	tabRegisters
)

// DetailModel is a scrollable panel showing either script output or the
// registers each script left behind.
type DetailModel struct {
	view      viewport.Model
	tab       detailTab
	outputs   []string
	registers []string
	width     int
	height    int
}

// NewDetailModel creates an empty panel.
func NewDetailModel() DetailModel {
	return DetailModel{view: viewport.New(0, 0)}
}

// AddResult appends the output section of one script.
func (d *DetailModel) AddResult(r orchestration.ScriptResult) {
	head := titleStyle.Render(r.Name) + dimStyle.Render(fmt.Sprintf("  %d ops, %s",
		r.Instructions, format.FormatExecutionDuration(r.Duration)))
	body := strings.TrimRight(r.Output, "\n")
	if body == "" {
		body = dimStyle.Render("(no output)")
	}
	section := head + "\n" + body
	if r.Err != nil {
		section += "\n" + statusFailedStyle.Render("error: "+r.Err.Error())
	}
	d.outputs = append(d.outputs, section)
	d.refresh(tabOutput)
}

// AddRegisters appends the register section of one script.
func (d *DetailModel) AddRegisters(msg RegistersMsg) {
	head := titleStyle.Render(msg.Script)
	body := dimStyle.Render("(no registers)")
	if len(msg.Panels) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, msg.Panels...)
	}
	if msg.Hidden > 0 {
		body += "\n" + dimStyle.Render(fmt.Sprintf("... %d more registers", msg.Hidden))
	}
	d.registers = append(d.registers, head+"\n"+body)
	d.refresh(tabRegisters)
}

// AddError appends the deciding failure to the output tab.
func (d *DetailModel) AddError(msg ErrorMsg) {
	d.outputs = append(d.outputs, statusFailedStyle.Render(fmt.Sprintf("failed after %s: %v",
		format.FormatExecutionDuration(msg.Duration), msg.Err)))
	d.refresh(tabOutput)
}

// Switch toggles between the output and register tabs.
func (d *DetailModel) Switch() {
	if d.tab == tabOutput {
		d.tab = tabRegisters
	} else {
		d.tab = tabOutput
	}
	d.refresh(d.tab)
	d.view.GotoTop()
}

// Reset drops all content.
func (d *DetailModel) Reset() {
	d.outputs = nil
	d.registers = nil
	d.view.SetContent("")
	d.view.GotoTop()
}

// SetSize updates the panel dimensions.
func (d *DetailModel) SetSize(w, h int) {
	d.width = w
	d.height = h
	d.view.Width = max(w-4, 0)
	d.view.Height = max(h-3, 0)
	d.refresh(d.tab)
}

// Update scrolls the viewport.
func (d *DetailModel) Update(msg tea.Msg) {
	d.view, _ = d.view.Update(msg)
}

// refresh reloads the viewport when tab is the one on screen.
func (d *DetailModel) refresh(tab detailTab) {
	if tab != d.tab {
		return
	}
	sections := d.outputs
	if d.tab == tabRegisters {
		sections = d.registers
	}
	d.view.SetContent(strings.Join(sections, "\n\n"))
}

// View renders the panel.
func (d DetailModel) View() string {
	output, registers := dimStyle.Render("Output"), dimStyle.Render("Registers")
	if d.tab == tabOutput {
		output = titleStyle.Render("Output")
	} else {
		registers = titleStyle.Render("Registers")
	}
	tabs := output + dimStyle.Render(" │ ") + registers
	return activePanelStyle.
		Width(max(d.width-2, 0)).
		Height(max(d.height-2, 0)).
		Render(tabs + "\n" + d.view.View())
}
