package renom

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Header prints a section title preceded by an empty line.
func (p *Printer) Header(text string) {
	fmt.Fprintf(p.out, "\n%s %s %s\n", headerStyle.Render("["), text, headerStyle.Render("]"))
}

func (p *Printer) Basic(text string) {
	fmt.Fprintln(p.out, text)
}

func (p *Printer) Step(process string, text fmt.Stringer) {
	fmt.Fprintf(p.out, "%s %s %s %s\n", stepStyle.Render("("), process, stepStyle.Render(")"), text)
}

func (p *Printer) Success(text string) {
	fmt.Fprintf(p.out, "\n\t[ Success ]\n\t%s\n\n", successStyle.Render(text))
}

func (p *Printer) Error(text string) {
	fmt.Fprintf(p.out, "\n\t[ Error ]\n\t%s\n\n", errorStyle.Render(text))
}
