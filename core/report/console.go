// Package report prints staged progress, per-item failures and the final
// summary of a book build to the console.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Reporter receives pipeline events. Implementations must be safe for
// concurrent use: items may finish on several goroutines.
type Reporter interface {
	// Stage announces a new pipeline stage.
	Stage(msg string)
	// Info prints a plain informational line.
	Info(msg string)
	// Item reports one finished identifier; err is nil unless it failed.
	Item(done, total int, id, status string, err error)
	// Success prints the final positive outcome.
	Success(msg string)
	// Warn prints the final negative outcome.
	Warn(msg string)
}

var (
	stageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Console writes styled lines to out and failures to errOut.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	bar    progress.Model
}

// NewConsole creates a Console.
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func (c *Console) Stage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, stageStyle.Render("[*] "+msg))
}

func (c *Console) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

func (c *Console) Item(done, total int, id, status string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pct := 1.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	marker := "✓"
	if err != nil {
		marker = "✗"
	}
	fmt.Fprintf(c.out, "%s %s %s %s\n",
		c.bar.ViewAs(pct),
		mutedStyle.Render(fmt.Sprintf("[%d/%d]", done, total)),
		marker,
		id+" "+mutedStyle.Render("("+status+")"),
	)
	if err != nil {
		fmt.Fprintln(c.errOut, errorStyle.Render(fmt.Sprintf("  ✗ %s: %v", id, err)))
	}
}

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, successStyle.Render("[*] "+msg))
}

func (c *Console) Warn(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, warnStyle.Render("[!] "+msg))
}

// Nop discards every event.
type Nop struct{}

func (Nop) Stage(string) {}
func (Nop) Info(string) {}
func (Nop) Item(int, int, string, string, error) {}
func (Nop) Success(string) {}
func (Nop) Warn(string) {}

// Compile-time interface checks.
var (
	_ Reporter = (*Console)(nil)
	_ Reporter = Nop{}
)
