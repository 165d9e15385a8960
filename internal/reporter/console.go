package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Console renders progress events as styled terminal lines.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) RunStarted(command string, batches [][]string) {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	c.printf("%s %s %s\n", cyan("▶"), bold(command),
		dim(fmt.Sprintf("(%d workspaces, %d batches)", total, len(batches))))
}

func (c *Console) BatchStarted(index, total int, members []string) {
	c.printf("%s %s\n", dim(fmt.Sprintf("batch %d/%d", index+1, total)), joinNames(members))
}

func (c *Console) TaskStarted(workspace, command string) {
	c.printf("  %s %s\n", dim("·"), workspace)
}

func (c *Console) TaskSucceeded(workspace string, duration time.Duration, noop bool) {
	if noop {
		c.printf("  %s %s %s\n", yellow("-"), workspace, dim("(no command)"))
		return
	}
	c.printf("  %s %s %s\n", green("✓"), workspace, dim(duration.Round(time.Millisecond).String()))
}

func (c *Console) TaskFailed(workspace string, duration time.Duration, err error) {
	c.printf("  %s %s %s\n    %s\n", red("✗"), workspace,
		dim(duration.Round(time.Millisecond).String()), red(err.Error()))
}

func (c *Console) RunFinished(command string, duration time.Duration, failed []string) {
	if len(failed) == 0 {
		c.printf("%s %s %s\n", green("✔"), bold(command),
			dim(duration.Round(time.Millisecond).String()))
		return
	}
	c.printf("%s %s failed for %s\n", red("✖"), bold(command), joinNames(failed))
}

func joinNames(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
