package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Desktop shows reminders with notify-send on Linux and osascript on macOS.
// Other platforms have no route.
type Desktop struct {
	goos string
	run  commandRunner
}

func NewDesktop() *Desktop {
	return &Desktop{goos: runtime.GOOS, run: execRunner}
}

func (d *Desktop) Send(ctx context.Context, _ model.User, msg Message) error {
	var err error
	switch d.goos {
	case "linux":
		err = d.run(ctx, "notify-send", msg.Title, msg.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(msg.Body), escapeAppleScript(msg.Title))
		err = d.run(ctx, "osascript", "-e", script)
	default:
		return fmt.Errorf("%w: desktop notifications unsupported on %s", ErrNoRoute, d.goos)
	}
	if err != nil {
		return fmt.Errorf("%w: desktop: %v", ErrDispatch, err)
	}
	return nil
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
