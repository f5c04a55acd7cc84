// Package open launches files and URLs with the platform's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/snapkit-cli/snapkit/constant"
)

// Start opens input with the default handler without waiting for it to exit.
func Start(input string) error {
	return StartWith(input, "")
}

// StartWith opens input with the named application, or the default handler when app is empty.
func StartWith(input, app string) error {
	cmd, err := Command(runtime.GOOS, input, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the command that opens input on goos.
func Command(goos, input, app string) (*exec.Cmd, error) {
	if app == "" {
		switch goos {
		case constant.Windows:
			rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
			return exec.Command(rundll, "url.dll,FileProtocolHandler", input), nil
		case constant.Darwin:
			return exec.Command("open", input), nil
		case constant.Linux:
			return exec.Command("xdg-open", input), nil
		case constant.Android:
			return exec.Command("termux-open", input), nil
		}
	} else {
		switch goos {
		case constant.Windows:
			// cmd's start treats & as a separator
			escaped := strings.ReplaceAll(input, "&", "^&")
			return exec.Command("cmd", "/C", "start", "", app, escaped), nil
		case constant.Darwin:
			return exec.Command("open", "-a", app, input), nil
		case constant.Linux, constant.Android:
			return exec.Command(app, input), nil
		}
	}

	return nil, fmt.Errorf("unsupported OS: %s", goos)
}
