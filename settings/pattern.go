package settings

import (
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/util"
)

// Filename expands the filename pattern for the given details and appends the extension.
// The result is a bare file name, placeholders that resolve to path separators are sanitized.
func (c *Core) Filename(details *capture.Details, format string) string {
	t := details.DateTime
	title := details.Title
	if title == "" {
		title = constant.Snapkit
	}

	replacer := strings.NewReplacer(
		constant.PatternTitle, title,
		constant.PatternYear, fmt.Sprintf("%04d", t.Year()),
		constant.PatternMonth, fmt.Sprintf("%02d", int(t.Month())),
		constant.PatternDay, fmt.Sprintf("%02d", t.Day()),
		constant.PatternHour, fmt.Sprintf("%02d", t.Hour()),
		constant.PatternMinute, fmt.Sprintf("%02d", t.Minute()),
		constant.PatternSecond, fmt.Sprintf("%02d", t.Second()),
		constant.PatternUser, currentUser(),
	)

	name := util.SanitizeFilename(replacer.Replace(c.OutputFileFilenamePattern))
	if name == "" {
		name = constant.Snapkit
	}

	if format == "" {
		format = c.OutputFileFormat
	}

	return name + "." + format
}

// OutputPath returns the full path a capture with the given details is saved to.
func (c *Core) OutputPath(details *capture.Details, format string) string {
	return filepath.Join(c.OutputFilePath, c.Filename(details, format))
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return "user"
	}

	return u.Username
}
