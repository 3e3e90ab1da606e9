package marthe

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const normalMsg = "normal termination"

var failedWords = []string{"fail", "error"}

// Run invokes the external MARTHE executable on the model's .rma file,
// streaming its stdout. success reports whether the run reached normal
// termination; buff returns the captured output. verbose echoes lines to
// screen as they arrive. The context cancels the subprocess.
func (mm *Model) Run(ctx context.Context, exe string, silent, verbose bool) (success bool, buff []string, err error) {
	if exe == "" {
		exe = "marthe"
	}
	if _, err := exec.LookPath(exe); err != nil {
		return false, nil, fmt.Errorf("Model.Run: executable '%s' not found: %v", exe, err)
	}
	if silent {
		if err := mm.MakeSilent(); err != nil {
			return false, nil, fmt.Errorf("Model.Run: %v", err)
		}
	}

	cmd := exec.CommandContext(ctx, exe, mm.Files["rma"])
	cmd.Dir = mm.Dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return false, nil, fmt.Errorf("Model.Run: %v", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return false, nil, fmt.Errorf("Model.Run: %v", err)
	}

	failed := false
	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		ln := strings.ToLower(strings.TrimSpace(sc.Text()))
		if ln == "" {
			continue
		}
		buff = append(buff, ln)
		if verbose {
			fmt.Println(ln)
		}
		if strings.Contains(ln, normalMsg) {
			success = true
		}
		for _, w := range failedWords {
			if strings.Contains(ln, w) {
				failed = true
			}
		}
	}
	werr := cmd.Wait()
	if ctx.Err() != nil {
		return false, buff, fmt.Errorf("Model.Run: cancelled: %v", ctx.Err())
	}
	if werr != nil {
		return false, buff, fmt.Errorf("Model.Run: marthe exited: %v", werr)
	}
	if failed {
		success = false
	}
	return success, buff, nil
}
