// Package nightops implements the self-destruct workflow: confirm intent,
// optionally wait out a scheduled delay, then best-effort remove the tool's
// cache directories and its own executable.
package nightops

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Config carries the paths captured at startup. ExePath is the running
// binary as seen by os.Executable; CacheDirs are the .kno-url directories
// (exe-adjacent and user-level).
type Config struct {
	ExePath   string
	CacheDirs []string
}

type Runner struct {
	cfg   Config
	sleep func(time.Duration)
}

func New(cfg Config) *Runner {
	return &Runner{cfg: cfg, sleep: time.Sleep}
}

// Confirm prompts for explicit y/N confirmation on the standalone path.
// Unreadable input or anything non-affirmative cancels.
func (r *Runner) Confirm(in *bufio.Reader, out io.Writer) bool {
	fmt.Fprint(out, "[!] --night-ops will attempt to delete this binary and local .kno-url dirs. Proceed? [y/N]: ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	ans := strings.ToLower(strings.TrimSpace(line))
	return ans == "y" || ans == "yes"
}

// Wait reports the scheduled delay and blocks for it. There is no
// cancellation: once scheduled, only killing the process stops it.
func (r *Runner) Wait(seconds int64, out io.Writer) {
	fmt.Fprintf(out, "[*] --night-ops scheduled via -sd, sleeping for %d seconds before cleanup...\n", seconds)
	r.sleep(time.Duration(seconds) * time.Second)
}

// Cleanup removes the cache directories and the captured executable path,
// best effort and order independent. Every failure is reported to the
// operator, none escalates: cleanup always completes with exit status 0.
func (r *Runner) Cleanup(out io.Writer) {
	fmt.Fprintln(out, "[*] --night-ops: attempting local cleanup...")

	for _, dir := range r.cfg.CacheDirs {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			// Absent cache dir is a silent success.
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintf(out, "[!] Could not remove cache directory (might be locked): %s\n", dir)
		} else {
			fmt.Fprintf(out, "[*] Removed cache directory %s\n", dir)
		}
	}

	if r.cfg.ExePath != "" {
		if err := os.Remove(r.cfg.ExePath); err != nil {
			fmt.Fprintf(out, "[!] Could not delete executable (possibly in use): %s\n", r.cfg.ExePath)
		} else {
			fmt.Fprintf(out, "[*] Removed executable %s\n", r.cfg.ExePath)
		}
	}

	fmt.Fprintln(out, "[+] Self-destruct complete. Exiting.")
}
