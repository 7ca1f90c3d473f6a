package session

import (
	"strings"
	"testing"

	"github.com/King-RAM/kno-url/pkg/category"
)

func mustParse(t *testing.T, line string) Command {
	t.Helper()
	cmd, err := Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected rejection: %v", line, err)
	}
	return cmd
}

func mustReject(t *testing.T, line, fragment string) {
	t.Helper()
	_, err := Parse(line)
	if err == nil {
		t.Fatalf("Parse(%q): expected rejection", line)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("Parse(%q): expected rejection containing %q, got %q", line, fragment, err.Error())
	}
}

func TestParse_Help(t *testing.T) {
	for _, line := range []string{"-h", "--help"} {
		if cmd := mustParse(t, line); cmd.Kind != KindHelp {
			t.Fatalf("expected help command for %q", line)
		}
	}
}

func TestParse_StandaloneNightOps(t *testing.T) {
	if cmd := mustParse(t, "--night-ops"); cmd.Kind != KindNightOps {
		t.Fatalf("expected standalone night-ops command")
	}
}

func TestParse_FirstTokenURL(t *testing.T) {
	cmd := mustParse(t, "example.com -s -md")
	if cmd.Kind != KindScrape || cmd.URL != "https://example.com" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if !cmd.Flags.Categories[category.Scripts] || !cmd.Flags.Categories[category.Media] {
		t.Fatalf("expected scripts+media filters, got %v", cmd.Flags.Categories)
	}
}

func TestParse_ExplicitURLFlag(t *testing.T) {
	cmd := mustParse(t, "-u 10.8.1.4:80/video/x -s")
	if cmd.URL != "https://10.8.1.4:80/video/x" {
		t.Fatalf("unexpected URL: %q", cmd.URL)
	}
}

func TestParse_FallbackURLScan(t *testing.T) {
	cmd := mustParse(t, "-md https://example.com/page")
	if cmd.URL != "https://example.com/page" {
		t.Fatalf("unexpected URL: %q", cmd.URL)
	}
	// -md precedes the URL token, so it is not part of the argument list.
	if cmd.Flags.Categories[category.Media] {
		t.Fatalf("tokens before the URL must not be consumed as flags")
	}
}

func TestParse_NoURL(t *testing.T) {
	mustReject(t, "-md -s", "No URL detected")
	mustReject(t, "   ", "No URL detected")
}

func TestParse_UnknownFlag(t *testing.T) {
	mustReject(t, "example.com --bogus", "--bogus")
}

func TestParse_UnknownFlagCheckedFirst(t *testing.T) {
	// The unknown flag must reject even though the -sd combination is also
	// illegal on this line.
	mustReject(t, "example.com -sd 90s --bogus", "--bogus")
}

func TestParse_NetworkOnlyFlagsRecognized(t *testing.T) {
	cmd := mustParse(t, "example.com -n -fx -css -t 30")
	if !cmd.Flags.NetworkMode {
		t.Fatalf("expected network mode")
	}
}

func TestParse_SdWithoutNightOps(t *testing.T) {
	mustReject(t, "example.com -sd 90s", "-sd can only be used together with --night-ops")
	// Duration validity is irrelevant to this rejection.
	mustReject(t, "example.com -sd abc", "-sd can only be used together with --night-ops")
}

func TestParse_NightOpsWithoutSd(t *testing.T) {
	mustReject(t, "example.com --night-ops", "unless -sd is defined")
	mustReject(t, "example.com -s --night-ops", "unless -sd is defined")
}

func TestParse_ScheduledNightOps(t *testing.T) {
	cmd := mustParse(t, "example.com --night-ops -sd 90s")
	if !cmd.Flags.NightOps || cmd.Flags.DelaySeconds != 90 {
		t.Fatalf("unexpected flags: %+v", cmd.Flags)
	}
}

func TestParse_MultiTokenDuration(t *testing.T) {
	cmd := mustParse(t, "example.com --night-ops -sd 1h 30m")
	if cmd.Flags.DelaySeconds != 5400 {
		t.Fatalf("expected 5400 seconds, got %d", cmd.Flags.DelaySeconds)
	}
}

func TestParse_BadDuration(t *testing.T) {
	mustReject(t, "example.com --night-ops -sd abc", "invalid -sd duration")
	mustReject(t, "example.com --night-ops -sd 0s", "invalid -sd duration")
}

func TestParse_MissingDuration(t *testing.T) {
	mustReject(t, "example.com --night-ops -sd", "requires a duration")
}

func TestParse_DuplicateSd(t *testing.T) {
	mustReject(t, "example.com --night-ops -sd 90s -sd 10s", "specified multiple times")
}

func TestParse_SearchTerms(t *testing.T) {
	cmd := mustParse(t, "example.com --search MP4,cdn,")
	want := []string{"mp4", "cdn"}
	if len(cmd.Flags.SearchTerms) != 2 || cmd.Flags.SearchTerms[0] != want[0] || cmd.Flags.SearchTerms[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, cmd.Flags.SearchTerms)
	}
}

func TestParse_SearchOnlyCommas(t *testing.T) {
	mustReject(t, "example.com --search ,,", "at least one non-empty term")
}

func TestParse_SearchMissingValue(t *testing.T) {
	mustReject(t, "example.com --search", "--search requires a value")
	mustReject(t, "example.com --search -s", "--search requires a value")
}

func TestParse_OutputAndFull(t *testing.T) {
	cmd := mustParse(t, "example.com --full -o results.txt")
	if !cmd.Flags.FullDump || cmd.Flags.OutputPath != "results.txt" {
		t.Fatalf("unexpected flags: %+v", cmd.Flags)
	}
}

func TestParse_FullWithNetworkMode(t *testing.T) {
	// Both flags parse; dispatch sends the line to the network stub, which
	// leaves --full inert like the rest of the HTML-mode flags.
	cmd := mustParse(t, "example.com --full -n")
	if !cmd.Flags.FullDump || !cmd.Flags.NetworkMode {
		t.Fatalf("unexpected flags: %+v", cmd.Flags)
	}
}

func TestParse_NoMedia(t *testing.T) {
	cmd := mustParse(t, "example.com -md --no-media")
	if !cmd.Flags.NoMedia || !cmd.Flags.Categories[category.Media] {
		t.Fatalf("unexpected flags: %+v", cmd.Flags)
	}
}
