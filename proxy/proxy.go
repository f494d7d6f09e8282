// Package proxy discovers the Windows host's IP from inside WSL and renders
// proxy environment exports pointing at it. The proxy process itself runs
// on the Windows side; nothing here handles traffic.
package proxy

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var ipv4Pattern = regexp.MustCompile(`\b(\d{1,3}(?:\.\d{1,3}){3})\b`)

// HostIP scans ipconfig.exe output for the adapter section whose header
// contains adapter, and returns the first IPv4 address that follows it. In
// ipconfig's layout that is the adapter's address (the subnet mask and
// gateway come later).
func HostIP(output string, adapter string) (string, bool) {
	inSection := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")

		if isSectionHeader(line) {
			if inSection {
				// Ran into the next adapter without a match.
				return "", false
			}
			inSection = strings.Contains(line, adapter)
			continue
		}

		if !inSection {
			continue
		}

		if ip := ipv4Pattern.FindString(line); ip != "" {
			return ip, true
		}
	}

	return "", false
}

// Adapter sections look like "Ethernet adapter vEthernet (WSL):", flush left
// and colon-terminated, unlike the indented value lines below them.
func isSectionHeader(line string) bool {
	if line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return false
	}

	return strings.HasSuffix(line, ":")
}

// Discover shells out to ipconfig.exe and parses its output. It fails when
// the binary is unavailable (not running under WSL interop) or the adapter
// has no IPv4 address; callers treat that as a degraded, non-fatal state.
func Discover(ctx context.Context, adapter string) (string, error) {
	out, err := exec.CommandContext(ctx, "ipconfig.exe").Output()
	if err != nil {
		return "", errors.Wrap(err, "unable to run ipconfig.exe (WSL interop disabled?)")
	}

	ip, ok := HostIP(string(out), adapter)
	if !ok {
		return "", errors.Errorf("no IPv4 address found for adapter %q", adapter)
	}

	return ip, nil
}

// Exports renders shell export lines for the discovered host IP, suitable
// for eval in the caller's shell.
func Exports(ip string, httpPort int, socksPort int) []string {
	httpURL := fmt.Sprintf("http://%s:%d", ip, httpPort)
	socksURL := fmt.Sprintf("socks5://%s:%d", ip, socksPort)

	return []string{
		"export http_proxy=" + httpURL,
		"export https_proxy=" + httpURL,
		"export HTTP_PROXY=" + httpURL,
		"export HTTPS_PROXY=" + httpURL,
		"export all_proxy=" + socksURL,
		"export ALL_PROXY=" + socksURL,
		"export no_proxy=localhost,127.0.0.1",
	}
}
