package forward

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"guestport/internal/hostcmd"
)

// Store provides read access to the host's forwarding state. The host
// tables are the only source of truth; nothing is cached between calls.
type Store interface {
	// Rules returns the forwarding rules owned by this tool together
	// with a report of listing lines the parser could not use.
	Rules() ([]Rule, ParseReport, error)

	// ForwardedPorts returns every port present in the proxy table,
	// owned or not. Used to resolve the "all" spec during delete.
	ForwardedPorts() ([]int, error)
}

// ParseReport counts listing lines accepted and skipped while parsing a
// rule listing. Skipped lines are tolerated, never fatal; the count lets
// callers mention them.
type ParseReport struct {
	Parsed  int
	Skipped int
}

// HostStore reads the live proxy and firewall tables through a command
// runner. The rule listing is produced by a PowerShell pipeline that
// correlates owned firewall rules with portproxy rows and emits one
// colon-delimited line per owned rule.
type HostStore struct {
	runner hostcmd.Runner
	prefix string
}

// NewHostStore creates a store reading the real host tables. prefix is
// the firewall display-name tag identifying owned rules.
func NewHostStore(runner hostcmd.Runner, prefix string) *HostStore {
	return &HostStore{runner: runner, prefix: prefix}
}

// Rules lists the owned forwarding rules.
func (s *HostStore) Rules() ([]Rule, ParseReport, error) {
	out, err := s.runner.Output("powershell", "-NoProfile", "-NonInteractive",
		"-Command", listScript(s.prefix))
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("listing forwarding rules: %w", err)
	}
	rules, report := ParseRuleLines(string(out), s.prefix)
	return rules, report, nil
}

// proxyRowPattern matches the data rows of `netsh interface portproxy
// show v4tov4`: a listen address followed by a listen port.
var proxyRowPattern = regexp.MustCompile(`^\s*((?:\d{1,3}\.){3}\d{1,3})\s+(\d+)`)

// ForwardedPorts lists the ports currently forwarded by the host,
// including rules this tool does not own.
func (s *HostStore) ForwardedPorts() ([]int, error) {
	out, err := s.runner.Output("netsh", "interface", "portproxy", "show", "v4tov4")
	if err != nil {
		return nil, fmt.Errorf("listing forwarded ports: %w", err)
	}
	seen := make(map[int]bool)
	var ports []int
	for _, line := range strings.Split(string(out), "\n") {
		match := proxyRowPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		port, err := strconv.Atoi(match[2])
		if err != nil || seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	return ports, nil
}

// ParseRuleLines parses a rule listing into rules owned by tag. Each
// useful line is "<name>:<port>:<listen>:<target>" where name starts with
// the owner tag; anything else is counted and skipped.
func ParseRuleLines(text, tag string) ([]Rule, ParseReport) {
	var rules []Rule
	var report ParseReport
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rule, ok := parseRuleLine(line, tag)
		if !ok {
			report.Skipped++
			continue
		}
		report.Parsed++
		rules = append(rules, rule)
	}
	return rules, report
}

func parseRuleLine(line, tag string) (Rule, bool) {
	fields := strings.Split(line, ":")
	if len(fields) < 4 {
		return Rule{}, false
	}
	if !strings.HasPrefix(fields[0], tag) {
		return Rule{}, false
	}
	port, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || port < MinPort || port > MaxPort {
		return Rule{}, false
	}
	listen := strings.TrimSpace(fields[2])
	target := strings.TrimSpace(fields[3])
	if !isIPv4(listen) || !isIPv4(target) {
		return Rule{}, false
	}
	return Rule{Port: port, ListenAddress: listen, TargetAddress: target}, true
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// listScript builds the PowerShell pipeline backing Rules: collect the
// Inbound firewall rules whose display name starts with the tag, keyed by
// local port, then emit "<name>:<port>:<listen>:<target>" for each
// portproxy row whose listen port has an owned firewall rule.
func listScript(tag string) string {
	return "$owned=@{}; " +
		fmt.Sprintf("Get-NetFirewallRule -DisplayName '%s *' -Direction Inbound -ErrorAction SilentlyContinue", tag) +
		" | ForEach-Object { $p=($_ | Get-NetFirewallPortFilter).LocalPort; if ($p) { $owned[[string]$p]=$_.DisplayName } }; " +
		"netsh interface portproxy show v4tov4 | ForEach-Object {" +
		` if ($_ -match '^\s*((?:\d{1,3}\.){3}\d{1,3})\s+(\d+)\s+((?:\d{1,3}\.){3}\d{1,3})\s+(\d+)')` +
		" { $n=$owned[$Matches[2]]; if ($n) { '{0}:{1}:{2}:{3}' -f $n,$Matches[2],$Matches[1],$Matches[3] } } }"
}
