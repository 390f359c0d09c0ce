package analyzer

import (
	"strconv"
	"strings"

	"github.com/helmcode/casediag/pkg/model"
)

const (
	// AnalysisCompleted is the case analysis text when checks ran
	AnalysisCompleted = "Analysis completed. See suggestions below if any."
	// AnalysisHealthy is the case analysis text when no rule fired
	AnalysisHealthy = "No significant issues detected. System appears healthy."
)

// Rule inspects a payload and returns suggestion lines for its test, or nil
// when the test shows no issue. The first line is the summary.
type Rule struct {
	Test  string
	Check func(payload *model.AnalysisPayload) []string
}

// DefaultRules are the checks the Diagnostic Service applies to uploaded results
var DefaultRules = []Rule{
	{Test: "ping_test", Check: checkPing},
	{Test: "dns_resolution", Check: checkDNS},
	{Test: "tracepath", Check: checkTracepath},
	{Test: "network_connections", Check: checkNetworkConnections},
	{Test: "pending_updates", Check: checkPendingUpdates},
	{Test: "swap_usage", Check: checkSwapUsage},
	{Test: "vpn_status", Check: checkVPNStatus},
	{Test: "cpu_usage", Check: checkCPUUsage},
	{Test: "memory_usage", Check: checkMemoryUsage},
	{Test: "load_average", Check: checkLoadAverage},
}

// AnalyzeResults runs DefaultRules over a payload. It is used when results
// are rendered without the Diagnostic Service, e.g. from a local file.
func AnalyzeResults(payload *model.AnalysisPayload) (string, map[string][]string) {
	return AnalyzeWithRules(payload, DefaultRules)
}

// AnalyzeWithRules runs the given rules and returns the overall analysis text
// and the suggestion lines keyed by test name.
func AnalyzeWithRules(payload *model.AnalysisPayload, rules []Rule) (string, map[string][]string) {
	suggestions := make(map[string][]string)
	for _, rule := range rules {
		if lines := rule.Check(payload); len(lines) > 0 {
			suggestions[rule.Test] = lines
		}
	}

	if len(suggestions) == 0 {
		return AnalysisHealthy, suggestions
	}
	return AnalysisCompleted, suggestions
}

func testLines(payload *model.AnalysisPayload, test string) []string {
	l, _ := payload.Get(test)
	return l
}

// packetLoss reads the loss percentage from the first ping summary line,
// e.g. "4 packets transmitted, 2 received, 50% packet loss, time 3004ms".
func packetLoss(payload *model.AnalysisPayload) (float64, bool) {
	for _, line := range testLines(payload, "ping_test") {
		if !strings.Contains(line, "packet loss") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			return 0, false
		}
		fields := strings.Fields(parts[2])
		if len(fields) == 0 {
			return 0, false
		}
		loss, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], "%", ""), 64)
		if err != nil {
			return 0, false
		}
		return loss, true
	}
	return 0, false
}

func checkPing(payload *model.AnalysisPayload) []string {
	loss, ok := packetLoss(payload)
	if !ok || loss <= 0 {
		return nil
	}

	severity := "Moderate"
	if loss > 50 {
		severity = "High"
	}
	return []string{
		"Ping Test: This test checks connectivity and packet loss to a known host. " + severity + " packet loss detected.",
		"Check physical network connections and ensure interfaces are up.",
		"Verify default gateway and routing configuration.",
		"Consider traceroute/tracepath to identify where packets are lost.",
		"Review firewall rules that might drop ICMP.",
		"Investigate network congestion or bandwidth issues.",
	}
}

func checkDNS(payload *model.AnalysisPayload) []string {
	failed := false
	for _, line := range testLines(payload, "dns_resolution") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "can't resolve") || strings.Contains(lower, "server can't find") {
			failed = true
			break
		}
	}
	if !failed {
		return nil
	}

	out := []string{
		"DNS Resolution: This test checks if the system can resolve domain names.",
		"Verify /etc/resolv.conf and DNS server configurations.",
		"Try alternative DNS servers (e.g., 8.8.8.8) to isolate the issue.",
		"Check firewall rules that may block DNS queries.",
		"Use `dig` or `host` for detailed DNS diagnostics.",
		"Confirm the domain's existence and spelling.",
	}
	if loss, ok := packetLoss(payload); ok && loss == 100 {
		out = append(out, "If pinging by IP works but domains fail, focus on DNS configuration.")
	}
	return out
}

func checkTracepath(payload *model.AnalysisPayload) []string {
	for _, line := range testLines(payload, "tracepath") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "unreachable") || strings.Contains(lower, "failed") {
			return []string{
				"Tracepath: This test examines the route packets take to a remote host.",
				"Identify the hop where tracepath fails and check that segment.",
				"Verify gateway and routing configurations.",
				"Examine firewalls or ACLs that may block traceroute packets.",
				"Ensure the target host is online and not blocking probes.",
				"Try MTR or traceroute with different protocols for more insight.",
			}
		}
	}
	return nil
}

var standardPorts = []string{":22 ", ":80 ", ":443 "}

func checkNetworkConnections(payload *model.AnalysisPayload) []string {
	for _, line := range testLines(payload, "network_connections") {
		if !strings.Contains(line, "tcp") {
			continue
		}
		standard := false
		for _, port := range standardPorts {
			if strings.Contains(line, port) {
				standard = true
				break
			}
		}
		if !standard {
			return []string{
				"Network Connections: This test lists open ports and connections on the system.",
				"Review services running on non-standard ports to ensure they're authorized.",
				"Implement firewall rules to restrict unnecessary open ports.",
				"Monitor traffic on unusual ports for potential intrusions.",
				"Document all expected services/ports for a known baseline.",
			}
		}
	}
	return nil
}

// checkPendingUpdates expects apt list output, whose first line is a header
func checkPendingUpdates(payload *model.AnalysisPayload) []string {
	if len(testLines(payload, "pending_updates")) <= 1 {
		return nil
	}
	return []string{
		"Pending Updates: The system has available updates.",
		"Apply system updates (e.g., `apt-get update && apt-get upgrade`) for security/stability.",
		"Schedule regular updates to maintain system reliability.",
		"Review changelogs before applying critical updates.",
		"Consider unattended upgrades for automatic security updates.",
	}
}

func checkSwapUsage(payload *model.AnalysisPayload) []string {
	swap := testLines(payload, "swap_usage")
	if len(swap) == 0 {
		return nil
	}
	parts := strings.Fields(swap[0])
	if len(parts) < 3 {
		return nil
	}
	used, err := strconv.Atoi(parts[2])
	if err != nil || used <= 0 {
		return nil
	}
	return []string{
		"Swap Usage: This test checks if the system is using swap memory.",
		"Identify memory-intensive processes and consider adding more RAM.",
		"Reduce swappiness to rely less on swap.",
		"Optimize applications or services to reduce memory usage.",
		"Consider faster storage for swap or increasing RAM for a long-term fix.",
	}
}

// checkVPNStatus fires only when the capture ran the check and got nothing back
func checkVPNStatus(payload *model.AnalysisPayload) []string {
	vpn, ok := payload.Get("vpn_status")
	if !ok || len(vpn) > 0 {
		return nil
	}
	return []string{
		"VPN Status: This test checks if a VPN service is active (if expected).",
		"Ensure VPN services (e.g., OpenVPN) are running.",
		"Check firewall rules for VPN protocols.",
		"Verify VPN configuration files and credentials.",
	}
}

func checkCPUUsage(payload *model.AnalysisPayload) []string {
	if len(testLines(payload, "cpu_usage")) == 0 {
		return nil
	}
	return []string{
		"CPU Usage: This test checks CPU load distribution (user, system, idle, etc.).",
		"If CPU usage is high, identify top-consuming processes (`ps aux --sort=-%cpu`).",
		"Optimize application code or consider load balancing.",
		"Add more CPU resources or scale out if consistently high.",
	}
}

func checkMemoryUsage(payload *model.AnalysisPayload) []string {
	if len(testLines(payload, "memory_usage")) == 0 {
		return nil
	}
	return []string{
		"Memory Usage: This test checks how RAM is utilized.",
		"If usage is high, find memory-intensive processes (`ps aux --sort=-%mem`).",
		"Add more RAM or optimize applications.",
		"Monitor memory usage over time with Prometheus/Grafana.",
	}
}

func checkLoadAverage(payload *model.AnalysisPayload) []string {
	if len(testLines(payload, "load_average")) == 0 {
		return nil
	}
	return []string{
		"Load Average: This test provides the average system load over time.",
		"If load is persistently high, check for CPU/I/O bottlenecks.",
		"Distribute workloads or scale out.",
		"Investigate queued processes that drive up load.",
	}
}
