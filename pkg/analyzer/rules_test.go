package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/casediag/pkg/model"
)

func payloadOf(pairs ...interface{}) *model.AnalysisPayload {
	p := model.NewAnalysisPayload()
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i].(string), pairs[i+1].([]string))
	}
	return p
}

func TestAnalyzeResultsHealthy(t *testing.T) {
	payload := payloadOf(
		"ping_test", []string{"4 packets transmitted, 4 received, 0% packet loss, time 3004ms"},
		"dns_resolution", []string{"Name:\tgoogle.com", "Address: 142.250.184.206"},
		"pending_updates", []string{"Listing..."},
		"swap_usage", []string{"Swap:          2047           0        2047"},
		"vpn_status", []string{"active"},
	)

	analysis, suggestions := AnalyzeResults(payload)
	assert.Equal(t, AnalysisHealthy, analysis)
	assert.Empty(t, suggestions)
}

func TestAnalyzeResultsPingSeverity(t *testing.T) {
	tests := []struct {
		line     string
		severity string
	}{
		{"4 packets transmitted, 3 received, 25% packet loss, time 3004ms", "Moderate"},
		{"4 packets transmitted, 1 received, 75% packet loss, time 3004ms", "High"},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			analysis, suggestions := AnalyzeResults(payloadOf("ping_test", []string{tt.line}))
			assert.Equal(t, AnalysisCompleted, analysis)
			require.Contains(t, suggestions, "ping_test")
			assert.Contains(t, suggestions["ping_test"][0], tt.severity+" packet loss detected.")
		})
	}
}

func TestAnalyzeResultsDNSWithTotalPacketLoss(t *testing.T) {
	payload := payloadOf(
		"ping_test", []string{"4 packets transmitted, 0 received, 100% packet loss, time 3004ms"},
		"dns_resolution", []string{"** server can't find google.com: NXDOMAIN"},
	)

	_, suggestions := AnalyzeResults(payload)
	require.Contains(t, suggestions, "dns_resolution")
	dns := suggestions["dns_resolution"]
	assert.Equal(t, "If pinging by IP works but domains fail, focus on DNS configuration.", dns[len(dns)-1])
	assert.Len(t, dns, 7)
}

func TestAnalyzeResultsNetworkAndTracepath(t *testing.T) {
	payload := payloadOf(
		"tracepath", []string{" 1?: [LOCALHOST]  pmtu 1500", " 2:  no reply", "     Too many hops: pmtu 1500", "connect: Network is unreachable"},
		"network_connections", []string{
			"tcp   LISTEN 0  128  0.0.0.0:22  0.0.0.0:*",
			"tcp   LISTEN 0  128  0.0.0.0:6379  0.0.0.0:*",
		},
	)

	_, suggestions := AnalyzeResults(payload)
	assert.Contains(t, suggestions, "tracepath")
	assert.Contains(t, suggestions, "network_connections")

	_, suggestions = AnalyzeResults(payloadOf(
		"network_connections", []string{"tcp   LISTEN 0  128  0.0.0.0:443 0.0.0.0:*"},
	))
	assert.NotContains(t, suggestions, "network_connections")
}

func TestAnalyzeResultsSwapUpdatesAndVPN(t *testing.T) {
	payload := payloadOf(
		"swap_usage", []string{"Swap:          2047          12        2035"},
		"pending_updates", []string{"Listing...", "openssl/jammy-updates 3.0.2 amd64 [upgradable from: 3.0.1]"},
		"vpn_status", []string{},
	)

	_, suggestions := AnalyzeResults(payload)
	assert.Contains(t, suggestions, "swap_usage")
	assert.Contains(t, suggestions, "pending_updates")
	assert.Contains(t, suggestions, "vpn_status")

	_, suggestions = AnalyzeResults(payloadOf("swap_usage", []string{"Swap: n/a"}))
	assert.NotContains(t, suggestions, "swap_usage")
}

func TestAnalyzeResultsInformationalSets(t *testing.T) {
	payload := payloadOf(
		"cpu_usage", []string{"Cpu(s): 10.0 us, 5.0 sy, 0.0 ni, 80.0 id, 5.0 wa"},
		"memory_usage", []string{"Mem: 1 2 3 4 5 6"},
		"load_average", []string{"0.10 0.20 0.30"},
	)

	analysis, suggestions := AnalyzeResults(payload)
	assert.Equal(t, AnalysisCompleted, analysis)
	for _, test := range []string{"cpu_usage", "memory_usage", "load_average"} {
		require.Contains(t, suggestions, test)
		set, ok := ResolveSuggestion(test, suggestions)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(set.Summary, strings.ToUpper(test[:1])))
		assert.NotEmpty(t, set.Steps)
	}
}

func TestAnalyzeWithRulesCustom(t *testing.T) {
	rules := []Rule{{
		Test: "disk_usage",
		Check: func(p *model.AnalysisPayload) []string {
			if l, _ := p.Get("disk_usage"); len(l) > 0 {
				return []string{"Disk: check", "clean up"}
			}
			return nil
		},
	}}

	analysis, suggestions := AnalyzeWithRules(payloadOf("disk_usage", []string{"/dev/sda1 100%"}), rules)
	assert.Equal(t, AnalysisCompleted, analysis)
	assert.Equal(t, []string{"Disk: check", "clean up"}, suggestions["disk_usage"])
}
