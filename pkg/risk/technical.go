package risk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
)

// vulnPattern is a known vulnerability signature. Severity scales with the
// pattern category.
type vulnPattern struct {
	code     string
	severity Severity
	re       *regexp.Regexp
}

// compileVulnPatterns builds the vulnerability signature list once at
// analyst construction.
func compileVulnPatterns() []vulnPattern {
	return []vulnPattern{
		{
			code:     "sql_injection",
			severity: SeverityHigh,
			re:       regexp.MustCompile(`(?i)(?:select|insert|update|delete)\b[^;]*(?:"\s*\+|'\s*\+|\+\s*\w+\s*\+|%s|\.format\(|f")`),
		},
		{
			code:     "hardcoded_credentials",
			severity: SeverityHigh,
			re:       regexp.MustCompile(`(?i)(?:password|passwd|api_?key|secret|token)\s*[:=]\s*["'][^"']{4,}["']`),
		},
		{
			code:     "dynamic_eval",
			severity: SeverityMedium,
			re:       regexp.MustCompile(`(?i)\b(?:eval|exec)\s*\(`),
		},
	}
}

// multipleVulnThreshold is the number of distinct vulnerability categories
// in one submission that escalates the finding to critical.
const multipleVulnThreshold = 3

// assessTechnical scans the latest submission for vulnerability signatures
// and repeated-content fingerprints.
func (a *Analyst) assessTechnical(interaction *session.Interaction, history *session.History, pol *policy.Policy) []Finding {
	if history == nil {
		return nil
	}

	submissions := history.Submissions()
	if len(submissions) == 0 {
		return nil
	}
	latest := submissions[len(submissions)-1]

	var findings []Finding

	// Vulnerability signatures.
	matched := 0
	for _, vuln := range a.vulns {
		if vuln.re.MatchString(latest.Text) {
			matched++
			findings = append(findings, Finding{
				Dimension: DimensionTechnical,
				Severity:  vuln.severity,
				Code:      vuln.code,
				Rationale: fmt.Sprintf("submission matches %s signature", vuln.code),
				Evidence:  []string{interaction.ID},
			})
		}
	}
	if matched >= multipleVulnThreshold {
		findings = append(findings, Finding{
			Dimension: DimensionTechnical,
			Severity:  SeverityCritical,
			Code:      "multiple_vulnerabilities",
			Rationale: fmt.Sprintf("%d distinct vulnerability categories in a single submission", matched),
			Evidence:  []string{interaction.ID},
		})
	}

	// Duplication: fingerprint each submission; a repeat across
	// non-adjacent submissions is detected in O(1) amortized per
	// submission via the set. Keep the first occurrence per fingerprint so
	// an adjacent repeat cannot shadow an earlier non-adjacent one.
	seen := make(map[string]int, len(submissions))
	for i, sub := range submissions[:len(submissions)-1] {
		fp := Fingerprint(sub.Text)
		if _, ok := seen[fp]; !ok {
			seen[fp] = i
		}
	}
	latestIdx := len(submissions) - 1
	if firstIdx, ok := seen[Fingerprint(latest.Text)]; ok && latestIdx-firstIdx > 1 {
		findings = append(findings, Finding{
			Dimension: DimensionTechnical,
			Severity:  SeverityLow,
			Code:      "duplication",
			Rationale: fmt.Sprintf("submission %d repeats the content of submission %d", latestIdx+1, firstIdx+1),
			Evidence:  []string{interaction.ID},
		})
	}

	return findings
}

// Fingerprint computes the content fingerprint of a code snapshot: the
// SHA-256 of its whitespace-normalized form, hex encoded.
func Fingerprint(code string) string {
	normalized := strings.Join(strings.Fields(code), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
