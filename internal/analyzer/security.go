package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codepulse/codepulse/domain"
)

// secretRule matches one kind of hardcoded credential. Rules with a capture
// group mask the captured secret; otherwise the whole match is masked.
type secretRule struct {
	pattern     *regexp.Regexp
	description string
	cwe         string
}

// lineRule is a generic per-line pattern with a finding description
type lineRule struct {
	pattern     *regexp.Regexp
	description string
}

var secretRules = []secretRule{
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS Access Key ID", "CWE-798"},
	{regexp.MustCompile(`(?i)aws_secret_access_key["']?\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})`), "AWS Secret Access Key", "CWE-798"},
	{regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`), "GitHub Personal Access Token", "CWE-798"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`), "Google API Key", "CWE-798"},
	{regexp.MustCompile(`xox[baprs]-[0-9]{10,12}-[0-9]{10,12}-[a-zA-Z0-9]{24,32}`), "Slack Token", "CWE-798"},
	{regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|api[_-]?secret)["']?\s*[:=]\s*["']([a-zA-Z0-9]{20,})`), "Generic API Key", "CWE-798"},
	{regexp.MustCompile(`-----BEGIN (?:RSA|DSA|EC|OPENSSH) PRIVATE KEY-----`), "Private Key", "CWE-798"},
	{regexp.MustCompile(`(?i)(?:password|passwd|pwd)["']?\s*[:=]\s*["']([^"'\s]{8,})`), "Hardcoded Password", "CWE-798"},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), "JWT Token", "CWE-798"},
}

var sqlInjectionRules = []lineRule{
	{regexp.MustCompile(`(?i)execute\([^)]*%s`), "String formatting in SQL execute"},
	{regexp.MustCompile(`(?i)execute\([^)]*\.format\(`), "String format in SQL execute"},
	{regexp.MustCompile(`(?i)execute\([^)]*f["']`), "f-string in SQL execute"},
	{regexp.MustCompile(`(?i)cursor\.execute\([^)]*\+`), "String concatenation in SQL execute"},
	{regexp.MustCompile(`(?i)SELECT.*FROM.*WHERE.*\+`), "SQL query with string concatenation"},
	{regexp.MustCompile(`(?i)SELECT.*FROM.*WHERE.*\.format\(`), "SQL query with format method"},
	{regexp.MustCompile(`(?i)SELECT.*FROM.*WHERE.*f["']`), "SQL query with f-string"},
}

var commandInjectionRules = []lineRule{
	{regexp.MustCompile(`os\.system\([^)]*\+`), "Command injection via os.system"},
	{regexp.MustCompile(`subprocess\.(?:call|run|Popen)\([^)]*\+`), "Command injection via subprocess"},
	{regexp.MustCompile(`eval\(`), "Dangerous use of eval()"},
	{regexp.MustCompile(`exec\(`), "Dangerous use of exec()"},
}

var weakCryptoRules = []lineRule{
	{regexp.MustCompile(`(?i)hashlib\.md5\(`), "Use of MD5 (cryptographically broken)"},
	{regexp.MustCompile(`(?i)hashlib\.sha1\(`), "Use of SHA1 (weak for security)"},
	{regexp.MustCompile(`(?i)random\.random\(`), "Use of random instead of secrets for security"},
	{regexp.MustCompile(`(?i)des|rc4|rc2`), "Weak encryption algorithm"},
}

var pathTraversalRules = []lineRule{
	{regexp.MustCompile(`open\([^)]*\+`), "Potential path traversal in file open"},
	{regexp.MustCompile(`os\.path\.join\([^)]*input`), "User input in path join"},
	{regexp.MustCompile(`\.\./|\.\.\\`), "Directory traversal pattern in string"},
}

// SecurityScanner detects naive security vulnerabilities by matching regex
// rule tables against raw source lines. Purely line-based; no AST needed.
type SecurityScanner struct{}

// NewSecurityScanner creates a security scanner
func NewSecurityScanner() *SecurityScanner {
	return &SecurityScanner{}
}

// Scan runs every rule table over the file and returns the summarized result
func (s *SecurityScanner) Scan(filePath string, source []byte) domain.SecurityResult {
	lines := splitLines(source)

	issues := s.scanSecrets(filePath, lines)
	issues = append(issues, s.scanSQLInjection(filePath, lines)...)
	issues = append(issues, s.scanCommandInjection(filePath, lines)...)
	issues = append(issues, s.scanWeakCrypto(filePath, lines)...)
	issues = append(issues, s.scanPathTraversal(filePath, lines)...)

	return domain.NewSecurityResult(issues)
}

// scanSecrets reports hardcoded credentials. Comment lines are skipped, and
// the matched secret is masked before it enters the finding text.
func (s *SecurityScanner) scanSecrets(filePath string, lines []string) []domain.SecurityIssue {
	var issues []domain.SecurityIssue

	for _, rule := range secretRules {
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				continue
			}
			for _, match := range rule.pattern.FindAllStringSubmatch(line, -1) {
				secret := match[0]
				if len(match) > 1 && match[1] != "" {
					secret = match[1]
				}
				issues = append(issues, domain.SecurityIssue{
					FilePath:    filePath,
					Line:        i + 1,
					Severity:    domain.SecurityCritical,
					Type:        domain.VulnHardcodedSecret,
					Title:       rule.description + " detected",
					Description: fmt.Sprintf("Hardcoded secret found: %s. Secrets should never be stored in code.", maskSecret(secret)),
					Remediation: "Move secrets to environment variables or a secure secret management system.",
					Snippet:     strings.TrimSpace(line),
					CWE:         rule.cwe,
				})
			}
		}
	}
	return issues
}

func (s *SecurityScanner) scanSQLInjection(filePath string, lines []string) []domain.SecurityIssue {
	var issues []domain.SecurityIssue
	for _, rule := range sqlInjectionRules {
		for i, line := range lines {
			if rule.pattern.MatchString(line) {
				issues = append(issues, domain.SecurityIssue{
					FilePath:    filePath,
					Line:        i + 1,
					Severity:    domain.SecurityHigh,
					Type:        domain.VulnSQLInjection,
					Title:       "Potential SQL Injection vulnerability",
					Description: rule.description + ". This could allow attackers to execute arbitrary SQL commands.",
					Remediation: "Use parameterized queries or an ORM instead of string concatenation or formatting.",
					Snippet:     strings.TrimSpace(line),
					CWE:         "CWE-89",
				})
			}
		}
	}
	return issues
}

func (s *SecurityScanner) scanCommandInjection(filePath string, lines []string) []domain.SecurityIssue {
	var issues []domain.SecurityIssue
	for _, rule := range commandInjectionRules {
		severity := domain.SecurityHigh
		if strings.Contains(rule.pattern.String(), "eval") || strings.Contains(rule.pattern.String(), "exec") {
			severity = domain.SecurityCritical
		}
		for i, line := range lines {
			if rule.pattern.MatchString(line) {
				issues = append(issues, domain.SecurityIssue{
					FilePath:    filePath,
					Line:        i + 1,
					Severity:    severity,
					Type:        domain.VulnCommandInjection,
					Title:       "Command injection vulnerability",
					Description: rule.description + ". Attackers could execute arbitrary system commands.",
					Remediation: "Validate and sanitize all inputs; pass subprocess arguments as a list, never a string.",
					Snippet:     strings.TrimSpace(line),
					CWE:         "CWE-78",
				})
			}
		}
	}
	return issues
}

func (s *SecurityScanner) scanWeakCrypto(filePath string, lines []string) []domain.SecurityIssue {
	var issues []domain.SecurityIssue
	for _, rule := range weakCryptoRules {
		for i, line := range lines {
			if rule.pattern.MatchString(line) {
				issues = append(issues, domain.SecurityIssue{
					FilePath:    filePath,
					Line:        i + 1,
					Severity:    domain.SecurityMedium,
					Type:        domain.VulnWeakCrypto,
					Title:       "Weak cryptographic algorithm",
					Description: rule.description + ". This algorithm is not suitable for security-sensitive operations.",
					Remediation: "Use SHA-256 or SHA-3 for hashing, the secrets module for random values, and AES-256 for encryption.",
					Snippet:     strings.TrimSpace(line),
					CWE:         "CWE-327",
				})
			}
		}
	}
	return issues
}

func (s *SecurityScanner) scanPathTraversal(filePath string, lines []string) []domain.SecurityIssue {
	var issues []domain.SecurityIssue
	for _, rule := range pathTraversalRules {
		for i, line := range lines {
			if rule.pattern.MatchString(line) {
				issues = append(issues, domain.SecurityIssue{
					FilePath:    filePath,
					Line:        i + 1,
					Severity:    domain.SecurityHigh,
					Type:        domain.VulnPathTraversal,
					Title:       "Path traversal vulnerability",
					Description: rule.description + ". Attackers could access files outside the intended directory.",
					Remediation: "Resolve paths to absolute form and verify the result stays within the allowed directory.",
					Snippet:     strings.TrimSpace(line),
					CWE:         "CWE-22",
				})
			}
		}
	}
	return issues
}

// maskSecret keeps the first and last four characters of a secret and stars
// out the middle; short secrets are starred out entirely.
func maskSecret(secret string) string {
	if len(secret) > 8 {
		return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
	}
	return strings.Repeat("*", len(secret))
}
