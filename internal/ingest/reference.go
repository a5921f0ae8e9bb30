package ingest

import (
	"regexp"
	"strings"
)

// AccountPrefix precedes the company name in exported ledger references.
const AccountPrefix = "Accounts::::"

var branchSuffix = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

// ExtractClientName turns an account reference such as
// "Accounts::::Acme Corp (Branch X)" into the bare company name "Acme Corp".
func ExtractClientName(ref string) string {
	name := strings.TrimSpace(ref)
	name = strings.TrimPrefix(name, AccountPrefix)
	name = branchSuffix.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}
