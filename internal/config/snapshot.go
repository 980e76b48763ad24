package config

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of the output-affecting configuration fields.
// Map fields are order-insensitive. Target selection and clean_outputs are left
// out because they change where pages go, not what they contain.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }
	w("theme", string(c.Theme))
	w("generate_main_page", strconv.FormatBool(c.GenerateMainPage))
	w("generate_policy_pages", flagList(c.GeneratePolicyPages))
	w("integrations", flagList(c.Integrations))
	return hex.EncodeToString(h.Sum(nil))
}

func flagList(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		keys = append(keys, k+":"+strconv.FormatBool(v))
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
