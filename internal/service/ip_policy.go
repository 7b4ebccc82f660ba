package service

import (
	"net"
	"strings"

	"github.com/examgate/examgate-backend/internal/model"
)

// evaluateIPRules applies an exam's allow/deny rules to a client IP.
// If any whitelist rule exists the IP must match at least one whitelist
// range; any blacklist match rejects, even inside a matched whitelist
// range. A rule without a "/" suffix matches that exact address.
func evaluateIPRules(rules []model.ExamIPRule, clientIP string) error {
	if len(rules) == 0 {
		return nil
	}

	ip := net.ParseIP(strings.TrimSpace(clientIP))
	if ip == nil {
		// Unparseable caller address: only whitelist-gated exams reject.
		for _, r := range rules {
			if r.RuleType == model.IPRuleWhitelist {
				return ErrIPNotWhitelisted
			}
		}
		return nil
	}

	hasWhitelist := false
	whitelisted := false
	for _, r := range rules {
		matched := cidrMatches(r.CIDR, ip)
		switch r.RuleType {
		case model.IPRuleWhitelist:
			hasWhitelist = true
			if matched {
				whitelisted = true
			}
		case model.IPRuleBlacklist:
			if matched {
				return ErrIPBlacklisted
			}
		}
	}

	if hasWhitelist && !whitelisted {
		return ErrIPNotWhitelisted
	}
	return nil
}

func cidrMatches(cidr string, ip net.IP) bool {
	cidr = strings.TrimSpace(cidr)
	if !strings.Contains(cidr, "/") {
		exact := net.ParseIP(cidr)
		return exact != nil && exact.Equal(ip)
	}
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return false
	}
	return network.Contains(ip)
}
