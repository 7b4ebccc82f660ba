package service

import (
	"errors"
	"testing"

	"github.com/examgate/examgate-backend/internal/model"
)

func rule(t model.IPRuleType, cidr string) model.ExamIPRule {
	return model.ExamIPRule{RuleType: t, CIDR: cidr}
}

func TestEvaluateIPRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []model.ExamIPRule
		ip      string
		wantErr error
	}{
		{
			name:    "no rules admits everyone",
			rules:   nil,
			ip:      "203.0.113.7",
			wantErr: nil,
		},
		{
			name:    "whitelist match admits",
			rules:   []model.ExamIPRule{rule(model.IPRuleWhitelist, "10.0.0.0/8")},
			ip:      "10.1.2.3",
			wantErr: nil,
		},
		{
			name:    "whitelist miss rejects",
			rules:   []model.ExamIPRule{rule(model.IPRuleWhitelist, "10.0.0.0/8")},
			ip:      "192.168.1.1",
			wantErr: ErrIPNotWhitelisted,
		},
		{
			name: "blacklist rejects inside matched whitelist",
			rules: []model.ExamIPRule{
				rule(model.IPRuleWhitelist, "10.0.0.0/8"),
				rule(model.IPRuleBlacklist, "10.5.0.0/16"),
			},
			ip:      "10.5.9.9",
			wantErr: ErrIPBlacklisted,
		},
		{
			name: "blacklist miss inside whitelist admits",
			rules: []model.ExamIPRule{
				rule(model.IPRuleWhitelist, "10.0.0.0/8"),
				rule(model.IPRuleBlacklist, "10.5.0.0/16"),
			},
			ip:      "10.6.0.1",
			wantErr: nil,
		},
		{
			name:    "blacklist only admits non-matching",
			rules:   []model.ExamIPRule{rule(model.IPRuleBlacklist, "172.16.0.0/12")},
			ip:      "203.0.113.7",
			wantErr: nil,
		},
		{
			name:    "exact address rule without mask",
			rules:   []model.ExamIPRule{rule(model.IPRuleBlacklist, "203.0.113.7")},
			ip:      "203.0.113.7",
			wantErr: ErrIPBlacklisted,
		},
		{
			name: "multiple whitelists only one needs to match",
			rules: []model.ExamIPRule{
				rule(model.IPRuleWhitelist, "10.0.0.0/8"),
				rule(model.IPRuleWhitelist, "192.168.0.0/16"),
			},
			ip:      "192.168.44.2",
			wantErr: nil,
		},
		{
			name:    "unparseable client ip rejected by whitelist",
			rules:   []model.ExamIPRule{rule(model.IPRuleWhitelist, "10.0.0.0/8")},
			ip:      "not-an-ip",
			wantErr: ErrIPNotWhitelisted,
		},
		{
			name:    "unparseable client ip tolerated without whitelist",
			rules:   []model.ExamIPRule{rule(model.IPRuleBlacklist, "10.0.0.0/8")},
			ip:      "not-an-ip",
			wantErr: nil,
		},
		{
			name:    "malformed rule never matches",
			rules:   []model.ExamIPRule{rule(model.IPRuleBlacklist, "10.0.0.0/99")},
			ip:      "10.0.0.1",
			wantErr: nil,
		},
		{
			name:    "ipv6 whitelist",
			rules:   []model.ExamIPRule{rule(model.IPRuleWhitelist, "2001:db8::/32")},
			ip:      "2001:db8::1",
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluateIPRules(tt.rules, tt.ip)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("evaluateIPRules() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
