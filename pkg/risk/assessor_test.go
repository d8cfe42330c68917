package risk

import (
	"testing"

	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestAssess_LowPrefixes(t *testing.T) {
	for _, cmd := range []string{"ps aux", "df -h", "cat /etc/hosts", "systemctl status nginx", "uptime"} {
		assert.Equal(t, models.RiskLow, Assess(cmd).Level, cmd)
	}
}

func TestAssess_ModeratePrefixes(t *testing.T) {
	for _, cmd := range []string{"chmod 600 key", "chown root file", "mkdir -p /tmp/x", "systemctl reload nginx"} {
		assert.Equal(t, models.RiskModerate, Assess(cmd).Level, cmd)
	}
}

func TestAssess_CriticalPrefixes(t *testing.T) {
	for _, cmd := range []string{"rm -rf /tmp/x", "iptables -F", "shutdown -h now", "systemctl restart nginx", "systemctl stop nginx", "dd if=/dev/zero of=/dev/sda", "mkfs.ext4 /dev/sdb1"} {
		assert.Equal(t, models.RiskCritical, Assess(cmd).Level, cmd)
	}
}

func TestAssess_SystemctlRestartNotShadowedByReload(t *testing.T) {
	assert.Equal(t, models.RiskCritical, Assess("systemctl restart app").Level)
	assert.Equal(t, models.RiskModerate, Assess("systemctl reload app").Level)
}

func TestAssess_UnknownCommandDefaultsToModerate(t *testing.T) {
	out := Assess("some-custom-tool --flag")
	assert.Equal(t, models.RiskModerate, out.Level)
}

func TestAssess_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, models.RiskLow, Assess("   ls -la  ").Level)
}

func TestRiskLevel_RequiresConfirmation(t *testing.T) {
	assert.False(t, models.RiskLow.RequiresConfirmation())
	assert.True(t, models.RiskModerate.RequiresConfirmation())
	assert.True(t, models.RiskCritical.RequiresConfirmation())
}
