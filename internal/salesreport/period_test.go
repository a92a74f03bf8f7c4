package salesreport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)

	p, err := ParsePeriod("2025-01-01", "2025-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", p.StartLabel())
	assert.Equal(t, "2025-01-31", p.EndLabel())
	assert.Equal(t, "2025-01-01", p.Range().Start)

	p, err = ParsePeriod("", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-08", p.StartLabel())
	assert.Equal(t, "2025-03-10", p.EndLabel())

	_, err = ParsePeriod("01/01/2025", "", now)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = ParsePeriod("2025-02-01", "2025-01-01", now)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestLoadBranding(t *testing.T) {
	b, err := LoadBranding("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBranding(), b)

	path := filepath.Join(t.TempDir(), "branding.yaml")
	require.NoError(t, os.WriteFile(path, []byte("company_name: Acme Traders\ncredit_line: Acme internal\n"), 0o600))
	b, err = LoadBranding(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", b.CompanyName)
	assert.Equal(t, DefaultBranding().ContactLine, b.ContactLine)
	assert.Equal(t, "Acme internal", b.CreditLine)

	_, err = LoadBranding(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("company_name: [unclosed"), 0o600))
	_, err = LoadBranding(bad)
	assert.Error(t, err)
}
