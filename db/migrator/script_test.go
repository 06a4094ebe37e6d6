package migrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fileName   string
		expOK      bool
		expDir     Direction
		expVersion string
		expName    string
	}{
		{fileName: "migrate-10.sql", expOK: true, expDir: Migrate, expVersion: "10"},
		{fileName: "migrate-20240101120000-create-users.sql", expOK: true, expDir: Migrate,
			expVersion: "20240101120000", expName: "create-users"},
		{fileName: "rollback-3-drop.sql", expOK: true, expDir: Rollback, expVersion: "3", expName: "drop"},
		{fileName: "schema.sql"},
		{fileName: "migrate-abc.sql"},
		{fileName: "migrate-10-Create.sql"},
		{fileName: "migrate-10-create_users.sql"},
		{fileName: "migrate-10.sql.bak"},
		{fileName: "up-10.sql"},
		{fileName: "migrate-10-.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			t.Parallel()

			dir, version, name, ok := parseScriptName(tt.fileName)
			require.Equal(t, tt.expOK, ok)
			assert.Equal(t, tt.expDir, dir)
			assert.Equal(t, tt.expVersion, version)
			assert.Equal(t, tt.expName, name)
		})
	}
}

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		exp  int
	}{
		{a: "9", b: "10", exp: -1},
		{a: "10", b: "9", exp: 1},
		{a: "010", b: "10", exp: 0},
		{a: "20240101", b: "20240101", exp: 0},
		{a: "0", b: "000", exp: 0},
		// Wider than uint64.
		{a: "99999999999999999999", b: "100000000000000000000", exp: -1},
		{a: "18446744073709551616", b: "5", exp: 1},
		{a: "0018446744073709551616", b: "18446744073709551616", exp: 0},
		{a: "abc", b: "abd", exp: -1},
		{a: "9", b: "a", exp: -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.exp, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestScriptFileName(t *testing.T) {
	t.Parallel()

	name, err := ScriptFileName(Migrate, "20250101000000", "add-users")
	require.NoError(t, err)
	assert.Equal(t, "migrate-20250101000000-add-users.sql", name)

	name, err = ScriptFileName(Rollback, "5", "")
	require.NoError(t, err)
	assert.Equal(t, "rollback-5.sql", name)

	_, err = ScriptFileName(Migrate, "5", "Add_Users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid script file name 'migrate-5-Add_Users.sql'")
}

func TestDirectionFromString(t *testing.T) {
	t.Parallel()

	d, err := DirectionFromString("Rollback")
	require.NoError(t, err)
	assert.Equal(t, Rollback, d)
	assert.Equal(t, "rollback", d.String())

	_, err = DirectionFromString("sideways")
	require.EqualError(t, err, "invalid direction 'sideways'")
}
