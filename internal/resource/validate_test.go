package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"/etc/foo", "/etc/foo", false},
		{"/etc//foo/", "/etc/foo", false},
		{"/", "/", false},
		{"relative/path", "", true},
		{"/etc/../foo", "", true},
		{"/etc/./foo", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := NormalizePath(c.in)
		if c.wantErr {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseMode(t *testing.T) {
	got, err := ParseMode("644")
	require.NoError(t, err)
	assert.Equal(t, "0644", got)

	got, err = ParseMode("0755")
	require.NoError(t, err)
	assert.Equal(t, "0755", got)

	_, err = ParseMode("999")
	assert.Error(t, err)

	_, err = ParseMode("12345")
	assert.Error(t, err)
}

func TestValidHostname(t *testing.T) {
	assert.NoError(t, ValidHostname("web-1.example.com"))
	assert.Error(t, ValidHostname(""))
	assert.Error(t, ValidHostname("-bad.example.com"))
	assert.Error(t, ValidHostname("has_underscore.example.com"))
	assert.Error(t, ValidHostname("a.."+"b"))
}

func TestValidPassword(t *testing.T) {
	got, err := ValidPassword("!")
	require.NoError(t, err)
	assert.Equal(t, "!", got)

	got, err = ValidPassword("*")
	require.NoError(t, err)
	assert.Equal(t, "!", got)

	got, err = ValidPassword("$6$rounds=5000$abc$def")
	require.NoError(t, err)
	assert.Equal(t, "$6$rounds=5000$abc$def", got)

	_, err = ValidPassword("hunter2")
	assert.Error(t, err)
}

func TestValidExpiryDate(t *testing.T) {
	assert.NoError(t, ValidExpiryDate("2027-01-15"))
	assert.Error(t, ValidExpiryDate("01/15/2027"))
	assert.Error(t, ValidExpiryDate(""))
}

func TestValidSortlistEntry(t *testing.T) {
	assert.NoError(t, ValidSortlistEntry("10.0.0.0"))
	assert.NoError(t, ValidSortlistEntry("10.0.0.0/255.255.255.0"))
	assert.Error(t, ValidSortlistEntry("not-an-ip"))
	assert.Error(t, ValidSortlistEntry("10.0.0.0/not-a-mask"))
}

func TestValidResolverOption(t *testing.T) {
	assert.True(t, ValidResolverOption("rotate"))
	assert.True(t, ValidResolverOption("ndots:5"))
	assert.True(t, ValidResolverOption("timeout:30"))
	assert.True(t, ValidResolverOption("attempts:5"))
	assert.False(t, ValidResolverOption("ndots:16"))
	assert.False(t, ValidResolverOption("bogus"))
}

func TestValidAptPackageName(t *testing.T) {
	assert.NoError(t, ValidAptPackageName("nginx"))
	assert.Error(t, ValidAptPackageName("a"))
	assert.Error(t, ValidAptPackageName(".a"))
	assert.Error(t, ValidAptPackageName("asdasdad%a"))
}

func TestValidAptPackageVersion(t *testing.T) {
	assert.NoError(t, ValidAptPackageVersion("1:0.0.0-1"))
	assert.Error(t, ValidAptPackageVersion("3242343:0.0.0-1"))
	assert.Error(t, ValidAptPackageVersion("1:0.0.0-1#"))
	assert.Error(t, ValidAptPackageVersion("1:0.0.*-1f"))
}

func TestValidAptPreferenceName(t *testing.T) {
	assert.NoError(t, ValidAptPreferenceName("my-app_pin.pref"))
	assert.Error(t, ValidAptPreferenceName("my app"))
}

func TestValidCronJobName(t *testing.T) {
	assert.NoError(t, ValidCronJobName("nightly-backup"))
	assert.Error(t, ValidCronJobName(""))
	assert.Error(t, ValidCronJobName("bad name!"))
}

func TestAncestorOf(t *testing.T) {
	assert.True(t, AncestorOf("/etc", "/etc/foo"))
	assert.True(t, AncestorOf("/", "/etc"))
	assert.False(t, AncestorOf("/etc", "/etc"))
	assert.False(t, AncestorOf("/etc", "/etcfoo"))
	assert.False(t, AncestorOf("/", "/"))
}

func TestParentOf(t *testing.T) {
	assert.True(t, ParentOf("/etc", "/etc/foo"))
	assert.False(t, ParentOf("/etc", "/etc/foo/bar"))
}
