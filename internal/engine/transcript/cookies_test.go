package transcript

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cookiesTxt = strings.Join([]string{
	"# Netscape HTTP Cookie File",
	"# This is a generated file! Do not edit.",
	"",
	".youtube.com\tTRUE\t/\tTRUE\t0\tPREF\tf6=40000000",
	"#HttpOnly_.youtube.com\tTRUE\t/\tTRUE\t1\tSID\tabc",
	"www.youtube.com\tFALSE\t/\tFALSE\t4102444800\tVISITOR\txyz",
}, "\n")

func cookieNames(jar http.CookieJar, rawURL string) []string {
	u, _ := url.Parse(rawURL)
	var names []string
	for _, c := range jar.Cookies(u) {
		names = append(names, c.Name)
	}
	return names
}

func TestParseMozillaCookies(t *testing.T) {
	got, err := ParseMozillaCookies(strings.NewReader(cookiesTxt))
	require.NoError(t, err)
	require.Len(t, got, 3)

	pref, sid, visitor := got[0], got[1], got[2]
	assert.Equal(t, "youtube.com", pref.Host)
	assert.Equal(t, "youtube.com", pref.Cookie.Domain)
	assert.True(t, pref.Cookie.Secure)
	assert.True(t, pref.Cookie.Expires.IsZero())

	assert.Equal(t, "SID", sid.Cookie.Name)
	assert.True(t, sid.Cookie.HttpOnly)
	assert.True(t, sid.Cookie.Expires.IsZero(), "expired cookies are kept as session cookies")

	assert.Equal(t, "www.youtube.com", visitor.Host)
	assert.Empty(t, visitor.Cookie.Domain, "host-only cookie")
	assert.Equal(t, 2100, visitor.Cookie.Expires.UTC().Year())
}

func TestParseMozillaCookiesMalformed(t *testing.T) {
	_, err := ParseMozillaCookies(strings.NewReader(".youtube.com\tTRUE\t/\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestMaterializeCookies(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.txt")
		require.NoError(t, os.WriteFile(path, []byte(cookiesTxt), 0o600))

		jar, err := MaterializeCookies(CookieSource{Path: path})
		require.NoError(t, err)
		require.NotNil(t, jar)
		assert.ElementsMatch(t, []string{"PREF", "SID", "VISITOR"}, cookieNames(jar, "https://www.youtube.com/watch"))
		assert.ElementsMatch(t, []string{"PREF", "SID"}, cookieNames(jar, "https://m.youtube.com/"))
	})

	t.Run("payload when file missing", func(t *testing.T) {
		jar, err := MaterializeCookies(CookieSource{
			Path:    filepath.Join(t.TempDir(), "missing.txt"),
			Payload: cookiesTxt,
		})
		require.NoError(t, err)
		require.NotNil(t, jar)
		assert.Contains(t, cookieNames(jar, "https://www.youtube.com/"), "PREF")
	})

	t.Run("nothing configured", func(t *testing.T) {
		jar, err := MaterializeCookies(CookieSource{})
		require.NoError(t, err)
		assert.Nil(t, jar)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := MaterializeCookies(CookieSource{Payload: "not\ta\tcookie"})
		require.Error(t, err)
	})
}

func TestBuildSession(t *testing.T) {
	base := &http.Client{}

	s := BuildSession(CookieSource{Payload: cookiesTxt}, base)
	require.NotNil(t, s)
	assert.Equal(t, "payload", s.Source)
	assert.NotNil(t, s.Jar)
	assert.Equal(t, s.Jar, s.Client.Jar)
	assert.Nil(t, base.Jar, "base client must stay jar-less")

	assert.Nil(t, BuildSession(CookieSource{}, base))
	assert.Nil(t, BuildSession(CookieSource{Payload: "broken line"}, base))
}
