package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const httpOnlyPrefix = "#HttpOnly_"

// CookieSource names where cookies may come from. Path wins when the file
// exists; Payload is the same Mozilla text carried in the environment.
type CookieSource struct {
	Path    string
	Payload string
}

func (s CookieSource) origin() string {
	if s.Path != "" {
		if _, err := os.Stat(s.Path); err == nil {
			return "file"
		}
	}
	return "payload"
}

// MaterializeCookies loads src into a fresh in-memory jar. It returns
// (nil, nil) when neither the file nor the payload is present.
func MaterializeCookies(src CookieSource) (http.CookieJar, error) {
	var (
		r      io.Reader
		origin string
	)
	if src.Path != "" {
		f, err := os.Open(src.Path)
		switch {
		case err == nil:
			defer f.Close()
			r, origin = f, src.Path
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("open cookies %s: %w", src.Path, err)
		}
	}
	if r == nil && strings.TrimSpace(src.Payload) != "" {
		r, origin = strings.NewReader(src.Payload), "payload"
	}
	if r == nil {
		return nil, nil
	}

	cookies, err := ParseMozillaCookies(r)
	if err != nil {
		return nil, fmt.Errorf("parse cookies (%s): %w", origin, err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	for _, c := range cookies {
		u := &url.URL{Scheme: "https", Host: c.Host, Path: "/"}
		jar.SetCookies(u, []*http.Cookie{c.Cookie})
	}
	return jar, nil
}

// MozillaCookie is one parsed cookies.txt line. Cookie.Domain is empty
// for host-only cookies, so Host keeps the origin the jar needs.
type MozillaCookie struct {
	Host   string
	Cookie *http.Cookie
}

// ParseMozillaCookies reads the Netscape/Mozilla cookies.txt format:
// seven tab-separated fields per line (domain, include-subdomains, path,
// secure, expires, name, value). Comment lines are skipped except the
// "#HttpOnly_" domain prefix. Expired and session cookies are kept.
func ParseMozillaCookies(r io.Reader) ([]MozillaCookie, error) {
	var out []MozillaCookie
	now := time.Now()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(strings.TrimSpace(line), "$") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			return nil, fmt.Errorf("line %d: want 7 tab-separated fields, got %d", lineNo, len(fields))
		}
		domain, includeSub, path, secure, expires, name, value := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5], fields[6]
		if name == "" {
			name, value = value, ""
		}
		if domain == "" || name == "" {
			continue
		}

		c := &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     path,
			Secure:   strings.EqualFold(secure, "TRUE"),
			HttpOnly: httpOnly,
		}
		host := strings.TrimPrefix(domain, ".")
		if strings.EqualFold(includeSub, "TRUE") || strings.HasPrefix(domain, ".") {
			c.Domain = host
		}
		if c.Path == "" {
			c.Path = "/"
		}
		if ts, err := strconv.ParseInt(strings.TrimSpace(expires), 10, 64); err == nil && ts > 0 {
			if exp := time.Unix(ts, 0); exp.After(now) {
				c.Expires = exp
			}
		}
		out = append(out, MozillaCookie{Host: host, Cookie: c})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
