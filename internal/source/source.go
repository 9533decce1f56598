// Package source loads the list of URLs to check.
package source

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Lines returns one entry per input line. Entries are kept as-is, blank lines
// and duplicates included; only a trailing carriage return is dropped.
func Lines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		out = append(out, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return out, nil
}

// HTMLLinks returns the href of every anchor in an HTML document, resolved
// against base. Fragments and non-navigational schemes are skipped.
func HTMLLinks(r io.Reader, base *url.URL) ([]string, error) {
	var links []string
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return links, fmt.Errorf("parse html: %w", err)
			}
			return links, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key != "href" {
					continue
				}
				if link, ok := resolve(attr.Val, base); ok {
					links = append(links, link)
				}
				break
			}
		}
	}
}

func resolve(href string, base *url.URL) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	u.Fragment = ""
	return u.String(), true
}

// Load reads the URL list at path. Files ending in .html or .htm are scanned
// for anchors, relative links resolve against baseURL; anything else is read
// one URL per line.
func Load(path, baseURL string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		var base *url.URL
		if baseURL != "" {
			if base, err = url.Parse(baseURL); err != nil {
				return nil, fmt.Errorf("parse base url: %w", err)
			}
		}
		links, err := HTMLLinks(f, base)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return links, nil
	default:
		lines, err := Lines(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return lines, nil
	}
}
