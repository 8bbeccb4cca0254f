package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadURLFile returns every non-blank line of the file at path, trimmed, in
// file order. Duplicates are kept.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("url list: open %q: %w", path, err)
	}
	defer f.Close()

	urls, err := ReadURLs(f)
	if err != nil {
		return nil, fmt.Errorf("url list: read %q: %w", path, err)
	}
	return urls, nil
}

// ReadURLs is ReadURLFile over an arbitrary reader.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}
