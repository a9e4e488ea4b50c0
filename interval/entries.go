package interval

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// FormatError reports a BED row that can't be parsed into a
// (chromosome, start, end) triple.
type FormatError struct {
	// Path is the file the row came from.  It may be empty when reading from
	// an anonymous io.Reader.
	Path string
	// Line is the 1-based line number.
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d: %s", path, e.Line, e.Msg)
}

// LoadOpts defines behavior of LoadEntries.
type LoadOpts struct {
	// Chroms, if nonempty, restricts loading to entries on the listed
	// chromosomes.
	Chroms []string
	// Path names the input in error messages.
	Path string
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

var (
	trackToken   = []byte("track")
	browserToken = []byte("browser")
)

// isHeaderToken reports whether a line starting with the given token is a
// comment or UCSC header line.
func isHeaderToken(token []byte) bool {
	return token[0] == '#' || bytes.Equal(token, trackToken) || bytes.Equal(token, browserToken)
}

func parsePos(token []byte) (int, bool) {
	v, err := strconv.Atoi(gunsafe.BytesToString(token))
	return v, err == nil
}

// LoadEntries reads the first three columns of every row of a BED file.
// Entries are returned in file order; nothing is sorted or merged here.
// Blank lines, '#' comments, and track/browser lines are skipped.
func LoadEntries(reader io.Reader, opts LoadOpts) (entries []Entry, err error) {
	var chromSet map[string]struct{}
	if len(opts.Chroms) > 0 {
		chromSet = make(map[string]struct{}, len(opts.Chroms))
		for _, c := range opts.Chroms {
			chromSet[c] = struct{}{}
		}
	}
	fail := func(lineIdx int, format string, args ...interface{}) error {
		return &FormatError{Path: opts.Path, Line: lineIdx, Msg: fmt.Sprintf(format, args...)}
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	var tokens [3][]byte
	lineIdx := 0
	// prevChr lets consecutive entries on one chromosome share a string.
	prevChr := ""
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || isHeaderToken(tokens[0]) {
			continue
		}
		if nToken != 3 {
			return nil, fail(lineIdx, "expected at least 3 columns, found %d", nToken)
		}
		if chromSet != nil {
			if _, ok := chromSet[string(tokens[0])]; !ok {
				continue
			}
		}
		start, ok := parsePos(tokens[1])
		if !ok {
			return nil, fail(lineIdx, "invalid start coordinate %q", tokens[1])
		}
		end, ok := parsePos(tokens[2])
		if !ok {
			return nil, fail(lineIdx, "invalid end coordinate %q", tokens[2])
		}
		if start < 0 {
			return nil, fail(lineIdx, "negative start coordinate %d", start)
		}
		if end < start || end >= PosTypeMax {
			return nil, fail(lineIdx, "invalid coordinate pair [%d, %d)", start, end)
		}
		if gunsafe.BytesToString(tokens[0]) != prevChr {
			prevChr = string(tokens[0])
		}
		entries = append(entries, Entry{ChrName: prevChr, Start0: PosType(start), End: PosType(end)})
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.E(err, "read", opts.Path)
	}
	return entries, nil
}

// LoadEntriesFromPath is a wrapper for LoadEntries that takes a path instead
// of an io.Reader.  Gzipped files (including bgzipped ones) are decompressed
// on the fly.
func LoadEntriesFromPath(ctx context.Context, path string, opts LoadOpts) (entries []Entry, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, "gunzip", path)
		}
		defer func() {
			if e := gz.Close(); e != nil && err == nil {
				err = e
			}
		}()
		reader = gz
	}
	opts.Path = path
	return LoadEntries(reader, opts)
}
